package providers

import "fmt"

// Registry guarda os adapters por nome. Construído explicitamente no
// startup e injetado no serviço de lifecycle; não há registro global.
type Registry struct {
	defaultName string
	byName      map[string]Provider
}

func NewRegistry(defaultName string, provs ...Provider) *Registry {
	r := &Registry{defaultName: defaultName, byName: make(map[string]Provider, len(provs))}
	for _, p := range provs {
		r.byName[p.Name()] = p
	}
	return r
}

func (r *Registry) DefaultName() string { return r.defaultName }

// Default devolve o adapter configurado como padrão. Nome não registrado é
// erro de configuração do processo, não erro de usuário.
func (r *Registry) Default() (Provider, error) {
	p, ok := r.byName[r.defaultName]
	if !ok {
		return nil, fmt.Errorf("providers: provider padrão não registrado: %q", r.defaultName)
	}
	return p, nil
}

// ByName devolve um adapter específico, para reconciliação de status de
// gifts criados contra um provider diferente do padrão atual.
func (r *Registry) ByName(name string) (Provider, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("providers: provider não encontrado: %q", name)
	}
	return p, nil
}
