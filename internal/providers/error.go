package providers

import "fmt"

// ProviderError distingue três falhas de transporte: o PSP respondeu com
// erro (StatusCode > 0), a requisição saiu mas não houve resposta
// (timeout/rede), ou a requisição nem pôde ser montada.
type ProviderError struct {
	Provider   string
	Message    string
	StatusCode int
	ErrorCode  string
	Details    any
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (http %d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// PSP respondeu com payload de erro
func errResponse(provider, message string, status int, code string, details any) *ProviderError {
	return &ProviderError{Provider: provider, Message: message, StatusCode: status, ErrorCode: code, Details: details}
}

// requisição enviada, sem resposta (timeout ou erro de rede)
func errNoResponse(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Message:  fmt.Sprintf("Sem resposta da API %s - timeout ou erro de rede", provider),
		Err:      err,
	}
}

// requisição não pôde ser montada
func errSetup(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Message:  fmt.Sprintf("Erro ao montar requisição: %v", err),
		Err:      err,
	}
}
