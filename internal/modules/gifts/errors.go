package gifts

import "errors"

var (
	// gift existe mas o payment placeholder sumiu: violação de
	// integridade, não erro de usuário
	ErrPaymentMissing = errors.New("payment não encontrado para o gift")
)
