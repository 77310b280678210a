package apperr

type Kind string

type AppError struct {
	Kind      Kind
	PublicMsg string            // mensagem segura para o cliente
	Fields    map[string]string // erros de campo (opcional)
	Err       error             // erro interno (para log)
}
