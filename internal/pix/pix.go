package pix

import (
	"regexp"
	"strings"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/apperr"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/money"
)

// Tipos de chave Pix aceitos pelo SPB.
type KeyType string

const (
	KeyCPF    KeyType = "CPF"
	KeyCNPJ   KeyType = "CNPJ"
	KeyEmail  KeyType = "EMAIL"
	KeyPhone  KeyType = "PHONE"
	KeyRandom KeyType = "EVP"
)

var (
	cpfRe    = regexp.MustCompile(`^\d{11}$`)
	cnpjRe   = regexp.MustCompile(`^\d{14}$`)
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe  = regexp.MustCompile(`^\+55\d{10,11}$`)
	randomRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// DetectKeyType classifica a chave. A ordem importa apenas para a marcação
// de tipo exigida pelo Asaas; cai em EVP quando nada casa.
func DetectKeyType(key string) KeyType {
	key = strings.TrimSpace(key)
	switch {
	case cpfRe.MatchString(key):
		return KeyCPF
	case cnpjRe.MatchString(key):
		return KeyCNPJ
	case emailRe.MatchString(key):
		return KeyEmail
	case phoneRe.MatchString(key):
		return KeyPhone
	default:
		return KeyRandom
	}
}

// ValidateKey aceita CPF, CNPJ, e-mail, telefone (+55) ou chave aleatória.
func ValidateKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return apperr.InvalidErr("Chave Pix é obrigatória.", nil)
	}
	ok := cpfRe.MatchString(trimmed) ||
		cnpjRe.MatchString(trimmed) ||
		emailRe.MatchString(trimmed) ||
		phoneRe.MatchString(trimmed) ||
		randomRe.MatchString(trimmed)
	if !ok {
		return apperr.InvalidErr("Chave Pix inválida. Deve ser CPF, CNPJ, e-mail, telefone ou chave aleatória.", nil)
	}
	return nil
}

// ValidateAmount aceita o intervalo fechado [minCents, maxCents] com até
// duas casas decimais.
func ValidateAmount(v float64, minCents, maxCents int64) error {
	cents, err := money.ToCents(v)
	if err != nil {
		return apperr.InvalidErr("Valor deve ser um número válido com no máximo 2 casas decimais.", nil)
	}
	if cents < minCents {
		return apperr.InvalidErr("Valor mínimo permitido é "+money.FormatBRL(minCents)+".", nil)
	}
	if cents > maxCents {
		return apperr.InvalidErr("Valor máximo permitido é "+money.FormatBRL(maxCents)+".", nil)
	}
	return nil
}

const maxDescriptionLen = 200

// SanitizeDescription remove colchetes angulares, apara espaços e trunca em
// 200 caracteres. Nunca falha.
func SanitizeDescription(s string) string {
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxDescriptionLen {
		s = string(r[:maxDescriptionLen])
	}
	return s
}
