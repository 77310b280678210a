package money

import (
	"fmt"
	"math"
	"strings"
)

// Valores trafegam na API em reais (duas casas) e são persistidos em centavos.

var ErrPrecision = fmt.Errorf("valor com mais de 2 casas decimais")

// ToCents converte reais para centavos. Falha para NaN/Inf, negativos e
// valores com mais de duas casas decimais.
func ToCents(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("valor inválido")
	}
	if v < 0 {
		return 0, fmt.Errorf("valor negativo")
	}
	scaled := v * 100
	cents := math.Round(scaled)
	if math.Abs(scaled-cents) > 1e-6 {
		return 0, ErrPrecision
	}
	return int64(cents), nil
}

func FromCents(c int64) float64 {
	return float64(c) / 100.0
}

// FormatBRL: "R$ 1.234,56"
func FormatBRL(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	major := cents / 100
	minor := cents % 100

	digits := fmt.Sprintf("%d", major)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), minor)
}
