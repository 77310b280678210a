package pix

import (
	"strings"
	"testing"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/apperr"
)

func TestValidateKey(t *testing.T) {
	valid := []struct {
		name string
		key  string
	}{
		{"cpf", "12345678901"},
		{"cnpj", "12345678901234"},
		{"email", "a@b.com"},
		{"phone", "+5511987654321"},
		{"random", "123e4567-e89b-12d3-a456-426614174000"},
		{"padded", "  a@b.com  "},
	}
	for _, tt := range valid {
		if err := ValidateKey(tt.key); err != nil {
			t.Errorf("%s: expected valid, got %v", tt.name, err)
		}
	}

	invalid := []string{"", "not-a-key", "123", "+11987654321", "a@b"}
	for _, key := range invalid {
		err := ValidateKey(key)
		if err == nil {
			t.Errorf("%q: expected error", key)
			continue
		}
		if !apperr.IsKind(err, apperr.Invalid) {
			t.Errorf("%q: expected invalid kind, got %v", key, err)
		}
	}
}

func TestDetectKeyType(t *testing.T) {
	tests := []struct {
		key  string
		want KeyType
	}{
		{"12345678901", KeyCPF},
		{"12345678901234", KeyCNPJ},
		{"a@b.com", KeyEmail},
		{"+5511987654321", KeyPhone},
		{"123e4567-e89b-12d3-a456-426614174000", KeyRandom},
		{"whatever", KeyRandom}, // fallback
	}
	for _, tt := range tests {
		if got := DetectKeyType(tt.key); got != tt.want {
			t.Errorf("DetectKeyType(%q) = %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestValidateAmountBounds(t *testing.T) {
	const minCents, maxCents = 100, 1000000 // R$ 1,00 .. R$ 10.000,00

	for _, v := range []float64{1.00, 50.25, 10000.00} {
		if err := ValidateAmount(v, minCents, maxCents); err != nil {
			t.Errorf("ValidateAmount(%v): unexpected error: %v", v, err)
		}
	}
	for _, v := range []float64{0.99, 10000.01, 10.123} {
		if err := ValidateAmount(v, minCents, maxCents); err == nil {
			t.Errorf("ValidateAmount(%v): expected error", v)
		}
	}
}

func TestSanitizeDescription(t *testing.T) {
	if got := SanitizeDescription("  <script>presente</script>  "); got != "scriptpresente/script" {
		t.Errorf("got %q", got)
	}
	if got := SanitizeDescription(""); got != "" {
		t.Errorf("empty input: got %q", got)
	}
	long := strings.Repeat("a", 300)
	if got := SanitizeDescription(long); len(got) != 200 {
		t.Errorf("truncation: got len %d", len(got))
	}
}
