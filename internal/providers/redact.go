package providers

import (
	"net/http"
	"strings"
)

const redactedValue = "***REDACTED***"

var sensitiveKeys = []string{"token", "apikey", "api_key", "password", "authorization", "access_token", "secret"}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// redactMap devolve uma cópia com os campos sensíveis mascarados.
// Mapas aninhados também são percorridos.
func redactMap(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			out[k] = redactedValue
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = redactMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		if isSensitiveKey(k) {
			out[k] = redactedValue
			continue
		}
		out[k] = strings.Join(vs, ", ")
	}
	return out
}
