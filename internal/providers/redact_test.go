package providers

import (
	"net/http"
	"testing"
)

func TestRedactMap(t *testing.T) {
	in := map[string]any{
		"access_token": "secret-1",
		"apiKey":       "secret-2",
		"password":     "secret-3",
		"value":        50.0,
		"nested": map[string]any{
			"Authorization": "Bearer x",
			"pix_key":       "a@b.com",
		},
	}

	out := redactMap(in)

	for _, k := range []string{"access_token", "apiKey", "password"} {
		if out[k] != redactedValue {
			t.Errorf("%s not redacted: %v", k, out[k])
		}
	}
	if out["value"] != 50.0 {
		t.Errorf("value mangled: %v", out["value"])
	}
	nested := out["nested"].(map[string]any)
	if nested["Authorization"] != redactedValue {
		t.Errorf("nested authorization not redacted: %v", nested["Authorization"])
	}
	if nested["pix_key"] != "a@b.com" {
		t.Errorf("nested pix_key mangled: %v", nested["pix_key"])
	}

	// original intocado
	if in["access_token"] != "secret-1" {
		t.Error("input map mutated")
	}
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer tok")
	h.Set("Access_token", "k")
	h.Set("Content-Type", "application/json")

	out := redactHeaders(h)
	if out["Authorization"] != redactedValue {
		t.Errorf("authorization: %v", out["Authorization"])
	}
	if out["Access_token"] != redactedValue {
		t.Errorf("access_token: %v", out["Access_token"])
	}
	if out["Content-Type"] != "application/json" {
		t.Errorf("content-type: %v", out["Content-Type"])
	}
}
