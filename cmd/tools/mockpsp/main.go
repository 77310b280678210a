// mockpsp sobe um PSP falso para desenvolvimento local: emula os dois
// formatos de transferência (Asaas e PagBank) em memória.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
)

type transfer struct {
	ID     string
	Value  float64 // reais (asaas) ou centavos (pagbank), conforme a rota
	PixKey string
	Status string
}

type store struct {
	mu        sync.Mutex
	seq       int
	transfers map[string]*transfer
}

func newStore() *store {
	return &store{transfers: map[string]*transfer{}}
}

func (s *store) add(value float64, pixKey, status string) *transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &transfer{
		ID:     fmt.Sprintf("mock_%06d", s.seq),
		Value:  value,
		PixKey: pixKey,
		Status: status,
	}
	s.transfers[t.ID] = t
	return t
}

func (s *store) get(id string) (*transfer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transfers[id]
	return t, ok
}

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	failKey := flag.String("fail-key", "", "pix key that always fails (testing)")
	flag.Parse()

	st := newStore()
	mux := http.NewServeMux()

	// formato Asaas: valores em reais, status em maiúsculas
	mux.HandleFunc("/v3/transfers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Value             float64 `json:"value"`
			PixAddressKey     string  `json:"pixAddressKey"`
			ExternalReference string  `json:"externalReference"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"errors": []map[string]string{{"code": "invalid_request", "description": "corpo inválido"}},
			})
			return
		}
		if *failKey != "" && req.PixAddressKey == *failKey {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"errors": []map[string]string{{"code": "invalid_pix_key", "description": "Chave Pix rejeitada"}},
			})
			return
		}
		t := st.add(req.Value, req.PixAddressKey, "DONE")
		writeJSON(w, http.StatusOK, map[string]any{
			"id": t.ID, "value": t.Value, "status": t.Status,
			"externalReference": req.ExternalReference,
		})
	})
	mux.HandleFunc("/v3/transfers/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/v3/transfers/")
		t, ok := st.get(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"errors": []map[string]string{{"code": "not_found", "description": "transferência não encontrada"}},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": t.ID, "value": t.Value, "status": t.Status})
	})

	// formato PagBank: valores em centavos inteiros
	mux.HandleFunc("/transfers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Amount struct {
				Value int64 `json:"value"`
			} `json:"amount"`
			Destination struct {
				PixKey string `json:"pix_key"`
			} `json:"destination"`
			ReferenceID string `json:"reference_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error_code": "40001", "message": "corpo inválido",
			})
			return
		}
		if *failKey != "" && req.Destination.PixKey == *failKey {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error_code": "40002", "message": "Chave Pix rejeitada",
			})
			return
		}
		t := st.add(float64(req.Amount.Value), req.Destination.PixKey, "COMPLETED")
		writeJSON(w, http.StatusCreated, map[string]any{
			"id": t.ID, "status": t.Status,
			"amount":       map[string]any{"value": req.Amount.Value},
			"reference_id": req.ReferenceID,
		})
	})
	mux.HandleFunc("/transfers/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/transfers/")
		t, ok := st.get(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"error_code": "40401", "message": "transferência não encontrada",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": t.ID, "status": t.Status})
	})

	log.Printf("mock psp listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
