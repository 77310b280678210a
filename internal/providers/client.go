package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// timeout fixo do cliente HTTP; chamadas ao PSP não são retentadas
const clientTimeout = 30 * time.Second

// apiClient concentra o transporte HTTP dos adapters: headers de auth,
// log com redação e a classificação de falhas em ProviderError.
type apiClient struct {
	provider string
	baseURL  string
	headers  map[string]string
	http     *http.Client
	logger   *slog.Logger

	// extrai {mensagem, código} do payload de erro nativo do PSP
	parseError func(status int, body []byte) (string, string)
}

func newAPIClient(provider, baseURL string, headers map[string]string, logger *slog.Logger,
	parseError func(int, []byte) (string, string)) *apiClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &apiClient{
		provider:   provider,
		baseURL:    baseURL,
		headers:    headers,
		http:       &http.Client{Timeout: clientTimeout},
		logger:     logger,
		parseError: parseError,
	}
}

func (c *apiClient) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errSetup(c.provider, err)
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *apiClient) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *apiClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errSetup(c.provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	c.logger.InfoContext(ctx, "psp request",
		"provider", c.provider,
		"method", method,
		"path", path,
		"headers", redactHeaders(req.Header),
		"body", redactedBody(body),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "psp no response", "provider", c.provider, "path", path, "err", err)
		return errNoResponse(c.provider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errNoResponse(c.provider, err)
	}

	c.logger.InfoContext(ctx, "psp response",
		"provider", c.provider,
		"path", path,
		"status", resp.StatusCode,
		"body", redactedBody(respBody),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, code := c.parseError(resp.StatusCode, respBody)
		var details any
		if len(respBody) > 0 {
			details = json.RawMessage(respBody)
		}
		return errResponse(c.provider, msg, resp.StatusCode, code, details)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errResponse(c.provider, "resposta inválida do PSP", resp.StatusCode, "", string(respBody))
		}
	}
	return nil
}

// redactedBody devolve o corpo como mapa redigido para log; corpos que não
// são objetos JSON viram apenas o tamanho.
func redactedBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return map[string]any{"bytes": len(body)}
	}
	return redactMap(m)
}
