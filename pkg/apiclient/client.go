// Package apiclient envuelve el consumo de la API desde procesos Go (CLI de
// soporte, jobs, tests de integración). Adjunta el bearer token, decodifica
// el sobre {success, data, error} y difunde eventos de licencia para que los
// consumidores profundos no tengan que inspeccionar cada respuesta.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Envelope sobre estándar de la API. Espejo de dto.Envelope: Error lleva el
// código corto estable y Message el texto legible.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Total   *int            `json:"total,omitempty"`
}

// APIError error de un sobre fallido, armado desde Error (código) y Message.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string { return e.Code + ": " + e.Message }

// LicenseEvent estado de licencia observado en una respuesta.
type LicenseEvent struct {
	Blocked bool
	Reason  string
}

// TokenSource entrega el bearer token vigente. Permite rotar el token sin
// reconstruir el cliente.
type TokenSource func() string

// Client cliente HTTP de la API con bus de eventos de licencia en proceso.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource

	mu   sync.RWMutex
	subs []func(LicenseEvent)
}

// Option configura el cliente.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client interno.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource define de dónde sale el bearer token.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// New construye el cliente contra la URL base dada.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		token:   func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnLicenseEvent suscribe un callback que recibe el estado de licencia tras
// cada respuesta. Los callbacks corren en la goroutine del caller.
func (c *Client) OnLicenseEvent(fn func(LicenseEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Client) publish(ev LicenseEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, fn := range c.subs {
		fn(ev)
	}
}

// Get ejecuta GET y decodifica data en out (out puede ser nil).
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post ejecuta POST con body JSON y decodifica data en out.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put ejecuta PUT con body JSON y decodifica data en out.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete ejecuta DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar body: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("construir petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ejecutar petición: %w", err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decodificar sobre: %w", err)
	}

	// 402 = licencia bloqueada; cualquier otra respuesta la da por vigente.
	if resp.StatusCode == http.StatusPaymentRequired {
		c.publish(LicenseEvent{Blocked: true, Reason: env.Message})
	} else {
		c.publish(LicenseEvent{Blocked: false})
	}

	if !env.Success {
		if env.Error != "" {
			return &APIError{Code: env.Error, Message: env.Message}
		}
		return fmt.Errorf("respuesta fallida con status %d", resp.StatusCode)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decodificar data: %w", err)
		}
	}
	return nil
}
