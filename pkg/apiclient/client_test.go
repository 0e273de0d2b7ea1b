package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/pkg/apiclient"
)

// servidor de prueba que devuelve el sobre indicado.
func newTestServer(t *testing.T, status int, envelope interface{}, gotAuth *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotAuth != nil {
			*gotAuth = r.Header.Get("Authorization")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(envelope))
	}))
}

func TestClient_AdjuntaBearerYDecodificaData(t *testing.T) {
	var gotAuth string
	srv := newTestServer(t, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]string{"id": "abc", "name": "Central"},
	}, &gotAuth)
	defer srv.Close()

	client := apiclient.New(srv.URL, apiclient.WithTokenSource(func() string { return "tok-123" }))

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := client.Get(context.Background(), "/api/branches/abc", &out)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "abc", out.ID)
	assert.Equal(t, "Central", out.Name)
}

// El sobre fallido es el que emite dto.Fail: "error" es el código (string)
// y "message" el texto legible.
func TestClient_SobreFallido_RetornaAPIError(t *testing.T) {
	srv := newTestServer(t, http.StatusNotFound, dto.Fail("NOT_FOUND", "recurso no encontrado"), nil)
	defer srv.Close()

	client := apiclient.New(srv.URL)
	err := client.Get(context.Background(), "/api/products/nope", nil)
	require.Error(t, err)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "recurso no encontrado", apiErr.Message)
}

// Una respuesta 402 con el sobre real del servidor debe difundir el evento de
// licencia bloqueada con la razón; la siguiente respuesta exitosa difunde
// licencia ok.
func TestClient_EventosDeLicencia(t *testing.T) {
	blocked := newTestServer(t, http.StatusPaymentRequired,
		dto.Fail("LICENSE_BLOCKED", "la licencia venció el 2026-08-27"), nil)
	defer blocked.Close()

	var events []apiclient.LicenseEvent
	client := apiclient.New(blocked.URL)
	client.OnLicenseEvent(func(ev apiclient.LicenseEvent) {
		events = append(events, ev)
	})

	err := client.Post(context.Background(), "/api/sales", map[string]string{}, nil)
	require.Error(t, err)

	require.Len(t, events, 1)
	assert.True(t, events[0].Blocked)
	assert.Equal(t, "la licencia venció el 2026-08-27", events[0].Reason)

	// Segunda petición contra un servidor sano → evento licencia ok.
	healthy := newTestServer(t, http.StatusOK, map[string]interface{}{"success": true}, nil)
	defer healthy.Close()

	client2 := apiclient.New(healthy.URL)
	client2.OnLicenseEvent(func(ev apiclient.LicenseEvent) {
		events = append(events, ev)
	})
	require.NoError(t, client2.Get(context.Background(), "/health", nil))

	require.Len(t, events, 2)
	assert.False(t, events[1].Blocked)
}

func TestClient_SinToken_NoEnviaHeader(t *testing.T) {
	var gotAuth string
	srv := newTestServer(t, http.StatusOK, map[string]interface{}{"success": true}, &gotAuth)
	defer srv.Close()

	client := apiclient.New(srv.URL)
	require.NoError(t, client.Get(context.Background(), "/health", nil))
	assert.Empty(t, gotAuth)
}
