package handlers

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pasteleria-api/internal/auth"

	"github.com/gin-gonic/gin"
)

// testRouter builds the full route tree with zero-value stores. Only routes
// that are rejected before touching a store may be exercised against it.
func testRouter(t *testing.T) (*gin.Engine, *auth.Keys) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	keys := auth.NewKeysFromPrivate(privateKey)
	return API(Stores{}, nil, keys, nil), keys
}

func TestHealthCheck(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /ping status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := testRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/cart/items"},
		{http.MethodPost, "/orders/checkout"},
		{http.MethodGet, "/dashboard/summary"},
		{http.MethodGet, "/users"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(rt.method, rt.path, nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want %d", rt.method, rt.path, w.Code, http.StatusUnauthorized)
		}
	}
}

func TestAuthorizeRejectsWrongRole(t *testing.T) {
	r, keys := testRouter(t)

	token, err := keys.GenerateToken("42", auth.RoleClient)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("GET /users as CLIENT: status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestServiceStatusWithoutDiscovery(t *testing.T) {
	r, keys := testRouter(t)

	token, err := keys.GenerateToken("1", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /dashboard/status status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"discovery":"disabled"`) {
		t.Fatalf("body = %s, want discovery disabled", w.Body.String())
	}
}

func TestAuthorizeRejectsForgedToken(t *testing.T) {
	r, _ := testRouter(t)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	token, err := auth.NewKeysFromPrivate(otherKey).GenerateToken("42", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("GET /users with foreign token: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestContactValidation(t *testing.T) {
	r, _ := testRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"missing email", `{"name":"Ana","message":"Hola"}`},
		{"bad email", `{"name":"Ana","email":"not-an-email","message":"Hola"}`},
		{"missing message", `{"name":"Ana","email":"ana@example.com"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("POST /contact %s: status = %d, want %d", tt.name, w.Code, http.StatusBadRequest)
			}
		})
	}
}
