package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Routing assertions only. The router is built with zero-value services;
// every request below is rejected before any service is touched.
func testRouter(isDev bool) http.Handler {
	return NewRouter(RouterServices{IsDev: isDev})
}

func TestRouterHealthz(t *testing.T) {
	router := testRouter(false)

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestRouterUnknownRoute(t *testing.T) {
	router := testRouter(false)

	r := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	router := testRouter(false)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/jobs"},
		{http.MethodGet, "/api/jobs"},
		{http.MethodGet, "/api/jobs/stats"},
		{http.MethodGet, "/api/jobs/some-id"},
		{http.MethodPost, "/api/jobs/parse-file"},
		{http.MethodPost, "/api/drafts"},
		{http.MethodPost, "/api/profile/parse"},
		{http.MethodGet, "/api/auth/me"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			r := httptest.NewRequest(rt.method, rt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouterMachineRoutesRequireSecrets(t *testing.T) {
	router := testRouter(false)

	// No secrets configured means these endpoints fail closed.
	routes := []string{
		"/api/webhooks/workflow",
		"/api/webhooks/workflow/failure",
		"/api/jobs/check-timeouts",
	}

	for _, path := range routes {
		t.Run(path, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouterDevLoginGating(t *testing.T) {
	t.Run("absent in production", func(t *testing.T) {
		router := testRouter(false)

		r := httptest.NewRequest(http.MethodPost, "/api/auth/dev-login", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("registered in dev", func(t *testing.T) {
		router := testRouter(true)

		// Malformed body proves the route exists without exercising the service.
		r := httptest.NewRequest(http.MethodPost, "/api/auth/dev-login", strings.NewReader(`{not json`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
