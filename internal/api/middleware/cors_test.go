package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCORSRouter(allowedOrigins string) *gin.Engine {
	r := gin.New()
	r.Use(CORSMiddleware(allowedOrigins))
	r.GET("/api/timezones", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestCORSMiddleware_AllowAll(t *testing.T) {
	r := newCORSRouter("*")

	req := httptest.NewRequest(http.MethodGet, "/api/timezones", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected ACAO header '*', got '%s'", origin)
	}
	if vary := w.Header().Get("Vary"); vary == "Origin" {
		t.Error("should not set Vary: Origin when using wildcard")
	}
	if creds := w.Header().Get("Access-Control-Allow-Credentials"); creds == "true" {
		t.Error("should not set Allow-Credentials with wildcard origin")
	}
}

func TestCORSMiddleware_SpecificOrigin_Allowed(t *testing.T) {
	r := newCORSRouter("http://allowed.com,http://also-allowed.com")

	req := httptest.NewRequest(http.MethodGet, "/api/timezones", nil)
	req.Header.Set("Origin", "http://also-allowed.com")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "http://also-allowed.com" {
		t.Errorf("expected ACAO header 'http://also-allowed.com', got '%s'", origin)
	}
	if vary := w.Header().Get("Vary"); vary != "Origin" {
		t.Errorf("expected Vary: Origin, got '%s'", vary)
	}
	if creds := w.Header().Get("Access-Control-Allow-Credentials"); creds != "true" {
		t.Errorf("expected Allow-Credentials: true, got '%s'", creds)
	}
}

func TestCORSMiddleware_SpecificOrigin_NotAllowed(t *testing.T) {
	r := newCORSRouter("http://allowed.com")

	req := httptest.NewRequest(http.MethodGet, "/api/timezones", nil)
	req.Header.Set("Origin", "http://allowed.com.evil.com")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	// the request is served, the browser enforces the missing header
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "" {
		t.Errorf("expected no ACAO header, got '%s'", origin)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := newCORSRouter("*")

	req := httptest.NewRequest(http.MethodOptions, "/api/timezones", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204 for preflight, got %d", w.Code)
	}
	if methods := w.Header().Get("Access-Control-Allow-Methods"); methods == "" {
		t.Error("expected Access-Control-Allow-Methods header")
	}
}

func TestCORSMiddleware_PreflightWithRequestHeaders(t *testing.T) {
	r := newCORSRouter("*")

	req := httptest.NewRequest(http.MethodOptions, "/api/timezones", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "X-Custom-Header, X-Another")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	if allowHeaders := w.Header().Get("Access-Control-Allow-Headers"); allowHeaders != "X-Custom-Header, X-Another" {
		t.Errorf("expected echoed headers, got '%s'", allowHeaders)
	}
}

func TestCORSMiddleware_PreflightFromDisallowedOrigin(t *testing.T) {
	r := newCORSRouter("http://allowed.com")

	req := httptest.NewRequest(http.MethodOptions, "/api/timezones", nil)
	req.Header.Set("Origin", "http://not-allowed.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", w.Code)
	}
}

func TestCORSMiddleware_NoOriginHeader(t *testing.T) {
	r := newCORSRouter("http://allowed.com")

	req := httptest.NewRequest(http.MethodGet, "/api/timezones", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "" {
		t.Errorf("expected no ACAO header for no-origin request, got '%s'", origin)
	}
}

func TestCORSMiddleware_EmptyAllowedOrigins(t *testing.T) {
	r := newCORSRouter("")

	req := httptest.NewRequest(http.MethodGet, "/api/timezones", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "" {
		t.Errorf("expected no ACAO header, got '%s'", origin)
	}
}

func TestCORSMiddleware_WhitespaceInOrigins(t *testing.T) {
	r := newCORSRouter("  http://a.com  ,  http://b.com  ")

	req := httptest.NewRequest(http.MethodGet, "/api/timezones", nil)
	req.Header.Set("Origin", "http://b.com")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "http://b.com" {
		t.Errorf("expected origin to be allowed after trimming whitespace, got '%s'", origin)
	}
}
