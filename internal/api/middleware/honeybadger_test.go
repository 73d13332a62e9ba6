package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHoneybadgerMiddleware_DisabledWithoutKey(t *testing.T) {
	r := gin.New()
	r.Use(HoneybadgerMiddleware("", "test"))
	r.GET("/api/timezones", func(c *gin.Context) {
		c.String(http.StatusBadGateway, "upstream down")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/timezones", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected handler status to pass through, got %d", w.Code)
	}
}

func TestHoneybadgerMiddleware_DisabledKeepsPanicsForRecovery(t *testing.T) {
	r := gin.New()
	r.Use(gin.Recovery(), HoneybadgerMiddleware("", "test"))
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected recovery to answer 500, got %d", w.Code)
	}
}
