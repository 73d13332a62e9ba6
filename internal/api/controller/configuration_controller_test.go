package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bassista/tzcache/internal/config"
	"github.com/gin-gonic/gin"
)

func TestConfigurationController_GetConfiguration(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.Config
		expectedBody ConfigurationResponse
	}{
		{
			name: "http upstream with file backend",
			cfg: config.Config{
				Data:     config.DataConfig{Backend: "file"},
				Upstream: config.UpstreamConfig{Source: "http", BaseURL: "https://example.com", Path: "/timezones", RefreshInterval: time.Hour},
				Locale:   config.LocaleConfig{Languages: []config.LanguageConfig{{Slug: "en", Name: "English"}}},
			},
			expectedBody: ConfigurationResponse{
				UpstreamSource:     "http",
				UpstreamURL:        "https://example.com/timezones",
				RefreshIntervalSec: 3600,
				PersistBackend:     "file",
				Languages:          []LanguageConfig{{Slug: "en", Name: "English"}},
			},
		},
		{
			name: "defaults for empty source and backend",
			cfg: config.Config{
				Upstream: config.UpstreamConfig{BaseURL: "http://localhost:9000", RefreshInterval: 90 * time.Second},
			},
			expectedBody: ConfigurationResponse{
				UpstreamSource:     "http",
				UpstreamURL:        "http://localhost:9000",
				RefreshIntervalSec: 90,
				PersistBackend:     "file",
				Languages:          []LanguageConfig{},
			},
		},
		{
			name: "file upstream hides the url",
			cfg: config.Config{
				Data:     config.DataConfig{Backend: "redis", RedisURL: "redis://secret@localhost:6379"},
				Upstream: config.UpstreamConfig{Source: "file", FilePath: "/data/upstream.json", BaseURL: "https://example.com", RefreshInterval: time.Minute},
			},
			expectedBody: ConfigurationResponse{
				UpstreamSource:     "file",
				RefreshIntervalSec: 60,
				PersistBackend:     "redis",
				Languages:          []LanguageConfig{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewConfigurationController(&tt.cfg)

			r := gin.New()
			r.GET("/api/configuration", cc.GetConfiguration)

			req := httptest.NewRequest(http.MethodGet, "/api/configuration", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}

			var body ConfigurationResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}

			if body.UpstreamSource != tt.expectedBody.UpstreamSource ||
				body.UpstreamURL != tt.expectedBody.UpstreamURL ||
				body.RefreshIntervalSec != tt.expectedBody.RefreshIntervalSec ||
				body.PersistBackend != tt.expectedBody.PersistBackend ||
				len(body.Languages) != len(tt.expectedBody.Languages) {
				t.Errorf("expected %+v, got %+v", tt.expectedBody, body)
			}
		})
	}
}

func TestConfigurationController_DoesNotLeakSecrets(t *testing.T) {
	cfg := &config.Config{
		Data: config.DataConfig{Backend: "redis", RedisURL: "redis://:hunter2@localhost:6379"},
		Misc: config.MiscConfig{HoneybadgerAPIKey: "hbp_secret"},
	}
	cc := NewConfigurationController(cfg)

	r := gin.New()
	r.GET("/api/configuration", cc.GetConfiguration)

	req := httptest.NewRequest(http.MethodGet, "/api/configuration", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body := w.Body.String()
	for _, secret := range []string{"hunter2", "hbp_secret"} {
		if strings.Contains(body, secret) {
			t.Errorf("response leaks %q: %s", secret, body)
		}
	}
}
