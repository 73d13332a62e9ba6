package controller

import (
	"net/http"

	"github.com/bassista/tzcache/internal/config"
	"github.com/gin-gonic/gin"
)

// ConfigurationResponse is the public part of the configuration.
type ConfigurationResponse struct {
	UpstreamSource     string           `json:"upstreamSource"`
	UpstreamURL        string           `json:"upstreamUrl"`
	RefreshIntervalSec int              `json:"refreshIntervalSec"`
	PersistBackend     string           `json:"persistBackend"`
	Languages          []LanguageConfig `json:"languages"`
}

// LanguageConfig is a configured language as exposed by the API.
type LanguageConfig struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ConfigurationController handles configuration-related API endpoints.
type ConfigurationController struct {
	config *config.Config
}

// NewConfigurationController creates a new ConfigurationController.
func NewConfigurationController(cfg *config.Config) *ConfigurationController {
	return &ConfigurationController{
		config: cfg,
	}
}

// GetConfiguration returns the configuration without secrets.
func (cc *ConfigurationController) GetConfiguration(c *gin.Context) {
	upstreamURL := cc.config.Upstream.BaseURL + cc.config.Upstream.Path
	if cc.config.Upstream.Source == "file" {
		upstreamURL = ""
	}

	languages := make([]LanguageConfig, 0, len(cc.config.Locale.Languages))
	for _, lang := range cc.config.Locale.Languages {
		languages = append(languages, LanguageConfig{Slug: lang.Slug, Name: lang.Name})
	}

	source := cc.config.Upstream.Source
	if source == "" {
		source = "http"
	}
	backend := cc.config.Data.Backend
	if backend == "" {
		backend = "file"
	}

	c.JSON(http.StatusOK, ConfigurationResponse{
		UpstreamSource:     source,
		UpstreamURL:        upstreamURL,
		RefreshIntervalSec: int(cc.config.Upstream.RefreshInterval.Seconds()),
		PersistBackend:     backend,
		Languages:          languages,
	})
}
