package controller

import (
	"net/http"
	"strings"

	"github.com/bassista/tzcache/internal/locale"
	"github.com/gin-gonic/gin"
)

// LocaleResponse is the outcome of resolving routing parameters.
type LocaleResponse struct {
	Lang            string `json:"lang"`
	StepSectionName string `json:"stepSectionName"`
	StepName        string `json:"stepName"`
	FlowName        string `json:"flowName"`
}

type LanguageController struct {
	catalog *locale.Catalog
}

func NewLanguageController(catalog *locale.Catalog) *LanguageController {
	return &LanguageController{catalog: catalog}
}

// ListLanguages returns the configured languages.
func (lc *LanguageController) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, lc.catalog.Languages())
}

// GetLanguage resolves a slug, falling back to the base language.
func (lc *LanguageController) GetLanguage(c *gin.Context) {
	lang, ok := lc.catalog.Language(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "language not found"})
		return
	}
	c.JSON(http.StatusOK, lang)
}

// ResolveLocale applies locale.Catalog.SetUpLocale to the query parameters
// lang, stepSectionName, stepName and flowName.
func (lc *LanguageController) ResolveLocale(c *gin.Context) {
	p := lc.catalog.SetUpLocale(locale.Params{
		Lang:            c.Query("lang"),
		StepSectionName: c.Query("stepSectionName"),
		StepName:        c.Query("stepName"),
		FlowName:        c.Query("flowName"),
	})
	c.JSON(http.StatusOK, LocaleResponse{
		Lang:            p.Lang,
		StepSectionName: p.StepSectionName,
		StepName:        p.StepName,
		FlowName:        p.FlowName,
	})
}

// NotFound redirects paths ending in a locale segment to the path without it.
// Anything else is a JSON 404.
func (lc *LanguageController) NotFound(c *gin.Context) {
	path := c.Request.URL.Path
	stripped := lc.catalog.RemoveLocaleFromPath(path)
	if stripped != strings.TrimSuffix(path, "/") {
		// "//host" and "/\\host" would leave the site
		target := "/" + strings.TrimLeft(stripped, "/\\")
		if c.Request.URL.RawQuery != "" {
			target += "?" + c.Request.URL.RawQuery
		}
		c.Redirect(http.StatusTemporaryRedirect, target)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}
