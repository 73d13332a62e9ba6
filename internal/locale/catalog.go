// Package locale resolves language slugs against an explicit language list.
package locale

import (
	"regexp"
	"strings"
)

var (
	localePattern           = regexp.MustCompile(`(?i)^[A-Z]{2}$`)
	localeWithRegionPattern = regexp.MustCompile(`(?i)^[A-Z]{2}-[A-Z]{2}$`)
)

// Language is a supported language.
type Language struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Catalog looks up languages in the list it was built with.
type Catalog struct {
	languages []Language
}

// NewCatalog copies languages into a new Catalog.
func NewCatalog(languages []Language) *Catalog {
	return &Catalog{languages: append([]Language(nil), languages...)}
}

// Languages returns a copy of the configured list.
func (c *Catalog) Languages() []Language {
	return append([]Language(nil), c.languages...)
}

// Language resolves slug. Only "xx" and "xx-yy" shaped slugs are considered;
// a region-qualified slug without an exact match falls back to its base language.
func (c *Catalog) Language(slug string) (Language, bool) {
	if !localePattern.MatchString(slug) && !localeWithRegionPattern.MatchString(slug) {
		return Language{}, false
	}
	if lang, ok := c.find(slug); ok {
		return lang, true
	}
	return c.find(slug[:2])
}

func (c *Catalog) find(slug string) (Language, bool) {
	for _, lang := range c.languages {
		if lang.Slug == slug {
			return lang, true
		}
	}
	return Language{}, false
}

// RemoveLocaleFromPath drops a trailing locale segment from path.
//
//	/start/en      => /start
//	/start/flow/fr => /start/flow
//	/start/flow    => /start/flow
func (c *Catalog) RemoveLocaleFromPath(path string) string {
	path = strings.TrimSuffix(path, "/")
	idx := strings.LastIndex(path, "/")
	if _, ok := c.Language(path[idx+1:]); ok {
		return path[:max(idx, 0)]
	}
	return path
}

// Params are the routing parameters of a signup step.
type Params struct {
	Lang            string
	StepSectionName string
	StepName        string
	FlowName        string
}

// SetUpLocale fills Lang from the first of StepSectionName, StepName and
// FlowName that resolves as a language, when Lang is empty.
// StepSectionName and FlowName are cleared once promoted; promoting StepName clears FlowName.
func (c *Catalog) SetUpLocale(p Params) Params {
	if p.Lang != "" {
		return p
	}
	switch {
	case c.resolves(p.StepSectionName):
		p.Lang = p.StepSectionName
		p.StepSectionName = ""
	case c.resolves(p.StepName):
		p.Lang = p.StepName
		p.FlowName = ""
	case c.resolves(p.FlowName):
		p.Lang = p.FlowName
		p.FlowName = ""
	}
	return p
}

func (c *Catalog) resolves(slug string) bool {
	if slug == "" {
		return false
	}
	_, ok := c.Language(slug)
	return ok
}
