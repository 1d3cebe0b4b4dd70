package adapter

import (
	"strings"
)

// Metadata describes an adapter for discovery and filtering.
type Metadata struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	Category     string   `json:"category" yaml:"category"`
	Keywords     []string `json:"keywords" yaml:"keywords"`
	RequiresAuth bool     `json:"requiresAuth" yaml:"requires_auth"`
	Version      string   `json:"version" yaml:"version"`
}

// defaultMetadata derives metadata from the wrapped type's name. A "Client"
// or "API" suffix is stripped for the human-facing fields.
func defaultMetadata(typeName string) Metadata {
	base := strings.TrimSuffix(strings.TrimSuffix(typeName, "Client"), "API")
	if base == "" {
		base = typeName
	}
	lower := strings.ToLower(base)
	return Metadata{
		Name:        typeName,
		Description: "API for " + lower + " services",
		Category:    lower,
		Keywords:    []string{lower},
		Version:     "1.0.0",
	}
}

// merge overlays non-zero override fields onto m. Keywords replace rather
// than append so an override fully controls the keyword set.
func (m Metadata) merge(overrides *Metadata) Metadata {
	if overrides == nil {
		return m
	}
	if overrides.Name != "" {
		m.Name = overrides.Name
	}
	if overrides.Description != "" {
		m.Description = overrides.Description
	}
	if overrides.Category != "" {
		m.Category = overrides.Category
	}
	if len(overrides.Keywords) > 0 {
		m.Keywords = overrides.Keywords
	}
	if overrides.RequiresAuth {
		m.RequiresAuth = true
	}
	if overrides.Version != "" {
		m.Version = overrides.Version
	}
	return m
}

// HasKeyword reports whether the metadata carries the given keyword.
func (m Metadata) HasKeyword(keyword string) bool {
	for _, k := range m.Keywords {
		if k == keyword {
			return true
		}
	}
	return false
}
