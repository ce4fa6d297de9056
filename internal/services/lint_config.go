package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LintConfig is the data side of the lint engine: curators extend these
// sets without a code change.
type LintConfig struct {
	// DiscouragedLabels maps a normalized label to the advice emitted as a
	// warning when someone tries to tag with it.
	DiscouragedLabels map[string]string `yaml:"discouraged_labels"`
	// BlendedTokens are qualifier words that must not appear inside a
	// PHYSICAL attribute type name: they blend a context into what should
	// be one atomic measurable quantity.
	BlendedTokens []string `yaml:"blended_tokens"`
}

// DefaultLintConfig is the compiled-in fallback used when no config file
// is deployed.
func DefaultLintConfig() LintConfig {
	return LintConfig{
		DiscouragedLabels: map[string]string{
			"capacity": "prefer an attribute type (e.g. volume, payload mass) plus a context tag",
			"size":     "prefer a concrete dimensioned attribute type (length, width, volume)",
			"weight":   "prefer the mass attribute type with an explicit unit",
			"spec":     "too generic to be a useful tag",
			"misc":     "too generic to be a useful tag",
		},
		BlendedTokens: []string{
			"overall", "operating", "max", "maximum", "min", "minimum",
			"rated", "nominal", "payload", "tank", "battery", "bucket",
			"door", "panel", "peak", "gross", "net", "total", "working",
			"standard", "front", "rear", "left", "right", "upper", "lower",
		},
	}
}

// LoadLintConfig reads a YAML lint configuration, merging it over the
// defaults so a partial file only overrides what it names.
func LoadLintConfig(path string) (LintConfig, error) {
	cfg := DefaultLintConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read lint config: %w", err)
	}
	var loaded LintConfig
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return cfg, fmt.Errorf("parse lint config: %w", err)
	}
	if len(loaded.DiscouragedLabels) > 0 {
		cfg.DiscouragedLabels = loaded.DiscouragedLabels
	}
	if len(loaded.BlendedTokens) > 0 {
		cfg.BlendedTokens = loaded.BlendedTokens
	}
	return cfg, nil
}

func (c LintConfig) isBlendedToken(token string) bool {
	for _, t := range c.BlendedTokens {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}
