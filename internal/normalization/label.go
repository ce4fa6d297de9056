package normalization

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRun    = regexp.MustCompile(`[^a-z0-9]+`)
	underscoreRun  = regexp.MustCompile(`_+`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	spaceHyphenRun = regexp.MustCompile(`[\s\-]+`)
)

// NormalizeLabel canonicalizes a raw term into the snake_case form every
// registry keys on: trim, lowercase, "&" becomes "and", any run of
// non-alphanumerics collapses to a single underscore, leading/trailing
// underscores are stripped. Idempotent.
func NormalizeLabel(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "&", " and ")
	s = nonAlnumRun.ReplaceAllString(s, "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// NormalizeDisplayName trims and collapses internal whitespace. An empty
// result means the caller should treat the display name as absent.
func NormalizeDisplayName(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	return whitespaceRun.ReplaceAllString(s, " ")
}

// ToDisplayName renders a normalized label back into a human-readable
// form: underscore-separated tokens, each title-cased, joined by spaces.
func ToDisplayName(label string) string {
	if label == "" {
		return ""
	}
	tokens := strings.Split(label, "_")
	for i, tok := range tokens {
		if tok == "" {
			continue
		}
		tokens[i] = strings.ToUpper(tok[:1]) + tok[1:]
	}
	return strings.Join(tokens, " ")
}

// NormalizeParseKey is the looser cousin of NormalizeLabel used to match
// raw ingestion strings against parse rules: only whitespace and hyphen
// runs become separators, all other punctuation survives.
func NormalizeParseKey(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = spaceHyphenRun.ReplaceAllString(s, "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// NormalizeSynonyms maps each entry through NormalizeLabel, dropping
// empties and duplicates while keeping first-seen order.
func NormalizeSynonyms(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		n := NormalizeLabel(r)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
