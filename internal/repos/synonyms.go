package repos

import "strings"

// synonymNeedle builds the coarse LIKE pattern for probing a JSON-encoded
// string array column. Rows matched this way must still be verified in Go
// with containsFold, since the pattern can hit substrings of longer
// synonyms.
func synonymNeedle(term string) string {
  return "%\"" + strings.ToLower(strings.TrimSpace(term)) + "\"%"
}

// containsFold reports whether list holds term under case-insensitive
// comparison.
func containsFold(list []string, term string) bool {
  for _, s := range list {
    if strings.EqualFold(strings.TrimSpace(s), term) {
      return true
    }
  }
  return false
}
