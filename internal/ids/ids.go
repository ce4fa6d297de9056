package ids

import (
	"strings"

	"github.com/google/uuid"
)

// Generator produces opaque unique identifiers for vocabulary documents.
// The engine never parses the result; the kind and scope segments exist
// only to make ids greppable in logs and data dumps.
type Generator interface {
	NewID(kind, scopeID string) string
}

type uuidGenerator struct{}

func NewGenerator() Generator { return uuidGenerator{} }

func (uuidGenerator) NewID(kind, scopeID string) string {
	parts := make([]string, 0, 3)
	if kind != "" {
		parts = append(parts, kind)
	}
	if scopeID != "" {
		parts = append(parts, scopeID)
	}
	parts = append(parts, uuid.NewString())
	return strings.Join(parts, "_")
}
