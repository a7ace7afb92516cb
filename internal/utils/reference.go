package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReference builds a human-facing business number such as ORD1A2B3C4D:
// the prefix followed by the first eight upper-cased hex chars of a UUID.
func NewReference(prefix string) string {
	return prefix + strings.ToUpper(uuid.NewString()[:8])
}
