package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateOrderID builds a human-readable reference like "DEP-9F2A1C0B4D".
// The prefix identifies the record kind in support conversations and bank
// statements; the suffix is random enough for a unique index.
func GenerateOrderID(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%s", prefix, id[:10])
}
