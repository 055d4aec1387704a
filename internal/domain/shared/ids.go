package shared

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParseIDList splits a comma-separated id list. Blank entries are ignored;
// entries that are not UUIDs are returned in invalid.
func ParseIDList(raw string) (ids []uuid.UUID, invalid []string) {
	seen := make(map[uuid.UUID]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			invalid = append(invalid, part)
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, invalid
}

// ParseBool accepts the strtobool vocabulary: y, yes, t, true, on, 1 and n, no, f, false, off, 0
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "t", "true", "on", "1":
		return true, nil
	case "n", "no", "f", "false", "off", "0":
		return false, nil
	}
	return false, NewDomainError("INVALID_STATE_VALUE", fmt.Sprintf("Invalid truth value %q", raw))
}
