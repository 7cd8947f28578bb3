// Package category implements the category editing session: an in-memory
// working list reconciled against the persisted menu on save, plus the
// order codec that encodes a category ordering into item rows.
//
// Categories are not rows of their own. They are the distinct set of
// category strings referenced by menu items, so "reorder" and "rename" are
// really bulk rewrites of item rows.
package category

import (
	"errors"
	"fmt"
	"strings"
)

// MaxCategories is the largest ordering the 3-digit prefix can encode.
const MaxCategories = 1000

// ErrCapacityExceeded is returned by EncodeOrder for orderings beyond
// MaxCategories entries. Callers must widen the padding or reject.
var ErrCapacityExceeded = errors.New("category: ordering exceeds prefix capacity")

// EncodeOrder maps each name in the desired ordering to its prefixed form
// "NNN:name", where NNN is the zero-padded 0-based index.
func EncodeOrder(categories []string) (map[string]string, error) {
	if len(categories) > MaxCategories {
		return nil, fmt.Errorf("%w: %d categories, max %d", ErrCapacityExceeded, len(categories), MaxCategories)
	}
	encoded := make(map[string]string, len(categories))
	for i, name := range categories {
		encoded[name] = fmt.Sprintf("%03d:%s", i, name)
	}
	return encoded, nil
}

// StripPrefix removes one leading "NNN:" order prefix if present and
// returns the input unchanged otherwise. Idempotent on stripped input.
func StripPrefix(name string) string {
	if len(name) < 4 || name[3] != ':' {
		return name
	}
	for _, c := range name[:3] {
		if c < '0' || c > '9' {
			return name
		}
	}
	return name[4:]
}

// normalizeName trims surrounding whitespace; all validation and duplicate
// checks operate on the trimmed form.
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
