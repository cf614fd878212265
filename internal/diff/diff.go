// Package diff computes field-level before/after deltas between two
// snapshots of the same entity, for the audit trail.
package diff

import (
	"reflect"

	"github.com/crewline/crewline/internal/models"
)

// Fields compares two snapshots over the union of their keys and returns a
// change per key whose values differ. A key present on only one side counts
// as changed (the missing side is nil). Identical snapshots yield an empty
// map; callers use emptiness to skip audit writes on no-op updates.
func Fields(before, after map[string]any) map[string]models.FieldChange {
	changes := make(map[string]models.FieldChange)

	for key, b := range before {
		a, ok := after[key]
		if !ok {
			changes[key] = models.FieldChange{Before: b, After: nil}
			continue
		}
		if !equal(b, a) {
			changes[key] = models.FieldChange{Before: b, After: a}
		}
	}

	for key, a := range after {
		if _, ok := before[key]; !ok {
			changes[key] = models.FieldChange{Before: nil, After: a}
		}
	}

	return changes
}

// equal applies strict value equality. Values of different dynamic types are
// unequal; values whose type is not comparable are treated as changed rather
// than compared structurally.
func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}

	return a == b
}
