package store

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crewline/crewline/internal/models"
	"github.com/crewline/crewline/internal/pagination"
)

// cursorSortFormat is how timestamp sort values are rendered inside cursors.
// Nanosecond precision keeps Encode/Decode lossless against timestamptz.
const cursorSortFormat = time.RFC3339Nano

// cursorPosition unpacks a decoded cursor into the SQL keyset arguments for
// a timestamp-sorted traversal. A token that decodes cleanly but does not
// hold a timestamp + row ID is still an invalid cursor from the store's
// point of view.
func cursorPosition(cur *pagination.Cursor) (time.Time, string, error) {
	sort, err := time.Parse(cursorSortFormat, cur.Sort)
	if err != nil {
		return time.Time{}, "", models.ErrInvalidCursor
	}

	if _, err := uuid.Parse(cur.ID); err != nil {
		return time.Time{}, "", models.ErrInvalidCursor
	}

	return sort, cur.ID, nil
}

// nextCursor encodes the keyset position of the last record kept on a page.
func nextCursor(sort time.Time, id string) string {
	return pagination.Cursor{Sort: sort.Format(cursorSortFormat), ID: id}.Encode()
}

// page applies the limit+1 continuation check: if the fetch brought back an
// extra row, drop it and report more pages. The next cursor derives from the
// last kept row via lastKey, never from the discarded extra.
func page[T any](rows []T, limit int, lastKey func(T) (time.Time, string)) ([]T, bool, string) {
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	if !hasMore || len(rows) == 0 {
		return rows, hasMore, ""
	}

	sortVal, id := lastKey(rows[len(rows)-1])

	return rows, true, nextCursor(sortVal, id)
}

// patchSet renders a partial-update SET clause from optional field pointers,
// skipping fields the request left unset. Placeholders start at $start.
// updated_at = now() is always included, so an all-nil patch is a touch.
func patchSet(fields map[string]any, start int) (string, []any) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		parts []string
		args  []any
	)

	for _, name := range names {
		v := reflect.ValueOf(fields[name])
		if v.Kind() == reflect.Pointer && v.IsNil() {
			continue
		}
		parts = append(parts, name+" = $"+strconv.Itoa(start+len(args)))
		args = append(args, v.Elem().Interface())
	}

	parts = append(parts, "updated_at = now()")

	return strings.Join(parts, ", "), args
}
