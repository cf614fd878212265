package store

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/crewline/crewline/internal/models"
	"github.com/crewline/crewline/internal/pagination"
)

type pageRow struct {
	id string
	at time.Time
}

func rowKey(r pageRow) (time.Time, string) { return r.at, r.id }

func makeRows(n int) []pageRow {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	rows := make([]pageRow, n)
	for i := range rows {
		rows[i] = pageRow{
			id: strconv.Itoa(i),
			at: base.Add(-time.Duration(i) * time.Minute),
		}
	}

	return rows
}

func TestPage_FullPageWithExtra(t *testing.T) {
	t.Parallel()

	rows, hasMore, next := page(makeRows(21), 20, rowKey)

	if len(rows) != 20 {
		t.Fatalf("expected 20 rows, got %d", len(rows))
	}
	if !hasMore {
		t.Error("expected hasMore")
	}
	if next == "" {
		t.Fatal("expected next cursor")
	}

	// The cursor must point at the last kept row, not the discarded extra.
	cur, err := pagination.Decode(next)
	if err != nil {
		t.Fatalf("decode next cursor: %v", err)
	}
	if cur.ID != "19" {
		t.Errorf("cursor should reference row 19, got %q", cur.ID)
	}
}

func TestPage_PartialPage(t *testing.T) {
	t.Parallel()

	rows, hasMore, next := page(makeRows(5), 20, rowKey)

	if len(rows) != 5 {
		t.Errorf("expected 5 rows, got %d", len(rows))
	}
	if hasMore {
		t.Error("partial page should not report more")
	}
	if next != "" {
		t.Errorf("partial page should not emit a cursor, got %q", next)
	}
}

func TestPage_ExactLimit(t *testing.T) {
	t.Parallel()

	// Exactly limit rows without the extra means the next fetch would be empty.
	rows, hasMore, next := page(makeRows(20), 20, rowKey)

	if len(rows) != 20 || hasMore || next != "" {
		t.Errorf("exact-limit page should terminate: len=%d hasMore=%v next=%q", len(rows), hasMore, next)
	}
}

func TestPage_Empty(t *testing.T) {
	t.Parallel()

	rows, hasMore, next := page([]pageRow{}, 20, rowKey)

	if len(rows) != 0 || hasMore || next != "" {
		t.Errorf("empty input should stay empty: len=%d hasMore=%v next=%q", len(rows), hasMore, next)
	}
}

func TestCursorPosition_RoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	id := "6a2e1f40-8a9b-4c91-b6d4-0f33a1e2c777"

	cur, err := pagination.Decode(nextCursor(at, id))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	gotAt, gotID, err := cursorPosition(&cur)
	if err != nil {
		t.Fatalf("cursorPosition: %v", err)
	}
	if !gotAt.Equal(at) {
		t.Errorf("timestamp not lossless: got %v, want %v", gotAt, at)
	}
	if gotID != id {
		t.Errorf("id mismatch: got %q", gotID)
	}
}

func TestCursorPosition_RejectsForeignContent(t *testing.T) {
	t.Parallel()

	cases := map[string]pagination.Cursor{
		"not a timestamp": {Sort: "first-page", ID: "6a2e1f40-8a9b-4c91-b6d4-0f33a1e2c777"},
		"not a uuid":      {Sort: "2026-03-14T09:00:00Z", ID: "row-42"},
	}

	for name, cur := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, _, err := cursorPosition(&cur); !errors.Is(err, models.ErrInvalidCursor) {
				t.Errorf("expected ErrInvalidCursor, got %v", err)
			}
		})
	}
}

func TestPatchSet_SkipsNilPointers(t *testing.T) {
	t.Parallel()

	notes := "call back"
	set, args := patchSet(map[string]any{
		"disposition": (*string)(nil),
		"notes":       &notes,
	}, 3)

	if set != "notes = $3, updated_at = now()" {
		t.Errorf("unexpected SET clause: %q", set)
	}
	if len(args) != 1 || args[0] != "call back" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestPatchSet_AllNilIsATouch(t *testing.T) {
	t.Parallel()

	set, args := patchSet(map[string]any{
		"disposition": (*string)(nil),
		"notes":       (*string)(nil),
	}, 3)

	if set != "updated_at = now()" {
		t.Errorf("unexpected SET clause: %q", set)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestPatchSet_DeterministicOrder(t *testing.T) {
	t.Parallel()

	a, b, c := "1", "2", "3"
	set, args := patchSet(map[string]any{
		"c_field": &c,
		"a_field": &a,
		"b_field": &b,
	}, 2)

	want := "a_field = $2, b_field = $3, c_field = $4, updated_at = now()"
	if set != want {
		t.Errorf("unexpected SET clause:\n got %q\nwant %q", set, want)
	}
	if args[0] != "1" || args[1] != "2" || args[2] != "3" {
		t.Errorf("args out of order: %v", args)
	}
}
