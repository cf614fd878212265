package query_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/crewline/crewline/internal/query"
)

func TestWhere_Empty(t *testing.T) {
	t.Parallel()

	sql, args := query.Where(2)

	if sql != "" {
		t.Errorf("expected empty fragment, got %q", sql)
	}
	if args != nil {
		t.Errorf("expected nil args, got %v", args)
	}
}

func TestWhere_SingleValueInRendersEquality(t *testing.T) {
	t.Parallel()

	sql, args := query.Where(2, query.In{Field: "direction", Values: []string{"inbound"}})

	if sql != " AND direction = $2" {
		t.Errorf("unexpected fragment: %q", sql)
	}
	if !reflect.DeepEqual(args, []any{"inbound"}) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestWhere_MultiValueInRendersAny(t *testing.T) {
	t.Parallel()

	sql, args := query.Where(2, query.In{Field: "status", Values: []string{"scheduled", "en_route"}})

	if sql != " AND status = ANY($2)" {
		t.Errorf("unexpected fragment: %q", sql)
	}
	if len(args) != 1 {
		t.Fatalf("expected one array arg, got %v", args)
	}
	if !reflect.DeepEqual(args[0], []string{"scheduled", "en_route"}) {
		t.Errorf("unexpected array arg: %v", args[0])
	}
}

func TestWhere_EmptyInImposesNoConstraint(t *testing.T) {
	t.Parallel()

	sql, args := query.Where(2, query.In{Field: "status"})

	if sql != "" || args != nil {
		t.Errorf("empty In should render nothing, got %q %v", sql, args)
	}
}

func TestWhere_PlaceholderIndexing(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	sql, args := query.Where(3,
		query.Eq{Field: "action", Value: "job.update"},
		query.GtEq{Field: "occurred_at", Value: from},
		query.Lt{Field: "occurred_at", Value: to},
	)

	want := " AND action = $3 AND occurred_at >= $4 AND occurred_at < $5"
	if sql != want {
		t.Errorf("unexpected fragment:\n got %q\nwant %q", sql, want)
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %v", args)
	}
}

func TestWhere_KeysetBeforeIsRowWise(t *testing.T) {
	t.Parallel()

	sort := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	sql, args := query.Where(2, query.KeysetBefore{
		SortField: "occurred_at", IDField: "id", Sort: sort, ID: "abc",
	})

	want := " AND (occurred_at, id) < ($2, $3)"
	if sql != want {
		t.Errorf("unexpected fragment:\n got %q\nwant %q", sql, want)
	}
	if len(args) != 2 || args[1] != "abc" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestWhere_PrefixMatchEscapesLikeMetacharacters(t *testing.T) {
	t.Parallel()

	sql, args := query.Where(2, query.PrefixMatch{Field: "name", Value: "100%_a\\b"})

	if sql != " AND name ILIKE $2" {
		t.Errorf("unexpected fragment: %q", sql)
	}
	if len(args) != 1 {
		t.Fatalf("expected one arg, got %v", args)
	}

	got, ok := args[0].(string)
	if !ok {
		t.Fatalf("expected string arg, got %T", args[0])
	}
	want := `100\%\_a\\b%`
	if got != want {
		t.Errorf("unexpected pattern: got %q, want %q", got, want)
	}
}

func TestWhere_AnyPrefixSharesOneArgument(t *testing.T) {
	t.Parallel()

	sql, args := query.Where(2, query.AnyPrefix{
		Fields: []string{"name", "phone"}, Value: "555",
	})

	if sql != " AND (name ILIKE $2 OR phone ILIKE $2)" {
		t.Errorf("unexpected fragment: %q", sql)
	}
	if len(args) != 1 || args[0] != "555%" {
		t.Errorf("unexpected args: %v", args)
	}
}
