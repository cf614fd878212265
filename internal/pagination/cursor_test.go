package pagination_test

import (
	"errors"
	"testing"

	"github.com/crewline/crewline/internal/models"
	"github.com/crewline/crewline/internal/pagination"
)

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	cur := pagination.Cursor{
		Sort: "2026-03-14T09:26:53.589793Z",
		ID:   "6a2e1f40-8a9b-4c91-b6d4-0f33a1e2c777",
	}

	token := cur.Encode()
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	got, err := pagination.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got != cur {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, cur)
	}
}

func TestCursorRoundTrip_SortContainsSpecials(t *testing.T) {
	t.Parallel()

	// Sort values are opaque to the codec; anything except the separator
	// byte must survive.
	cur := pagination.Cursor{Sort: "name with spaces / and = signs", ID: "42"}

	got, err := pagination.Decode(cur.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got != cur {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, cur)
	}
}

func TestDecode_InvalidTokens(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not base64":          "!!!not-base64!!!",
		"missing separator":   "aGVsbG8", // "hello", no separator byte
		"standard b64 padded": "aGVsbG8=",
		"empty":               "",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := pagination.Decode(token); !errors.Is(err, models.ErrInvalidCursor) {
				t.Errorf("expected ErrInvalidCursor, got %v", err)
			}
		})
	}
}

func TestDecode_TruncatedToken(t *testing.T) {
	t.Parallel()

	token := pagination.Cursor{Sort: "2026-03-14T09:26:53Z", ID: "abc"}.Encode()
	truncated := token[:len(token)-3]

	if _, err := pagination.Decode(truncated); !errors.Is(err, models.ErrInvalidCursor) {
		t.Errorf("expected ErrInvalidCursor for truncated token, got %v", err)
	}
}
