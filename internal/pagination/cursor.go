// Package pagination implements opaque keyset cursors for list endpoints.
//
// A cursor encodes the sort-field value and the row ID of the last record
// on the previous page. The ID acts as a tie-break key so that rows sharing
// a sort value are neither skipped nor delivered twice across pages.
package pagination

import (
	"encoding/base64"
	"strings"

	"github.com/crewline/crewline/internal/models"
)

// DefaultLimit is the page size used when the request does not specify one.
const DefaultLimit = 20

// MaxLimit caps the page size a client may request.
const MaxLimit = 100

// sep joins the cursor parts inside the encoded token. It is a control
// character so it cannot collide with RFC 3339 timestamps or UUIDs.
const sep = "\x1f"

// Cursor is the decoded position of the last record of the previous page.
type Cursor struct {
	// Sort is the textual sort-field value (timestamp or identifier).
	Sort string
	// ID is the tie-break row identifier.
	ID string
}

// Encode returns an opaque, URL-safe token for the cursor.
func (c Cursor) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.Sort + sep + c.ID))
}

// Decode reverses Encode. Malformed tokens fail with models.ErrInvalidCursor;
// whether the decoded position exists is the caller's concern.
func Decode(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, models.ErrInvalidCursor
	}

	sort, id, ok := strings.Cut(string(raw), sep)
	if !ok {
		return Cursor{}, models.ErrInvalidCursor
	}

	return Cursor{Sort: sort, ID: id}, nil
}
