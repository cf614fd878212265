// Package filter normalizes raw list-endpoint query parameters into typed,
// validated filter sets and pagination parameters.
//
// Validation happens here, before any store access: a bad filter value, an
// out-of-range limit, or a malformed cursor short-circuits the request with
// a typed error and never reaches the database.
package filter

import (
	"net/url"
	"strconv"
	"time"

	"github.com/crewline/crewline/internal/models"
	"github.com/crewline/crewline/internal/pagination"
)

// Range shortcut values.
const (
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
)

// Schema declares which query parameters a list endpoint accepts.
type Schema struct {
	// Enums maps a parameter name to its allowed values. The parameter may
	// appear once or repeated; repeated values combine as a logical OR.
	Enums map[string][]string
	// Scalars are parameters accepted as free-form single values
	// (identifiers, search prefixes). Repetition is allowed and also
	// combines as OR.
	Scalars []string
}

// Params is a normalized, validated filter set plus pagination parameters.
type Params struct {
	// Filters maps parameter name to one or more values (OR within a name).
	// An absent name imposes no constraint.
	Filters map[string][]string
	// From and To bound the endpoint's date field: From inclusive,
	// To exclusive.
	From *time.Time
	To   *time.Time
	// Cursor is the decoded pagination position, nil on a first page.
	Cursor *pagination.Cursor
	Limit  int
}

// Normalize validates raw query parameters against the schema. now and loc
// anchor the today/week/month shortcuts to the workspace's local calendar;
// a shortcut overrides explicit from/to when both are supplied.
func Normalize(raw url.Values, schema Schema, now time.Time, loc *time.Location) (Params, error) {
	p := Params{Filters: make(map[string][]string)}

	for name, allowed := range schema.Enums {
		values := raw[name]
		for _, v := range values {
			if !validEnum(allowed, v) {
				return Params{}, &models.InvalidFilterError{Field: name, Value: v}
			}
		}
		if len(values) > 0 {
			p.Filters[name] = values
		}
	}

	for _, name := range schema.Scalars {
		if values := raw[name]; len(values) > 0 {
			p.Filters[name] = values
		}
	}

	if err := parseBounds(raw, &p); err != nil {
		return Params{}, err
	}

	if shortcut := raw.Get("range"); shortcut != "" {
		from, to, err := shortcutBounds(shortcut, now.In(loc))
		if err != nil {
			return Params{}, err
		}
		p.From, p.To = &from, &to
	}

	limit, err := parseLimit(raw.Get("limit"))
	if err != nil {
		return Params{}, err
	}
	p.Limit = limit

	if token := raw.Get("cursor"); token != "" {
		cur, err := pagination.Decode(token)
		if err != nil {
			return Params{}, err
		}
		p.Cursor = &cur
	}

	return p, nil
}

func validEnum(allowed []string, v string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}

	return false
}

func parseBounds(raw url.Values, p *Params) error {
	if from := raw.Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return &models.InvalidFilterError{Field: "from", Value: from}
		}
		p.From = &t
	}

	if to := raw.Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return &models.InvalidFilterError{Field: "to", Value: to}
		}
		p.To = &t
	}

	return nil
}

// shortcutBounds computes half-open calendar boundaries in local time.
// Weeks start on Monday; months are calendar months.
func shortcutBounds(shortcut string, local time.Time) (time.Time, time.Time, error) {
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())

	switch shortcut {
	case RangeToday:
		return midnight, midnight.AddDate(0, 0, 1), nil
	case RangeWeek:
		// Monday-based offset; Go's Sunday is 0.
		offset := (int(local.Weekday()) + 6) % 7
		start := midnight.AddDate(0, 0, -offset)

		return start, start.AddDate(0, 0, 7), nil
	case RangeMonth:
		start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, local.Location())

		return start, start.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, time.Time{}, &models.InvalidFilterError{Field: "range", Value: shortcut}
	}
}

func parseLimit(s string) (int, error) {
	if s == "" {
		return pagination.DefaultLimit, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > pagination.MaxLimit {
		return 0, models.ErrInvalidLimit
	}

	return v, nil
}
