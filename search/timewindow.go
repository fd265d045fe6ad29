package search

import (
	"fmt"
	"time"
)

// TimeFormat is the only timestamp layout the FreeScout API accepts for
// createdSince/updatedSince: second precision, trailing Z. Fractional
// seconds are rejected upstream, so values are always truncated to this
// layout.
const TimeFormat = "2006-01-02T15:04:05Z"

// ResolveAfter computes the "created after" bound for a search. An
// explicit timestamp wins over a relative day count. Explicit values
// that parse as RFC 3339 are re-formatted to strip fractional seconds;
// anything else is passed through untouched so upstream can report the
// format error. Returns the empty string when no bound applies.
func ResolveAfter(explicit string, days int, now time.Time) string {
	if explicit != "" {
		if t, err := time.Parse(time.RFC3339, explicit); err == nil {
			return t.UTC().Format(TimeFormat)
		}
		return explicit
	}
	if days <= 0 {
		return ""
	}
	return now.UTC().AddDate(0, 0, -days).Format(TimeFormat)
}

// ParseBefore parses an optional "created before" bound. The zero time
// means no bound. An unparseable value is an error rather than "no
// bound": silently dropping a typoed bound would widen the search. The
// upstream API has no native "before" filter, so this value is only
// ever applied client-side.
func ParseBefore(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("createdBefore %q is not an RFC 3339 timestamp or a YYYY-MM-DD date", value)
}
