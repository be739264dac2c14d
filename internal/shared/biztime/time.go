// Package biztime centralizes time handling. Everything is stored and
// compared in UTC; the business location only affects presentation.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// ISOLayout matches the millisecond ISO-8601 form clients already parse,
// e.g. 2026-01-02T03:04:05.000Z.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	bizLocation     = time.UTC
	bizLocationOnce sync.Once
	initErr         error
)

// Init sets the presentation timezone. Empty means UTC.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			return
		}
		var loc *time.Location
		loc, initErr = time.LoadLocation(tz)
		if initErr == nil {
			bizLocation = loc
		}
	})
	if initErr != nil {
		return fmt.Errorf("failed to load timezone %q: %w", tz, initErr)
	}
	return nil
}

func Location() *time.Location {
	return bizLocation
}

// NowUTC returns current time in UTC, truncated to milliseconds so values
// survive a round trip through every backend unchanged.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Clock yields the current time. Use cases take one so tests can pin it.
type Clock func() time.Time

// SystemClock is the production Clock.
var SystemClock Clock = NowUTC

// FormatISO renders t in UTC using ISOLayout.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// FormatISOPtr is FormatISO for optional timestamps; nil renders as "".
func FormatISOPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatISO(*t)
}

// ParseISO accepts RFC 3339 with or without fractional seconds.
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
