package mappers

import "time"

// utcPtr normalizes an optional timestamp read back from a driver that
// returns local time.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
