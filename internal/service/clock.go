package service

import "time"

// Clock supplies the current time. Tests replace it to get deterministic
// ids and timestamps.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// nextMillis returns ms, advanced one millisecond at a time until taken
// reports false.
func nextMillis(ms int64, taken func(int64) bool) int64 {
	for taken(ms) {
		ms++
	}
	return ms
}
