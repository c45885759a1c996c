package utils

import "fmt"

// TimestampID mints an id of the form "<prefix>_<unix millis>".
func TimestampID(prefix string, ms int64) string {
	return fmt.Sprintf("%s_%d", prefix, ms)
}

// BookingNumber derives the human facing booking reference from the last
// six digits of a millisecond timestamp, e.g. "BK482913".
func BookingNumber(ms int64) string {
	return fmt.Sprintf("BK%06d", ms%1_000_000)
}
