package domain

import "time"

// Clock is the source of "now" for expiration checks.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
