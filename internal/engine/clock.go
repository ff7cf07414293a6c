package engine

import "time"

// Clock supplies the current instant in the configured timezone.
// Tests inject a fake; production uses NewClock.
type Clock interface {
	Now() time.Time
}

type tzClock struct {
	loc *time.Location
}

// NewClock returns a wall clock pinned to the given location.
func NewClock(loc *time.Location) Clock {
	return tzClock{loc: loc}
}

func (c tzClock) Now() time.Time {
	return time.Now().In(c.loc)
}
