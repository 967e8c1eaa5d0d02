package clock

import "time"

// Clock abstracts time for testability
type Clock interface {
	Now() time.Time
}

// New returns a Clock backed by the system time
func New() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Fixed returns a Clock that always reports t (for tests)
func Fixed(t time.Time) Clock {
	return fixedClock{t}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}
