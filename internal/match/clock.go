package match

import "time"

// Timer is a pending delayed call.
type Timer interface {
	// Stop cancels the call; it reports false when the call already ran or
	// was stopped.
	Stop() bool
}

// Clock schedules delayed calls. Callbacks may run on any goroutine.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
func (realClock) Now() time.Time                            { return time.Now() }

// RealClock uses the time package.
func RealClock() Clock { return realClock{} }
