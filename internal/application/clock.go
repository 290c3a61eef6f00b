package application

import "time"

// Clock interface so services can be tested with fixed timestamps
type Clock interface {
	Now() time.Time
}

// SystemClock is the default implementation, always in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock returns T until Advance moves it.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }
