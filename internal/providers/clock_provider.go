package providers

import "time"

// ClockInterface abstracts "today" so daily rollover is testable. The day
// boundary is Shanghai-local, matching the user base.
type ClockInterface interface {
	Now() time.Time
	Today() string
}

type ShanghaiClock struct {
	loc *time.Location
}

func NewClock() ClockInterface {
	return &ShanghaiClock{loc: time.FixedZone("CST", 8*3600)}
}

func (c *ShanghaiClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *ShanghaiClock) Today() string {
	return c.Now().Format(time.DateOnly)
}
