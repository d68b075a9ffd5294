package timeline

import (
	"fmt"
	"time"
)

// raw DSC time units per second
const TimestampScale = 100000

// wall-clock position within a song
type Clock struct {
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

// converts a raw TIME parameter into a clock value
func FromTimestamp(raw uint32) Clock {
	secs := int64(raw) / TimestampScale
	rem := int64(raw) % TimestampScale

	return Clock{
		Hour:        int(secs / 3600),
		Minute:      int(secs % 3600 / 60),
		Second:      int(secs % 60),
		Microsecond: int(rem * (1000000 / TimestampScale)),
	}
}

func (c Clock) Duration() time.Duration {
	return time.Duration(c.Hour)*time.Hour +
		time.Duration(c.Minute)*time.Minute +
		time.Duration(c.Second)*time.Second +
		time.Duration(c.Microsecond)*time.Microsecond
}

func (c Clock) Before(o Clock) bool {
	return c.Duration() < o.Duration()
}

// HH:MM:SS.mmm
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", c.Hour, c.Minute, c.Second, c.Microsecond/1000)
}
