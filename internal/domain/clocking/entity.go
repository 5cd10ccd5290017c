package clocking

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ClockEvent is one badge scan in the shape both systems are compared in.
type ClockEvent struct {
	ExternalID  string
	Direction   string
	Date        time.Time
	Time        TimeOfDay
	SourceLabel string
}

// DateString returns the event date as YYYY-MM-DD.
func (e ClockEvent) DateString() string {
	return e.Date.Format(DateLayout)
}

// TimeOfDay is a wall-clock time with second precision.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// String renders HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// MinuteString renders HH:MM, dropping seconds.
func (t TimeOfDay) MinuteString() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
