package clocking

import "strings"

// Key identifies a scan for matching between systems. It is comparable and
// used directly as a map key, so adjacent fields can never run together.
type Key struct {
	ExternalID string
	Direction  string
	Date       string
	Minute     string
}

// BuildKey derives the identity of an event: employee, direction, date and
// the time truncated to the minute.
func BuildKey(e ClockEvent) Key {
	return Key{
		ExternalID: e.ExternalID,
		Direction:  e.Direction,
		Date:       e.DateString(),
		Minute:     e.Time.MinuteString(),
	}
}

// String is for logs and write outcomes only.
func (k Key) String() string {
	return strings.Join([]string{k.ExternalID, k.Direction, k.Date, k.Minute}, "|")
}
