package clocking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
	"github.com/cmlabs-hris/clocksync/internal/pkg/utils"
)

const (
	SystemSource = "synel"
	SystemTarget = "priority"
)

// FromSource maps a Synel clocking to a ClockEvent.
func FromSource(raw SourceClocking) (ClockEvent, error) {
	id := raw.ExternalID.String()
	if id == "" {
		return ClockEvent{}, &syncrun.MappingError{System: SystemSource, Record: raw.ScanTime, Err: ErrMissingExternalID}
	}

	date, tod, err := SplitDateTime(raw.ScanTime)
	if err != nil {
		return ClockEvent{}, &syncrun.MappingError{System: SystemSource, Record: id, Err: err}
	}

	return ClockEvent{
		ExternalID:  id,
		Direction:   strings.TrimSpace(raw.Direction),
		Date:        date,
		Time:        tod,
		SourceLabel: raw.Source,
	}, nil
}

// FromTarget maps a Priority work-hour row to a ClockEvent.
func FromTarget(raw WorkHourRow) (ClockEvent, error) {
	id := raw.USERBCODE.String()
	if id == "" {
		return ClockEvent{}, &syncrun.MappingError{System: SystemTarget, Record: raw.CURDATE, Err: ErrMissingExternalID}
	}

	// CURDATE comes back as 2024-05-01T00:00:00+01:00.
	datePart, _, _ := strings.Cut(strings.TrimSpace(raw.CURDATE), "T")
	if datePart == "" || strings.TrimSpace(raw.FROMTIME) == "" {
		return ClockEvent{}, &syncrun.MappingError{System: SystemTarget, Record: id, Err: ErrMissingTimestamp}
	}

	date, err := time.Parse(DateLayout, datePart)
	if err != nil {
		return ClockEvent{}, &syncrun.MappingError{System: SystemTarget, Record: id, Err: fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)}
	}

	tod, err := ParseTimeOfDay(raw.FROMTIME)
	if err != nil {
		return ClockEvent{}, &syncrun.MappingError{System: SystemTarget, Record: id, Err: err}
	}

	return ClockEvent{
		ExternalID:  id,
		Direction:   strings.TrimSpace(raw.DNAME),
		Date:        date,
		Time:        tod,
		SourceLabel: raw.DETAILS,
	}, nil
}

// ToWorkHourRow maps a ClockEvent to the row written to Priority.
func ToWorkHourRow(e ClockEvent) WorkHourRow {
	return WorkHourRow{
		DNAME:     e.Direction,
		CURDATE:   e.DateString(),
		FROMTIME:  e.Time.String(),
		DETAILS:   e.SourceLabel,
		USERBCODE: utils.FlexString(e.ExternalID),
	}
}

// SplitDateTime splits "YYYY-MM-DD HH:MM[:SS]" on whitespace, date first.
func SplitDateTime(s string) (time.Time, TimeOfDay, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return time.Time{}, TimeOfDay{}, ErrMissingTimestamp
	}
	if len(parts) != 2 {
		return time.Time{}, TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	date, err := time.Parse(DateLayout, parts[0])
	if err != nil {
		return time.Time{}, TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	tod, err := ParseTimeOfDay(parts[1])
	if err != nil {
		return time.Time{}, TimeOfDay{}, err
	}
	return date, tod, nil
}

// ParseTimeOfDay accepts HH:MM, HH:MM:SS and HH:MM:SS.fff.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	var fields [3]int
	for i, p := range parts {
		if i == 2 {
			p, _, _ = strings.Cut(p, ".")
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
		}
		fields[i] = n
	}

	tod := TimeOfDay{Hour: fields[0], Minute: fields[1], Second: fields[2]}
	if tod.Hour > 23 || tod.Minute > 59 || tod.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return tod, nil
}

// NormalizeSource maps a batch of Synel clockings, collecting the records it had to drop.
func NormalizeSource(raws []SourceClocking) ([]ClockEvent, []error) {
	events := make([]ClockEvent, 0, len(raws))
	var dropped []error
	for _, raw := range raws {
		ev, err := FromSource(raw)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		events = append(events, ev)
	}
	return events, dropped
}

// NormalizeTarget maps a batch of Priority rows, collecting the records it had to drop.
func NormalizeTarget(raws []WorkHourRow) ([]ClockEvent, []error) {
	events := make([]ClockEvent, 0, len(raws))
	var dropped []error
	for _, raw := range raws {
		ev, err := FromTarget(raw)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		events = append(events, ev)
	}
	return events, dropped
}
