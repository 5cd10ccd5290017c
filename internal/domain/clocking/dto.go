package clocking

import (
	"time"

	"github.com/cmlabs-hris/clocksync/internal/pkg/utils"
	"github.com/cmlabs-hris/clocksync/internal/pkg/validator"
)

// SourceClocking is one entry of Synel's GetClockings response.
type SourceClocking struct {
	ExternalID utils.FlexString `json:"ExternalId"`
	Direction  string           `json:"Direction"`
	ScanTime   string           `json:"ScanTime"`
	Source     string           `json:"Source"`
}

// WorkHourRow is a Priority LOADUSERSBWORKHOURS row, used for both reads and writes.
type WorkHourRow struct {
	DNAME     string           `json:"DNAME"`
	CURDATE   string           `json:"CURDATE"`
	FROMTIME  string           `json:"FROMTIME"`
	DETAILS   string           `json:"DETAILS,omitempty"`
	USERBCODE utils.FlexString `json:"USERBCODE"`
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Today returns the single-day range containing now.
func Today(now time.Time) DateRange {
	day := truncateDay(now)
	return DateRange{From: day, To: day}
}

// Since returns the range from a historical start date through now.
func Since(from, now time.Time) DateRange {
	return DateRange{From: truncateDay(from), To: truncateDay(now)}
}

// ParseDateRange parses YYYY-MM-DD bounds. An empty to defaults to from.
func ParseDateRange(from, to string) (DateRange, error) {
	var errs validator.ValidationErrors

	fromDate, ok := validator.IsValidDate(from)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be a date in YYYY-MM-DD format",
		})
	}

	toDate := fromDate
	if !validator.IsEmpty(to) {
		toDate, ok = validator.IsValidDate(to)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be a date in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return DateRange{}, errs
	}

	r := DateRange{From: fromDate, To: toDate}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return ErrInvalidDateRange
	}
	if r.To.Before(r.From) {
		return validator.ValidationErrors{{
			Field:   "to",
			Message: "to must not be before from",
		}}
	}
	return nil
}

// SingleDay reports whether the range covers exactly one day.
func (r DateRange) SingleDay() bool {
	return r.From.Equal(r.To)
}

func (r DateRange) String() string {
	if r.SingleDay() {
		return r.From.Format(DateLayout)
	}
	return r.From.Format(DateLayout) + ".." + r.To.Format(DateLayout)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
