package clocking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func event(id, dir, date, tod, label string) ClockEvent {
	d, _ := time.Parse(DateLayout, date)
	t, _ := ParseTimeOfDay(tod)
	return ClockEvent{ExternalID: id, Direction: dir, Date: d, Time: t, SourceLabel: label}
}

func TestBuildKey_IgnoresSecondsAndLabel(t *testing.T) {
	a := event("7", "IN", "2024-05-01", "08:01:00", "badge1")
	b := event("7", "IN", "2024-05-01", "08:01:59", "")
	c := event("7", "IN", "2024-05-01", "08:01", "manual entry")

	assert.Equal(t, BuildKey(a), BuildKey(b))
	assert.Equal(t, BuildKey(a), BuildKey(c))
}

func TestBuildKey_DistinguishesIdentityFields(t *testing.T) {
	base := event("7", "IN", "2024-05-01", "08:01:00", "badge1")
	cases := map[string]ClockEvent{
		"employee":  event("8", "IN", "2024-05-01", "08:01:00", "badge1"),
		"direction": event("7", "OUT", "2024-05-01", "08:01:00", "badge1"),
		"date":      event("7", "IN", "2024-05-02", "08:01:00", "badge1"),
		"minute":    event("7", "IN", "2024-05-01", "08:02:00", "badge1"),
	}
	for name, other := range cases {
		assert.NotEqual(t, BuildKey(base), BuildKey(other), name)
	}
}

func TestBuildKey_NoBoundaryCollision(t *testing.T) {
	a := event("12", "3IN", "2024-05-01", "08:00", "")
	b := event("123", "IN", "2024-05-01", "08:00", "")

	assert.NotEqual(t, BuildKey(a), BuildKey(b))
	assert.NotEqual(t, BuildKey(a).String(), BuildKey(b).String())
}

func TestBuildKey_SameScanFromBothSystems(t *testing.T) {
	src, err := FromSource(SourceClocking{ExternalID: "7", Direction: "IN", ScanTime: "2024-05-01 08:01:37", Source: "badge1"})
	assert.NoError(t, err)
	dst, err := FromTarget(WorkHourRow{USERBCODE: "7", DNAME: "IN", CURDATE: "2024-05-01T00:00:00+01:00", FROMTIME: "08:01"})
	assert.NoError(t, err)

	assert.Equal(t, BuildKey(src), BuildKey(dst))
	assert.Equal(t, "7|IN|2024-05-01|08:01", BuildKey(src).String())
}
