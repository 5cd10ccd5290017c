package clocking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDelta(t *testing.T) {
	in := event("7", "IN", "2024-05-01", "08:01:00", "badge1")
	out := event("7", "OUT", "2024-05-01", "17:00:00", "badge1")
	other := event("9", "IN", "2024-05-01", "07:55:00", "badge2")

	t.Run("empty target returns all source", func(t *testing.T) {
		source := []ClockEvent{in, out, other}
		assert.Equal(t, source, Delta(nil, source))
	})

	t.Run("empty source returns empty", func(t *testing.T) {
		got := Delta([]ClockEvent{in}, nil)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})

	t.Run("removes events already in target and keeps order", func(t *testing.T) {
		target := []ClockEvent{event("7", "IN", "2024-05-01", "08:01:12", "")}
		got := Delta(target, []ClockEvent{other, in, out})
		assert.Equal(t, []ClockEvent{other, out}, got)
	})

	t.Run("all present yields nothing", func(t *testing.T) {
		got := Delta([]ClockEvent{out, in, other}, []ClockEvent{in, out, other})
		assert.Empty(t, got)
	})

	t.Run("duplicates in source pass through", func(t *testing.T) {
		got := Delta(nil, []ClockEvent{in, in})
		assert.Len(t, got, 2)
	})

	t.Run("never longer than source", func(t *testing.T) {
		source := []ClockEvent{in, out}
		target := []ClockEvent{other}
		got := Delta(target, source)
		assert.LessOrEqual(t, len(got), len(source))
		for _, ev := range got {
			assert.NotEqual(t, BuildKey(other), BuildKey(ev))
		}
	})
}
