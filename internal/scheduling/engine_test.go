package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2024-01-10 is a Wednesday.
func wednesdayNoon() time.Time {
	return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
}

func newTestEngine() *Engine {
	return NewEngine(Options{Location: time.UTC}, nil)
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(Options{}, nil)
	assert.Equal(t, time.UTC, e.Location())
	assert.Equal(t, 4*week, e.Horizon())
	assert.Equal(t, 15, e.minSlotMinutes)
}

func TestStartOfWeek(t *testing.T) {
	cases := map[string]struct {
		in   time.Time
		want time.Time
	}{
		"wednesday": {wednesdayNoon(), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		"monday":    {time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		"sunday":    {time.Date(2024, 1, 14, 23, 59, 0, 0, time.UTC), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, StartOfWeek(tc.in, time.UTC))
		})
	}
}

func TestStartOfWeekUsesLocation(t *testing.T) {
	cairo := time.FixedZone("EET", 2*60*60)
	// Sunday 23:00 UTC is already Monday in UTC+2.
	in := time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, cairo), StartOfWeek(in, cairo))
}
