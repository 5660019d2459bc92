// Package timeofday parses the wall-clock times stored by the legacy
// clients ("17:00", "17:00:00", "5:00 PM", "5:00 م") into a single
// representation and compares them.
package timeofday

import (
	"fmt"
	"strings"
	"time"
)

// Clock is a time of day in seconds since midnight.
type Clock int

const day = Clock(24 * 60 * 60)

var layouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04:05PM",
	"3:04PM",
}

var meridiemReplacer = strings.NewReplacer(
	"ص", "AM",
	"م", "PM",
	"A.M.", "AM",
	"P.M.", "PM",
)

// Parse reads a clock value in any supported 24-hour or 12-hour form.
func Parse(raw string) (Clock, error) {
	s := strings.TrimSpace(meridiemReplacer.Replace(strings.ToUpper(strings.TrimSpace(raw))))
	if s == "" {
		return 0, fmt.Errorf("empty time of day")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
		}
	}
	return 0, fmt.Errorf("unrecognised time of day %q", raw)
}

// EndOfDay is midnight at the end of the day, rendered "24:00:00".
const EndOfDay = day

// ParseEnd reads the closing clock of a range. Midnight, written "00:00" or
// "24:00", closes the day.
func ParseEnd(raw string) (Clock, error) {
	s := strings.TrimSpace(raw)
	if s == "24:00" || s == "24:00:00" {
		return EndOfDay, nil
	}
	c, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if c == 0 {
		return EndOfDay, nil
	}
	return c, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(raw string) Clock {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize renders raw in the canonical storage form HH:MM:SS.
func Normalize(raw string) (string, error) {
	c, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// FromTime extracts the clock of t in its own location.
func FromTime(t time.Time) Clock {
	return Clock(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 3600 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 3600 / 60 }

// Second returns the second component.
func (c Clock) Second() int { return int(c) % 60 }

// String renders HH:MM:SS.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

// Format24 renders the 24-hour form without seconds, e.g. "17:00".
func (c Clock) Format24() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Format12 renders the 12-hour form, e.g. "5:00 PM".
func (c Clock) Format12() string {
	h := c.Hour() % 12
	if h == 0 {
		h = 12
	}
	meridiem := "AM"
	if c.Hour() >= 12 {
		meridiem = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, c.Minute(), meridiem)
}

// On places the clock on the civil date of d, in d's location.
func (c Clock) On(d time.Time) time.Time {
	y, m, dd := d.Date()
	return time.Date(y, m, dd, c.Hour(), c.Minute(), c.Second(), 0, d.Location())
}

// Valid reports whether c lies within one day.
func (c Clock) Valid() bool {
	return c >= 0 && c < day
}

// TimesEqual reports whether two stored times denote the same slot. A match
// on either the 24-hour or the 12-hour rendering counts; values that cannot
// be parsed fall back to a case-insensitive comparison of the raw text.
func TimesEqual(a, b string) bool {
	ca, errA := Parse(a)
	cb, errB := Parse(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return ca.Format24() == cb.Format24() || ca.Format12() == cb.Format12()
}
