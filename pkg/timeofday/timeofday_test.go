package timeofday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormats(t *testing.T) {
	cases := map[string]string{
		"17:00":       "17:00:00",
		"9:05":        "09:05:00",
		"17:00:30":    "17:00:30",
		"5:00 PM":     "17:00:00",
		"5:00 pm":     "17:00:00",
		"5:00PM":      "17:00:00",
		"12:15 AM":    "00:15:00",
		"12:15 PM":    "12:15:00",
		"5:00 م":      "17:00:00",
		"9:30 ص":      "09:30:00",
		" 10:45:00 ":  "10:45:00",
		"11:00:00 AM": "11:00:00",
	}
	for raw, want := range cases {
		got, err := Normalize(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "noon", "25:00", "5 PM"} {
		_, err := Parse(raw)
		assert.Error(t, err, raw)
	}
}

func TestRenderings(t *testing.T) {
	c := MustParse("17:05")
	assert.Equal(t, "17:05", c.Format24())
	assert.Equal(t, "5:05 PM", c.Format12())
	assert.Equal(t, "12:00 AM", MustParse("00:00").Format12())
	assert.Equal(t, "12:30 PM", MustParse("12:30").Format12())
}

func TestTimesEqual(t *testing.T) {
	assert.True(t, TimesEqual("17:00:00", "5:00 PM"))
	assert.True(t, TimesEqual("17:00", "17:00:45"))
	assert.True(t, TimesEqual("9:00 ص", "09:00"))
	assert.False(t, TimesEqual("17:00", "5:00 AM"))
	assert.False(t, TimesEqual("17:00", "17:30"))
	assert.True(t, TimesEqual("after maghrib", "AFTER MAGHRIB"))
	assert.False(t, TimesEqual("after maghrib", "17:00"))
}

func TestOn(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Cairo")
	require.NoError(t, err)
	d := time.Date(2025, 3, 10, 23, 59, 0, 0, loc)

	got := MustParse("5:30 PM").On(d)

	assert.Equal(t, time.Date(2025, 3, 10, 17, 30, 0, 0, loc), got)
	assert.Equal(t, MustParse("17:30"), FromTime(got))
}

func TestParseEnd(t *testing.T) {
	for _, raw := range []string{"24:00", "24:00:00", "00:00", "12:00 AM"} {
		c, err := ParseEnd(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, EndOfDay, c, raw)
	}
	assert.Equal(t, "24:00:00", EndOfDay.String())
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), EndOfDay.On(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)))

	c, err := ParseEnd("17:30")
	require.NoError(t, err)
	assert.Equal(t, MustParse("17:30"), c)

	_, err = ParseEnd("late")
	assert.Error(t, err)
}
