// Package weekday maps ISO day-of-week ordinals (Monday=1 ... Sunday=7) to
// the localized day names stored in lesson patterns and back.
package weekday

import (
	"strings"
	"time"
)

const (
	Monday    = 1
	Tuesday   = 2
	Wednesday = 3
	Thursday  = 4
	Friday    = 5
	Saturday  = 6
	Sunday    = 7
)

var arabicNames = [...]string{
	Monday:    "الاثنين",
	Tuesday:   "الثلاثاء",
	Wednesday: "الأربعاء",
	Thursday:  "الخميس",
	Friday:    "الجمعة",
	Saturday:  "السبت",
	Sunday:    "الأحد",
}

var byName = func() map[string]int {
	m := map[string]int{
		"monday":    Monday,
		"tuesday":   Tuesday,
		"wednesday": Wednesday,
		"thursday":  Thursday,
		"friday":    Friday,
		"saturday":  Saturday,
		"sunday":    Sunday,
		// common alternate spellings of hamza forms
		"الإثنين":  Monday,
		"الاربعاء": Wednesday,
		"الاحد":    Sunday,
	}
	for ordinal := Monday; ordinal <= Sunday; ordinal++ {
		m[arabicNames[ordinal]] = ordinal
	}
	return m
}()

// Ordinal resolves a day name (Arabic or English, case-insensitive) to its
// ISO ordinal.
func Ordinal(name string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return 0, false
	}
	ordinal, ok := byName[key]
	return ordinal, ok
}

// Name returns the Arabic display name of an ISO ordinal.
func Name(ordinal int) (string, bool) {
	if !Valid(ordinal) {
		return "", false
	}
	return arabicNames[ordinal], true
}

// Valid reports whether ordinal is within 1..7.
func Valid(ordinal int) bool {
	return ordinal >= Monday && ordinal <= Sunday
}

// DayOffset is the number of days between Monday and the given ordinal.
func DayOffset(ordinal int) int {
	if ordinal == Sunday {
		return 6
	}
	return ordinal - 1
}

// FromTime converts a time.Weekday (Sunday=0) to an ISO ordinal.
func FromTime(d time.Weekday) int {
	if d == time.Sunday {
		return Sunday
	}
	return int(d)
}

// ToTime converts an ISO ordinal to a time.Weekday.
func ToTime(ordinal int) time.Weekday {
	if ordinal == Sunday {
		return time.Sunday
	}
	return time.Weekday(ordinal)
}

// NameOf returns the Arabic name of the weekday t falls on.
func NameOf(t time.Time) string {
	return arabicNames[FromTime(t.Weekday())]
}
