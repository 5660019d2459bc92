package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceCategories(t *testing.T) {
	for _, a := range IncrementingAttendances {
		assert.True(t, a.Incrementing(), a)
		assert.False(t, a.NonIncrementing(), a)
		assert.True(t, a.Known(), a)
	}
	for _, a := range NonIncrementingAttendances {
		assert.False(t, a.Incrementing(), a)
		assert.True(t, a.NonIncrementing(), a)
	}

	assert.True(t, AttendanceTeacherLeave.Known())
	assert.False(t, AttendanceTeacherLeave.Incrementing())
	assert.False(t, Attendance("حضور جزئي").Known())
}

func TestAttendanceLabel(t *testing.T) {
	assert.Equal(t, "Present", AttendancePresent.Label())
	assert.Equal(t, "Teacher leave", AttendanceTeacherLeave.Label())
	assert.Equal(t, "other", Attendance("other").Label())
}
