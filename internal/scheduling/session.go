package scheduling

import "github.com/noah-isme/tutoring-schedule-api/internal/models"

// NextSessionNumber returns the ordinal a new report with the given attendance
// will carry. history must hold the student's reports with a positive ordinal,
// most recent first. totalLessons <= 0 disables wraparound.
func NextSessionNumber(history []models.Report, attendance models.Attendance, totalLessons int) int {
	if attendance.NonIncrementing() {
		return 0
	}

	last := 0
	for _, r := range history {
		if r.Attendance.Incrementing() {
			last = r.SessionNumber
			break
		}
	}
	if last == 0 {
		return 1
	}

	next := last + 1
	if attendance == models.AttendanceTeacherLeave {
		next = last
	}
	if totalLessons > 0 && next > totalLessons {
		next = 1
	}
	if next < 1 {
		next = 1
	}
	return next
}
