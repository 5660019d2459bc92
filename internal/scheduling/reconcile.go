package scheduling

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/pkg/timeofday"
)

// StudentInputs is everything a schedule resolution reads for one student.
type StudentInputs struct {
	StudentID int64
	Patterns  []models.RecurringPattern
	Postponed []models.PostponedEvent
	Reports   []models.Report
}

// ResolveStudentSchedule expands every pattern, drops the occurrences already
// covered by reports and appends the student's active postponed lessons. The
// result is ordered by start time.
func (e *Engine) ResolveStudentSchedule(in StudentInputs, now time.Time) []models.Occurrence {
	var recurring []models.Occurrence
	for _, p := range in.Patterns {
		for occ := range e.Expand(p, now) {
			recurring = append(recurring, occ)
		}
	}

	result := e.ReconcileRecurring(recurring, in.Reports, now)
	result = append(result, e.ReconcilePostponed(in.StudentID, in.Postponed, in.Reports, now)...)

	slices.SortStableFunc(result, func(a, b models.Occurrence) int {
		if c := a.StartsAt.Compare(b.StartsAt); c != 0 {
			return c
		}
		return int(a.ScheduleID - b.ScheduleID)
	})
	return result
}

// ReconcileRecurring removes recurring occurrences that a report dated in the
// current calendar week has already consumed.
func (e *Engine) ReconcileRecurring(occurrences []models.Occurrence, reports []models.Report, now time.Time) []models.Occurrence {
	weekStart := StartOfWeek(now, e.loc)
	weekEnd := weekStart.AddDate(0, 0, 7)

	current := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		day, err := e.parseDate(r.Date)
		if err != nil {
			e.logger.Warn("skip report with malformed date", zap.Int64("report_id", r.ID), zap.String("date", r.Date))
			continue
		}
		if !day.Before(weekStart) && day.Before(weekEnd) {
			current = append(current, r)
		}
	}

	out := make([]models.Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		if reported(occ.StudentID, occ.TeacherID, occ.Date, occ.Hour, current) {
			continue
		}
		out = append(out, occ)
	}
	return out
}

// ReconcilePostponed keeps the postponed events owned by studentID that are
// still in the future and have no report at their date and time.
func (e *Engine) ReconcilePostponed(studentID int64, events []models.PostponedEvent, reports []models.Report, now time.Time) []models.Occurrence {
	out := make([]models.Occurrence, 0, len(events))
	for _, ev := range events {
		if ev.OwnerStudentID != studentID {
			continue
		}
		occ, err := e.PostponedOccurrence(ev)
		if err != nil {
			e.logger.Warn("skip malformed postponed event", zap.Int64("schedule_id", ev.ID), zap.Error(err))
			continue
		}
		if !occ.StartsAt.After(now) {
			continue
		}
		if reported(ev.OwnerStudentID, ev.TeacherID, ev.Date, ev.Time, reports) {
			continue
		}
		out = append(out, occ)
	}
	return out
}

func reported(studentID, teacherID int64, date, hour string, reports []models.Report) bool {
	for _, r := range reports {
		if r.StudentID != studentID || r.TeacherID != teacherID {
			continue
		}
		if r.Date == date && timeofday.TimesEqual(r.Time, hour) {
			return true
		}
	}
	return false
}
