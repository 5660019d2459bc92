package scheduling

import (
	"iter"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/pkg/timeofday"
	"github.com/noah-isme/tutoring-schedule-api/pkg/weekday"
)

// Expand yields the concrete future occurrences of a weekly pattern. Weeks are
// walked from the Monday of now's week while that Monday is not after
// now+horizon; only instants strictly after now are yielded. The sequence is
// lazy and may be ranged over repeatedly.
func (e *Engine) Expand(pattern models.RecurringPattern, now time.Time) iter.Seq[models.Occurrence] {
	return func(yield func(models.Occurrence) bool) {
		monday := StartOfWeek(now, e.loc)
		weeks := weeksWithin(monday, now.Add(e.Horizon()))

		for _, slot := range pattern.Slots {
			ordinal, ok := weekday.Ordinal(slot.Day)
			if !ok {
				continue
			}
			clock, err := timeofday.Parse(slot.Hour)
			if err != nil {
				e.logger.Warn("skip malformed pattern hour",
					zap.Int64("schedule_id", pattern.ID),
					zap.String("hour", slot.Hour),
					zap.Error(err),
				)
				continue
			}

			first := clock.On(monday.AddDate(0, 0, weekday.DayOffset(ordinal)))
			rule, err := rrule.NewRRule(rrule.ROption{
				Freq:    rrule.WEEKLY,
				Count:   weeks,
				Dtstart: first,
			})
			if err != nil {
				e.logger.Warn("skip pattern slot", zap.Int64("schedule_id", pattern.ID), zap.Error(err))
				continue
			}

			next := rule.Iterator()
			for at, ok := next(); ok; at, ok = next() {
				if !at.After(now) {
					continue
				}
				if !yield(recurringOccurrence(pattern, slot, at)) {
					return
				}
			}
		}
	}
}

func weeksWithin(monday, limit time.Time) int {
	count := 0
	for m := monday; !m.After(limit); m = m.AddDate(0, 0, 7) {
		count++
	}
	return count
}

func recurringOccurrence(pattern models.RecurringPattern, slot models.PatternSlot, at time.Time) models.Occurrence {
	return models.Occurrence{
		ScheduleID:     pattern.ID,
		StudentID:      pattern.StudentID,
		TeacherID:      pattern.TeacherID,
		LessonDuration: pattern.LessonDuration,
		Origin:         models.OriginRecurring,
		Day:            slot.Day,
		Hour:           slot.Hour,
		Original:       slot.Original,
		Date:           at.Format(dateLayout),
		StartsAt:       at,
	}
}

// PostponedOccurrence projects a postponed event onto the timeline.
func (e *Engine) PostponedOccurrence(ev models.PostponedEvent) (models.Occurrence, error) {
	day, err := e.parseDate(ev.Date)
	if err != nil {
		return models.Occurrence{}, err
	}
	clock, err := timeofday.Parse(ev.Time)
	if err != nil {
		return models.Occurrence{}, err
	}
	at := clock.On(day)
	date := at.Format(dateLayout)
	return models.Occurrence{
		ScheduleID:     ev.ID,
		StudentID:      ev.OwnerStudentID,
		TeacherID:      ev.TeacherID,
		LessonDuration: ev.LessonDuration,
		Origin:         models.OriginPostponed,
		IsPostponed:    true,
		Day:            weekday.NameOf(at),
		Hour:           clock.Format12(),
		Date:           date,
		PostponedDate:  &date,
		StartsAt:       at,
	}, nil
}
