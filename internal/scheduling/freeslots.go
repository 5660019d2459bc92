package scheduling

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/pkg/interval"
	"github.com/noah-isme/tutoring-schedule-api/pkg/timeofday"
	"github.com/noah-isme/tutoring-schedule-api/pkg/weekday"
)

// anchorSunday is the Sunday onto which weekly windows are laid out so that
// wall-clock times of the same weekday compare on one fixed day.
var anchorSunday = time.Date(2000, time.January, 2, 0, 0, 0, 0, time.UTC)

// FreeSlotInputs is everything a free-slot resolution reads for one teacher.
type FreeSlotInputs struct {
	Windows   []models.FreeWindow
	Postponed []models.PostponedEvent
	Reports   []models.Report
	// LessonDuration in minutes; windows and parts shorter than it are
	// dropped. Zero disables the filter.
	LessonDuration int
}

type busySlot struct {
	day  time.Weekday
	span interval.Interval
}

// SplitFreeSlots subtracts the teacher's active postponed lessons from each
// weekly free window. Part ids are stable for unchanged data.
func (e *Engine) SplitFreeSlots(in FreeSlotInputs, now time.Time) []models.AvailableSlotPart {
	busy := e.busySlots(in.Postponed, in.Reports, now)

	windows := slices.Clone(in.Windows)
	slices.SortStableFunc(windows, func(a, b models.FreeWindow) int {
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek - b.DayOfWeek
		}
		if c := compareClock(a.StartTime, b.StartTime); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})

	parts := make([]models.AvailableSlotPart, 0, len(windows))
	for _, w := range windows {
		if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
			e.logger.Warn("skip free window with invalid weekday", zap.Int64("window_id", w.ID), zap.Int("day_of_week", w.DayOfWeek))
			continue
		}
		day := time.Weekday(w.DayOfWeek)
		span, err := windowSpan(day, w.StartTime, w.EndTime)
		if err != nil {
			e.logger.Warn("skip malformed free window", zap.Int64("window_id", w.ID), zap.Error(err))
			continue
		}
		if in.LessonDuration > 0 && interval.DurationMinutes(span) < in.LessonDuration {
			continue
		}

		var cuts []interval.Interval
		for _, b := range busy {
			if b.day == day && interval.Overlaps(span, b.span) {
				cuts = append(cuts, b.span)
			}
		}

		for idx, piece := range interval.Subtract(span, cuts...) {
			minutes := interval.DurationMinutes(piece)
			if minutes < e.minSlotMinutes {
				continue
			}
			if in.LessonDuration > 0 && minutes < in.LessonDuration {
				continue
			}
			parts = append(parts, models.AvailableSlotPart{
				ID:              fmt.Sprintf("%d_part_%d", w.ID, idx),
				WindowID:        w.ID,
				PartIndex:       idx,
				TeacherID:       w.TeacherID,
				DayOfWeek:       w.DayOfWeek,
				DayName:         dayName(day),
				StartTime:       piece.Start.Format("15:04:05"),
				EndTime:         piece.End.Format("15:04:05"),
				DurationMinutes: minutes,
			})
		}
	}
	return parts
}

// busySlots maps active postponed lessons onto the anchor week.
func (e *Engine) busySlots(events []models.PostponedEvent, reports []models.Report, now time.Time) []busySlot {
	out := make([]busySlot, 0, len(events))
	for _, ev := range events {
		occ, err := e.PostponedOccurrence(ev)
		if err != nil {
			e.logger.Warn("skip malformed postponed event", zap.Int64("schedule_id", ev.ID), zap.Error(err))
			continue
		}
		if !occ.StartsAt.After(now) || teacherReported(ev, reports) {
			continue
		}
		day := occ.StartsAt.Weekday()
		start := timeofday.FromTime(occ.StartsAt).On(anchorFor(day))
		// Lessons crossing midnight also occupy the start of the next weekday.
		remaining := time.Duration(ev.LessonDuration) * time.Minute
		for remaining > 0 {
			end := start.Add(remaining)
			if dayEnd := anchorFor(day).AddDate(0, 0, 1); end.After(dayEnd) {
				end = dayEnd
			}
			out = append(out, busySlot{day: day, span: interval.New(start, end)})
			remaining -= end.Sub(start)
			day = (day + 1) % 7
			start = anchorFor(day)
		}
	}
	return out
}

func teacherReported(ev models.PostponedEvent, reports []models.Report) bool {
	for _, r := range reports {
		if r.TeacherID == ev.TeacherID && r.Date == ev.Date && timeofday.TimesEqual(r.Time, ev.Time) {
			return true
		}
	}
	return false
}

func windowSpan(day time.Weekday, startRaw, endRaw string) (interval.Interval, error) {
	start, err := timeofday.Parse(startRaw)
	if err != nil {
		return interval.Interval{}, err
	}
	end, err := timeofday.ParseEnd(endRaw)
	if err != nil {
		return interval.Interval{}, err
	}
	anchor := anchorFor(day)
	span := interval.New(start.On(anchor), end.On(anchor))
	if span.Empty() {
		return interval.Interval{}, fmt.Errorf("window ends at %s before it starts at %s", end, start)
	}
	return span, nil
}

func anchorFor(day time.Weekday) time.Time {
	return anchorSunday.AddDate(0, 0, int(day))
}

func dayName(day time.Weekday) string {
	name, _ := weekday.Name(weekday.FromTime(day))
	return name
}

func compareClock(a, b string) int {
	ca, errA := timeofday.Parse(a)
	cb, errB := timeofday.Parse(b)
	if errA != nil || errB != nil {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	return int(ca) - int(cb)
}
