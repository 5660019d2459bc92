package scheduling

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

func pattern(slots ...models.PatternSlot) models.RecurringPattern {
	return models.RecurringPattern{ID: 11, StudentID: 1, TeacherID: 2, LessonDuration: 45, Slots: slots}
}

func dates(occ []models.Occurrence) []string {
	out := make([]string, 0, len(occ))
	for _, o := range occ {
		out = append(out, o.Date)
	}
	return out
}

func TestExpandSkipsPastAndCoversHorizon(t *testing.T) {
	e := newTestEngine()
	now := wednesdayNoon()

	monday := slices.Collect(e.Expand(pattern(models.PatternSlot{Day: "الاثنين", Hour: "10:00"}), now))
	assert.Equal(t, []string{"2024-01-15", "2024-01-22", "2024-01-29", "2024-02-05"}, dates(monday))

	// Wednesday 11:00 of the current week already passed, 13:00 has not.
	morning := slices.Collect(e.Expand(pattern(models.PatternSlot{Day: "الأربعاء", Hour: "11:00"}), now))
	assert.Equal(t, []string{"2024-01-17", "2024-01-24", "2024-01-31", "2024-02-07"}, dates(morning))
	afternoon := slices.Collect(e.Expand(pattern(models.PatternSlot{Day: "الأربعاء", Hour: "1:00 PM"}), now))
	assert.Equal(t, []string{"2024-01-10", "2024-01-17", "2024-01-24", "2024-01-31", "2024-02-07"}, dates(afternoon))
}

func TestExpandSundayUsesSixDayOffset(t *testing.T) {
	e := newTestEngine()
	occ := slices.Collect(e.Expand(pattern(models.PatternSlot{Day: "Sunday", Hour: "09:00"}), wednesdayNoon()))

	require.Len(t, occ, 5)
	assert.Equal(t, "2024-01-14", occ[0].Date)
	assert.Equal(t, time.Sunday, occ[0].StartsAt.Weekday())
	assert.Equal(t, "2024-02-11", occ[4].Date)
}

func TestExpandOccurrenceFields(t *testing.T) {
	e := newTestEngine()
	original := "الاثنين 09:00"
	occ := slices.Collect(e.Expand(pattern(models.PatternSlot{Day: "الاثنين", Hour: "10:30", Original: &original}), wednesdayNoon()))

	require.NotEmpty(t, occ)
	first := occ[0]
	assert.Equal(t, int64(11), first.ScheduleID)
	assert.Equal(t, int64(1), first.StudentID)
	assert.Equal(t, int64(2), first.TeacherID)
	assert.Equal(t, 45, first.LessonDuration)
	assert.Equal(t, models.OriginRecurring, first.Origin)
	assert.False(t, first.IsPostponed)
	assert.Equal(t, "10:30", first.Hour)
	assert.Equal(t, &original, first.Original)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), first.StartsAt)
	assert.Equal(t, time.Date(2024, 1, 15, 11, 15, 0, 0, time.UTC), first.EndsAt())
}

func TestExpandSkipsMalformedEntries(t *testing.T) {
	e := newTestEngine()
	p := pattern(
		models.PatternSlot{Day: "Funday", Hour: "10:00"},
		models.PatternSlot{Day: "الخميس", Hour: "25:99"},
		models.PatternSlot{Day: "الخميس", Hour: "17:00"},
	)

	occ := slices.Collect(e.Expand(p, wednesdayNoon()))
	require.Len(t, occ, 5)
	for _, o := range occ {
		assert.Equal(t, time.Thursday, o.StartsAt.Weekday())
	}
}

func TestExpandOnlyFutureAndOncePerWeek(t *testing.T) {
	e := newTestEngine()
	days := []string{"الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت", "الأحد"}
	for offset := 0; offset < 7*24; offset += 5 {
		now := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Hour)
		for _, day := range days {
			occ := slices.Collect(e.Expand(pattern(models.PatternSlot{Day: day, Hour: "08:15"}), now))
			seen := map[string]bool{}
			for _, o := range occ {
				assert.True(t, o.StartsAt.After(now))
				week := StartOfWeek(o.StartsAt, time.UTC).Format(dateLayout)
				assert.False(t, seen[week], "two occurrences in week %s", week)
				seen[week] = true
			}
			assert.GreaterOrEqual(t, len(occ), 4)
			assert.LessOrEqual(t, len(occ), 5)
		}
	}
}

func TestExpandIsRestartableAndStopsEarly(t *testing.T) {
	e := newTestEngine()
	seq := e.Expand(pattern(models.PatternSlot{Day: "الاثنين", Hour: "10:00"}), wednesdayNoon())

	assert.Equal(t, slices.Collect(seq), slices.Collect(seq))

	count := 0
	for range seq {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestPostponedOccurrence(t *testing.T) {
	e := newTestEngine()
	occ, err := e.PostponedOccurrence(models.PostponedEvent{
		ID: 5, OwnerStudentID: 1, StoredStudentID: 99, TeacherID: 2,
		Date: "2024-01-12", Time: "16:00:00", LessonDuration: 60,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), occ.StudentID)
	assert.Equal(t, models.OriginPostponed, occ.Origin)
	assert.True(t, occ.IsPostponed)
	assert.Equal(t, "الجمعة", occ.Day)
	assert.Equal(t, "4:00 PM", occ.Hour)
	require.NotNil(t, occ.PostponedDate)
	assert.Equal(t, "2024-01-12", *occ.PostponedDate)

	_, err = e.PostponedOccurrence(models.PostponedEvent{Date: "12/01/2024", Time: "16:00"})
	assert.Error(t, err)
	_, err = e.PostponedOccurrence(models.PostponedEvent{Date: "2024-01-12", Time: "later"})
	assert.Error(t, err)
}
