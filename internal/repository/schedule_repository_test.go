package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

var scheduleCols = []string{"id", "student_id", "teacher_id", "lesson_duration", "schedule", "is_postponed", "postponed_date", "postponed_time", "owner_student_id", "created_at"}

func TestScheduleRepositoryListRecurringSkipsMalformedPayload(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleRepository(db, nil)
	now := time.Now()

	rows := sqlmock.NewRows(scheduleCols).
		AddRow(1, 10, 20, 45, []byte(`[{"day":"الاثنين","hour":"10:00"},{"day":"الخميس","hour":"5:00 PM","original":"الأربعاء 17:00"}]`), false, nil, nil, nil, now).
		AddRow(2, 10, 21, 60, []byte(`{"oops"`), false, nil, nil, nil, now)
	mock.ExpectQuery("FROM student_schedules\\s+WHERE student_id = \\$1 AND is_postponed = FALSE").
		WithArgs(int64(10)).
		WillReturnRows(rows)

	patterns, err := repo.ListRecurringByStudent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, int64(20), patterns[0].TeacherID)
	assert.Equal(t, 45, patterns[0].LessonDuration)
	require.Len(t, patterns[0].Slots, 2)
	assert.Equal(t, "5:00 PM", patterns[0].Slots[1].Hour)
	require.NotNil(t, patterns[0].Slots[1].Original)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListPostponedResolvesOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleRepository(db, nil)
	now := time.Now()

	rows := sqlmock.NewRows(scheduleCols).
		AddRow(1, 3, 20, 60, []byte(`{"real_student_id":9}`), true, "2024-01-12", "16:00:00", int64(5), now).
		AddRow(2, 3, 20, 60, []byte(`{"real_student_id":"7"}`), true, "2024-01-13", "16:00:00", nil, now).
		AddRow(3, 3, 20, 60, []byte(`{"real_student_id":8}`), true, "2024-01-14", "16:00:00", nil, now).
		AddRow(4, 3, 20, 45, nil, true, "2024-01-15", "16:00:00", nil, now).
		AddRow(5, 3, 20, 45, []byte(`{}`), true, nil, nil, nil, now)
	mock.ExpectQuery("schedule->>'real_student_id' = \\$2").
		WithArgs(int64(3), "3").
		WillReturnRows(rows)

	events, err := repo.ListPostponedForStudent(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, events, 4)

	owners := []int64{events[0].OwnerStudentID, events[1].OwnerStudentID, events[2].OwnerStudentID, events[3].OwnerStudentID}
	assert.Equal(t, []int64{5, 7, 8, 3}, owners)
	assert.Equal(t, int64(3), events[0].StoredStudentID)
	assert.Equal(t, "2024-01-12", events[0].Date)
	assert.Equal(t, "16:00:00", events[0].Time)
	assert.Equal(t, 45, events[3].LessonDuration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListPostponedByTeacher(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleRepository(db, nil)

	mock.ExpectQuery("teacher_id = \\$1 AND postponed_date >= \\$2").
		WithArgs(int64(20), "2024-01-10").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ListPostponedByTeacher(context.Background(), 20, "2024-01-10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list postponed events for teacher")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryExistsPostponed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleRepository(db, nil)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(3), int64(20), "2024-01-12", "16:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsPostponed(context.Background(), 3, 20, "2024-01-12", "16:00:00")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindLessonDuration(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleRepository(db, nil)

	mock.ExpectQuery("SELECT lesson_duration FROM student_schedules").
		WithArgs(int64(3), int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"lesson_duration"}).AddRow(30))
	mock.ExpectQuery("SELECT lesson_duration FROM student_schedules").
		WithArgs(int64(3), int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"lesson_duration"}))

	duration, found, err := repo.FindLessonDuration(context.Background(), 3, 20)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 30, duration)

	duration, found, err = repo.FindLessonDuration(context.Background(), 3, 21)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, duration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreatePostponed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleRepository(db, nil)
	created := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO student_schedules").
		WithArgs(int64(3), int64(20), 60, sqlmock.AnyArg(), "2024-01-12", "16:00:00", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(77, created))

	ev := &models.PostponedEvent{OwnerStudentID: 3, TeacherID: 20, Date: "2024-01-12", Time: "16:00:00", LessonDuration: 60}
	require.NoError(t, repo.CreatePostponed(context.Background(), ev))
	assert.Equal(t, int64(77), ev.ID)
	assert.Equal(t, int64(3), ev.StoredStudentID)
	assert.Equal(t, created, ev.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreatePostponedUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleRepository(db, nil)

	mock.ExpectQuery("INSERT INTO student_schedules").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.CreatePostponed(context.Background(), &models.PostponedEvent{OwnerStudentID: 3, TeacherID: 20, Date: "2024-01-12", Time: "16:00:00"})
	assert.ErrorIs(t, err, ErrDuplicatePostponed)

	mock.ExpectQuery("INSERT INTO student_schedules").
		WillReturnError(&pq.Error{Code: "23503"})
	err = repo.CreatePostponed(context.Background(), &models.PostponedEvent{OwnerStudentID: 3, TeacherID: 20, Date: "2024-01-12", Time: "16:00:00"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicatePostponed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
