package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

// ErrDuplicatePostponed is returned when the unique index on postponed events rejects an insert.
var ErrDuplicatePostponed = errors.New("postponed event already exists")

const uniqueViolation = "23505"

const scheduleColumns = `id, student_id, teacher_id, lesson_duration, schedule, is_postponed,
	to_char(postponed_date, 'YYYY-MM-DD') AS postponed_date, postponed_time, owner_student_id, created_at`

// ScheduleRepository reads and writes student_schedules.
type ScheduleRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB, logger *zap.Logger) *ScheduleRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleRepository{db: db, logger: logger}
}

// ListRecurringByStudent returns the weekly patterns of a student. Rows whose
// pattern payload cannot be decoded are logged and skipped.
func (r *ScheduleRepository) ListRecurringByStudent(ctx context.Context, studentID int64) ([]models.RecurringPattern, error) {
	query := `SELECT ` + scheduleColumns + ` FROM student_schedules
		WHERE student_id = $1 AND is_postponed = FALSE ORDER BY id`
	var rows []models.StudentScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list recurring schedules: %w", err)
	}

	patterns := make([]models.RecurringPattern, 0, len(rows))
	for _, row := range rows {
		var slots []models.PatternSlot
		if err := row.Schedule.Unmarshal(&slots); err != nil {
			r.logger.Warn("skip malformed schedule payload", zap.Int64("schedule_id", row.ID), zap.Error(err))
			continue
		}
		patterns = append(patterns, models.RecurringPattern{
			ID:             row.ID,
			StudentID:      row.StudentID,
			TeacherID:      row.TeacherID,
			LessonDuration: row.LessonDuration,
			Slots:          slots,
		})
	}
	return patterns, nil
}

// ListPostponedForStudent returns postponed events that may belong to the
// student, either directly or through a legacy owner override.
func (r *ScheduleRepository) ListPostponedForStudent(ctx context.Context, studentID int64) ([]models.PostponedEvent, error) {
	query := `SELECT ` + scheduleColumns + ` FROM student_schedules
		WHERE is_postponed = TRUE
		  AND (owner_student_id = $1 OR student_id = $1 OR schedule->>'real_student_id' = $2)
		ORDER BY postponed_date, postponed_time, id`
	var rows []models.StudentScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID, strconv.FormatInt(studentID, 10)); err != nil {
		return nil, fmt.Errorf("list postponed events for student: %w", err)
	}
	return r.toPostponed(rows), nil
}

// ListPostponedByTeacher returns the teacher's postponed events dated on or after from.
func (r *ScheduleRepository) ListPostponedByTeacher(ctx context.Context, teacherID int64, from string) ([]models.PostponedEvent, error) {
	query := `SELECT ` + scheduleColumns + ` FROM student_schedules
		WHERE is_postponed = TRUE AND teacher_id = $1 AND postponed_date >= $2
		ORDER BY postponed_date, postponed_time, id`
	var rows []models.StudentScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, teacherID, from); err != nil {
		return nil, fmt.Errorf("list postponed events for teacher: %w", err)
	}
	return r.toPostponed(rows), nil
}

// ExistsPostponed reports whether a postponed event already occupies the tuple.
func (r *ScheduleRepository) ExistsPostponed(ctx context.Context, studentID, teacherID int64, date, clock string) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM student_schedules
		WHERE is_postponed = TRUE
		  AND COALESCE(owner_student_id, student_id) = $1
		  AND teacher_id = $2 AND postponed_date = $3 AND postponed_time = $4)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, teacherID, date, clock); err != nil {
		return false, fmt.Errorf("check postponed event: %w", err)
	}
	return exists, nil
}

// FindLessonDuration returns the lesson duration of the pair's recurring
// pattern. The boolean is false when the pair has no pattern.
func (r *ScheduleRepository) FindLessonDuration(ctx context.Context, studentID, teacherID int64) (int, bool, error) {
	const query = `SELECT lesson_duration FROM student_schedules
		WHERE student_id = $1 AND teacher_id = $2 AND is_postponed = FALSE
		ORDER BY id LIMIT 1`
	var duration int
	if err := r.db.GetContext(ctx, &duration, query, studentID, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find lesson duration: %w", err)
	}
	return duration, true, nil
}

type postponedInsert struct {
	StudentID      int64          `db:"student_id"`
	TeacherID      int64          `db:"teacher_id"`
	LessonDuration int            `db:"lesson_duration"`
	Schedule       types.JSONText `db:"schedule"`
	PostponedDate  string         `db:"postponed_date"`
	PostponedTime  string         `db:"postponed_time"`
	OwnerStudentID int64          `db:"owner_student_id"`
}

// CreatePostponed inserts a postponed event and fills its ID and CreatedAt.
func (r *ScheduleRepository) CreatePostponed(ctx context.Context, ev *models.PostponedEvent) error {
	payload, err := json.Marshal(map[string]int64{"real_student_id": ev.OwnerStudentID})
	if err != nil {
		return fmt.Errorf("marshal postponed payload: %w", err)
	}
	if ev.StoredStudentID == 0 {
		ev.StoredStudentID = ev.OwnerStudentID
	}

	const query = `INSERT INTO student_schedules
		(student_id, teacher_id, lesson_duration, schedule, is_postponed, postponed_date, postponed_time, owner_student_id, is_recurring)
		VALUES (:student_id, :teacher_id, :lesson_duration, :schedule, TRUE, :postponed_date, :postponed_time, :owner_student_id, FALSE)
		RETURNING id, created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, postponedInsert{
		StudentID:      ev.StoredStudentID,
		TeacherID:      ev.TeacherID,
		LessonDuration: ev.LessonDuration,
		Schedule:       types.JSONText(payload),
		PostponedDate:  ev.Date,
		PostponedTime:  ev.Time,
		OwnerStudentID: ev.OwnerStudentID,
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicatePostponed
		}
		return fmt.Errorf("insert postponed event: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&ev.ID, &ev.CreatedAt); err != nil {
			return fmt.Errorf("scan postponed event id: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("insert postponed event: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) toPostponed(rows []models.StudentScheduleRow) []models.PostponedEvent {
	events := make([]models.PostponedEvent, 0, len(rows))
	for _, row := range rows {
		if row.PostponedDate == nil || row.PostponedTime == nil {
			r.logger.Warn("skip postponed event without target", zap.Int64("schedule_id", row.ID))
			continue
		}
		events = append(events, models.PostponedEvent{
			ID:              row.ID,
			StoredStudentID: row.StudentID,
			OwnerStudentID:  resolveOwner(row),
			TeacherID:       row.TeacherID,
			Date:            *row.PostponedDate,
			Time:            *row.PostponedTime,
			LessonDuration:  row.LessonDuration,
			CreatedAt:       row.CreatedAt,
		})
	}
	return events
}

// resolveOwner picks the explicit owner column, then the legacy
// real_student_id payload, then the stored student id.
func resolveOwner(row models.StudentScheduleRow) int64 {
	if row.OwnerStudentID != nil && *row.OwnerStudentID > 0 {
		return *row.OwnerStudentID
	}
	var payload struct {
		RealStudentID json.Number `json:"real_student_id"`
	}
	if len(row.Schedule) > 0 && row.Schedule.Unmarshal(&payload) == nil {
		if id, err := strconv.ParseInt(payload.RealStudentID.String(), 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return row.StudentID
}
