package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

const reportSelect = `SELECT r.id, r.student_id, r.teacher_id, COALESCE(u.display_name, '') AS teacher_name,
	to_char(r.date, 'YYYY-MM-DD') AS date, r.time, r.attendance, r.session_number, r.lesson_duration,
	r.evaluation, r.grade, r.tasmii, r.tahfiz, r.mourajah, r.next_tasmii, r.next_mourajah, r.notes,
	r.zoom_image_url, r.is_postponed, r.created_at
	FROM student_reports r
	LEFT JOIN users u ON u.id = r.teacher_id`

// ReportRepository reads and appends session reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ListByStudent returns every report of a student, newest first.
func (r *ReportRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Report, error) {
	query := reportSelect + ` WHERE r.student_id = $1 ORDER BY r.date DESC, r.time DESC, r.id DESC`
	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query, studentID); err != nil {
		return nil, fmt.Errorf("list reports by student: %w", err)
	}
	return reports, nil
}

// ListSessionHistory returns the numbered reports of a student, newest first.
func (r *ReportRepository) ListSessionHistory(ctx context.Context, studentID int64) ([]models.Report, error) {
	query := reportSelect + ` WHERE r.student_id = $1 AND r.session_number > 0 ORDER BY r.date DESC, r.time DESC, r.id DESC`
	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query, studentID); err != nil {
		return nil, fmt.Errorf("list session history: %w", err)
	}
	return reports, nil
}

// ListByTeacherSince returns the teacher's reports dated on or after from.
func (r *ReportRepository) ListByTeacherSince(ctx context.Context, teacherID int64, from string) ([]models.Report, error) {
	query := reportSelect + ` WHERE r.teacher_id = $1 AND r.date >= $2 ORDER BY r.date, r.time`
	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query, teacherID, from); err != nil {
		return nil, fmt.Errorf("list reports by teacher: %w", err)
	}
	return reports, nil
}

// List returns a page of a student's reports and the total count.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM student_reports WHERE student_id = $1`, filter.StudentID); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	query := reportSelect + ` WHERE r.student_id = $1 ORDER BY r.date DESC, r.time DESC, r.id DESC LIMIT $2 OFFSET $3`
	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query, filter.StudentID, size, (page-1)*size); err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	return reports, total, nil
}

// Create appends a report and fills its ID and CreatedAt.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	const query = `INSERT INTO student_reports
		(student_id, teacher_id, date, time, attendance, session_number, lesson_duration, evaluation, grade,
		 tasmii, tahfiz, mourajah, next_tasmii, next_mourajah, notes, zoom_image_url, is_postponed)
		VALUES (:student_id, :teacher_id, :date, :time, :attendance, :session_number, :lesson_duration, :evaluation, :grade,
		 :tasmii, :tahfiz, :mourajah, :next_tasmii, :next_mourajah, :notes, :zoom_image_url, :is_postponed)
		RETURNING id, created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, report)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&report.ID, &report.CreatedAt); err != nil {
			return fmt.Errorf("scan report id: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}
