package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

// ProfileRepository looks up user profiles and per-student settings.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs the repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindUser returns the profile for id; a missing user yields an error wrapping sql.ErrNoRows.
func (r *ProfileRepository) FindUser(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT id, display_name, role FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// ListUsers returns the profiles of the given ids keyed by id.
func (r *ProfileRepository) ListUsers(ctx context.Context, ids []int64) (map[int64]models.User, error) {
	result := make(map[int64]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(`SELECT id, display_name, role FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build user lookup: %w", err)
	}
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// FindStudentSettings returns the engine settings of a student.
func (r *ProfileRepository) FindStudentSettings(ctx context.Context, studentID int64) (*models.StudentSettings, error) {
	const query = `SELECT student_id, teacher_id, lesson_duration, lessons_number, lesson_name
		FROM student_settings WHERE student_id = $1`
	var settings models.StudentSettings
	if err := r.db.GetContext(ctx, &settings, query, studentID); err != nil {
		return nil, fmt.Errorf("find student settings %d: %w", studentID, err)
	}
	return &settings, nil
}
