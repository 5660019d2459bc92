package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

// FreeSlotRepository reads teachers' weekly free windows.
type FreeSlotRepository struct {
	db *sqlx.DB
}

// NewFreeSlotRepository constructs the repository.
func NewFreeSlotRepository(db *sqlx.DB) *FreeSlotRepository {
	return &FreeSlotRepository{db: db}
}

// ListByTeacher returns the teacher's windows ordered by weekday and start.
func (r *FreeSlotRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]models.FreeWindow, error) {
	const query = `SELECT id, user_id, day_of_week, start_time, end_time FROM free_slots
		WHERE user_id = $1 ORDER BY day_of_week, start_time, id`
	var windows []models.FreeWindow
	if err := r.db.SelectContext(ctx, &windows, query, teacherID); err != nil {
		return nil, fmt.Errorf("list free slots: %w", err)
	}
	return windows, nil
}
