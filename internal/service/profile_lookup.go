package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
)

type profileReader interface {
	FindUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, ids []int64) (map[int64]models.User, error)
	FindStudentSettings(ctx context.Context, studentID int64) (*models.StudentSettings, error)
}

// ReadOptions tune a cached read.
type ReadOptions struct {
	// BypassCache skips both the cache lookup and the cache write.
	BypassCache bool
}

func requireUser(ctx context.Context, profiles profileReader, id int64, label string) (*models.User, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, label+" id must be a positive integer")
	}
	user, err := profiles.FindUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, label+" not found")
		}
		return nil, appErrors.Storage(err, "failed to load "+label)
	}
	return user, nil
}

// studentSettings returns the student's settings, or zero settings when none are stored.
func studentSettings(ctx context.Context, profiles profileReader, studentID int64) (*models.StudentSettings, error) {
	settings, err := profiles.FindStudentSettings(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.StudentSettings{StudentID: studentID}, nil
		}
		return nil, appErrors.Storage(err, "failed to load student settings")
	}
	return settings, nil
}
