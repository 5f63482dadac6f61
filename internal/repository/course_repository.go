package repository

import (
	"context"
	"fmt"
	"time"

	"session-scheduler/internal/model"
	"session-scheduler/internal/repository/base"
)

// CourseStore supplies the per-course scheduling policy.
type CourseStore interface {
	GetCourse(ctx context.Context, id int64) (*model.Course, error)
}

type CourseRepository struct {
	db base.Querier
}

func NewCourseRepository(db base.Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

// GetCourse loads a course and maps its raw settings onto the typed policy.
func (r *CourseRepository) GetCourse(ctx context.Context, id int64) (*model.Course, error) {
	query := `SELECT id, name, settings, created_at FROM courses WHERE id = $1`

	var (
		course    model.Course
		settings  map[string]any
		createdAt time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&course.ID, &course.Name, &settings, &createdAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course by id: %w", err)
	}

	course.CreatedAt = createdAt
	course.Policy = model.PolicyFromSettings(settings)
	return &course, nil
}
