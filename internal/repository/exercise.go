package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fitlog/fitlog/internal/model"
)

// ExerciseFilter defines filters for listing exercise entries.
// From and To are inclusive calendar-date bounds; a nil bound is open.
// Limit <= 0 means unlimited.
type ExerciseFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// CreateExercise inserts a new exercise entry into the database.
// Entries are append-only; there is no update or delete surface.
func (r *Repository) CreateExercise(ctx context.Context, exercise *model.Exercise) error {
	query := `
		INSERT INTO exercises (id, user_id, description, duration, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		exercise.ID,
		exercise.UserID,
		exercise.Description,
		exercise.Duration,
		exercise.Date,
		exercise.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}

	return nil
}

// ListExercises retrieves a user's exercise entries matching the filter.
// Results are ordered ascending by date, then insertion time, then ID,
// so a limited listing always truncates the same way.
func (r *Repository) ListExercises(ctx context.Context, userID string, filter ExerciseFilter) ([]*model.Exercise, error) {
	query := `
		SELECT id, user_id, description, duration, date, created_at
		FROM exercises
		WHERE user_id = $1
	`
	args := []any{userID}
	argIndex := 2

	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	query += " ORDER BY date, created_at, id"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*model.Exercise
	for rows.Next() {
		var e model.Exercise
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Duration, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		exercises = append(exercises, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exercises: %w", err)
	}

	return exercises, nil
}
