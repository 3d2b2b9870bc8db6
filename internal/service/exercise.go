package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fitlog/fitlog/internal/metrics"
	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/repository"
)

// Service errors.
var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidDate         = errors.New("invalid date")
)

// ExerciseStore is the persistence surface the exercise log needs.
// Satisfied by *repository.Repository; tests substitute an in-memory fake.
type ExerciseStore interface {
	CreateExercise(ctx context.Context, exercise *model.Exercise) error
	ListExercises(ctx context.Context, userID string, filter repository.ExerciseFilter) ([]*model.Exercise, error)
}

// UserCache caches user lookups, the hot path shared by both exercise
// operations. A nil cache disables caching.
type UserCache interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
}

// ExerciseService handles exercise log logic.
type ExerciseService struct {
	store   ExerciseStore
	users   UserStore
	cache   UserCache
	metrics metrics.Recorder
}

// NewExerciseService creates a new ExerciseService.
// Pass a nil userCache to disable user lookup caching.
func NewExerciseService(store ExerciseStore, users UserStore, userCache UserCache, recorder metrics.Recorder) *ExerciseService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ExerciseService{
		store:   store,
		users:   users,
		cache:   userCache,
		metrics: recorder,
	}
}

// AppendEntryInput defines input for appending an exercise entry.
// Duration arrives already coerced to an integer at the HTTP boundary.
type AppendEntryInput struct {
	UserID      string
	Description string
	Duration    int
	Date        string
}

// AppendEntry records a new exercise entry for a user.
// The user existence check happens before the insert, so a missing user
// never leaves an orphaned entry behind. An empty date means today; an
// unparseable date is an error, never silently "now".
func (s *ExerciseService) AppendEntry(ctx context.Context, input AppendEntryInput) (*model.User, *model.Exercise, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, nil, ErrDescriptionRequired
	}

	date := model.Today()
	if input.Date != "" {
		var err error
		date, err = model.ParseDate(input.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %q", ErrInvalidDate, input.Date)
		}
	}

	user, err := s.lookupUser(ctx, input.UserID)
	if err != nil {
		return nil, nil, err
	}

	exercise := &model.Exercise{
		ID:          ulid.Make().String(),
		UserID:      user.ID,
		Description: description,
		Duration:    input.Duration,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.CreateExercise(ctx, exercise); err != nil {
		return nil, nil, fmt.Errorf("failed to append entry: %w", err)
	}

	s.metrics.IncExerciseAppended()

	return user, exercise, nil
}

// GetLogInput defines input for retrieving a user's exercise log.
type GetLogInput struct {
	UserID string
	From   string
	To     string
	Limit  int
}

// LogResult is a user's filtered, limited exercise log.
type LogResult struct {
	User    *model.User
	Entries []*model.Exercise
}

// GetLog retrieves a user's exercise log, filtered to the inclusive
// [from, to] date range and truncated to the first limit entries in
// ascending date order. Limit <= 0 means unlimited.
func (s *ExerciseService) GetLog(ctx context.Context, input GetLogInput) (*LogResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveLogQueryDuration(time.Since(start))
	}()

	user, err := s.lookupUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	filter := repository.ExerciseFilter{Limit: input.Limit}

	if input.From != "" {
		from, err := model.ParseDate(input.From)
		if err != nil {
			return nil, fmt.Errorf("%w: from %q", ErrInvalidDate, input.From)
		}
		filter.From = &from
	}

	if input.To != "" {
		to, err := model.ParseDate(input.To)
		if err != nil {
			return nil, fmt.Errorf("%w: to %q", ErrInvalidDate, input.To)
		}
		filter.To = &to
	}

	entries, err := s.store.ListExercises(ctx, user.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch log: %w", err)
	}

	s.metrics.IncLogQuery()

	return &LogResult{
		User:    user,
		Entries: entries,
	}, nil
}

// lookupUser resolves a user by ID, cache-first.
func (s *ExerciseService) lookupUser(ctx context.Context, id string) (*model.User, error) {
	if s.cache != nil {
		user, err := s.cache.GetUser(ctx, id)
		if err == nil {
			s.metrics.IncUserCacheHit()
			return user, nil
		}
		// Any cache failure falls through to the store
		s.metrics.IncUserCacheMiss()
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if s.cache != nil {
		// Best effort - a failed cache write never fails the request
		_ = s.cache.SetUser(ctx, user)
	}

	return user, nil
}
