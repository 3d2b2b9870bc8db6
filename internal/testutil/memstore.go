package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/repository"
)

// MemStore is an in-memory stand-in for the database repository.
// It satisfies the service layer's UserStore and ExerciseStore
// interfaces and mirrors the repository's filter and ordering rules:
// exercises come back ascending by date, then insertion time, then ID.
type MemStore struct {
	mu        sync.Mutex
	users     []*model.User
	exercises []*model.Exercise

	// FailWrites makes every write return ErrStoreDown, for testing
	// the 500 path.
	FailWrites bool
	// FailReads does the same for reads.
	FailReads bool
}

// ErrStoreDown simulates an unreachable database.
var ErrStoreDown = errStoreDown{}

type errStoreDown struct{}

func (errStoreDown) Error() string { return "store unavailable" }

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// CreateUser stores a copy of the user.
func (m *MemStore) CreateUser(_ context.Context, user *model.User) error {
	if m.FailWrites {
		return ErrStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users = append(m.users, &u)
	return nil
}

// GetUserByID returns the stored user or repository.ErrUserNotFound.
func (m *MemStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if m.FailReads {
		return nil, ErrStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// ListUsers returns all users in insertion order.
func (m *MemStore) ListUsers(_ context.Context) ([]*model.User, error) {
	if m.FailReads {
		return nil, ErrStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.User, 0, len(m.users))
	for _, u := range m.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

// CreateExercise stores a copy of the exercise entry.
func (m *MemStore) CreateExercise(_ context.Context, exercise *model.Exercise) error {
	if m.FailWrites {
		return ErrStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := *exercise
	m.exercises = append(m.exercises, &e)
	return nil
}

// ListExercises applies the same filter, order, and limit semantics as
// the SQL repository.
func (m *MemStore) ListExercises(_ context.Context, userID string, filter repository.ExerciseFilter) ([]*model.Exercise, error) {
	if m.FailReads {
		return nil, ErrStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*model.Exercise
	for _, e := range m.exercises {
		if e.UserID != userID {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

// ExerciseCount reports how many entries are stored for a user,
// bypassing filters. Used to assert that failed appends persist nothing.
func (m *MemStore) ExerciseCount(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.exercises {
		if e.UserID == userID {
			n++
		}
	}
	return n
}
