package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fitlog/fitlog/internal/metrics"
	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/testutil"
)

// memUserCache is an in-process UserCache for tests.
type memUserCache struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUserCache() *memUserCache {
	return &memUserCache{users: make(map[string]*model.User)}
}

func (c *memUserCache) GetUser(_ context.Context, id string) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u, ok := c.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, errors.New("cache miss")
}

func (c *memUserCache) SetUser(_ context.Context, user *model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *user
	c.users[user.ID] = &copied
	return nil
}

func newTestServices(t *testing.T) (*testutil.MemStore, *UserService, *ExerciseService) {
	t.Helper()
	store := testutil.NewMemStore()
	users := NewUserService(store, nil)
	exercises := NewExerciseService(store, store, nil, nil)
	return store, users, exercises
}

func mustRegister(t *testing.T, users *UserService, username string) *model.User {
	t.Helper()
	user, err := users.Register(context.Background(), username)
	if err != nil {
		t.Fatalf("Register(%q) failed: %v", username, err)
	}
	return user
}

func mustAppend(t *testing.T, svc *ExerciseService, userID, description string, duration int, date string) *model.Exercise {
	t.Helper()
	_, exercise, err := svc.AppendEntry(context.Background(), AppendEntryInput{
		UserID:      userID,
		Description: description,
		Duration:    duration,
		Date:        date,
	})
	if err != nil {
		t.Fatalf("AppendEntry(%q) failed: %v", description, err)
	}
	return exercise
}

func TestExerciseService_AppendEntry(t *testing.T) {
	_, users, svc := newTestServices(t)
	user := mustRegister(t, users, "alice")

	gotUser, exercise, err := svc.AppendEntry(context.Background(), AppendEntryInput{
		UserID:      user.ID,
		Description: "run",
		Duration:    30,
		Date:        "2023-03-05",
	})
	if err != nil {
		t.Fatalf("AppendEntry() unexpected error: %v", err)
	}

	if gotUser.Username != "alice" {
		t.Errorf("Username = %q, want %q", gotUser.Username, "alice")
	}
	if exercise.Description != "run" {
		t.Errorf("Description = %q, want %q", exercise.Description, "run")
	}
	if exercise.Duration != 30 {
		t.Errorf("Duration = %d, want 30", exercise.Duration)
	}
	if got := exercise.DateString(); got != "Sun Mar 05 2023" {
		t.Errorf("DateString() = %q, want %q", got, "Sun Mar 05 2023")
	}
	if exercise.ID == "" {
		t.Error("expected non-empty exercise ID")
	}
}

func TestExerciseService_AppendEntry_DefaultsToToday(t *testing.T) {
	_, users, svc := newTestServices(t)
	user := mustRegister(t, users, "alice")

	exercise := mustAppend(t, svc, user.ID, "swim", 20, "")

	today := model.Today()
	if !exercise.Date.Equal(today) {
		t.Errorf("Date = %v, want today %v", exercise.Date, today)
	}
	if got, want := exercise.DateString(), time.Now().Format("Mon Jan 02 2006"); got != want {
		t.Errorf("DateString() = %q, want %q", got, want)
	}
}

func TestExerciseService_AppendEntry_UserNotFound(t *testing.T) {
	store, _, svc := newTestServices(t)

	_, _, err := svc.AppendEntry(context.Background(), AppendEntryInput{
		UserID:      "missing",
		Description: "run",
		Duration:    30,
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}

	// The existence check runs before the write, so nothing may persist
	if n := store.ExerciseCount("missing"); n != 0 {
		t.Errorf("orphaned entries persisted for missing user: %d", n)
	}
}

func TestExerciseService_AppendEntry_Validation(t *testing.T) {
	_, users, svc := newTestServices(t)
	user := mustRegister(t, users, "alice")

	tests := []struct {
		name    string
		input   AppendEntryInput
		wantErr error
	}{
		{
			name:    "empty description",
			input:   AppendEntryInput{UserID: user.ID, Description: "", Duration: 10},
			wantErr: ErrDescriptionRequired,
		},
		{
			name:    "whitespace description",
			input:   AppendEntryInput{UserID: user.ID, Description: "  ", Duration: 10},
			wantErr: ErrDescriptionRequired,
		},
		{
			name:    "unparseable date",
			input:   AppendEntryInput{UserID: user.ID, Description: "run", Duration: 10, Date: "next tuesday"},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.AppendEntry(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AppendEntry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExerciseService_GetLog_DateRange(t *testing.T) {
	_, users, svc := newTestServices(t)
	user := mustRegister(t, users, "alice")

	mustAppend(t, svc, user.ID, "january run", 30, "2020-01-15")
	mustAppend(t, svc, user.ID, "february run", 45, "2020-02-01")

	result, err := svc.GetLog(context.Background(), GetLogInput{
		UserID: user.ID,
		From:   "2020-01-01",
		To:     "2020-01-31",
	})
	if err != nil {
		t.Fatalf("GetLog() unexpected error: %v", err)
	}

	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	if result.Entries[0].Description != "january run" {
		t.Errorf("Description = %q, want %q", result.Entries[0].Description, "january run")
	}
}

func TestExerciseService_GetLog_InclusiveBounds(t *testing.T) {
	_, users, svc := newTestServices(t)
	user := mustRegister(t, users, "alice")

	mustAppend(t, svc, user.ID, "on from", 10, "2020-01-01")
	mustAppend(t, svc, user.ID, "on to", 10, "2020-01-31")
	mustAppend(t, svc, user.ID, "outside", 10, "2020-02-01")

	result, err := svc.GetLog(context.Background(), GetLogInput{
		UserID: user.ID,
		From:   "2020-01-01",
		To:     "2020-01-31",
	})
	if err != nil {
		t.Fatalf("GetLog() unexpected error: %v", err)
	}

	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries (bounds inclusive), got %d", len(result.Entries))
	}
}

func TestExerciseService_GetLog_Limit(t *testing.T) {
	_, users, svc := newTestServices(t)
	user := mustRegister(t, users, "alice")

	mustAppend(t, svc, user.ID, "first", 10, "2023-01-01")
	mustAppend(t, svc, user.ID, "second", 20, "2023-01-02")
	mustAppend(t, svc, user.ID, "third", 30, "2023-01-03")

	result, err := svc.GetLog(context.Background(), GetLogInput{UserID: user.ID, Limit: 1})
	if err != nil {
		t.Fatalf("GetLog() unexpected error: %v", err)
	}

	if len(result.Entries) != 1 {
		t.Fatalf("expected exactly 1 entry, got %d", len(result.Entries))
	}
	// Ascending date order means the earliest entry survives the cut
	if result.Entries[0].Description != "first" {
		t.Errorf("Description = %q, want %q", result.Entries[0].Description, "first")
	}
}

func TestExerciseService_GetLog_AscendingDateOrder(t *testing.T) {
	_, users, svc := newTestServices(t)
	user := mustRegister(t, users, "alice")

	// Inserted out of order
	mustAppend(t, svc, user.ID, "third", 10, "2023-01-03")
	mustAppend(t, svc, user.ID, "first", 10, "2023-01-01")
	mustAppend(t, svc, user.ID, "second", 10, "2023-01-02")

	result, err := svc.GetLog(context.Background(), GetLogInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("GetLog() unexpected error: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(result.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(result.Entries))
	}
	for i, desc := range want {
		if result.Entries[i].Description != desc {
			t.Errorf("entry %d = %q, want %q", i, result.Entries[i].Description, desc)
		}
	}
}

func TestExerciseService_GetLog_NonPositiveLimitIsUnlimited(t *testing.T) {
	_, users, svc := newTestServices(t)
	user := mustRegister(t, users, "alice")

	mustAppend(t, svc, user.ID, "a", 10, "2023-01-01")
	mustAppend(t, svc, user.ID, "b", 10, "2023-01-02")

	for _, limit := range []int{0, -5} {
		result, err := svc.GetLog(context.Background(), GetLogInput{UserID: user.ID, Limit: limit})
		if err != nil {
			t.Fatalf("GetLog(limit=%d) unexpected error: %v", limit, err)
		}
		if len(result.Entries) != 2 {
			t.Errorf("GetLog(limit=%d) returned %d entries, want 2", limit, len(result.Entries))
		}
	}
}

func TestExerciseService_GetLog_UserNotFound(t *testing.T) {
	_, _, svc := newTestServices(t)

	_, err := svc.GetLog(context.Background(), GetLogInput{UserID: "missing"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}

func TestExerciseService_GetLog_BadBounds(t *testing.T) {
	_, users, svc := newTestServices(t)
	user := mustRegister(t, users, "alice")

	tests := []struct {
		name  string
		input GetLogInput
	}{
		{"bad from", GetLogInput{UserID: user.ID, From: "yesterday"}},
		{"bad to", GetLogInput{UserID: user.ID, To: "2020/01/01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetLog(context.Background(), tt.input)
			if !errors.Is(err, ErrInvalidDate) {
				t.Errorf("GetLog() error = %v, want ErrInvalidDate", err)
			}
		})
	}
}

func TestExerciseService_DuplicateEntriesAllowed(t *testing.T) {
	_, users, svc := newTestServices(t)
	user := mustRegister(t, users, "alice")

	mustAppend(t, svc, user.ID, "pushups", 5, "2023-06-01")
	mustAppend(t, svc, user.ID, "pushups", 5, "2023-06-01")

	result, err := svc.GetLog(context.Background(), GetLogInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("GetLog() unexpected error: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Errorf("expected duplicate entries to both persist, got %d", len(result.Entries))
	}
}

func TestExerciseService_UserCache(t *testing.T) {
	store := testutil.NewMemStore()
	users := NewUserService(store, nil)
	userCache := newMemUserCache()
	recorder := metrics.NewInMemory()
	svc := NewExerciseService(store, store, userCache, recorder)

	user := mustRegister(t, users, "alice")

	// First lookup misses and populates the cache
	mustAppend(t, svc, user.ID, "run", 10, "2023-01-01")
	// Second lookup should hit
	mustAppend(t, svc, user.ID, "swim", 15, "2023-01-02")

	snap := recorder.Snapshot()
	if snap.UserCacheMisses != 1 {
		t.Errorf("UserCacheMisses = %d, want 1", snap.UserCacheMisses)
	}
	if snap.UserCacheHits != 1 {
		t.Errorf("UserCacheHits = %d, want 1", snap.UserCacheHits)
	}
}
