package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fitlog/fitlog/internal/handler/dto"
	"github.com/fitlog/fitlog/internal/service"
	"github.com/fitlog/fitlog/internal/testutil"
)

// newTestRouter wires real services over an in-memory store, the same
// shape main() builds in production.
func newTestRouter(t *testing.T) (*chi.Mux, *testutil.MemStore) {
	t.Helper()

	store := testutil.NewMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userSvc := service.NewUserService(store, nil)
	exerciseSvc := service.NewExerciseService(store, store, nil, nil)

	userHandler := NewUserHandler(userSvc, logger)
	exerciseHandler := NewExerciseHandler(exerciseSvc, logger)

	r := chi.NewRouter()
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Get("/", userHandler.List)
		r.Post("/{id}/exercises", exerciseHandler.Create)
		r.Get("/{id}/logs", exerciseHandler.Log)
	})

	return r, store
}

func registerUser(t *testing.T, router http.Handler, username string) dto.UserResponse {
	t.Helper()

	body := strings.NewReader(`{"username": "` + username + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("register %q: expected status 201, got %d (%s)", username, rec.Code, rec.Body.String())
	}

	var user dto.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode user response: %v", err)
	}
	return user
}

func TestUserHandler_Create_JSON(t *testing.T) {
	router, _ := newTestRouter(t)

	user := registerUser(t, router, "alice")

	if user.Username != "alice" {
		t.Errorf("username = %q, want %q", user.Username, "alice")
	}
	if user.ID == "" {
		t.Error("expected non-empty _id")
	}
}

func TestUserHandler_Create_Form(t *testing.T) {
	router, _ := newTestRouter(t)

	form := url.Values{"username": {"bob"}}
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	var user dto.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if user.Username != "bob" {
		t.Errorf("username = %q, want %q", user.Username, "bob")
	}
}

func TestUserHandler_Create_MissingUsername(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected non-empty error message")
	}
}

func TestUserHandler_Create_StoreFailure(t *testing.T) {
	router, store := newTestRouter(t)
	store.FailWrites = true

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"username": "alice"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	// Internal cause must not leak to the client
	if strings.Contains(resp.Error, "store unavailable") {
		t.Errorf("internal error leaked to client: %q", resp.Error)
	}
}

func TestUserHandler_List(t *testing.T) {
	router, _ := newTestRouter(t)

	u1 := registerUser(t, router, "alice")
	u2 := registerUser(t, router, "bob")

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var users []dto.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&users); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	byID := make(map[string]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.Username
	}
	if byID[u1.ID] != "alice" || byID[u2.ID] != "bob" {
		t.Errorf("listed users do not match registered pairs: %v", byID)
	}
}

func TestUserHandler_List_Empty(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	// Must be a JSON array, not null
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array body, got %q", body)
	}
}
