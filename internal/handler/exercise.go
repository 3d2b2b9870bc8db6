package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fitlog/fitlog/internal/handler/dto"
	"github.com/fitlog/fitlog/internal/service"
)

// ExerciseHandler handles HTTP requests for exercise log operations.
type ExerciseHandler struct {
	svc    *service.ExerciseService
	logger *slog.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(svc *service.ExerciseService, logger *slog.Logger) *ExerciseHandler {
	return &ExerciseHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/users/{id}/exercises.
func (h *ExerciseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	input := service.AppendEntryInput{UserID: userID}

	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		input.Description = r.PostFormValue("description")
		input.Date = r.PostFormValue("date")

		duration, err := dto.CoerceInt(r.PostFormValue("duration"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "duration must be an integer")
			return
		}
		input.Duration = duration
	} else {
		var req dto.CreateExerciseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if errors.Is(err, dto.ErrInvalidDuration) {
				writeError(w, http.StatusBadRequest, "duration must be an integer")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Duration == nil {
			writeError(w, http.StatusBadRequest, "duration is required")
			return
		}
		input.Description = req.Description
		input.Date = req.Date
		input.Duration = int(*req.Duration)
	}

	user, exercise, err := h.svc.AppendEntry(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err, "failed to add exercise")
		return
	}

	h.logger.Info("exercise_appended",
		"user_id", user.ID,
		"exercise_id", exercise.ID,
		"duration", exercise.Duration,
	)

	writeJSON(w, http.StatusCreated, dto.ToExerciseResponse(user, exercise))
}

// Log handles GET /api/users/{id}/logs.
func (h *ExerciseHandler) Log(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	query := r.URL.Query()

	input := service.GetLogInput{
		UserID: userID,
		From:   query.Get("from"),
		To:     query.Get("to"),
	}

	// A malformed limit is ignored rather than rejected; absent and
	// non-positive both mean unlimited.
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			input.Limit = parsed
		}
	}

	result, err := h.svc.GetLog(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err, "failed to fetch exercise logs")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToLogResponse(result.User, result.Entries))
}

// handleServiceError maps service errors to HTTP responses.
func (h *ExerciseHandler) handleServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrDescriptionRequired):
		writeError(w, http.StatusBadRequest, "description is required")
	case errors.Is(err, service.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid date")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
