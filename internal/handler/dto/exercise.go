package dto

import (
	"errors"
	"strconv"
	"strings"

	"github.com/fitlog/fitlog/internal/model"
)

// ErrInvalidDuration indicates a duration that is not integer-coercible.
var ErrInvalidDuration = errors.New("duration must be an integer")

// Duration accepts both JSON numbers and numeric strings, since clients
// submit the field either way. Fractional values are truncated.
type Duration int

// UnmarshalJSON implements json.Unmarshaler. JSON null never reaches
// here: on a *Duration field the decoder leaves the pointer nil, and the
// handler rejects the request.
func (d *Duration) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)

	n, err := CoerceInt(s)
	if err != nil {
		return err
	}

	*d = Duration(n)
	return nil
}

// CoerceInt parses an integer from a string, truncating fractional
// values rather than rejecting them.
func CoerceInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidDuration
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidDuration
	}
	return int(f), nil
}

// CreateExerciseRequest represents the request body for appending an entry.
type CreateExerciseRequest struct {
	Description string    `json:"description"`
	Duration    *Duration `json:"duration"`
	Date        string    `json:"date,omitempty"`
}

// ExerciseResponse represents a newly appended entry in API responses.
// The _id field echoes the user's identifier, matching the envelope
// existing clients rely on.
type ExerciseResponse struct {
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
	ID          string `json:"_id"`
}

// LogEntry is a single reshaped entry inside a log response.
type LogEntry struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogResponse is the envelope for a user's exercise log.
type LogResponse struct {
	Username string     `json:"username"`
	Count    int        `json:"count"`
	ID       string     `json:"_id"`
	Log      []LogEntry `json:"log"`
}

// ToExerciseResponse shapes an appended entry with its owner's identity.
func ToExerciseResponse(user *model.User, exercise *model.Exercise) *ExerciseResponse {
	return &ExerciseResponse{
		Username:    user.Username,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.DateString(),
		ID:          user.ID,
	}
}

// ToLogResponse shapes a filtered log into the response envelope.
// Count is the length of the already-limited log.
func ToLogResponse(user *model.User, entries []*model.Exercise) *LogResponse {
	log := make([]LogEntry, len(entries))
	for i, e := range entries {
		log[i] = LogEntry{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        e.DateString(),
		}
	}
	return &LogResponse{
		Username: user.Username,
		Count:    len(log),
		ID:       user.ID,
		Log:      log,
	}
}
