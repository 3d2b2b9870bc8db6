// Package model defines domain entities for the application.
package model

import (
	"errors"
	"time"
)

// DateLayout is the calendar-date wire format accepted for exercise
// dates and log range filters.
const DateLayout = "2006-01-02"

// dateStringLayout renders dates the way clients expect in responses,
// e.g. "Sun Mar 05 2023".
const dateStringLayout = "Mon Jan 02 2006"

// ErrInvalidDate indicates a date string that matches no accepted layout.
var ErrInvalidDate = errors.New("invalid date")

// Exercise is a single logged activity belonging to a user.
// Entries are append-only: never updated or deleted, and duplicate
// description/duration/date combinations are allowed per user.
type Exercise struct {
	ID          string
	UserID      string
	Description string
	Duration    int
	Date        time.Time
	CreatedAt   time.Time
}

// DateString renders the exercise date in weekday/month/day/year form.
func (e *Exercise) DateString() string {
	return e.Date.Format(dateStringLayout)
}

// ParseDate parses a calendar date in DateLayout or RFC3339 form and
// normalizes it to midnight UTC so range comparisons stay inclusive.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NormalizeDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NormalizeDate(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

// NormalizeDate truncates a timestamp to its calendar date at midnight UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date at midnight UTC, using the
// server's local date. Used when an entry arrives without a date.
func Today() time.Time {
	return NormalizeDate(time.Now())
}
