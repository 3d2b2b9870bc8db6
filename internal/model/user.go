// Package model defines domain entities for the application.
package model

import "time"

// User is a registered account that exercise entries attach to.
// Usernames are not unique; users are told apart by ID only.
type User struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"-"`
}
