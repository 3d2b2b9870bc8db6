// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/fitlog/fitlog/internal/model"

// CreateUserRequest represents the request body for registering a user.
type CreateUserRequest struct {
	Username string `json:"username"`
}

// UserResponse represents a user in API responses.
// The identifier field is named _id for compatibility with existing clients.
type UserResponse struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		Username: user.Username,
		ID:       user.ID,
	}
}

// ToUserListResponse converts a slice of User models to response DTOs.
func ToUserListResponse(users []*model.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = *ToUserResponse(user)
	}
	return responses
}
