package dto

import (
	"regexp"
	"strings"

	"github.com/EobardThawne2/parking-beta/internal/domain"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

// Validate checks the register request fields
func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)

	if !ValidateEmail(r.Email) {
		return domain.ErrInvalidEmail
	}
	if !ValidatePassword(r.Password) {
		return domain.ErrInvalidPassword
	}
	if r.FullName == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// LoginRequest is the payload for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public representation of a user
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

// AuthResponse is returned after successful register or login
type AuthResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"token_type"`
	ExpiresIn int64         `json:"expires_in"`
	User      *UserResponse `json:"user"`
}

// CheckAuthResponse reports the current session state
type CheckAuthResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

// ValidateEmail checks email format
func ValidateEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// ValidatePassword checks minimum password requirements
func ValidatePassword(password string) bool {
	return len(password) >= 6 && len(password) <= 72
}

// NewUserResponse converts a domain user to its public representation
func NewUserResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
		Role:     string(u.Role),
	}
}
