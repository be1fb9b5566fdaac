package dto

import (
	"time"

	"github.com/spec-kit/leak-ticket-service/internal/domain"
)

// LoginRequest payload: the account id selected from the picker plus
// the password.
type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// AccountSummary is the credential-free account view used by the login
// picker and provisioning responses.
type AccountSummary struct {
	ID   string             `json:"id"`
	Role domain.AccountRole `json:"role"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProvisionAccountRequest payload for admin account creation.
type ProvisionAccountRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}
