package domain

import (
	"strings"
	"time"
)

// AccountRole separates outlet reporters from triaging admins.
type AccountRole string

const (
	RoleOutlet AccountRole = "OUTLET"
	RoleAdmin  AccountRole = "ADMIN"
)

// NormalizeRole maps a stored role string onto a known role. Anything
// that is not ADMIN (case-insensitive) is an outlet.
func NormalizeRole(raw string) AccountRole {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleOutlet
}

// Account is a named credential. The id doubles as the login name and,
// for outlet accounts, the store name bound to submitted tickets.
type Account struct {
	ID           string
	PasswordHash string
	Role         AccountRole
	Email        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
