package auth

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Claims representa la identidad resuelta para el request.
type Claims struct {
	UserID string // open id
	Name   string
	Email  string
	Role   Role

	// Solo para sesiones firmadas; vacío en modo mock.
	TokenID   string
	ExpiresAt time.Time
}

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
