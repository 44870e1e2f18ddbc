package users

import (
	"time"

	"petshop-crm/internal/ports/auth"
)

// User es la copia local de una identidad que ya inició sesión.
type User struct {
	ID          string
	OpenID      string
	Name        string
	Email       string
	LoginMethod string
	Role        auth.Role

	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSignedIn time.Time
}
