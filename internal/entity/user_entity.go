package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Id        uuid.UUID
	Name      string
	Email     string
	Password  string // bcrypt hash
	Role      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
