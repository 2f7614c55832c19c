package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleManager Role = "MANAGER"
	RoleClerk   Role = "CLERK"
)

// Rank orders roles for capability checks: a higher-ranked role can do
// everything a lower-ranked one can.
func (r Role) Rank() int {
	switch r {
	case RoleManager:
		return 2
	case RoleClerk:
		return 1
	default:
		return 0
	}
}

type User struct {
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Session is the authenticated context attached to a sequence of operations.
// It is passed explicitly into the gate for every dispatch; there is no
// ambient current-user state.
type Session struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
	IssuedAt time.Time `json:"issuedAt"`
}
