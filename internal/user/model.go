package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID       uint
	Email    string
	Password string
	Role     Role
}

// Profile is the customer contact sheet the checkout gate inspects.
type Profile struct {
	UserID    uint
	FullName  string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Complete reports whether every field checkout depends on is filled in.
func (p *Profile) Complete() bool {
	if p == nil {
		return false
	}
	return strings.TrimSpace(p.FullName) != "" &&
		strings.TrimSpace(p.Phone) != "" &&
		strings.TrimSpace(p.Address) != ""
}

type UpsertProfileParams struct {
	UserID   uint
	FullName string
	Phone    string
	Address  string
}
