package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleTester = "tester"
	RoleViewer = "viewer"
)

func ValidRole(s string) bool {
	switch s {
	case RoleAdmin, RoleTester, RoleViewer:
		return true
	}
	return false
}

// User exists so cases, runs, and audit rows can reference real actors.
// Username and email are unique; creating a duplicate is a Conflict.
// Authentication mechanics live outside this service.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         string    `gorm:"column:role;not null" json:"role"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "user" }

// NewUser is the creation input; Password is hashed before storage and
// never persisted raw. Omitted role defaults to tester.
type NewUser struct {
	Username string
	Email    string
	Password string
	Role     string
}
