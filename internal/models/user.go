package models

import "time"

// Role is the permission level of a user account.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
)

// Valid reports whether r is an assignable role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleDeveloper:
		return true
	}
	return false
}

// UserModel is a registered account.
type UserModel struct {
	Base
	Username      string     `json:"username"        gorm:"size:64;uniqueIndex;not null"`
	Email         string     `json:"email"           gorm:"size:191;uniqueIndex;not null"`
	Name          string     `json:"name"`
	Password      string     `json:"-"               gorm:"not null"`
	Role          Role       `json:"role"            gorm:"size:16;index;default:'user'"`
	Image         string     `json:"image"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// DisplayName returns the name shown next to user content.
func (u *UserModel) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
