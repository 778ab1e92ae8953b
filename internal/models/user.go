package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;not null" json:"-"`
	Password    string    `gorm:"not null" json:"-"` // bcrypt hash
	Role        string    `gorm:"size:20;default:'user';not null" json:"role"`
	CivicPoints int       `gorm:"default:0" json:"civic_points"`
	TrustScore  int       `gorm:"default:50" json:"trust_score"` // 0-100, moderated field
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Account is the owner's own view of a user. Only this view serialises the email.
type Account struct {
	User
	Email string `json:"email"`
}

func (u User) Account() Account {
	return Account{User: u, Email: u.Email}
}
