package models

import (
	"strings"

	"gorm.io/gorm"
)

// User is a person that can be a member of budgets and owns goals.
type User struct {
	DefaultModel
	Name         string `json:"name" example:"Jane Doe"`
	Email        string `json:"email" gorm:"uniqueIndex:user_email" example:"jane@example.com"`
	PasswordHash string `json:"-"`
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)

	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return ErrEmailInvalid
	}

	return nil
}

// NormalizeEmail returns the canonical form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
