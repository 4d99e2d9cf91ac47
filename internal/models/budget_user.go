package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleMember
}

// BudgetUser is the membership of a user in a budget.
//
// Each budget has exactly one membership with RoleOwner. It is created with
// the budget and can only be handed over, never removed.
type BudgetUser struct {
	DefaultModel
	Budget   Budget    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	BudgetID uuid.UUID `json:"budgetId" gorm:"uniqueIndex:budget_user_member" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	User     User      `json:"user"`
	UserID   uuid.UUID `json:"userId" gorm:"uniqueIndex:budget_user_member" example:"1a5bd9b1-4e33-4bcb-8c0e-51ec6d28a8c6"`
	Role     Role      `json:"role" example:"MEMBER"`
}

func (m *BudgetUser) BeforeSave(_ *gorm.DB) error {
	if !m.Role.Valid() {
		return ErrRoleInvalid
	}

	return nil
}
