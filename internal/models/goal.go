package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Goal is a personal savings target. Goals belong to a user, not a budget.
type Goal struct {
	DefaultModel
	User          User            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID        uuid.UUID       `json:"userId" gorm:"index" example:"1a5bd9b1-4e33-4bcb-8c0e-51ec6d28a8c6"`
	Name          string          `json:"name" example:"New bike"`
	Note          string          `json:"note" example:"The red one"`
	TargetAmount  decimal.Decimal `json:"targetAmount" gorm:"type:DECIMAL(20,8)" example:"1200"`
	CurrentAmount decimal.Decimal `json:"currentAmount" gorm:"type:DECIMAL(20,8)" example:"350"`
	TargetDate    time.Time       `json:"targetDate" example:"2025-06-01T00:00:00Z"`
	Archived      bool            `json:"archived" example:"false"`
}

func (g *Goal) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	g.Note = strings.TrimSpace(g.Note)
	g.TargetDate = g.TargetDate.UTC()

	if g.Name == "" {
		return ErrNameEmpty
	}

	if g.TargetAmount.IsNegative() || g.CurrentAmount.IsNegative() {
		return ErrAmountNegative
	}

	return nil
}

func (g *Goal) AfterFind(tx *gorm.DB) error {
	g.TargetDate = g.TargetDate.In(time.UTC)
	return g.DefaultModel.AfterFind(tx)
}

// Reached reports if the current amount has reached the target.
func (g Goal) Reached() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}
