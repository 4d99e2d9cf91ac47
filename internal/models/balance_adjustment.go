package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AdjustmentKind string

const (
	AdjustmentDeposit      AdjustmentKind = "DEPOSIT"
	AdjustmentWithdrawal   AdjustmentKind = "WITHDRAWAL"
	AdjustmentGoalTransfer AdjustmentKind = "GOAL_TRANSFER"
)

func (k AdjustmentKind) Valid() bool {
	switch k {
	case AdjustmentDeposit, AdjustmentWithdrawal, AdjustmentGoalTransfer:
		return true
	}
	return false
}

// BalanceAdjustment records a change of a budget balance that is not caused
// by a transaction.
//
// Amount is signed. The balance of a budget always equals the amount it was
// created with plus its signed transactions and its adjustments.
type BalanceAdjustment struct {
	DefaultModel
	Budget   Budget          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	BudgetID uuid.UUID       `json:"budgetId" gorm:"index" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	User     User            `json:"-"`
	UserID   uuid.UUID       `json:"userId" example:"1a5bd9b1-4e33-4bcb-8c0e-51ec6d28a8c6"`
	Goal     *Goal           `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	GoalID   *uuid.UUID      `json:"goalId" example:"0b5ad6a5-1ef2-4bfa-bb8b-f0d6c5a5fd67"`
	Kind     AdjustmentKind  `json:"kind" example:"DEPOSIT"`
	Amount   decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"-50"`
}

func (a *BalanceAdjustment) BeforeSave(_ *gorm.DB) error {
	if !a.Kind.Valid() {
		return ErrAdjustmentKindInvalid
	}

	return nil
}
