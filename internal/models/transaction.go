package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a dated ledger entry in a budget.
//
// Amount is the unsigned magnitude, the sign comes from the type of the
// category at the time the transaction is applied.
type Transaction struct {
	DefaultModel
	Budget      Budget          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	BudgetID    uuid.UUID       `json:"budgetId" gorm:"index" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	Category    Category        `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CategoryID  uuid.UUID       `json:"categoryId" gorm:"index" example:"f9e873c2-fb96-4367-bfb6-7ecd9bf4a6b5"`
	User        User            `json:"-"`
	UserID      uuid.UUID       `json:"userId" example:"1a5bd9b1-4e33-4bcb-8c0e-51ec6d28a8c6"` // The author of the transaction
	Date        time.Time       `json:"date" gorm:"index" example:"2024-03-12T00:00:00Z"`
	Description string          `json:"description" example:"Weekly groceries"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"42.5"`
}

func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Description = strings.TrimSpace(t.Description)
	t.Date = t.Date.UTC()

	if !t.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	return nil
}

// AfterFind sets the date of the transaction to UTC.
func (t *Transaction) AfterFind(tx *gorm.DB) error {
	t.Date = t.Date.In(time.UTC)
	return t.DefaultModel.AfterFind(tx)
}

// Signed returns the contribution of the transaction to the balance of its
// budget. The Category must be loaded.
func (t Transaction) Signed() decimal.Decimal {
	return t.Category.Type.Signed(t.Amount)
}
