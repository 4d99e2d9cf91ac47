package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Signed returns the contribution of amount to a budget balance for a
// category of this type. Expenses reduce the balance, income raises it.
func (t CategoryType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == CategoryTypeExpense {
		return amount.Neg()
	}
	return amount
}

// Category is an income or expense bucket of a budget.
//
// Limit is a cap for expense categories and an expectation for income
// categories. It is only ever changed by editing the category, spending is
// always aggregated from transactions.
type Category struct {
	DefaultModel
	Budget   Budget          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	BudgetID uuid.UUID       `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	Name     string          `json:"name" example:"Groceries"`
	Type     CategoryType    `json:"type" example:"EXPENSE"`
	Limit    decimal.Decimal `json:"limit" gorm:"column:limit_amount;type:DECIMAL(20,8)" example:"400"`
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)

	if c.Name == "" {
		return ErrNameEmpty
	}

	if !c.Type.Valid() {
		return ErrCategoryTypeInvalid
	}

	if c.Limit.IsNegative() {
		return ErrAmountNegative
	}

	return nil
}
