package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is a named pool of money with a running balance that is shared
// between its members.
//
// Amount is only changed by the ledger: transactions, manual balance
// adjustments and goal funding.
type Budget struct {
	DefaultModel
	Name   string          `json:"name" example:"Household"`
	Amount decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"1250.5"`
}

func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)

	if b.Name == "" {
		return ErrNameEmpty
	}

	return nil
}
