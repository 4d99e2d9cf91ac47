package v1

import (
	"fmt"

	"github.com/budgetshare/backend/internal/ledger"
	"github.com/budgetshare/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BudgetCreate struct {
	Name   string          `json:"name" example:"Household"`                      // Name of the budget
	Amount decimal.Decimal `json:"amount" example:"1000" minimum:"0" default:"0"` // Initial balance
}

type BudgetUpdate struct {
	Name string `json:"name" example:"Household"` // New name of the budget
}

type BalanceChange struct {
	Amount decimal.Decimal  `json:"amount" example:"250" minimum:"0.00000001"` // Amount to add or subtract, must be positive
	Type   ledger.Direction `json:"type" example:"add" enums:"add,subtract"`   // add or subtract
}

type MemberInvite struct {
	Email string `json:"email" example:"john@example.com"` // Email address of the user to invite
}

type OwnershipTransfer struct {
	UserID string `json:"userId" example:"1a5bd9b1-4e33-4bcb-8c0e-51ec6d28a8c6"` // ID of the member that becomes the new OWNER
}

type BudgetLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                     // The budget itself
	Balance      string `json:"balance" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf/balance"`          // Balance adjustments of the budget
	Members      string `json:"members" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf/members"`          // Members of the budget
	Categories   string `json:"categories" example:"https://example.com/api/v1/categories?budget=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`     // Categories of the budget
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?budget=550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // Transactions of the budget
}

type Budget struct {
	models.Budget
	Role  models.Role `json:"role,omitempty" example:"OWNER"` // Role of the caller in the budget
	Links BudgetLinks `json:"links"`
}

// newBudget returns the API v1 representation of the budget.
func newBudget(c *gin.Context, model models.Budget, role models.Role) Budget {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/budgets/%s", url, model.ID)

	return Budget{
		Budget: model,
		Role:   role,
		Links: BudgetLinks{
			Self:         self,
			Balance:      self + "/balance",
			Members:      self + "/members",
			Categories:   fmt.Sprintf("%s/v1/categories?budget=%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?budget=%s", url, model.ID),
		},
	}
}
