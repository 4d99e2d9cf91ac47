package v1

import (
	"fmt"
	"time"

	"github.com/budgetshare/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GoalCreate struct {
	Name          string          `json:"name" example:"New bike"`                           // Name of the goal
	Note          string          `json:"note" example:"The red one" default:""`             // Note about the goal
	TargetAmount  decimal.Decimal `json:"targetAmount" example:"1200" minimum:"0"`           // How much money should be saved
	CurrentAmount decimal.Decimal `json:"currentAmount" example:"0" minimum:"0" default:"0"` // How much money is already saved
	TargetDate    time.Time       `json:"targetDate" example:"2025-06-01T00:00:00Z"`         // When the goal should be reached
}

// GoalEditable contains the fields that can be changed on an existing goal.
// The current amount is changed by funding the goal.
type GoalEditable struct {
	Name         string          `json:"name" example:"New bike"`
	Note         string          `json:"note" example:"The red one"`
	TargetAmount decimal.Decimal `json:"targetAmount" example:"1200" minimum:"0"`
	TargetDate   time.Time       `json:"targetDate" example:"2025-06-01T00:00:00Z"`
	Archived     bool            `json:"archived" example:"false"` // If the goal is still in use
}

type GoalFunding struct {
	Amount   decimal.Decimal `json:"amount" example:"50" minimum:"0"`                         // Amount to add to the goal
	BudgetID *uuid.UUID      `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // Budget the money is taken from. Without it, only the goal is changed.
}

type GoalLinks struct {
	Self  string `json:"self" example:"https://example.com/api/v1/goals/438cc6c0-9baf-49fd-a75a-d76bd5cab19c"`        // The goal itself
	Funds string `json:"funds" example:"https://example.com/api/v1/goals/438cc6c0-9baf-49fd-a75a-d76bd5cab19c/funds"` // Endpoint to fund the goal
}

type Goal struct {
	models.Goal
	Reached bool      `json:"reached" example:"false"` // If the current amount has reached the target amount
	Links   GoalLinks `json:"links"`
}

func newGoal(c *gin.Context, model models.Goal) Goal {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/goals/%s", url, model.ID)

	return Goal{
		Goal:    model,
		Reached: model.Reached(),
		Links: GoalLinks{
			Self:  self,
			Funds: self + "/funds",
		},
	}
}
