package v1

import (
	"fmt"

	"github.com/budgetshare/backend/internal/analytics"
	"github.com/budgetshare/backend/internal/models"
	ez_uuid "github.com/budgetshare/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CategoryCreate struct {
	BudgetID uuid.UUID           `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // ID of the budget the category belongs to
	Name     string              `json:"name" example:"Groceries"`                                // Name of the category
	Type     models.CategoryType `json:"type" example:"EXPENSE" enums:"INCOME,EXPENSE"`           // INCOME or EXPENSE, can not be changed later
	Limit    decimal.Decimal     `json:"limit" example:"400" minimum:"0" default:"0"`             // Spending cap or income target
}

// CategoryEditable contains the fields that can be changed on an existing
// category.
type CategoryEditable struct {
	Name  string          `json:"name" example:"Groceries"`
	Limit decimal.Decimal `json:"limit" example:"400" minimum:"0"`
}

type CategoryQueryFilter struct {
	BudgetID ez_uuid.UUID `form:"budget" filterField:"false"` // By budget ID, required
	Type     string       `form:"type"`                       // INCOME or EXPENSE
}

type CategoryLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/categories/4e743e94-6a4b-44d6-aba5-d77c87103ff7"`                    // The category itself
	Budget       string `json:"budget" example:"https://example.com/api/v1/budgets/52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`                     // The budget this category belongs to
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?category=4e743e94-6a4b-44d6-aba5-d77c87103ff7"` // Transactions of this category
}

type Category struct {
	models.Category
	Links CategoryLinks `json:"links"`
}

func newCategory(c *gin.Context, model models.Category) Category {
	url := c.GetString(string(models.DBContextURL))

	return Category{
		Category: model,
		Links: CategoryLinks{
			Self:         fmt.Sprintf("%s/v1/categories/%s", url, model.ID),
			Budget:       fmt.Sprintf("%s/v1/budgets/%s", url, model.BudgetID),
			Transactions: fmt.Sprintf("%s/v1/transactions?category=%s", url, model.ID),
		},
	}
}

type CategorySpendingFilter struct {
	BudgetID ez_uuid.UUID `form:"budget"` // By budget ID, required
}

type CategorySpendingResponse = ListResponse[analytics.CategorySpending]
