package v1

import (
	"fmt"
	"time"

	"github.com/budgetshare/backend/internal/ledger"
	"github.com/budgetshare/backend/internal/models"
	ez_uuid "github.com/budgetshare/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionCreate struct {
	BudgetID    uuid.UUID       `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`   // ID of the budget
	CategoryID  uuid.UUID       `json:"categoryId" example:"f9e873c2-fb96-4367-bfb6-7ecd9bf4a6b5"` // ID of a category of the budget. Its type decides if the transaction is income or expense.
	Amount      decimal.Decimal `json:"amount" example:"42.5" minimum:"0.00000001"`                // The amount, must be positive
	Description string          `json:"description" example:"Weekly groceries" default:""`         // What the transaction was for
	Date        time.Time       `json:"date" example:"2024-03-12T00:00:00Z"`                       // When the transaction happened
}

// TransactionEditable contains the fields that can be changed on an
// existing transaction. The budget can not be changed.
type TransactionEditable struct {
	BudgetID    uuid.UUID       `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	CategoryID  uuid.UUID       `json:"categoryId" example:"f9e873c2-fb96-4367-bfb6-7ecd9bf4a6b5"`
	Amount      decimal.Decimal `json:"amount" example:"42.5" minimum:"0.00000001"`
	Description string          `json:"description" example:"Weekly groceries"`
	Date        time.Time       `json:"date" example:"2024-03-12T00:00:00Z"`
}

type TransactionQueryFilter struct {
	Page       int          `form:"page" filterField:"false"`      // Page to return, starting at 1
	Size       int          `form:"size" filterField:"false"`      // Number of transactions per page, 1 to 100
	StartDate  string       `form:"startDate" filterField:"false"` // Transactions on or after this date
	EndDate    string       `form:"endDate" filterField:"false"`   // Transactions on or before this date
	BudgetID   ez_uuid.UUID `form:"budget" filterField:"false"`    // By budget ID
	CategoryID ez_uuid.UUID `form:"category" filterField:"false"`  // By category ID
	Type       string       `form:"type" filterField:"false"`      // INCOME or EXPENSE
	SortBy     string       `form:"sortBy" filterField:"false"`    // date or amount
	SortOrder  string       `form:"sortOrder" filterField:"false"` // asc or desc
}

// parseDate parses an RFC3339 timestamp or an ISO date. An ISO date is
// midnight UTC of that day.
func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: '%s' is neither an RFC3339 timestamp nor a date", models.ErrValidation, s)
	}

	return t, true, nil
}

// query converts the filter to a ledger query. An end date without a time
// includes the whole day.
func (f TransactionQueryFilter) query(setFields []string) (ledger.TransactionQuery, error) {
	q := ledger.TransactionQuery{
		Page:       f.Page,
		Size:       f.Size,
		BudgetID:   f.BudgetID.Ptr(),
		CategoryID: f.CategoryID.Ptr(),
		SortBy:     f.SortBy,
		SortOrder:  f.SortOrder,
	}

	for _, field := range setFields {
		switch field {
		case "StartDate":
			start, _, err := parseDate(f.StartDate)
			if err != nil {
				return ledger.TransactionQuery{}, err
			}
			q.StartDate = &start

		case "EndDate":
			end, dateOnly, err := parseDate(f.EndDate)
			if err != nil {
				return ledger.TransactionQuery{}, err
			}
			if dateOnly {
				end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}
			q.EndDate = &end

		case "Type":
			t := models.CategoryType(f.Type)
			q.Type = &t

		// Zero selects the default in the ledger, but is invalid when sent
		case "Page":
			if f.Page < 1 {
				return ledger.TransactionQuery{}, ledger.ErrPageInvalid
			}

		case "Size":
			if f.Size < 1 {
				return ledger.TransactionQuery{}, ledger.ErrPageSizeInvalid
			}
		}
	}

	return q, nil
}

type TransactionLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"`   // The transaction itself
	Budget   string `json:"budget" example:"https://example.com/api/v1/budgets/52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`      // The budget of the transaction
	Category string `json:"category" example:"https://example.com/api/v1/categories/f9e873c2-fb96-4367-bfb6-7ecd9bf4a6b5"` // The category of the transaction
}

type Transaction struct {
	models.Transaction
	Type  models.CategoryType `json:"type" example:"EXPENSE"` // The type of the category, INCOME or EXPENSE
	Links TransactionLinks    `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		Transaction: model,
		Type:        model.Category.Type,
		Links: TransactionLinks{
			Self:     fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
			Budget:   fmt.Sprintf("%s/v1/budgets/%s", url, model.BudgetID),
			Category: fmt.Sprintf("%s/v1/categories/%s", url, model.CategoryID),
		},
	}
}

type Pagination struct {
	Page  int   `json:"page" example:"2"`   // The page returned
	Size  int   `json:"size" example:"10"`  // The maximum number of transactions per page
	Count int   `json:"count" example:"10"` // The number of transactions returned
	Total int64 `json:"total" example:"43"` // The number of transactions matching the filter
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`               // The transactions of the page
	Total      int64         `json:"total" example:"43"` // The number of transactions matching the filter
	Pagination Pagination    `json:"pagination"`
}
