package v1

import (
	"time"

	"github.com/budgetshare/backend/internal/analytics"
	ez_uuid "github.com/budgetshare/backend/internal/uuid"
)

type SummaryFilter struct {
	UserID ez_uuid.UUID `form:"userId"` // Must be the caller if set
}

type PeriodFilter struct {
	BudgetID  ez_uuid.UUID `form:"budget"`    // Budget ID, required
	Period    string       `form:"period"`    // allTime, lastMonth or custom
	StartDate string       `form:"startDate"` // Start of a custom period
	EndDate   string       `form:"endDate"`   // End of a custom period, the whole day is included
	Type      string       `form:"type"`      // INCOME or EXPENSE, only for the category breakdown
}

// window resolves the period of the filter relative to now.
func (f PeriodFilter) window(now time.Time) (analytics.Window, error) {
	var start, end *time.Time

	if f.StartDate != "" {
		t, _, err := parseDate(f.StartDate)
		if err != nil {
			return analytics.Window{}, err
		}
		start = &t
	}

	if f.EndDate != "" {
		t, _, err := parseDate(f.EndDate)
		if err != nil {
			return analytics.Window{}, err
		}
		end = &t
	}

	return analytics.ParsePeriod(analytics.Period(f.Period), start, end, now)
}

type SummaryResponse = ObjectResponse[analytics.Summary]

type CategoryBreakdownResponse = ListResponse[analytics.CategoryAmount]

type IncomeExpenseResponse = ListResponse[analytics.DailyIncomeExpense]

type HomeResponse = ObjectResponse[analytics.Home]
