package analytics

import (
	"context"
	"time"

	"github.com/budgetshare/backend/internal/access"
	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategorySpending compares the limit of a category with the expenses of
// the current month.
type CategorySpending struct {
	ID       uuid.UUID           `json:"id" example:"4e743e94-6a4b-44d6-aba5-d77c87103ff7"`
	BudgetID uuid.UUID           `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	Name     string              `json:"name" example:"Groceries"`
	Type     models.CategoryType `json:"type" example:"EXPENSE"`
	Limit    decimal.Decimal     `json:"limit" example:"400"`
	Spent    decimal.Decimal     `json:"spent" example:"123.4"`
}

// startOfMonth returns the first instant of the UTC month t is in.
func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// CategoriesWithSpent lists all categories of the budget with the sum of
// expenses dated on or after the first day of the current month.
func (s *Service) CategoriesWithSpent(ctx context.Context, userID, budgetID uuid.UUID) ([]CategorySpending, error) {
	db := s.db.WithContext(ctx)

	_, err := access.RequireMember(db, budgetID, userID)
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	err = db.Where(&models.Category{BudgetID: budgetID}).Order("name ASC, id ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}

	from := startOfMonth(s.Now())
	expense := models.CategoryTypeExpense
	entries, err := s.entries(ctx, filter{budgetIDs: []uuid.UUID{budgetID}, typ: &expense, window: Window{From: &from}})
	if err != nil {
		return nil, err
	}

	spent := make(map[uuid.UUID]decimal.Decimal)
	for _, e := range entries {
		spent[e.CategoryID] = spent[e.CategoryID].Add(e.Amount)
	}

	result := make([]CategorySpending, 0, len(categories))
	for _, c := range categories {
		result = append(result, CategorySpending{
			ID:       c.ID,
			BudgetID: c.BudgetID,
			Name:     c.Name,
			Type:     c.Type,
			Limit:    c.Limit,
			Spent:    spent[c.ID],
		})
	}

	return result, nil
}

// Home is the overview of all budgets of a user for the current week.
type Home struct {
	TotalBalance  decimal.Decimal `json:"totalBalance" example:"5230.12"` // Sum of the balances of all budgets of the user
	TotalIncome   decimal.Decimal `json:"totalIncome" example:"800"`      // Income in all budgets this week
	TotalExpenses decimal.Decimal `json:"totalExpenses" example:"215.5"`  // Expenses in all budgets this week
	WeekStart     time.Time       `json:"weekStart" example:"2024-03-11T00:00:00Z"`
	WeekEnd       time.Time       `json:"weekEnd" example:"2024-03-17T23:59:59.999999999Z"`
}

// isoWeek returns Monday 00:00 and the last instant of Sunday of the UTC
// week t is in.
func isoWeek(t time.Time) (time.Time, time.Time) {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// HomeSummary sums the balances of the budgets the user is a member of and
// their income and expenses of the current ISO week.
func (s *Service) HomeSummary(ctx context.Context, userID uuid.UUID) (Home, error) {
	var memberships []models.BudgetUser
	err := s.db.WithContext(ctx).
		Preload("Budget").
		Where(&models.BudgetUser{UserID: userID}).
		Find(&memberships).Error
	if err != nil {
		return Home{}, err
	}

	start, end := isoWeek(s.Now())
	home := Home{WeekStart: start, WeekEnd: end}

	if len(memberships) == 0 {
		return home, nil
	}

	budgetIDs := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		home.TotalBalance = home.TotalBalance.Add(m.Budget.Amount)
		budgetIDs = append(budgetIDs, m.BudgetID)
	}

	entries, err := s.entries(ctx, filter{budgetIDs: budgetIDs, window: Window{From: &start, To: &end}})
	if err != nil {
		return Home{}, err
	}

	for _, e := range entries {
		switch e.Type {
		case models.CategoryTypeIncome:
			home.TotalIncome = home.TotalIncome.Add(e.Amount)
		case models.CategoryTypeExpense:
			home.TotalExpenses = home.TotalExpenses.Add(e.Amount)
		}
	}

	return home, nil
}
