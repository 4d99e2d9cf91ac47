// Package analytics computes read-only views of the ledger.
//
// Nothing here is stored. Every result is recomputed from the Transaction
// and Category rows on each call, so two calls without a ledger change in
// between return the same result.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/budgetshare/backend/internal/access"
	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// SummaryWindow is the trailing window for the maximum and the sums of the
// summary statistics.
const SummaryWindow = 30 * 24 * time.Hour

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

type Option func(*Service)

// WithClock replaces the clock that periods are resolved against.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:  db,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Now returns the current time of the service clock in UTC.
func (s *Service) Now() time.Time {
	return s.now().UTC()
}

// entry is a transaction amount with the type of its category.
type entry struct {
	CategoryID uuid.UUID
	Amount     decimal.Decimal
	Date       time.Time
	Type       models.CategoryType
}

type filter struct {
	budgetIDs []uuid.UUID
	authorID  *uuid.UUID
	typ       *models.CategoryType
	window    Window
}

// entries loads the ledger entries matching the filter.
func (s *Service) entries(ctx context.Context, f filter) ([]entry, error) {
	q := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("transactions.category_id, transactions.amount, transactions.date, categories.type").
		Joins("JOIN categories ON categories.id = transactions.category_id")

	if f.budgetIDs != nil {
		q = q.Where("transactions.budget_id IN ?", f.budgetIDs)
	}

	if f.authorID != nil {
		q = q.Where("transactions.user_id = ?", *f.authorID)
	}

	if f.typ != nil {
		q = q.Where("categories.type = ?", *f.typ)
	}

	if f.window.From != nil {
		q = q.Where("transactions.date >= ?", *f.window.From)
	}

	if f.window.To != nil {
		q = q.Where("transactions.date <= ?", *f.window.To)
	}

	var entries []entry
	err := q.Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Date = entries[i].Date.UTC()
	}

	return entries, nil
}

// Summary is the spending overview of a user.
type Summary struct {
	AverageExpense     decimal.Decimal `json:"averageExpenses" example:"42.5"`    // Average of all expenses up to now
	LargestExpense     decimal.Decimal `json:"largestExpenses" example:"310"`     // Largest expense in the last 30 days
	IncomeSum          decimal.Decimal `json:"incomeSum" example:"2400"`          // Income in the last 30 days
	ExpenseSum         decimal.Decimal `json:"expenseSum" example:"1800"`         // Expenses in the last 30 days
	IncomeExpenseRatio decimal.Decimal `json:"incomeExpenseRatio" example:"1.33"` // IncomeSum divided by ExpenseSum, or by 1 if there were no expenses
}

// SummaryStatistics aggregates the transactions authored by the user.
//
// The four aggregates are computed concurrently.
func (s *Service) SummaryStatistics(ctx context.Context, userID uuid.UUID) (Summary, error) {
	now := s.Now()
	from := now.Add(-SummaryWindow)

	expense := models.CategoryTypeExpense
	income := models.CategoryTypeIncome
	all := Window{To: &now}
	trailing := Window{From: &from, To: &now}

	var summary Summary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		entries, err := s.entries(gctx, filter{authorID: &userID, typ: &expense, window: all})
		if err != nil {
			return err
		}

		if len(entries) > 0 {
			summary.AverageExpense = sum(entries).DivRound(decimal.NewFromInt(int64(len(entries))), 8)
		}
		return nil
	})

	g.Go(func() error {
		entries, err := s.entries(gctx, filter{authorID: &userID, typ: &expense, window: trailing})
		if err != nil {
			return err
		}

		for _, e := range entries {
			if e.Amount.GreaterThan(summary.LargestExpense) {
				summary.LargestExpense = e.Amount
			}
		}
		return nil
	})

	g.Go(func() error {
		entries, err := s.entries(gctx, filter{authorID: &userID, typ: &income, window: trailing})
		if err != nil {
			return err
		}

		summary.IncomeSum = sum(entries)
		return nil
	})

	g.Go(func() error {
		entries, err := s.entries(gctx, filter{authorID: &userID, typ: &expense, window: trailing})
		if err != nil {
			return err
		}

		summary.ExpenseSum = sum(entries)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	denominator := summary.ExpenseSum
	if denominator.IsZero() {
		denominator = decimal.NewFromInt(1)
	}
	summary.IncomeExpenseRatio = summary.IncomeSum.DivRound(denominator, 4)

	return summary, nil
}

func sum(entries []entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// CategoryAmount is the sum of the transactions of one category.
type CategoryAmount struct {
	CategoryID uuid.UUID           `json:"categoryId" example:"4e743e94-6a4b-44d6-aba5-d77c87103ff7"`
	Category   string              `json:"category" example:"Groceries"`
	Type       models.CategoryType `json:"type" example:"EXPENSE"`
	Value      decimal.Decimal     `json:"value" example:"312.45"`
}

// CategoryBreakdown sums the transactions of the given type per category of
// the budget within the window. All categories are listed, ordered by name.
// Without a type, expenses are summed.
func (s *Service) CategoryBreakdown(ctx context.Context, userID, budgetID uuid.UUID, window Window, typ *models.CategoryType) ([]CategoryAmount, error) {
	if typ == nil {
		expense := models.CategoryTypeExpense
		typ = &expense
	}

	if !typ.Valid() {
		return nil, models.ErrCategoryTypeInvalid
	}

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

	entries, err := s.entries(ctx, filter{budgetIDs: []uuid.UUID{budgetID}, typ: typ, window: window})
	if err != nil {
		return nil, err
	}

	sums := make(map[uuid.UUID]decimal.Decimal, len(categories))
	for _, e := range entries {
		sums[e.CategoryID] = sums[e.CategoryID].Add(e.Amount)
	}

	breakdown := make([]CategoryAmount, 0, len(categories))
	for _, c := range categories {
		breakdown = append(breakdown, CategoryAmount{
			CategoryID: c.ID,
			Category:   c.Name,
			Type:       c.Type,
			Value:      sums[c.ID],
		})
	}

	return breakdown, nil
}

// DailyIncomeExpense holds the income and expenses of one day.
type DailyIncomeExpense struct {
	Date    string          `json:"date" example:"2024-03-15"` // ISO date, UTC
	Income  decimal.Decimal `json:"income" example:"1200"`
	Expense decimal.Decimal `json:"expense" example:"85.3"`
}

// IncomeExpenseSeries groups the transactions of the budget within the
// window by UTC day. Days without transactions are not listed.
func (s *Service) IncomeExpenseSeries(ctx context.Context, userID, budgetID uuid.UUID, window Window) ([]DailyIncomeExpense, error) {
	_, err := access.RequireMember(s.db.WithContext(ctx), budgetID, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries(ctx, filter{budgetIDs: []uuid.UUID{budgetID}, window: window})
	if err != nil {
		return nil, err
	}

	days := make(map[string]*DailyIncomeExpense)
	for _, e := range entries {
		key := e.Date.Format(time.DateOnly)

		day, ok := days[key]
		if !ok {
			day = &DailyIncomeExpense{Date: key}
			days[key] = day
		}

		switch e.Type {
		case models.CategoryTypeIncome:
			day.Income = day.Income.Add(e.Amount)
		case models.CategoryTypeExpense:
			day.Expense = day.Expense.Add(e.Amount)
		}
	}

	series := make([]DailyIncomeExpense, 0, len(days))
	for _, day := range days {
		series = append(series, *day)
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})

	return series, nil
}
