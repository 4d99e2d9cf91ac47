package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	ErrPageInvalid      = fmt.Errorf("%w: the page must be at least 1", models.ErrValidation)
	ErrPageSizeInvalid  = fmt.Errorf("%w: the page size must be between 1 and %d", models.ErrValidation, MaxPageSize)
	ErrSortByInvalid    = fmt.Errorf("%w: transactions can only be sorted by date or amount", models.ErrValidation)
	ErrSortOrderInvalid = fmt.Errorf("%w: the sort order must be asc or desc", models.ErrValidation)
)

// TransactionQuery filters, sorts and paginates the transactions of a user.
// Zero values select the defaults: first page, DefaultPageSize, newest first.
type TransactionQuery struct {
	Page       int
	Size       int
	StartDate  *time.Time
	EndDate    *time.Time
	BudgetID   *uuid.UUID
	CategoryID *uuid.UUID
	Type       *models.CategoryType
	SortBy     string // "date" or "amount"
	SortOrder  string // "asc" or "desc"
}

func (q *TransactionQuery) normalize() error {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Page < 1 {
		return ErrPageInvalid
	}

	if q.Size == 0 {
		q.Size = DefaultPageSize
	}
	if q.Size < 1 || q.Size > MaxPageSize {
		return ErrPageSizeInvalid
	}

	if q.SortBy == "" {
		q.SortBy = "date"
	}
	if !slices.Contains([]string{"date", "amount"}, q.SortBy) {
		return ErrSortByInvalid
	}

	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
	if !slices.Contains([]string{"asc", "desc"}, q.SortOrder) {
		return ErrSortOrderInvalid
	}

	if q.Type != nil && !q.Type.Valid() {
		return models.ErrCategoryTypeInvalid
	}

	return nil
}

// ListTransactions returns one page of the transactions in all budgets the
// user is a member of, and the total number of matching transactions.
//
// A budget the user is not a member of matches no transactions.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, query TransactionQuery) ([]models.Transaction, int64, error) {
	err := query.normalize()
	if err != nil {
		return nil, 0, err
	}

	db := s.db.WithContext(ctx)

	memberships := db.Model(&models.BudgetUser{}).Select("budget_id").Where(&models.BudgetUser{UserID: userID})

	q := db.Model(&models.Transaction{}).
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.budget_id IN (?)", memberships)

	if query.BudgetID != nil {
		q = q.Where("transactions.budget_id = ?", *query.BudgetID)
	}

	if query.CategoryID != nil {
		q = q.Where("transactions.category_id = ?", *query.CategoryID)
	}

	if query.Type != nil {
		q = q.Where("categories.type = ?", *query.Type)
	}

	if query.StartDate != nil {
		q = q.Where("transactions.date >= ?", query.StartDate.UTC())
	}

	if query.EndDate != nil {
		q = q.Where("transactions.date <= ?", query.EndDate.UTC())
	}

	// Count and page query share the conditions
	q = q.Session(&gorm.Session{})

	var total int64
	err = q.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	// The ID makes the order stable for equal dates and amounts
	order := fmt.Sprintf("transactions.%s %s, transactions.id %s", query.SortBy, query.SortOrder, query.SortOrder)

	var transactions []models.Transaction
	err = q.
		Preload("Category").
		Order(order).
		Offset((query.Page - 1) * query.Size).
		Limit(query.Size).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}
