package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/budgetshare/backend/internal/access"
	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// MemberBudget is a budget together with the role of the user it was
// loaded for.
type MemberBudget struct {
	models.Budget
	Role models.Role `json:"role" example:"OWNER"`
}

// CreateBudget creates a budget with the user as its OWNER.
func (s *Service) CreateBudget(ctx context.Context, userID uuid.UUID, name string, amount decimal.Decimal) (models.Budget, error) {
	if amount.IsNegative() {
		return models.Budget{}, models.ErrAmountNegative
	}

	budget := models.Budget{
		Name:   name,
		Amount: amount,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&budget).Error
		if err != nil {
			return err
		}

		return tx.Create(&models.BudgetUser{
			BudgetID: budget.ID,
			UserID:   userID,
			Role:     models.RoleOwner,
		}).Error
	})
	if err != nil {
		return models.Budget{}, err
	}

	return budget, nil
}

// GetUserBudgets returns all budgets the user is a member of, sorted by name.
func (s *Service) GetUserBudgets(ctx context.Context, userID uuid.UUID) ([]MemberBudget, error) {
	var memberships []models.BudgetUser
	err := s.db.WithContext(ctx).
		Preload("Budget").
		Where(&models.BudgetUser{UserID: userID}).
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}

	budgets := make([]MemberBudget, 0, len(memberships))
	for _, m := range memberships {
		budgets = append(budgets, MemberBudget{Budget: m.Budget, Role: m.Role})
	}

	slices.SortFunc(budgets, func(a, b MemberBudget) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	return budgets, nil
}

// GetBudget returns a budget the user is a member of.
func (s *Service) GetBudget(ctx context.Context, userID, budgetID uuid.UUID) (MemberBudget, error) {
	db := s.db.WithContext(ctx)

	membership, err := access.RequireMember(db, budgetID, userID)
	if err != nil {
		return MemberBudget{}, err
	}

	var budget models.Budget
	err = db.First(&budget, "id = ?", budgetID).Error
	if err != nil {
		return MemberBudget{}, err
	}

	return MemberBudget{Budget: budget, Role: membership.Role}, nil
}

// UpdateBudget renames a budget. The balance can only be changed through
// the ledger.
func (s *Service) UpdateBudget(ctx context.Context, userID, budgetID uuid.UUID, name string) (models.Budget, error) {
	var budget models.Budget

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := access.RequireOwner(tx, budgetID, userID)
		if err != nil {
			return err
		}

		err = tx.First(&budget, "id = ?", budgetID).Error
		if err != nil {
			return err
		}

		budget.Name = name
		return tx.Model(&budget).Select("name").Updates(&budget).Error
	})
	if err != nil {
		return models.Budget{}, err
	}

	return budget, nil
}

// DeleteBudget deletes a budget with all its transactions, balance
// adjustments, categories and memberships.
func (s *Service) DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := access.RequireOwner(tx, budgetID, userID)
		if err != nil {
			return err
		}

		for _, model := range []any{&models.Transaction{}, &models.BalanceAdjustment{}, &models.Category{}, &models.BudgetUser{}} {
			err = tx.Where("budget_id = ?", budgetID).Delete(model).Error
			if err != nil {
				return fmt.Errorf("deleting %T of budget: %w", model, err)
			}
		}

		return tx.Where("id = ?", budgetID).Delete(&models.Budget{}).Error
	})

	record("delete_budget", err)
	return err
}
