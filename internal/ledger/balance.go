package ledger

import (
	"context"
	"fmt"

	"github.com/budgetshare/backend/internal/access"
	"github.com/budgetshare/backend/internal/events"
	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Direction string

const (
	DirectionAdd      Direction = "add"
	DirectionSubtract Direction = "subtract"
)

var ErrDirectionInvalid = fmt.Errorf("%w: the type must be add or subtract", models.ErrValidation)

// ChangeBudgetBalance deposits money into or withdraws money from a budget.
// Any member can do this. Every change is recorded as a BalanceAdjustment.
func (s *Service) ChangeBudgetBalance(ctx context.Context, userID, budgetID uuid.UUID, amount decimal.Decimal, direction Direction) (models.Budget, error) {
	var budget models.Budget
	var adjustment models.BalanceAdjustment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !amount.IsPositive() {
			return models.ErrAmountNotPositive
		}

		kind := models.AdjustmentDeposit
		signed := amount
		switch direction {
		case DirectionAdd:
		case DirectionSubtract:
			kind = models.AdjustmentWithdrawal
			signed = amount.Neg()
		default:
			return ErrDirectionInvalid
		}

		_, err := access.RequireMember(tx, budgetID, userID)
		if err != nil {
			return err
		}

		budget, err = lockBudget(tx, budgetID)
		if err != nil {
			return err
		}

		if direction == DirectionSubtract && amount.GreaterThan(budget.Amount) {
			return models.ErrInsufficientFunds
		}

		adjustment = models.BalanceAdjustment{
			BudgetID: budgetID,
			UserID:   userID,
			Kind:     kind,
			Amount:   signed,
		}
		err = tx.Omit("Budget", "User", "Goal").Create(&adjustment).Error
		if err != nil {
			return err
		}

		return setBalance(tx, &budget, budget.Amount.Add(signed))
	})

	record("change_balance", err)
	if err != nil {
		return models.Budget{}, err
	}

	s.publish(ctx, budgetEvent(events.BalanceAdjusted, budget, userID, adjustment.Amount))

	return budget, nil
}

// GetBalanceAdjustments returns the manual balance changes and goal
// transfers of a budget, newest first.
func (s *Service) GetBalanceAdjustments(ctx context.Context, userID, budgetID uuid.UUID) ([]models.BalanceAdjustment, error) {
	db := s.db.WithContext(ctx)

	_, err := access.RequireMember(db, budgetID, userID)
	if err != nil {
		return nil, err
	}

	var adjustments []models.BalanceAdjustment
	err = db.Where(&models.BalanceAdjustment{BudgetID: budgetID}).Order("created_at DESC").Find(&adjustments).Error
	if err != nil {
		return nil, err
	}

	return adjustments, nil
}
