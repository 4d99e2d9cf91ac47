package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/budgetshare/backend/internal/access"
	"github.com/budgetshare/backend/internal/events"
	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GoalCreate struct {
	Name          string
	Note          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	TargetDate    time.Time
}

// GoalUpdate contains the fields to change. nil fields are not changed.
//
// The current amount is not part of it, it is changed with AddAmountToGoal.
type GoalUpdate struct {
	Name         *string
	Note         *string
	TargetAmount *decimal.Decimal
	TargetDate   *time.Time
	Archived     *bool
}

// goalOf loads a goal of the user. Goals of other users are reported as
// not found.
func goalOf(tx *gorm.DB, goalID, userID uuid.UUID) (models.Goal, error) {
	var goal models.Goal
	err := tx.Where(&models.Goal{UserID: userID}).First(&goal, "id = ?", goalID).Error
	return goal, err
}

// GetUserGoals returns all goals of the user, the closest target date first.
func (s *Service) GetUserGoals(ctx context.Context, userID uuid.UUID) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.WithContext(ctx).
		Where(&models.Goal{UserID: userID}).
		Order("target_date ASC, name ASC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (s *Service) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (models.Goal, error) {
	return goalOf(s.db.WithContext(ctx), goalID, userID)
}

func (s *Service) AddGoal(ctx context.Context, userID uuid.UUID, create GoalCreate) (models.Goal, error) {
	goal := models.Goal{
		UserID:        userID,
		Name:          create.Name,
		Note:          create.Note,
		TargetAmount:  create.TargetAmount,
		CurrentAmount: create.CurrentAmount,
		TargetDate:    create.TargetDate,
	}

	err := s.db.WithContext(ctx).Omit("User").Create(&goal).Error
	if err != nil {
		return models.Goal{}, err
	}

	return goal, nil
}

func (s *Service) UpdateGoal(ctx context.Context, userID, goalID uuid.UUID, update GoalUpdate) (models.Goal, error) {
	var goal models.Goal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		goal, err = goalOf(tx, goalID, userID)
		if err != nil {
			return err
		}

		var fields []any
		if update.Name != nil {
			goal.Name = *update.Name
			fields = append(fields, "Name")
		}
		if update.Note != nil {
			goal.Note = *update.Note
			fields = append(fields, "Note")
		}
		if update.TargetAmount != nil {
			goal.TargetAmount = *update.TargetAmount
			fields = append(fields, "TargetAmount")
		}
		if update.TargetDate != nil {
			goal.TargetDate = *update.TargetDate
			fields = append(fields, "TargetDate")
		}
		if update.Archived != nil {
			goal.Archived = *update.Archived
			fields = append(fields, "Archived")
		}

		if len(fields) == 0 {
			return nil
		}

		return tx.Model(&goal).Select(fields[0], fields[1:]...).Updates(&goal).Error
	})
	if err != nil {
		return models.Goal{}, err
	}

	return goal, nil
}

// DeleteGoal deletes a goal. Balance adjustments of transfers to the goal
// are kept, their goal reference is cleared.
func (s *Service) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goal, err := goalOf(tx, goalID, userID)
		if err != nil {
			return err
		}

		err = tx.Model(&models.BalanceAdjustment{}).
			Where("goal_id = ?", goal.ID).
			UpdateColumn("goal_id", nil).Error
		if err != nil {
			return fmt.Errorf("clearing goal of balance adjustments: %w", err)
		}

		return tx.Where("id = ?", goal.ID).Delete(&models.Goal{}).Error
	})
}

// AddAmountToGoal adds money to a goal.
//
// Without a source budget only the goal is changed. With a source budget the
// money is moved from the budget to the goal in one database transaction:
// the user must be a member of the budget and the budget balance must cover
// the amount.
func (s *Service) AddAmountToGoal(ctx context.Context, userID, goalID uuid.UUID, amount decimal.Decimal, sourceBudgetID *uuid.UUID) (models.Goal, error) {
	if amount.IsNegative() {
		record("fund_goal", models.ErrAmountNegative)
		return models.Goal{}, models.ErrAmountNegative
	}

	var goal models.Goal
	var budget models.Budget

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		goal, err = goalOf(tx, goalID, userID)
		if err != nil {
			return err
		}

		if amount.IsZero() {
			return nil
		}

		if sourceBudgetID != nil {
			_, err = access.RequireMember(tx, *sourceBudgetID, userID)
			if err != nil {
				return err
			}

			budget, err = lockBudget(tx, *sourceBudgetID)
			if err != nil {
				return err
			}

			if amount.GreaterThan(budget.Amount) {
				return models.ErrInsufficientFunds
			}

			err = tx.Omit("Budget", "User", "Goal").Create(&models.BalanceAdjustment{
				BudgetID: budget.ID,
				UserID:   userID,
				GoalID:   uuidPtr(goal.ID),
				Kind:     models.AdjustmentGoalTransfer,
				Amount:   amount.Neg(),
			}).Error
			if err != nil {
				return err
			}

			err = setBalance(tx, &budget, budget.Amount.Sub(amount))
			if err != nil {
				return err
			}
		}

		goal, err = lockGoal(tx, goalID, userID)
		if err != nil {
			return err
		}

		goal.CurrentAmount = goal.CurrentAmount.Add(amount)
		return tx.Model(&goal).Select("CurrentAmount").Updates(&goal).Error
	})

	record("fund_goal", err)
	if err != nil {
		return models.Goal{}, err
	}

	if amount.IsZero() {
		return goal, nil
	}

	// Without a source budget no balance changed
	event := events.Event{
		Type:   events.GoalFunded,
		UserID: userID,
		Amount: amount,
	}
	if sourceBudgetID != nil {
		event = budgetEvent(events.GoalFunded, budget, userID, amount.Neg())
	}
	event.GoalID = uuidPtr(goal.ID)
	s.publish(ctx, event)

	return goal, nil
}
