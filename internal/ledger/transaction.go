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

type TransactionCreate struct {
	BudgetID    uuid.UUID
	CategoryID  uuid.UUID
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// TransactionUpdate contains the fields to change. nil fields are not changed.
type TransactionUpdate struct {
	CategoryID  *uuid.UUID
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// categoryOfBudget loads a category and checks that it belongs to the budget.
func categoryOfBudget(tx *gorm.DB, categoryID, budgetID uuid.UUID) (models.Category, error) {
	var category models.Category
	err := tx.First(&category, "id = ?", categoryID).Error
	if err != nil {
		return models.Category{}, err
	}

	if category.BudgetID != budgetID {
		return models.Category{}, models.ErrCategoryNotInBudget
	}

	return category, nil
}

// CreateTransaction records a transaction and applies it to the balance of
// its budget. Any member of the budget can do this.
//
// If the resulting balance would be negative, models.ErrInsufficientFunds
// is returned and nothing is written.
func (s *Service) CreateTransaction(ctx context.Context, userID uuid.UUID, create TransactionCreate) (models.Transaction, error) {
	if !create.Amount.IsPositive() {
		record("create_transaction", models.ErrAmountNotPositive)
		return models.Transaction{}, models.ErrAmountNotPositive
	}

	var transaction models.Transaction
	var budget models.Budget

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := access.RequireMember(tx, create.BudgetID, userID)
		if err != nil {
			return err
		}

		budget, err = lockBudget(tx, create.BudgetID)
		if err != nil {
			return err
		}

		category, err := categoryOfBudget(tx, create.CategoryID, create.BudgetID)
		if err != nil {
			return err
		}

		balance := budget.Amount.Add(category.Type.Signed(create.Amount))
		if balance.IsNegative() {
			return models.ErrInsufficientFunds
		}

		transaction = models.Transaction{
			BudgetID:    create.BudgetID,
			CategoryID:  create.CategoryID,
			UserID:      userID,
			Amount:      create.Amount,
			Description: create.Description,
			Date:        create.Date,
		}

		err = tx.Omit("Budget", "Category", "User").Create(&transaction).Error
		if err != nil {
			return err
		}
		transaction.Category = category

		return setBalance(tx, &budget, balance)
	})

	record("create_transaction", err)
	if err != nil {
		return models.Transaction{}, err
	}

	event := budgetEvent(events.TransactionCreated, budget, userID, transaction.Signed())
	event.TransactionID = uuidPtr(transaction.ID)
	s.publish(ctx, event)

	return transaction, nil
}

// lockForMutation locks the budget of a transaction, then reads the
// transaction again and checks that the user may change it.
func lockForMutation(tx *gorm.DB, userID, transactionID uuid.UUID, action access.Action) (models.Budget, models.Transaction, error) {
	var found models.Transaction
	err := tx.Select("id", "budget_id").First(&found, "id = ?", transactionID).Error
	if err != nil {
		return models.Budget{}, models.Transaction{}, err
	}

	budget, err := lockBudget(tx, found.BudgetID)
	if err != nil {
		return models.Budget{}, models.Transaction{}, err
	}

	transaction, err := lockTransaction(tx, transactionID)
	if err != nil {
		return models.Budget{}, models.Transaction{}, err
	}

	decision, err := access.CanMutate(tx, transaction, userID, action)
	if err != nil {
		return models.Budget{}, models.Transaction{}, err
	}
	if err := decision.Err(); err != nil {
		return models.Budget{}, models.Transaction{}, err
	}

	return budget, transaction, nil
}

// UpdateTransaction changes a transaction and reprices it.
//
// The effect of the old amount and category is reversed and the effect of
// the new ones applied. A change that lowers the balance below zero is
// rejected with models.ErrInsufficientFunds.
func (s *Service) UpdateTransaction(ctx context.Context, userID, transactionID uuid.UUID, update TransactionUpdate) (models.Transaction, error) {
	if update.Amount != nil && !update.Amount.IsPositive() {
		record("update_transaction", models.ErrAmountNotPositive)
		return models.Transaction{}, models.ErrAmountNotPositive
	}

	var transaction models.Transaction
	var budget models.Budget
	var diff decimal.Decimal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		budget, transaction, err = lockForMutation(tx, userID, transactionID, access.ActionUpdate)
		if err != nil {
			return err
		}

		oldCategory := transaction.Category
		newCategory := oldCategory
		if update.CategoryID != nil && *update.CategoryID != oldCategory.ID {
			newCategory, err = categoryOfBudget(tx, *update.CategoryID, transaction.BudgetID)
			if err != nil {
				return err
			}
		}

		newAmount := transaction.Amount
		if update.Amount != nil {
			newAmount = *update.Amount
		}

		// Reverse the old effect, apply the new one
		diff = oldCategory.Type.Signed(transaction.Amount).Neg().Add(newCategory.Type.Signed(newAmount))
		balance := budget.Amount.Add(diff)
		if diff.IsNegative() && balance.IsNegative() {
			return models.ErrInsufficientFunds
		}

		transaction.CategoryID = newCategory.ID
		transaction.Category = newCategory
		transaction.Amount = newAmount
		if update.Description != nil {
			transaction.Description = *update.Description
		}
		if update.Date != nil {
			transaction.Date = *update.Date
		}

		err = tx.Model(&transaction).
			Select("CategoryID", "Amount", "Description", "Date").
			Updates(&transaction).Error
		if err != nil {
			return err
		}

		if diff.IsZero() {
			return nil
		}
		return setBalance(tx, &budget, balance)
	})

	record("update_transaction", err)
	if err != nil {
		return models.Transaction{}, err
	}

	event := budgetEvent(events.TransactionUpdated, budget, userID, diff)
	event.TransactionID = uuidPtr(transaction.ID)
	s.publish(ctx, event)

	return transaction, nil
}

// DeleteTransaction deletes a transaction and reverses its effect on the
// balance. Removing income that has already been spent is rejected with
// models.ErrInsufficientFunds.
func (s *Service) DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) (models.Transaction, error) {
	var transaction models.Transaction
	var budget models.Budget
	var diff decimal.Decimal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		budget, transaction, err = lockForMutation(tx, userID, transactionID, access.ActionDelete)
		if err != nil {
			return err
		}

		diff = transaction.Signed().Neg()
		balance := budget.Amount.Add(diff)
		if diff.IsNegative() && balance.IsNegative() {
			return models.ErrInsufficientFunds
		}

		result := tx.Where("id = ?", transaction.ID).Delete(&models.Transaction{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return fmt.Errorf("%w transaction matching your query", models.ErrResourceNotFound)
		}

		return setBalance(tx, &budget, balance)
	})

	record("delete_transaction", err)
	if err != nil {
		return models.Transaction{}, err
	}

	event := budgetEvent(events.TransactionDeleted, budget, userID, diff)
	event.TransactionID = uuidPtr(transaction.ID)
	s.publish(ctx, event)

	return transaction, nil
}

// GetTransaction returns a transaction of a budget the user is a member of.
func (s *Service) GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (models.Transaction, error) {
	db := s.db.WithContext(ctx)

	var transaction models.Transaction
	err := db.Preload("Category").First(&transaction, "id = ?", transactionID).Error
	if err != nil {
		return models.Transaction{}, err
	}

	_, err = access.RequireMember(db, transaction.BudgetID, userID)
	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// LedgerTotal sums the signed transactions and balance adjustments of a
// budget. The balance of the budget is its initial amount plus this total.
func (s *Service) LedgerTotal(ctx context.Context, budgetID uuid.UUID) (decimal.Decimal, error) {
	db := s.db.WithContext(ctx)

	var transactions []models.Transaction
	err := db.Preload("Category").Where(&models.Transaction{BudgetID: budgetID}).Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}

	var adjustments []models.BalanceAdjustment
	err = db.Where(&models.BalanceAdjustment{BudgetID: budgetID}).Find(&adjustments).Error
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, t := range transactions {
		sum = sum.Add(t.Signed())
	}
	for _, a := range adjustments {
		sum = sum.Add(a.Amount)
	}

	return sum, nil
}
