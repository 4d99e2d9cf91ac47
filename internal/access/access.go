// Package access decides who may change the shared state of a budget.
//
// Structural changes (inviting and removing members, categories, deleting
// the budget) need the OWNER role. Transactions can be changed by the OWNER
// of their budget and by their author as long as the author is a member.
package access

import (
	"errors"
	"fmt"

	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Decision is the result of a permission check. Reason is a message that
// can be shown to the user when the action is not allowed.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err returns nil for allowed actions and an error wrapping
// models.ErrForbidden with the reason otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", models.ErrForbidden, d.Reason)
}

// Membership returns the membership of the user in the budget.
//
// If the budget does not exist, the error wraps models.ErrResourceNotFound.
// If the user is not a member, it wraps models.ErrForbidden.
func Membership(db *gorm.DB, budgetID, userID uuid.UUID) (models.BudgetUser, error) {
	var budget models.Budget
	err := db.Select("id").First(&budget, "id = ?", budgetID).Error
	if err != nil {
		return models.BudgetUser{}, err
	}

	var membership models.BudgetUser
	err = db.Where(&models.BudgetUser{BudgetID: budgetID, UserID: userID}).First(&membership).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.BudgetUser{}, fmt.Errorf("%w: you are not a member of this budget", models.ErrForbidden)
	} else if err != nil {
		return models.BudgetUser{}, err
	}

	return membership, nil
}

// RequireMember fails unless the user is a member of the budget with any role.
func RequireMember(db *gorm.DB, budgetID, userID uuid.UUID) (models.BudgetUser, error) {
	return Membership(db, budgetID, userID)
}

// RequireOwner fails unless the user is the OWNER of the budget.
func RequireOwner(db *gorm.DB, budgetID, userID uuid.UUID) error {
	membership, err := Membership(db, budgetID, userID)
	if err != nil {
		return err
	}

	if membership.Role != models.RoleOwner {
		return fmt.Errorf("%w: only the owner of the budget can do this", models.ErrForbidden)
	}

	return nil
}

// CanMutateTransaction checks if the user may update or delete the
// transaction. Only the OWNER of the budget and the author of the
// transaction may do so.
//
// A denied action is not an error. The error is only set if the transaction
// cannot be loaded.
func CanMutateTransaction(db *gorm.DB, transactionID, userID uuid.UUID, action Action) (Decision, error) {
	var transaction models.Transaction
	err := db.First(&transaction, "id = ?", transactionID).Error
	if err != nil {
		return Decision{}, err
	}

	return CanMutate(db, transaction, userID, action)
}

// CanMutate is CanMutateTransaction for a transaction that is already loaded.
//
// Authors that are no longer members of the budget lose the right to change
// their transactions.
func CanMutate(db *gorm.DB, transaction models.Transaction, userID uuid.UUID, action Action) (Decision, error) {
	membership, err := Membership(db, transaction.BudgetID, userID)
	if errors.Is(err, models.ErrForbidden) {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("only members of the budget can %s its transactions", action),
		}, nil
	} else if err != nil {
		return Decision{}, err
	}

	if membership.Role == models.RoleOwner || transaction.UserID == userID {
		return Decision{Allowed: true}, nil
	}

	return Decision{
		Allowed: false,
		Reason:  fmt.Sprintf("only the owner of the budget or the author can %s this transaction", action),
	}, nil
}
