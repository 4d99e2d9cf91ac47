package models

import (
	"errors"
	"fmt"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	// ErrForbidden is returned when the caller lacks the role or authorship
	// needed for an operation.
	ErrForbidden = errors.New("you are not allowed to do this")

	// ErrInsufficientFunds is returned when an operation would drive a
	// budget balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrUserEmailNotUnique         = fmt.Errorf("%w: a user with this email address already exists", ErrConflict)
	ErrMembershipNotUnique        = fmt.Errorf("%w: the user is already a member of this budget", ErrConflict)
	ErrCategoryTypeInvalid        = fmt.Errorf("%w: the category type must be INCOME or EXPENSE", ErrValidation)
	ErrRoleInvalid                = fmt.Errorf("%w: the role must be OWNER or MEMBER", ErrValidation)
	ErrAmountNotPositive          = fmt.Errorf("%w: the amount must be larger than zero", ErrValidation)
	ErrAmountNegative             = fmt.Errorf("%w: the amount must not be negative", ErrValidation)
	ErrNameEmpty                  = fmt.Errorf("%w: the name must not be empty", ErrValidation)
	ErrCategoryNotInBudget        = fmt.Errorf("%w: the category does not belong to the budget", ErrValidation)
	ErrAdjustmentKindInvalid      = fmt.Errorf("%w: the adjustment kind is invalid", ErrValidation)
	ErrTransactionBudgetImmutable = fmt.Errorf("%w: a transaction cannot be moved to another budget", ErrValidation)
	ErrReferenceInvalid           = fmt.Errorf("%w: a resource ID you specified does not identify an existing resource", ErrValidation)
	ErrEmailInvalid               = fmt.Errorf("%w: the email address is invalid", ErrValidation)
)
