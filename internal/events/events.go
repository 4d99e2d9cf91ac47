// Package events publishes ledger mutations after they have been committed.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TransactionCreated Type = "transaction.created"
	TransactionUpdated Type = "transaction.updated"
	TransactionDeleted Type = "transaction.deleted"
	BalanceAdjusted    Type = "budget.balance_adjusted"
	GoalFunded         Type = "goal.funded"
)

// Event describes a committed change of a budget balance or a goal.
//
// BudgetID and Balance are nil for goal fundings that did not move money
// out of a budget.
type Event struct {
	Type          Type             `json:"type"`
	BudgetID      *uuid.UUID       `json:"budgetId,omitempty"`
	TransactionID *uuid.UUID       `json:"transactionId,omitempty"`
	GoalID        *uuid.UUID       `json:"goalId,omitempty"`
	UserID        uuid.UUID        `json:"userId"`
	Amount        decimal.Decimal  `json:"amount"`            // The signed change of the balance, or of the goal for events without a budget
	Balance       *decimal.Decimal `json:"balance,omitempty"` // The budget balance after the change
	OccurredAt    time.Time        `json:"occurredAt"`
}

// Budget returns the budget ID as string, or an empty string for events
// without a budget.
func (e Event) Budget() string {
	if e.BudgetID == nil {
		return ""
	}
	return e.BudgetID.String()
}

// Publisher sends events to interested parties.
//
// Publish is called after the ledger transaction has been committed. An
// error is logged by the caller and never undoes the change.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards all events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps all published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error // Returned by Publish if set
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}

	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events...)
}
