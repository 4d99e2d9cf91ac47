// Package ledger implements all operations that change budgets, their
// categories, members and transactions, and the goals of users.
//
// Every operation that changes a budget balance reads the budget, computes
// the new balance and writes it together with the ledger row in one
// database transaction. On PostgreSQL the budget row is locked with
// SELECT ... FOR UPDATE. On sqlite the single connection serializes writers.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/budgetshare/backend/internal/events"
	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MutationCount counts ledger mutations by operation and outcome.
var MutationCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_mutations_total",
		Help: "Number of ledger mutations by operation and outcome",
	},
	[]string{"operation", "outcome"},
)

type Service struct {
	db             *gorm.DB
	publisher      events.Publisher
	invitePatterns []string
	now            func() time.Time
}

type Option func(*Service)

// WithInvitePatterns restricts invitations to email addresses matching
// one of the glob patterns.
func WithInvitePatterns(patterns []string) Option {
	return func(s *Service) {
		s.invitePatterns = patterns
	}
}

// WithClock replaces the clock used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(db *gorm.DB, publisher events.Publisher, opts ...Option) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}

	s := &Service{
		db:        db,
		publisher: publisher,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// locking adds FOR UPDATE to the next query on PostgreSQL.
func locking(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// lockBudget loads the budget for a balance change.
//
// Rows that change together with the balance are locked after their budget,
// always in this order.
func lockBudget(tx *gorm.DB, id uuid.UUID) (models.Budget, error) {
	var budget models.Budget
	err := locking(tx).First(&budget, "id = ?", id).Error
	return budget, err
}

// lockTransaction reads a transaction and its category after its budget has
// been locked. A transaction deleted by a concurrent request is not found.
func lockTransaction(tx *gorm.DB, id uuid.UUID) (models.Transaction, error) {
	var transaction models.Transaction
	err := locking(tx).First(&transaction, "id = ?", id).Error
	if err != nil {
		return models.Transaction{}, err
	}

	err = tx.First(&transaction.Category, "id = ?", transaction.CategoryID).Error
	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// lockGoal reads a goal of the user for a change of its current amount.
func lockGoal(tx *gorm.DB, goalID, userID uuid.UUID) (models.Goal, error) {
	var goal models.Goal
	err := locking(tx).Where(&models.Goal{UserID: userID}).First(&goal, "id = ?", goalID).Error
	return goal, err
}

// setBalance writes a new balance. The budget must have been loaded with
// lockBudget in the same transaction.
func setBalance(tx *gorm.DB, budget *models.Budget, balance decimal.Decimal) error {
	err := tx.Model(budget).Update("amount", balance).Error
	if err != nil {
		return err
	}

	budget.Amount = balance
	return nil
}

// budgetEvent returns an event for a change of the balance of budget.
func budgetEvent(typ events.Type, budget models.Budget, userID uuid.UUID, amount decimal.Decimal) events.Event {
	balance := budget.Amount

	return events.Event{
		Type:     typ,
		BudgetID: uuidPtr(budget.ID),
		UserID:   userID,
		Amount:   amount,
		Balance:  &balance,
	}
}

// publish sends the event. Failures are logged, the change has already
// been committed.
func (s *Service) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = s.now().UTC()

	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Str("budget", event.Budget()).Msg("Publishing ledger event failed")
	}
}

// record counts the mutation with its outcome.
func record(operation string, err error) {
	MutationCount.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, models.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, models.ErrForbidden):
		return "forbidden"
	case errors.Is(err, models.ErrResourceNotFound):
		return "not_found"
	case errors.Is(err, models.ErrValidation):
		return "invalid"
	case errors.Is(err, models.ErrConflict):
		return "conflict"
	}
	return "error"
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
