package ledger_test

import (
	"time"

	"github.com/budgetshare/backend/internal/events"
	"github.com/budgetshare/backend/internal/ledger"
	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCreateTransactionChangesBalance() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 1000)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)
	income := suite.createTestCategory(owner, budget, models.CategoryTypeIncome)

	suite.createTestTransaction(owner, expense, 300)
	suite.Assert().True(amount(700).Equal(suite.balance(budget.ID)))

	suite.createTestTransaction(owner, income, 50)
	suite.Assert().True(amount(750).Equal(suite.balance(budget.ID)))

	suite.assertConserved(budget.ID, 1000)
}

func (suite *TestSuiteStandard) TestCreateTransactionInsufficientFunds() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 1000)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)

	// Spending the whole balance is allowed
	suite.createTestTransaction(owner, expense, 1000)
	suite.Assert().True(decimal.Zero.Equal(suite.balance(budget.ID)))

	before := testutil.ToFloat64(ledger.MutationCount.WithLabelValues("create_transaction", "insufficient_funds"))

	_, err := suite.service.CreateTransaction(ctx(), owner.ID, ledger.TransactionCreate{
		BudgetID:   budget.ID,
		CategoryID: expense.ID,
		Amount:     amount(1),
		Date:       time.Now(),
	})
	suite.Assert().ErrorIs(err, models.ErrInsufficientFunds)
	suite.Assert().True(decimal.Zero.Equal(suite.balance(budget.ID)))

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Transaction{}).Count(&count).Error)
	suite.Assert().Equal(int64(1), count, "rejected transaction must not be stored")

	suite.Assert().Equal(before+1, testutil.ToFloat64(ledger.MutationCount.WithLabelValues("create_transaction", "insufficient_funds")))
	suite.assertConserved(budget.ID, 1000)
}

func (suite *TestSuiteStandard) TestCreateTransactionFails() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	budget := suite.createTestBudget(owner, 1000)
	other := suite.createTestBudget(owner, 1000)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)

	tests := []struct {
		name   string
		userID uuid.UUID
		create ledger.TransactionCreate
		err    error
	}{
		{"Zero amount", owner.ID, ledger.TransactionCreate{BudgetID: budget.ID, CategoryID: expense.ID, Amount: decimal.Zero}, models.ErrAmountNotPositive},
		{"Negative amount", owner.ID, ledger.TransactionCreate{BudgetID: budget.ID, CategoryID: expense.ID, Amount: amount(-5)}, models.ErrAmountNotPositive},
		{"Not a member", outsider.ID, ledger.TransactionCreate{BudgetID: budget.ID, CategoryID: expense.ID, Amount: amount(5)}, models.ErrForbidden},
		{"Category of other budget", owner.ID, ledger.TransactionCreate{BudgetID: other.ID, CategoryID: expense.ID, Amount: amount(5)}, models.ErrCategoryNotInBudget},
		{"Budget does not exist", owner.ID, ledger.TransactionCreate{BudgetID: uuid.New(), CategoryID: expense.ID, Amount: amount(5)}, models.ErrResourceNotFound},
		{"Category does not exist", owner.ID, ledger.TransactionCreate{BudgetID: budget.ID, CategoryID: uuid.New(), Amount: amount(5)}, models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateTransaction(ctx(), tt.userID, tt.create)
			suite.Assert().ErrorIs(err, tt.err)
		})
	}

	suite.Assert().True(amount(1000).Equal(suite.balance(budget.ID)))
	suite.Assert().True(amount(1000).Equal(suite.balance(other.ID)))
	suite.Assert().Len(suite.events.Events(), 0)
}

func (suite *TestSuiteStandard) TestCreateTransactionPublishesEvent() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 100)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)

	transaction := suite.createTestTransaction(owner, expense, 40)

	recorded := suite.events.Events()
	suite.Require().Len(recorded, 1)
	suite.Assert().Equal(events.TransactionCreated, recorded[0].Type)
	suite.Require().NotNil(recorded[0].BudgetID)
	suite.Assert().Equal(budget.ID, *recorded[0].BudgetID)
	suite.Assert().Equal(transaction.ID, *recorded[0].TransactionID)
	suite.Assert().True(amount(-40).Equal(recorded[0].Amount))
	suite.Require().NotNil(recorded[0].Balance)
	suite.Assert().True(amount(60).Equal(*recorded[0].Balance))
	suite.Assert().Equal(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), recorded[0].OccurredAt)
}

func (suite *TestSuiteStandard) TestPublishFailureKeepsTransaction() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 100)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)

	suite.events.Err = models.ErrGeneral
	suite.createTestTransaction(owner, expense, 40)

	suite.Assert().True(amount(60).Equal(suite.balance(budget.ID)))
}

func (suite *TestSuiteStandard) TestUpdateTransactionAmount() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 1000)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)

	transaction := suite.createTestTransaction(owner, expense, 200)
	suite.Assert().True(amount(800).Equal(suite.balance(budget.ID)))

	fifty := amount(50)
	updated, err := suite.service.UpdateTransaction(ctx(), owner.ID, transaction.ID, ledger.TransactionUpdate{Amount: &fifty})
	suite.Require().Nil(err)
	suite.Assert().True(fifty.Equal(updated.Amount))
	suite.Assert().True(amount(950).Equal(suite.balance(budget.ID)))

	recorded := suite.events.Events()
	suite.Require().Len(recorded, 2)
	suite.Assert().Equal(events.TransactionUpdated, recorded[1].Type)
	suite.Assert().True(amount(150).Equal(recorded[1].Amount))

	suite.assertConserved(budget.ID, 1000)
}

func (suite *TestSuiteStandard) TestUpdateTransactionCategoryType() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 1000)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)
	income := suite.createTestCategory(owner, budget, models.CategoryTypeIncome)

	transaction := suite.createTestTransaction(owner, expense, 100)
	suite.Assert().True(amount(900).Equal(suite.balance(budget.ID)))

	// Moving an expense to an income category changes the balance by twice the amount
	updated, err := suite.service.UpdateTransaction(ctx(), owner.ID, transaction.ID, ledger.TransactionUpdate{CategoryID: &income.ID})
	suite.Require().Nil(err)
	suite.Assert().Equal(income.ID, updated.CategoryID)
	suite.Assert().True(amount(1100).Equal(suite.balance(budget.ID)))

	updated, err = suite.service.UpdateTransaction(ctx(), owner.ID, transaction.ID, ledger.TransactionUpdate{CategoryID: &expense.ID})
	suite.Require().Nil(err)
	suite.Assert().Equal(expense.ID, updated.CategoryID)
	suite.Assert().True(amount(900).Equal(suite.balance(budget.ID)))

	suite.assertConserved(budget.ID, 1000)
}

func (suite *TestSuiteStandard) TestUpdateTransactionInsufficientFunds() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 100)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)

	transaction := suite.createTestTransaction(owner, expense, 60)

	tooMuch := amount(101)
	_, err := suite.service.UpdateTransaction(ctx(), owner.ID, transaction.ID, ledger.TransactionUpdate{Amount: &tooMuch})
	suite.Assert().ErrorIs(err, models.ErrInsufficientFunds)
	suite.Assert().True(amount(40).Equal(suite.balance(budget.ID)))

	var stored models.Transaction
	suite.Require().Nil(models.DB.First(&stored, "id = ?", transaction.ID).Error)
	suite.Assert().True(amount(60).Equal(stored.Amount))

	// Exactly the full balance works
	all := amount(100)
	_, err = suite.service.UpdateTransaction(ctx(), owner.ID, transaction.ID, ledger.TransactionUpdate{Amount: &all})
	suite.Assert().Nil(err)
	suite.Assert().True(decimal.Zero.Equal(suite.balance(budget.ID)))
}

func (suite *TestSuiteStandard) TestUpdateTransactionFields() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 100)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)
	transaction := suite.createTestTransaction(owner, expense, 10)

	description := "  Weekly groceries "
	date := time.Date(2024, 2, 1, 23, 0, 0, 0, time.FixedZone("CET", 3600))
	updated, err := suite.service.UpdateTransaction(ctx(), owner.ID, transaction.ID, ledger.TransactionUpdate{Description: &description, Date: &date})
	suite.Require().Nil(err)

	var stored models.Transaction
	suite.Require().Nil(models.DB.First(&stored, "id = ?", transaction.ID).Error)
	suite.Assert().Equal("Weekly groceries", stored.Description)
	suite.Assert().Equal(time.Date(2024, 2, 1, 22, 0, 0, 0, time.UTC), stored.Date)
	suite.Assert().Equal(stored.Description, updated.Description)

	// Without a balance change, the budget is unchanged
	suite.Assert().True(amount(90).Equal(suite.balance(budget.ID)))
}

func (suite *TestSuiteStandard) TestUpdateTransactionFails() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 100)
	other := suite.createTestBudget(owner, 100)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)
	foreign := suite.createTestCategory(owner, other, models.CategoryTypeExpense)
	transaction := suite.createTestTransaction(owner, expense, 10)

	zero := decimal.Zero
	_, err := suite.service.UpdateTransaction(ctx(), owner.ID, transaction.ID, ledger.TransactionUpdate{Amount: &zero})
	suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)

	_, err = suite.service.UpdateTransaction(ctx(), owner.ID, transaction.ID, ledger.TransactionUpdate{CategoryID: &foreign.ID})
	suite.Assert().ErrorIs(err, models.ErrCategoryNotInBudget)

	_, err = suite.service.UpdateTransaction(ctx(), owner.ID, uuid.New(), ledger.TransactionUpdate{})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestTransactionAuthorization() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 1000)
	author := suite.addMember(owner, budget, "author@example.com")
	member := suite.addMember(owner, budget, "member@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)

	transaction := suite.createTestTransaction(author, expense, 100)
	changed := amount(120)

	for _, user := range []models.User{member, outsider} {
		_, err := suite.service.UpdateTransaction(ctx(), user.ID, transaction.ID, ledger.TransactionUpdate{Amount: &changed})
		suite.Assert().ErrorIs(err, models.ErrForbidden, user.Email)

		_, err = suite.service.DeleteTransaction(ctx(), user.ID, transaction.ID)
		suite.Assert().ErrorIs(err, models.ErrForbidden, user.Email)
	}
	suite.Assert().True(amount(900).Equal(suite.balance(budget.ID)))

	// The author can change their transaction
	_, err := suite.service.UpdateTransaction(ctx(), author.ID, transaction.ID, ledger.TransactionUpdate{Amount: &changed})
	suite.Assert().Nil(err)
	suite.Assert().True(amount(880).Equal(suite.balance(budget.ID)))

	// The owner can delete every transaction in the budget
	_, err = suite.service.DeleteTransaction(ctx(), owner.ID, transaction.ID)
	suite.Assert().Nil(err)
	suite.Assert().True(amount(1000).Equal(suite.balance(budget.ID)))

	suite.assertConserved(budget.ID, 1000)
}

func (suite *TestSuiteStandard) TestDeleteTransaction() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 800)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)

	transaction := suite.createTestTransaction(owner, expense, 300)
	suite.Assert().True(amount(500).Equal(suite.balance(budget.ID)))

	deleted, err := suite.service.DeleteTransaction(ctx(), owner.ID, transaction.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal(transaction.ID, deleted.ID)
	suite.Assert().True(amount(800).Equal(suite.balance(budget.ID)))

	_, err = suite.service.GetTransaction(ctx(), owner.ID, transaction.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	recorded := suite.events.Events()
	suite.Require().Len(recorded, 2)
	suite.Assert().Equal(events.TransactionDeleted, recorded[1].Type)
	suite.Assert().True(amount(300).Equal(recorded[1].Amount))

	suite.assertConserved(budget.ID, 800)
}

func (suite *TestSuiteStandard) TestDeleteSpentIncome() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 0)
	income := suite.createTestCategory(owner, budget, models.CategoryTypeIncome)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)

	salary := suite.createTestTransaction(owner, income, 100)
	suite.createTestTransaction(owner, expense, 80)

	_, err := suite.service.DeleteTransaction(ctx(), owner.ID, salary.ID)
	suite.Assert().ErrorIs(err, models.ErrInsufficientFunds)
	suite.Assert().True(amount(20).Equal(suite.balance(budget.ID)))

	suite.assertConserved(budget.ID, 0)
}

func (suite *TestSuiteStandard) TestGetTransaction() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	budget := suite.createTestBudget(owner, 100)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)
	transaction := suite.createTestTransaction(owner, expense, 10)

	loaded, err := suite.service.GetTransaction(ctx(), owner.ID, transaction.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal(expense.ID, loaded.Category.ID)

	_, err = suite.service.GetTransaction(ctx(), outsider.ID, transaction.ID)
	suite.Assert().ErrorIs(err, models.ErrForbidden)
}

func (suite *TestSuiteStandard) TestTransactionDatabaseError() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 100)
	expense := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)

	suite.CloseDB()

	_, err := suite.service.CreateTransaction(ctx(), owner.ID, ledger.TransactionCreate{
		BudgetID:   budget.ID,
		CategoryID: expense.ID,
		Amount:     amount(5),
	})
	suite.Assert().NotNil(err)
	suite.Assert().Len(suite.events.Events(), 0)
}

func (suite *TestSuiteStandard) TestRemovedAuthorCannotMutate() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 1000)
	author := suite.addMember(owner, budget, "author@example.com")
	income := suite.createTestCategory(owner, budget, models.CategoryTypeIncome)

	transaction := suite.createTestTransaction(author, income, 100)
	suite.Require().Nil(suite.service.RemoveUserFromBudget(ctx(), owner.ID, budget.ID, author.ID))

	changed := amount(100000)
	_, err := suite.service.UpdateTransaction(ctx(), author.ID, transaction.ID, ledger.TransactionUpdate{Amount: &changed})
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	_, err = suite.service.DeleteTransaction(ctx(), author.ID, transaction.ID)
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	_, err = suite.service.GetTransaction(ctx(), author.ID, transaction.ID)
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	suite.Assert().True(amount(1100).Equal(suite.balance(budget.ID)), "balance is %s", suite.balance(budget.ID))
	suite.assertConserved(budget.ID, 1000)

	// The owner still manages the transaction
	_, err = suite.service.UpdateTransaction(ctx(), owner.ID, transaction.ID, ledger.TransactionUpdate{Amount: &changed})
	suite.Assert().Nil(err)
	suite.assertConserved(budget.ID, 1000)
}
