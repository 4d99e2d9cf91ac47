package ledger_test

import (
	"time"

	"github.com/budgetshare/backend/internal/events"
	"github.com/budgetshare/backend/internal/ledger"
	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) createTestGoal(user models.User, name string, target int64) models.Goal {
	goal, err := suite.service.AddGoal(ctx(), user.ID, ledger.GoalCreate{
		Name:         name,
		TargetAmount: amount(target),
		TargetDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.Require().Nil(err)
	return goal
}

func (suite *TestSuiteStandard) TestGoals() {
	user := suite.createTestUser("saver@example.com")
	other := suite.createTestUser("other@example.com")

	later, err := suite.service.AddGoal(ctx(), user.ID, ledger.GoalCreate{
		Name:          "Car",
		Note:          "Used is fine",
		TargetAmount:  amount(8000),
		CurrentAmount: amount(500),
		TargetDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.Require().Nil(err)
	sooner := suite.createTestGoal(user, "Bike", 900)
	suite.createTestGoal(other, "Boat", 20000)

	goals, err := suite.service.GetUserGoals(ctx(), user.ID)
	suite.Require().Nil(err)
	suite.Require().Len(goals, 2)
	suite.Assert().Equal(sooner.ID, goals[0].ID)
	suite.Assert().Equal(later.ID, goals[1].ID)
	suite.Assert().True(amount(500).Equal(goals[1].CurrentAmount))

	// Goals of other users are invisible
	_, err = suite.service.GetGoal(ctx(), other.ID, sooner.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestAddGoalFails() {
	user := suite.createTestUser("saver@example.com")

	_, err := suite.service.AddGoal(ctx(), user.ID, ledger.GoalCreate{Name: " ", TargetAmount: amount(5)})
	suite.Assert().ErrorIs(err, models.ErrNameEmpty)

	_, err = suite.service.AddGoal(ctx(), user.ID, ledger.GoalCreate{Name: "Trip", TargetAmount: amount(-5)})
	suite.Assert().ErrorIs(err, models.ErrAmountNegative)

	_, err = suite.service.AddGoal(ctx(), user.ID, ledger.GoalCreate{Name: "Trip", CurrentAmount: amount(-5)})
	suite.Assert().ErrorIs(err, models.ErrAmountNegative)
}

func (suite *TestSuiteStandard) TestUpdateGoal() {
	user := suite.createTestUser("saver@example.com")
	other := suite.createTestUser("other@example.com")
	goal := suite.createTestGoal(user, "Bike", 900)

	name := "E-Bike"
	target := amount(2500)
	archived := true
	updated, err := suite.service.UpdateGoal(ctx(), user.ID, goal.ID, ledger.GoalUpdate{Name: &name, TargetAmount: &target, Archived: &archived})
	suite.Require().Nil(err)
	suite.Assert().Equal("E-Bike", updated.Name)
	suite.Assert().True(target.Equal(updated.TargetAmount))
	suite.Assert().True(updated.Archived)

	loaded, err := suite.service.GetGoal(ctx(), user.ID, goal.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal("E-Bike", loaded.Name)
	suite.Assert().True(loaded.Archived)

	// An empty update changes nothing
	_, err = suite.service.UpdateGoal(ctx(), user.ID, goal.ID, ledger.GoalUpdate{})
	suite.Assert().Nil(err)

	_, err = suite.service.UpdateGoal(ctx(), other.ID, goal.ID, ledger.GoalUpdate{Name: &name})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestDeleteGoal() {
	user := suite.createTestUser("saver@example.com")
	other := suite.createTestUser("other@example.com")
	budget := suite.createTestBudget(user, 100)
	goal := suite.createTestGoal(user, "Bike", 900)

	_, err := suite.service.AddAmountToGoal(ctx(), user.ID, goal.ID, amount(30), &budget.ID)
	suite.Require().Nil(err)

	err = suite.service.DeleteGoal(ctx(), other.ID, goal.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	err = suite.service.DeleteGoal(ctx(), user.ID, goal.ID)
	suite.Require().Nil(err)

	_, err = suite.service.GetGoal(ctx(), user.ID, goal.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	// The transfer stays in the ledger of the budget
	adjustments, err := suite.service.GetBalanceAdjustments(ctx(), user.ID, budget.ID)
	suite.Require().Nil(err)
	suite.Require().Len(adjustments, 1)
	suite.Assert().Nil(adjustments[0].GoalID)
	suite.assertConserved(budget.ID, 100)
}

func (suite *TestSuiteStandard) TestAddAmountToGoalFromBudget() {
	user := suite.createTestUser("saver@example.com")
	budget := suite.createTestBudget(user, 100)
	goal := suite.createTestGoal(user, "Bike", 900)

	funded, err := suite.service.AddAmountToGoal(ctx(), user.ID, goal.ID, amount(60), &budget.ID)
	suite.Require().Nil(err)
	suite.Assert().True(amount(60).Equal(funded.CurrentAmount))
	suite.Assert().True(amount(40).Equal(suite.balance(budget.ID)))

	// Overdrawing the budget changes neither side
	_, err = suite.service.AddAmountToGoal(ctx(), user.ID, goal.ID, amount(41), &budget.ID)
	suite.Assert().ErrorIs(err, models.ErrInsufficientFunds)
	suite.Assert().True(amount(40).Equal(suite.balance(budget.ID)))

	loaded, err := suite.service.GetGoal(ctx(), user.ID, goal.ID)
	suite.Require().Nil(err)
	suite.Assert().True(amount(60).Equal(loaded.CurrentAmount))

	adjustments, err := suite.service.GetBalanceAdjustments(ctx(), user.ID, budget.ID)
	suite.Require().Nil(err)
	suite.Require().Len(adjustments, 1)
	suite.Assert().Equal(models.AdjustmentGoalTransfer, adjustments[0].Kind)
	suite.Assert().Equal(goal.ID, *adjustments[0].GoalID)
	suite.Assert().True(amount(-60).Equal(adjustments[0].Amount))

	recorded := suite.events.Events()
	suite.Require().Len(recorded, 1)
	suite.Assert().Equal(events.GoalFunded, recorded[0].Type)
	suite.Assert().Equal(goal.ID, *recorded[0].GoalID)
	suite.Require().NotNil(recorded[0].BudgetID)
	suite.Assert().Equal(budget.ID, *recorded[0].BudgetID)
	suite.Assert().True(amount(-60).Equal(recorded[0].Amount))
	suite.Require().NotNil(recorded[0].Balance)
	suite.Assert().True(amount(40).Equal(*recorded[0].Balance))

	suite.assertConserved(budget.ID, 100)
}

func (suite *TestSuiteStandard) TestAddAmountToGoalWithoutBudget() {
	user := suite.createTestUser("saver@example.com")
	goal := suite.createTestGoal(user, "Bike", 900)

	funded, err := suite.service.AddAmountToGoal(ctx(), user.ID, goal.ID, amount(900), nil)
	suite.Require().Nil(err)
	suite.Assert().True(funded.Reached())

	recorded := suite.events.Events()
	suite.Require().Len(recorded, 1)
	suite.Assert().Equal(events.GoalFunded, recorded[0].Type)
	suite.Assert().Equal(goal.ID, *recorded[0].GoalID)
	suite.Assert().Nil(recorded[0].BudgetID)
	suite.Assert().Nil(recorded[0].Balance)
	suite.Assert().Empty(recorded[0].Budget())
	suite.Assert().True(amount(900).Equal(recorded[0].Amount))

	// Zero is accepted and changes nothing
	funded, err = suite.service.AddAmountToGoal(ctx(), user.ID, goal.ID, decimal.Zero, nil)
	suite.Require().Nil(err)
	suite.Assert().True(amount(900).Equal(funded.CurrentAmount))
	suite.Assert().Len(suite.events.Events(), 1)
}

func (suite *TestSuiteStandard) TestAddAmountToGoalFails() {
	user := suite.createTestUser("saver@example.com")
	other := suite.createTestUser("other@example.com")
	foreignBudget := suite.createTestBudget(other, 1000)
	goal := suite.createTestGoal(user, "Bike", 900)
	missing := uuid.New()

	_, err := suite.service.AddAmountToGoal(ctx(), user.ID, goal.ID, amount(-1), nil)
	suite.Assert().ErrorIs(err, models.ErrAmountNegative)

	_, err = suite.service.AddAmountToGoal(ctx(), other.ID, goal.ID, amount(1), nil)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	_, err = suite.service.AddAmountToGoal(ctx(), user.ID, goal.ID, amount(1), &foreignBudget.ID)
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	_, err = suite.service.AddAmountToGoal(ctx(), user.ID, goal.ID, amount(1), &missing)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	suite.Assert().True(amount(1000).Equal(suite.balance(foreignBudget.ID)))
}
