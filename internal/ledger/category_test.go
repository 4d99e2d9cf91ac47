package ledger_test

import (
	"github.com/budgetshare/backend/internal/ledger"
	"github.com/budgetshare/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestAddCategoryToBudget() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 0)
	member := suite.addMember(owner, budget, "member@example.com")

	category, err := suite.service.AddCategoryToBudget(ctx(), owner.ID, ledger.CategoryCreate{
		BudgetID: budget.ID,
		Name:     "Rent",
		Type:     models.CategoryTypeExpense,
		Limit:    amount(900),
	})
	suite.Require().Nil(err)
	suite.Assert().Equal(budget.ID, category.BudgetID)

	tests := []struct {
		name   string
		user   models.User
		create ledger.CategoryCreate
		err    error
	}{
		{"Member", member, ledger.CategoryCreate{BudgetID: budget.ID, Name: "Fun", Type: models.CategoryTypeExpense}, models.ErrForbidden},
		{"Invalid type", owner, ledger.CategoryCreate{BudgetID: budget.ID, Name: "Fun", Type: "SAVINGS"}, models.ErrCategoryTypeInvalid},
		{"Empty name", owner, ledger.CategoryCreate{BudgetID: budget.ID, Name: " ", Type: models.CategoryTypeIncome}, models.ErrNameEmpty},
		{"Negative limit", owner, ledger.CategoryCreate{BudgetID: budget.ID, Name: "Fun", Type: models.CategoryTypeIncome, Limit: amount(-1)}, models.ErrAmountNegative},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.AddCategoryToBudget(ctx(), tt.user.ID, tt.create)
			suite.Assert().ErrorIs(err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestGetCategoriesByBudget() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	budget := suite.createTestBudget(owner, 0)
	suite.createTestCategory(owner, budget, models.CategoryTypeIncome)
	suite.createTestCategory(owner, budget, models.CategoryTypeExpense)

	categories, err := suite.service.GetCategoriesByBudget(ctx(), owner.ID, budget.ID, nil)
	suite.Require().Nil(err)
	suite.Require().Len(categories, 2)
	suite.Assert().Equal("EXPENSE", categories[0].Name)
	suite.Assert().Equal("INCOME", categories[1].Name)

	income := models.CategoryTypeIncome
	categories, err = suite.service.GetCategoriesByBudget(ctx(), owner.ID, budget.ID, &income)
	suite.Require().Nil(err)
	suite.Require().Len(categories, 1)
	suite.Assert().Equal(models.CategoryTypeIncome, categories[0].Type)

	invalid := models.CategoryType("OTHER")
	_, err = suite.service.GetCategoriesByBudget(ctx(), owner.ID, budget.ID, &invalid)
	suite.Assert().ErrorIs(err, models.ErrCategoryTypeInvalid)

	_, err = suite.service.GetCategoriesByBudget(ctx(), outsider.ID, budget.ID, nil)
	suite.Assert().ErrorIs(err, models.ErrForbidden)
}

func (suite *TestSuiteStandard) TestUpdateCategory() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 0)
	member := suite.addMember(owner, budget, "member@example.com")
	category := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)

	name := "Food"
	limit := amount(320)
	updated, err := suite.service.UpdateCategory(ctx(), owner.ID, category.ID, ledger.CategoryUpdate{Name: &name, Limit: &limit})
	suite.Require().Nil(err)
	suite.Assert().Equal("Food", updated.Name)
	suite.Assert().True(limit.Equal(updated.Limit))
	suite.Assert().Equal(models.CategoryTypeExpense, updated.Type)

	loaded, err := suite.service.GetCategory(ctx(), member.ID, category.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal("Food", loaded.Name)
	suite.Assert().True(limit.Equal(loaded.Limit))

	_, err = suite.service.UpdateCategory(ctx(), member.ID, category.ID, ledger.CategoryUpdate{Name: &name})
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	negative := decimal.NewFromInt(-5)
	_, err = suite.service.UpdateCategory(ctx(), owner.ID, category.ID, ledger.CategoryUpdate{Limit: &negative})
	suite.Assert().ErrorIs(err, models.ErrAmountNegative)
}

func (suite *TestSuiteStandard) TestDeleteCategory() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 100)
	member := suite.addMember(owner, budget, "member@example.com")
	used := suite.createTestCategory(owner, budget, models.CategoryTypeExpense)
	unused := suite.createTestCategory(owner, budget, models.CategoryTypeIncome)
	suite.createTestTransaction(owner, used, 10)

	err := suite.service.DeleteCategory(ctx(), member.ID, unused.ID)
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	err = suite.service.DeleteCategory(ctx(), owner.ID, used.ID)
	suite.Assert().ErrorIs(err, ledger.ErrCategoryInUse)

	err = suite.service.DeleteCategory(ctx(), owner.ID, unused.ID)
	suite.Require().Nil(err)

	_, err = suite.service.GetCategory(ctx(), owner.ID, unused.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	// The balance is not touched by category changes
	suite.Assert().True(amount(90).Equal(suite.balance(budget.ID)))
}
