package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budgetshare/backend/internal/controllers/v1"
	"github.com/budgetshare/backend/internal/ledger"
	"github.com/budgetshare/backend/internal/models"
	"github.com/budgetshare/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestBudgetsCreateAndList() {
	jane := suite.createTestUser("Jane")
	john := suite.createTestUser("John")

	budget := suite.createTestBudget(jane, v1.BudgetCreate{Name: "Household", Amount: decimal.NewFromFloat(1000)})
	suite.Assert().Equal("Household", budget.Name)
	suite.Assert().Equal(models.RoleOwner, budget.Role)
	suite.assertDecimal("1000", budget.Amount)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/budgets/%s", budget.ID), budget.Links.Self)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/transactions?budget=%s", budget.ID), budget.Links.Transactions)

	suite.createTestBudget(jane, v1.BudgetCreate{Name: "Car"})

	r := suite.request(http.MethodGet, "/v1/budgets", "", jane)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var list v1.ListResponse[v1.Budget]
	test.DecodeResponse(suite.T(), r, &list)
	suite.Require().Len(list.Data, 2)
	suite.Assert().Equal("Car", list.Data[0].Name, "Budgets are not sorted by name")
	suite.Assert().Equal("Household", list.Data[1].Name)

	// Other users do not see the budgets
	r = suite.request(http.MethodGet, "/v1/budgets", "", john)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)
	suite.Assert().JSONEq(`{ "data": [] }`, r.Body.String())
}

func (suite *TestSuiteStandard) TestBudgetsCreateFails() {
	jane := suite.createTestUser("Jane")

	suite.createTestBudget(jane, v1.BudgetCreate{Amount: decimal.NewFromFloat(-5)}, http.StatusBadRequest)

	r := suite.request(http.MethodPost, "/v1/budgets", `{ "name": 2 }`, jane)
	test.AssertHTTPStatus(suite.T(), r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestBudgetsGet() {
	jane := suite.createTestUser("Jane")
	john := suite.createTestUser("John")
	budget := suite.createTestBudget(jane, v1.BudgetCreate{})

	tests := []struct {
		name   string
		user   testUser
		id     string
		status int
	}{
		{"Owner", jane, budget.ID.String(), http.StatusOK},
		{"Not a member", john, budget.ID.String(), http.StatusForbidden},
		{"Does not exist", jane, uuid.NewString(), http.StatusNotFound},
		{"Not a UUID", jane, "not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(http.MethodGet, fmt.Sprintf("/v1/budgets/%s", tt.id), "", tt.user)
			test.AssertHTTPStatus(t, r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetsUpdate() {
	jane := suite.createTestUser("Jane")
	budget := suite.createTestBudget(jane, v1.BudgetCreate{Name: "Old", Amount: decimal.NewFromFloat(10)})

	r := suite.request(http.MethodPatch, fmt.Sprintf("/v1/budgets/%s", budget.ID), v1.BudgetUpdate{Name: "New"}, jane)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	updated := suite.getBudget(jane, budget.ID)
	suite.Assert().Equal("New", updated.Name)
	suite.assertDecimal("10", updated.Amount, "Renaming changed the balance")
}

func (suite *TestSuiteStandard) TestBudgetsDelete() {
	jane := suite.createTestUser("Jane")
	john := suite.createTestUser("John")
	budget := suite.createTestBudget(jane, v1.BudgetCreate{Amount: decimal.NewFromFloat(100)})
	suite.inviteTestMember(jane, budget.ID, john)

	category := suite.createTestCategory(jane, v1.CategoryCreate{BudgetID: budget.ID})
	suite.createTestTransaction(jane, v1.TransactionCreate{
		BudgetID:   budget.ID,
		CategoryID: category.ID,
		Amount:     decimal.NewFromFloat(10),
		Date:       testDate,
	})

	// Members cannot delete the budget
	r := suite.request(http.MethodDelete, fmt.Sprintf("/v1/budgets/%s", budget.ID), "", john)
	test.AssertHTTPStatus(suite.T(), r, http.StatusForbidden)

	r = suite.request(http.MethodDelete, fmt.Sprintf("/v1/budgets/%s", budget.ID), "", jane)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	r = suite.request(http.MethodGet, fmt.Sprintf("/v1/budgets/%s", budget.ID), "", jane)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNotFound)

	r = suite.request(http.MethodGet, fmt.Sprintf("/v1/categories/%s", category.ID), "", jane)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBudgetsBalance() {
	jane := suite.createTestUser("Jane")
	budget := suite.createTestBudget(jane, v1.BudgetCreate{Amount: decimal.NewFromFloat(1000)})
	path := fmt.Sprintf("/v1/budgets/%s/balance", budget.ID)

	tests := []struct {
		name    string
		change  any
		status  int
		balance string
	}{
		{"Add", v1.BalanceChange{Amount: decimal.NewFromFloat(250), Type: ledger.DirectionAdd}, http.StatusOK, "1250"},
		{"Subtract", v1.BalanceChange{Amount: decimal.NewFromFloat(50.5), Type: ledger.DirectionSubtract}, http.StatusOK, "1199.5"},
		{"Insufficient funds", v1.BalanceChange{Amount: decimal.NewFromFloat(2000), Type: ledger.DirectionSubtract}, http.StatusUnprocessableEntity, "1199.5"},
		{"Zero", v1.BalanceChange{Amount: decimal.Zero, Type: ledger.DirectionAdd}, http.StatusBadRequest, "1199.5"},
		{"Invalid direction", v1.BalanceChange{Amount: decimal.NewFromFloat(1), Type: "multiply"}, http.StatusBadRequest, "1199.5"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(http.MethodPost, path, tt.change, jane)
			test.AssertHTTPStatus(t, r, tt.status)
			suite.assertDecimal(tt.balance, suite.getBudget(jane, budget.ID).Amount)
		})
	}

	r := suite.request(http.MethodGet, path, "", jane)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var adjustments v1.ListResponse[models.BalanceAdjustment]
	test.DecodeResponse(suite.T(), r, &adjustments)
	suite.Require().Len(adjustments.Data, 2)

	kinds := []models.AdjustmentKind{adjustments.Data[0].Kind, adjustments.Data[1].Kind}
	suite.Assert().ElementsMatch([]models.AdjustmentKind{models.AdjustmentDeposit, models.AdjustmentWithdrawal}, kinds)

	events := suite.events.Events()
	suite.Require().Len(events, 2)
	suite.Require().NotNil(events[0].Balance)
	suite.assertDecimal("1250", *events[0].Balance)
	suite.assertDecimal("-50.5", events[1].Amount)
}

func (suite *TestSuiteStandard) TestBudgetsMembers() {
	jane := suite.createTestUser("Jane")
	john := suite.createTestUser("John")
	mary := suite.createTestUser("Mary")
	budget := suite.createTestBudget(jane, v1.BudgetCreate{})
	membersPath := fmt.Sprintf("/v1/budgets/%s/members", budget.ID)

	suite.inviteTestMember(jane, budget.ID, john)

	// The invited member sees the budget with their role
	suite.Assert().Equal(models.RoleMember, suite.getBudget(john, budget.ID).Role)

	tests := []struct {
		name   string
		user   testUser
		email  string
		status int
	}{
		{"Already a member", jane, john.Email, http.StatusConflict},
		{"Not registered", jane, "nobody@example.com", http.StatusNotFound},
		{"Invited by a member", john, mary.Email, http.StatusForbidden},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(http.MethodPost, membersPath, v1.MemberInvite{Email: tt.email}, tt.user)
			test.AssertHTTPStatus(t, r, tt.status)
		})
	}

	r := suite.request(http.MethodGet, membersPath, "", john)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var members v1.ListResponse[models.BudgetUser]
	test.DecodeResponse(suite.T(), r, &members)
	suite.Require().Len(members.Data, 2)
	for _, m := range members.Data {
		suite.Assert().NotEmpty(m.User.Email, "Member user is not loaded")
	}

	// The owner cannot leave
	r = suite.request(http.MethodDelete, fmt.Sprintf("%s/%s", membersPath, jane.ID), "", jane)
	test.AssertHTTPStatus(suite.T(), r, http.StatusConflict)

	// Members cannot remove others
	r = suite.request(http.MethodDelete, fmt.Sprintf("%s/%s", membersPath, jane.ID), "", john)
	test.AssertHTTPStatus(suite.T(), r, http.StatusForbidden)

	r = suite.request(http.MethodDelete, fmt.Sprintf("%s/%s", membersPath, john.ID), "", jane)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	r = suite.request(http.MethodGet, fmt.Sprintf("/v1/budgets/%s", budget.ID), "", john)
	test.AssertHTTPStatus(suite.T(), r, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestBudgetsMemberLeaves() {
	jane := suite.createTestUser("Jane")
	john := suite.createTestUser("John")
	budget := suite.createTestBudget(jane, v1.BudgetCreate{})
	suite.inviteTestMember(jane, budget.ID, john)

	r := suite.request(http.MethodDelete, fmt.Sprintf("/v1/budgets/%s/members/%s", budget.ID, john.ID), "", john)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	r = suite.request(http.MethodGet, "/v1/budgets", "", john)
	suite.Assert().JSONEq(`{ "data": [] }`, r.Body.String())
}

func (suite *TestSuiteStandard) TestBudgetsTransferOwnership() {
	jane := suite.createTestUser("Jane")
	john := suite.createTestUser("John")
	mary := suite.createTestUser("Mary")
	budget := suite.createTestBudget(jane, v1.BudgetCreate{})
	ownerPath := fmt.Sprintf("/v1/budgets/%s/owner", budget.ID)
	suite.inviteTestMember(jane, budget.ID, john)

	tests := []struct {
		name   string
		user   testUser
		target string
		status int
	}{
		{"Not a member", jane, mary.ID.String(), http.StatusBadRequest},
		{"Not a UUID", jane, "jane", http.StatusBadRequest},
		{"By a member", john, john.ID.String(), http.StatusForbidden},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(http.MethodPost, ownerPath, v1.OwnershipTransfer{UserID: tt.target}, tt.user)
			test.AssertHTTPStatus(t, r, tt.status)
		})
	}

	r := suite.request(http.MethodPost, ownerPath, v1.OwnershipTransfer{UserID: john.ID.String()}, jane)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	suite.Assert().Equal(models.RoleOwner, suite.getBudget(john, budget.ID).Role)
	suite.Assert().Equal(models.RoleMember, suite.getBudget(jane, budget.ID).Role)
}

func (suite *TestSuiteStandard) TestBudgetsDatabaseError() {
	jane := suite.createTestUser("Jane")
	suite.CloseDB()

	r := suite.request(http.MethodGet, "/v1/budgets", "", jane)
	test.AssertHTTPStatus(suite.T(), r, http.StatusInternalServerError)

	var response struct {
		Error string `json:"error"`
	}
	test.DecodeResponse(suite.T(), r, &response)
	assert.Contains(suite.T(), response.Error, models.ErrGeneral.Error())
}
