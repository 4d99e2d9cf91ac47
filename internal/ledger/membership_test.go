package ledger_test

import (
	"github.com/budgetshare/backend/internal/ledger"
	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestInviteToBudget() {
	owner := suite.createTestUser("owner@example.com")
	invitee := suite.createTestUser("friend@example.com")
	budget := suite.createTestBudget(owner, 0)

	membership, err := suite.service.InviteToBudget(ctx(), owner.ID, budget.ID, "  Friend@Example.com ")
	suite.Require().Nil(err)
	suite.Assert().Equal(invitee.ID, membership.UserID)
	suite.Assert().Equal(models.RoleMember, membership.Role)

	_, err = suite.service.InviteToBudget(ctx(), owner.ID, budget.ID, invitee.Email)
	suite.Assert().ErrorIs(err, models.ErrMembershipNotUnique)

	members, err := suite.service.GetBudgetMembers(ctx(), invitee.ID, budget.ID)
	suite.Require().Nil(err)
	suite.Require().Len(members, 2)
	suite.Assert().Equal(owner.ID, members[0].UserID)
	suite.Assert().Equal(models.RoleOwner, members[0].Role)
	suite.Assert().Equal("owner@example.com", members[0].User.Email)
	suite.Assert().Equal(invitee.ID, members[1].UserID)
}

func (suite *TestSuiteStandard) TestInviteToBudgetFails() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 0)
	member := suite.addMember(owner, budget, "member@example.com")
	suite.createTestUser("third@example.com")

	_, err := suite.service.InviteToBudget(ctx(), member.ID, budget.ID, "third@example.com")
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	_, err = suite.service.InviteToBudget(ctx(), owner.ID, budget.ID, "nobody@example.com")
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	_, err = suite.service.InviteToBudget(ctx(), owner.ID, uuid.New(), "third@example.com")
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestInvitePatterns() {
	service := ledger.New(models.DB, nil, ledger.WithInvitePatterns([]string{"*@example.com", "admin@*"}))

	owner := suite.createTestUser("owner@example.com")
	suite.createTestUser("friend@example.com")
	suite.createTestUser("admin@other.org")
	suite.createTestUser("stranger@other.org")

	budget, err := service.CreateBudget(ctx(), owner.ID, "Shared", amount(0))
	suite.Require().Nil(err)

	_, err = service.InviteToBudget(ctx(), owner.ID, budget.ID, "friend@example.com")
	suite.Assert().Nil(err)

	_, err = service.InviteToBudget(ctx(), owner.ID, budget.ID, "admin@other.org")
	suite.Assert().Nil(err)

	_, err = service.InviteToBudget(ctx(), owner.ID, budget.ID, "stranger@other.org")
	suite.Assert().ErrorIs(err, ledger.ErrInviteNotAllowed)
}

func (suite *TestSuiteStandard) TestRemoveUserFromBudget() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 0)
	member := suite.addMember(owner, budget, "member@example.com")
	other := suite.addMember(owner, budget, "other@example.com")

	// Members cannot remove each other
	err := suite.service.RemoveUserFromBudget(ctx(), member.ID, budget.ID, other.ID)
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	// The owner can remove members
	err = suite.service.RemoveUserFromBudget(ctx(), owner.ID, budget.ID, other.ID)
	suite.Require().Nil(err)

	_, err = suite.service.GetBudget(ctx(), other.ID, budget.ID)
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	// Removing someone who is not a member
	err = suite.service.RemoveUserFromBudget(ctx(), owner.ID, budget.ID, other.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	// Members can leave
	err = suite.service.RemoveUserFromBudget(ctx(), member.ID, budget.ID, member.ID)
	suite.Require().Nil(err)

	// The owner cannot
	err = suite.service.RemoveUserFromBudget(ctx(), owner.ID, budget.ID, owner.ID)
	suite.Assert().ErrorIs(err, ledger.ErrOwnerCannotLeave)

	members, err := suite.service.GetBudgetMembers(ctx(), owner.ID, budget.ID)
	suite.Require().Nil(err)
	suite.Assert().Len(members, 1)
}

func (suite *TestSuiteStandard) TestTransferOwnership() {
	owner := suite.createTestUser("owner@example.com")
	budget := suite.createTestBudget(owner, 0)
	member := suite.addMember(owner, budget, "member@example.com")
	outsider := suite.createTestUser("outsider@example.com")

	err := suite.service.TransferOwnership(ctx(), member.ID, budget.ID, member.ID)
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	err = suite.service.TransferOwnership(ctx(), owner.ID, budget.ID, outsider.ID)
	suite.Assert().ErrorIs(err, models.ErrValidation)

	// Transferring to yourself changes nothing
	err = suite.service.TransferOwnership(ctx(), owner.ID, budget.ID, owner.ID)
	suite.Require().Nil(err)

	err = suite.service.TransferOwnership(ctx(), owner.ID, budget.ID, member.ID)
	suite.Require().Nil(err)

	members, err := suite.service.GetBudgetMembers(ctx(), owner.ID, budget.ID)
	suite.Require().Nil(err)
	suite.Require().Len(members, 2)
	suite.Assert().Equal(member.ID, members[0].UserID)
	suite.Assert().Equal(models.RoleOwner, members[0].Role)
	suite.Assert().Equal(models.RoleMember, members[1].Role)

	// The former owner can now leave
	err = suite.service.RemoveUserFromBudget(ctx(), owner.ID, budget.ID, owner.ID)
	suite.Assert().Nil(err)
}
