package v1

import (
	"net/http"

	"github.com/budgetshare/backend/internal/auth"
	"github.com/budgetshare/backend/internal/httputil"
	"github.com/budgetshare/backend/internal/models"
	ez_uuid "github.com/budgetshare/backend/internal/uuid"
	"github.com/gin-gonic/gin"
)

func (co Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", co.OptionsBudgetList)
		r.GET("", co.GetBudgets)
		r.POST("", co.CreateBudget)
	}
	{
		r.OPTIONS("/:id", co.OptionsBudgetDetail)
		r.GET("/:id", co.GetBudget)
		r.PATCH("/:id", co.UpdateBudget)
		r.DELETE("/:id", co.DeleteBudget)
	}
	{
		r.OPTIONS("/:id/balance", co.OptionsBudgetBalance)
		r.GET("/:id/balance", co.GetBudgetBalance)
		r.POST("/:id/balance", co.ChangeBudgetBalance)
	}
	{
		r.OPTIONS("/:id/members", co.OptionsBudgetMembers)
		r.GET("/:id/members", co.GetBudgetMembers)
		r.POST("/:id/members", co.InviteToBudget)
		r.OPTIONS("/:id/members/:userId", co.OptionsBudgetMember)
		r.DELETE("/:id/members/:userId", co.RemoveBudgetMember)
	}
	{
		r.OPTIONS("/:id/owner", co.OptionsBudgetOwner)
		r.POST("/:id/owner", co.TransferBudgetOwnership)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func (co Controller) OptionsBudgetList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [options]
func (co Controller) OptionsBudgetDetail(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/balance [options]
func (co Controller) OptionsBudgetBalance(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/members [options]
func (co Controller) OptionsBudgetMembers(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			userId	path	string	true	"ID of the member"
// @Router			/v1/budgets/{id}/members/{userId} [options]
func (co Controller) OptionsBudgetMember(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/owner [options]
func (co Controller) OptionsBudgetOwner(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Get budgets
// @Description	Returns all budgets the caller is a member of, sorted by name
// @Tags			Budgets
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	ListResponse[Budget]
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/budgets [get]
func (co Controller) GetBudgets(c *gin.Context) {
	budgets, err := co.Ledger.GetUserBudgets(c, auth.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	data := make([]Budget, 0, len(budgets))
	for _, b := range budgets {
		data = append(data, newBudget(c, b.Budget, b.Role))
	}

	c.JSON(http.StatusOK, ListResponse[Budget]{Data: data})
}

// @Summary		Create budget
// @Description	Creates a budget with the caller as its OWNER
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		201		{object}	MutationResponse[Budget]
// @Failure		400		{object}	MutationResponse[Budget]
// @Failure		500		{object}	MutationResponse[Budget]
// @Param			budget	body		BudgetCreate	true	"Budget"
// @Router			/v1/budgets [post]
func (co Controller) CreateBudget(c *gin.Context) {
	var data BudgetCreate
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	budget, err := co.Ledger.CreateBudget(c, auth.UserID(c), data.Name, data.Amount)
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusCreated, "Budget created", newBudget(c, budget, models.RoleOwner))
}

// @Summary		Get budget
// @Description	Returns a specific budget
// @Tags			Budgets
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	ObjectResponse[Budget]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [get]
func (co Controller) GetBudget(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		fail(c, err)
		return
	}

	budget, err := co.Ledger.GetBudget(c, auth.UserID(c), uri.ID.UUID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ObjectResponse[Budget]{Data: newBudget(c, budget.Budget, budget.Role)})
}

// @Summary		Update budget
// @Description	Renames a budget. Only the OWNER can do this.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	MutationResponse[Budget]
// @Failure		400		{object}	MutationResponse[Budget]
// @Failure		403		{object}	MutationResponse[Budget]
// @Failure		404		{object}	MutationResponse[Budget]
// @Failure		500		{object}	MutationResponse[Budget]
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			budget	body		BudgetUpdate	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func (co Controller) UpdateBudget(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	var data BudgetUpdate
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	budget, err := co.Ledger.UpdateBudget(c, auth.UserID(c), uri.ID.UUID, data.Name)
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusOK, "Budget updated", newBudget(c, budget, models.RoleOwner))
}

// @Summary		Delete budget
// @Description	Deletes a budget with all its categories, transactions and memberships. Only the OWNER can do this.
// @Tags			Budgets
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	MutationResponse[Budget]
// @Failure		400	{object}	MutationResponse[Budget]
// @Failure		403	{object}	MutationResponse[Budget]
// @Failure		404	{object}	MutationResponse[Budget]
// @Failure		500	{object}	MutationResponse[Budget]
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [delete]
func (co Controller) DeleteBudget(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	err := co.Ledger.DeleteBudget(c, auth.UserID(c), uri.ID.UUID)
	if err != nil {
		reject(c, err)
		return
	}

	c.JSON(http.StatusOK, MutationResponse[Budget]{Success: true, Message: "Budget deleted"})
}

// @Summary		Get balance adjustments
// @Description	Returns the manual deposits, withdrawals and goal transfers of a budget, newest first
// @Tags			Budgets
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	ListResponse[models.BalanceAdjustment]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/balance [get]
func (co Controller) GetBudgetBalance(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		fail(c, err)
		return
	}

	adjustments, err := co.Ledger.GetBalanceAdjustments(c, auth.UserID(c), uri.ID.UUID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse[models.BalanceAdjustment]{Data: adjustments})
}

// @Summary		Change budget balance
// @Description	Deposits money into or withdraws money from a budget. A withdrawal can not make the balance negative.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	MutationResponse[Budget]
// @Failure		400		{object}	MutationResponse[Budget]
// @Failure		404		{object}	MutationResponse[Budget]
// @Failure		422		{object}	MutationResponse[Budget]
// @Failure		500		{object}	MutationResponse[Budget]
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			change	body		BalanceChange	true	"Change"
// @Router			/v1/budgets/{id}/balance [post]
func (co Controller) ChangeBudgetBalance(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	var data BalanceChange
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	budget, err := co.Ledger.ChangeBudgetBalance(c, auth.UserID(c), uri.ID.UUID, data.Amount, data.Type)
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusOK, "Balance updated", newBudget(c, budget, ""))
}

// @Summary		Get budget members
// @Description	Returns the members of a budget, the OWNER first
// @Tags			Budgets
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	ListResponse[models.BudgetUser]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/members [get]
func (co Controller) GetBudgetMembers(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		fail(c, err)
		return
	}

	members, err := co.Ledger.GetBudgetMembers(c, auth.UserID(c), uri.ID.UUID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse[models.BudgetUser]{Data: members})
}

// @Summary		Invite member
// @Description	Adds a registered user to the budget as MEMBER. Only the OWNER can do this.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		201		{object}	MutationResponse[models.BudgetUser]
// @Failure		400		{object}	MutationResponse[models.BudgetUser]
// @Failure		403		{object}	MutationResponse[models.BudgetUser]
// @Failure		404		{object}	MutationResponse[models.BudgetUser]
// @Failure		409		{object}	MutationResponse[models.BudgetUser]
// @Failure		500		{object}	MutationResponse[models.BudgetUser]
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			invite	body		MemberInvite	true	"Invite"
// @Router			/v1/budgets/{id}/members [post]
func (co Controller) InviteToBudget(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	var data MemberInvite
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	membership, err := co.Ledger.InviteToBudget(c, auth.UserID(c), uri.ID.UUID, data.Email)
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusCreated, "User invited", membership)
}

// @Summary		Remove member
// @Description	Removes a member from the budget. The OWNER can remove other members, members can remove themselves.
// @Tags			Budgets
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	MutationResponse[models.BudgetUser]
// @Failure		400		{object}	MutationResponse[models.BudgetUser]
// @Failure		403		{object}	MutationResponse[models.BudgetUser]
// @Failure		404		{object}	MutationResponse[models.BudgetUser]
// @Failure		409		{object}	MutationResponse[models.BudgetUser]
// @Failure		500		{object}	MutationResponse[models.BudgetUser]
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			userId	path		string	true	"ID of the member"
// @Router			/v1/budgets/{id}/members/{userId} [delete]
func (co Controller) RemoveBudgetMember(c *gin.Context) {
	var uri URIMember
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	err := co.Ledger.RemoveUserFromBudget(c, auth.UserID(c), uri.ID.UUID, uri.UserID.UUID)
	if err != nil {
		reject(c, err)
		return
	}

	c.JSON(http.StatusOK, MutationResponse[models.BudgetUser]{Success: true, Message: "Member removed"})
}

// @Summary		Transfer ownership
// @Description	Makes another member the OWNER of the budget. The caller becomes a MEMBER.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		200			{object}	MutationResponse[Budget]
// @Failure		400			{object}	MutationResponse[Budget]
// @Failure		403			{object}	MutationResponse[Budget]
// @Failure		404			{object}	MutationResponse[Budget]
// @Failure		500			{object}	MutationResponse[Budget]
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transfer	body		OwnershipTransfer	true	"New owner"
// @Router			/v1/budgets/{id}/owner [post]
func (co Controller) TransferBudgetOwnership(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	var data OwnershipTransfer
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	userID, err := ez_uuid.Parse(data.UserID)
	if err != nil {
		reject(c, httputil.ErrInvalidUUID)
		return
	}

	err = co.Ledger.TransferOwnership(c, auth.UserID(c), uri.ID.UUID, userID.UUID)
	if err != nil {
		reject(c, err)
		return
	}

	c.JSON(http.StatusOK, MutationResponse[Budget]{Success: true, Message: "Ownership transferred"})
}
