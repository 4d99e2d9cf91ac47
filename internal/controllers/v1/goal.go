package v1

import (
	"net/http"

	"github.com/budgetshare/backend/internal/auth"
	"github.com/budgetshare/backend/internal/httputil"
	"github.com/budgetshare/backend/internal/ledger"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

func (co Controller) RegisterGoalRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", co.OptionsGoalList)
		r.GET("", co.GetGoals)
		r.POST("", co.CreateGoal)
	}
	{
		r.OPTIONS("/:id", co.OptionsGoalDetail)
		r.GET("/:id", co.GetGoal)
		r.PATCH("/:id", co.UpdateGoal)
		r.DELETE("/:id", co.DeleteGoal)
	}
	{
		r.OPTIONS("/:id/funds", co.OptionsGoalFunds)
		r.POST("/:id/funds", co.FundGoal)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Router			/v1/goals [options]
func (co Controller) OptionsGoalList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id} [options]
func (co Controller) OptionsGoalDetail(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id}/funds [options]
func (co Controller) OptionsGoalFunds(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Get goals
// @Description	Returns the goals of the caller, ordered by target date
// @Tags			Goals
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	ListResponse[Goal]
// @Failure		500	{object}	httpError
// @Router			/v1/goals [get]
func (co Controller) GetGoals(c *gin.Context) {
	goals, err := co.Ledger.GetUserGoals(c, auth.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	data := make([]Goal, 0, len(goals))
	for _, goal := range goals {
		data = append(data, newGoal(c, goal))
	}

	c.JSON(http.StatusOK, ListResponse[Goal]{Data: data})
}

// @Summary		Create goal
// @Description	Creates a savings goal for the caller
// @Tags			Goals
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		201		{object}	MutationResponse[Goal]
// @Failure		400		{object}	MutationResponse[Goal]
// @Failure		500		{object}	MutationResponse[Goal]
// @Param			goal	body		GoalCreate	true	"Goal"
// @Router			/v1/goals [post]
func (co Controller) CreateGoal(c *gin.Context) {
	var data GoalCreate
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	if data.TargetDate.IsZero() {
		reject(c, errTargetDateMissing)
		return
	}

	goal, err := co.Ledger.AddGoal(c, auth.UserID(c), ledger.GoalCreate{
		Name:          data.Name,
		Note:          data.Note,
		TargetAmount:  data.TargetAmount,
		CurrentAmount: data.CurrentAmount,
		TargetDate:    data.TargetDate,
	})
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusCreated, "Goal created", newGoal(c, goal))
}

// @Summary		Get goal
// @Description	Returns a specific goal of the caller
// @Tags			Goals
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	ObjectResponse[Goal]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id} [get]
func (co Controller) GetGoal(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		fail(c, err)
		return
	}

	goal, err := co.Ledger.GetGoal(c, auth.UserID(c), uri.ID.UUID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ObjectResponse[Goal]{Data: newGoal(c, goal)})
}

// @Summary		Update goal
// @Description	Updates a goal. Only values to be updated need to be specified.
// @Tags			Goals
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	MutationResponse[Goal]
// @Failure		400		{object}	MutationResponse[Goal]
// @Failure		404		{object}	MutationResponse[Goal]
// @Failure		500		{object}	MutationResponse[Goal]
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			goal	body		GoalEditable	true	"Goal"
// @Router			/v1/goals/{id} [patch]
func (co Controller) UpdateGoal(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, GoalEditable{})
	if err != nil {
		reject(c, err)
		return
	}

	var data GoalEditable
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	var update ledger.GoalUpdate
	if slices.Contains(updateFields, "Name") {
		update.Name = &data.Name
	}
	if slices.Contains(updateFields, "Note") {
		update.Note = &data.Note
	}
	if slices.Contains(updateFields, "TargetAmount") {
		update.TargetAmount = &data.TargetAmount
	}
	if slices.Contains(updateFields, "TargetDate") {
		if data.TargetDate.IsZero() {
			reject(c, errTargetDateMissing)
			return
		}
		update.TargetDate = &data.TargetDate
	}
	if slices.Contains(updateFields, "Archived") {
		update.Archived = &data.Archived
	}

	goal, err := co.Ledger.UpdateGoal(c, auth.UserID(c), uri.ID.UUID, update)
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusOK, "Goal updated", newGoal(c, goal))
}

// @Summary		Delete goal
// @Description	Deletes a goal. Money transferred to it is not returned to any budget.
// @Tags			Goals
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	MutationResponse[Goal]
// @Failure		400	{object}	MutationResponse[Goal]
// @Failure		404	{object}	MutationResponse[Goal]
// @Failure		500	{object}	MutationResponse[Goal]
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id} [delete]
func (co Controller) DeleteGoal(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	err := co.Ledger.DeleteGoal(c, auth.UserID(c), uri.ID.UUID)
	if err != nil {
		reject(c, err)
		return
	}

	c.JSON(http.StatusOK, MutationResponse[Goal]{Success: true, Message: "Goal deleted"})
}

// @Summary		Fund goal
// @Description	Adds an amount to a goal. With a budget, the amount is moved from the budget to the goal in one step and the budget balance can not become negative.
// @Tags			Goals
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	MutationResponse[Goal]
// @Failure		400		{object}	MutationResponse[Goal]
// @Failure		404		{object}	MutationResponse[Goal]
// @Failure		422		{object}	MutationResponse[Goal]
// @Failure		500		{object}	MutationResponse[Goal]
// @Param			id		path		URIID		true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			funding	body		GoalFunding	true	"Funding"
// @Router			/v1/goals/{id}/funds [post]
func (co Controller) FundGoal(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	var data GoalFunding
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	goal, err := co.Ledger.AddAmountToGoal(c, auth.UserID(c), uri.ID.UUID, data.Amount, data.BudgetID)
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusOK, "Goal funded", newGoal(c, goal))
}
