package v1

import (
	"net/http"

	"github.com/budgetshare/backend/internal/auth"
	"github.com/budgetshare/backend/internal/httputil"
	"github.com/budgetshare/backend/internal/ledger"
	"github.com/budgetshare/backend/internal/models"
	ez_uuid "github.com/budgetshare/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", co.OptionsCategoryList)
		r.GET("", co.GetCategories)
		r.POST("", co.CreateCategory)
	}
	{
		r.OPTIONS("/spending", co.OptionsCategorySpending)
		r.GET("/spending", co.GetCategorySpending)
	}
	{
		r.OPTIONS("/:id", co.OptionsCategoryDetail)
		r.GET("/:id", co.GetCategory)
		r.PATCH("/:id", co.UpdateCategory)
		r.DELETE("/:id", co.DeleteCategory)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories [options]
func (co Controller) OptionsCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories/spending [options]
func (co Controller) OptionsCategorySpending(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/categories/{id} [options]
func (co Controller) OptionsCategoryDetail(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Get categories
// @Description	Returns the categories of a budget, sorted by name
// @Tags			Categories
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	ListResponse[Category]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			budget	query		string	true	"Filter by budget ID"
// @Param			type	query		string	false	"Filter by type"	Enums(INCOME, EXPENSE)
// @Router			/v1/categories [get]
func (co Controller) GetCategories(c *gin.Context) {
	var filter CategoryQueryFilter
	if err := bindQuery(c, &filter); err != nil {
		fail(c, err)
		return
	}

	if filter.BudgetID == ez_uuid.Nil {
		fail(c, errBudgetParameter)
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	var categoryType *models.CategoryType
	if slices.Contains(setFields, "Type") {
		t := models.CategoryType(filter.Type)
		categoryType = &t
	}

	categories, err := co.Ledger.GetCategoriesByBudget(c, auth.UserID(c), filter.BudgetID.UUID, categoryType)
	if err != nil {
		fail(c, err)
		return
	}

	data := make([]Category, 0, len(categories))
	for _, category := range categories {
		data = append(data, newCategory(c, category))
	}

	c.JSON(http.StatusOK, ListResponse[Category]{Data: data})
}

// @Summary		Get category spending
// @Description	Returns all categories of a budget with the sum of their expenses in the current month
// @Tags			Categories
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	CategorySpendingResponse
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			budget	query		string	true	"Budget ID"
// @Router			/v1/categories/spending [get]
func (co Controller) GetCategorySpending(c *gin.Context) {
	var filter CategorySpendingFilter
	if err := bindQuery(c, &filter); err != nil {
		fail(c, err)
		return
	}

	if filter.BudgetID == ez_uuid.Nil {
		fail(c, errBudgetParameter)
		return
	}

	spending, err := co.Analytics.CategoriesWithSpent(c, auth.UserID(c), filter.BudgetID.UUID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, CategorySpendingResponse{Data: spending})
}

// @Summary		Create category
// @Description	Creates a category in a budget. Only the OWNER can do this.
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		201			{object}	MutationResponse[Category]
// @Failure		400			{object}	MutationResponse[Category]
// @Failure		403			{object}	MutationResponse[Category]
// @Failure		404			{object}	MutationResponse[Category]
// @Failure		500			{object}	MutationResponse[Category]
// @Param			category	body		CategoryCreate	true	"Category"
// @Router			/v1/categories [post]
func (co Controller) CreateCategory(c *gin.Context) {
	var data CategoryCreate
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	category, err := co.Ledger.AddCategoryToBudget(c, auth.UserID(c), ledger.CategoryCreate{
		BudgetID: data.BudgetID,
		Name:     data.Name,
		Type:     data.Type,
		Limit:    data.Limit,
	})
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusCreated, "Category created", newCategory(c, category))
}

// @Summary		Get category
// @Description	Returns a specific category
// @Tags			Categories
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	ObjectResponse[Category]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/categories/{id} [get]
func (co Controller) GetCategory(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		fail(c, err)
		return
	}

	category, err := co.Ledger.GetCategory(c, auth.UserID(c), uri.ID.UUID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ObjectResponse[Category]{Data: newCategory(c, category)})
}

// @Summary		Update category
// @Description	Updates the name or limit of a category. Only values to be updated need to be specified. Only the OWNER can do this.
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		200			{object}	MutationResponse[Category]
// @Failure		400			{object}	MutationResponse[Category]
// @Failure		403			{object}	MutationResponse[Category]
// @Failure		404			{object}	MutationResponse[Category]
// @Failure		500			{object}	MutationResponse[Category]
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			category	body		CategoryEditable	true	"Category"
// @Router			/v1/categories/{id} [patch]
func (co Controller) UpdateCategory(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, CategoryEditable{})
	if err != nil {
		reject(c, err)
		return
	}

	var data CategoryEditable
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	var update ledger.CategoryUpdate
	if slices.Contains(updateFields, "Name") {
		update.Name = &data.Name
	}
	if slices.Contains(updateFields, "Limit") {
		update.Limit = &data.Limit
	}

	category, err := co.Ledger.UpdateCategory(c, auth.UserID(c), uri.ID.UUID, update)
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusOK, "Category updated", newCategory(c, category))
}

// @Summary		Delete category
// @Description	Deletes a category that has no transactions. Only the OWNER can do this.
// @Tags			Categories
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	MutationResponse[Category]
// @Failure		400	{object}	MutationResponse[Category]
// @Failure		403	{object}	MutationResponse[Category]
// @Failure		404	{object}	MutationResponse[Category]
// @Failure		409	{object}	MutationResponse[Category]
// @Failure		500	{object}	MutationResponse[Category]
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/categories/{id} [delete]
func (co Controller) DeleteCategory(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	err := co.Ledger.DeleteCategory(c, auth.UserID(c), uri.ID.UUID)
	if err != nil {
		reject(c, err)
		return
	}

	c.JSON(http.StatusOK, MutationResponse[Category]{Success: true, Message: "Category deleted"})
}
