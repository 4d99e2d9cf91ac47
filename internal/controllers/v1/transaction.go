package v1

import (
	"net/http"

	"github.com/budgetshare/backend/internal/auth"
	"github.com/budgetshare/backend/internal/httputil"
	"github.com/budgetshare/backend/internal/ledger"
	"github.com/budgetshare/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", co.OptionsTransactionList)
		r.GET("", co.GetTransactions)
		r.POST("", co.CreateTransaction)
	}
	{
		r.OPTIONS("/:id", co.OptionsTransactionDetail)
		r.GET("/:id", co.GetTransaction)
		r.PATCH("/:id", co.UpdateTransaction)
		r.DELETE("/:id", co.DeleteTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func (co Controller) OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func (co Controller) OptionsTransactionDetail(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Get transactions
// @Description	Returns one page of the transactions in all budgets of the caller
// @Tags			Transactions
// @Produce		json
// @Security		BearerAuth
// @Success		200			{object}	TransactionListResponse
// @Failure		400			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			page		query		int		false	"Page, starting at 1. Defaults to 1."
// @Param			size		query		int		false	"Transactions per page, 1 to 100. Defaults to 10."
// @Param			startDate	query		string	false	"Transactions on or after this RFC3339 timestamp or date"
// @Param			endDate		query		string	false	"Transactions on or before this RFC3339 timestamp or date. A date includes the whole day."
// @Param			budget		query		string	false	"Filter by budget ID"
// @Param			category	query		string	false	"Filter by category ID"
// @Param			type		query		string	false	"Filter by type"						Enums(INCOME, EXPENSE)
// @Param			sortBy		query		string	false	"Sort by date or amount. Defaults to date."	Enums(date, amount)
// @Param			sortOrder	query		string	false	"asc or desc. Defaults to desc."				Enums(asc, desc)
// @Router			/v1/transactions [get]
func (co Controller) GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := bindQuery(c, &filter); err != nil {
		fail(c, err)
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	query, err := filter.query(setFields)
	if err != nil {
		fail(c, err)
		return
	}

	transactions, total, err := co.Ledger.ListTransactions(c, auth.UserID(c), query)
	if err != nil {
		fail(c, err)
		return
	}

	data := make([]Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	page := query.Page
	if page == 0 {
		page = 1
	}

	size := query.Size
	if size == 0 {
		size = ledger.DefaultPageSize
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data:  data,
		Total: total,
		Pagination: Pagination{
			Page:  page,
			Size:  size,
			Count: len(data),
			Total: total,
		},
	})
}

// @Summary		Create transaction
// @Description	Records a transaction and applies it to the balance of its budget. Expenses can not make the balance negative.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		201			{object}	MutationResponse[Transaction]
// @Failure		400			{object}	MutationResponse[Transaction]
// @Failure		404			{object}	MutationResponse[Transaction]
// @Failure		422			{object}	MutationResponse[Transaction]
// @Failure		500			{object}	MutationResponse[Transaction]
// @Param			transaction	body		TransactionCreate	true	"Transaction"
// @Router			/v1/transactions [post]
func (co Controller) CreateTransaction(c *gin.Context) {
	var data TransactionCreate
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	if data.Date.IsZero() {
		reject(c, errDateMissing)
		return
	}

	transaction, err := co.Ledger.CreateTransaction(c, auth.UserID(c), ledger.TransactionCreate{
		BudgetID:    data.BudgetID,
		CategoryID:  data.CategoryID,
		Amount:      data.Amount,
		Description: data.Description,
		Date:        data.Date,
	})
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusCreated, "Transaction created", newTransaction(c, transaction))
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	ObjectResponse[Transaction]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [get]
func (co Controller) GetTransaction(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		fail(c, err)
		return
	}

	transaction, err := co.Ledger.GetTransaction(c, auth.UserID(c), uri.ID.UUID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ObjectResponse[Transaction]{Data: newTransaction(c, transaction)})
}

// @Summary		Update transaction
// @Description	Updates a transaction and reprices it. Only values to be updated need to be specified. The author of the transaction and the OWNER of the budget can do this.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		200			{object}	MutationResponse[Transaction]
// @Failure		400			{object}	MutationResponse[Transaction]
// @Failure		403			{object}	MutationResponse[Transaction]
// @Failure		404			{object}	MutationResponse[Transaction]
// @Failure		422			{object}	MutationResponse[Transaction]
// @Failure		500			{object}	MutationResponse[Transaction]
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions/{id} [patch]
func (co Controller) UpdateTransaction(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, TransactionEditable{})
	if err != nil {
		reject(c, err)
		return
	}

	var data TransactionEditable
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	userID := auth.UserID(c)

	if slices.Contains(updateFields, "BudgetID") {
		current, err := co.Ledger.GetTransaction(c, userID, uri.ID.UUID)
		if err != nil {
			reject(c, err)
			return
		}

		if current.BudgetID != data.BudgetID {
			reject(c, models.ErrTransactionBudgetImmutable)
			return
		}
	}

	var update ledger.TransactionUpdate
	if slices.Contains(updateFields, "CategoryID") {
		update.CategoryID = &data.CategoryID
	}
	if slices.Contains(updateFields, "Amount") {
		update.Amount = &data.Amount
	}
	if slices.Contains(updateFields, "Description") {
		update.Description = &data.Description
	}
	if slices.Contains(updateFields, "Date") {
		if data.Date.IsZero() {
			reject(c, errDateMissing)
			return
		}
		update.Date = &data.Date
	}

	transaction, err := co.Ledger.UpdateTransaction(c, userID, uri.ID.UUID, update)
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusOK, "Transaction updated", newTransaction(c, transaction))
}

// @Summary		Delete transaction
// @Description	Deletes a transaction and reverses its effect on the balance. The author of the transaction and the OWNER of the budget can do this.
// @Tags			Transactions
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	MutationResponse[Transaction]
// @Failure		400	{object}	MutationResponse[Transaction]
// @Failure		403	{object}	MutationResponse[Transaction]
// @Failure		404	{object}	MutationResponse[Transaction]
// @Failure		422	{object}	MutationResponse[Transaction]
// @Failure		500	{object}	MutationResponse[Transaction]
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [delete]
func (co Controller) DeleteTransaction(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		reject(c, err)
		return
	}

	transaction, err := co.Ledger.DeleteTransaction(c, auth.UserID(c), uri.ID.UUID)
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusOK, "Transaction deleted", newTransaction(c, transaction))
}
