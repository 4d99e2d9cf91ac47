package v1

import (
	"net/http"

	"github.com/budgetshare/backend/internal/analytics"
	"github.com/budgetshare/backend/internal/auth"
	"github.com/budgetshare/backend/internal/httputil"
	"github.com/budgetshare/backend/internal/models"
	ez_uuid "github.com/budgetshare/backend/internal/uuid"
	"github.com/gin-gonic/gin"
)

func (co Controller) RegisterAnalyticsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/summary", co.OptionsAnalytics)
	r.GET("/summary", co.GetSummary)
	r.OPTIONS("/categories", co.OptionsAnalytics)
	r.GET("/categories", co.GetCategoryBreakdown)
	r.OPTIONS("/income-expense", co.OptionsAnalytics)
	r.GET("/income-expense", co.GetIncomeExpense)
	r.OPTIONS("/home", co.OptionsAnalytics)
	r.GET("/home", co.GetHome)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Analytics
// @Success		204
// @Router			/v1/analytics/summary [options]
// @Router			/v1/analytics/categories [options]
// @Router			/v1/analytics/income-expense [options]
// @Router			/v1/analytics/home [options]
func (co Controller) OptionsAnalytics(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get summary statistics
// @Description	Returns the average expense, the largest expense and the income and expense sums of the last 30 days of the transactions the caller recorded
// @Tags			Analytics
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	SummaryResponse
// @Failure		400		{object}	httpError
// @Failure		403		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			userId	query		string	false	"ID of the caller"
// @Router			/v1/analytics/summary [get]
func (co Controller) GetSummary(c *gin.Context) {
	var filter SummaryFilter
	if err := bindQuery(c, &filter); err != nil {
		fail(c, err)
		return
	}

	userID := auth.UserID(c)
	if filter.UserID != ez_uuid.Nil && filter.UserID.UUID != userID {
		fail(c, analytics.ErrForeignUserSummary)
		return
	}

	summary, err := co.Analytics.SummaryStatistics(c, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{Data: summary})
}

// @Summary		Get category breakdown
// @Description	Returns the sum of the transactions of every category of a budget in the period
// @Tags			Analytics
// @Produce		json
// @Security		BearerAuth
// @Success		200			{object}	CategoryBreakdownResponse
// @Failure		400			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			budget		query		string	true	"Budget ID"
// @Param			period		query		string	false	"Period, defaults to allTime"	Enums(allTime, lastMonth, custom)
// @Param			startDate	query		string	false	"Start of a custom period"
// @Param			endDate		query		string	false	"End of a custom period, the whole day is included"
// @Param			type		query		string	false	"Type of transactions to sum, defaults to EXPENSE"	Enums(INCOME, EXPENSE)
// @Router			/v1/analytics/categories [get]
func (co Controller) GetCategoryBreakdown(c *gin.Context) {
	var filter PeriodFilter
	if err := bindQuery(c, &filter); err != nil {
		fail(c, err)
		return
	}

	if filter.BudgetID == ez_uuid.Nil {
		fail(c, errBudgetParameter)
		return
	}

	window, err := filter.window(co.Analytics.Now())
	if err != nil {
		fail(c, err)
		return
	}

	var categoryType *models.CategoryType
	if filter.Type != "" {
		t := models.CategoryType(filter.Type)
		categoryType = &t
	}

	breakdown, err := co.Analytics.CategoryBreakdown(c, auth.UserID(c), filter.BudgetID.UUID, window, categoryType)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryBreakdownResponse{Data: breakdown})
}

// @Summary		Get income and expenses
// @Description	Returns the income and expenses of a budget per day in the period, ordered by date
// @Tags			Analytics
// @Produce		json
// @Security		BearerAuth
// @Success		200			{object}	IncomeExpenseResponse
// @Failure		400			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			budget		query		string	true	"Budget ID"
// @Param			period		query		string	false	"Period, defaults to allTime"	Enums(allTime, lastMonth, custom)
// @Param			startDate	query		string	false	"Start of a custom period"
// @Param			endDate		query		string	false	"End of a custom period, the whole day is included"
// @Router			/v1/analytics/income-expense [get]
func (co Controller) GetIncomeExpense(c *gin.Context) {
	var filter PeriodFilter
	if err := bindQuery(c, &filter); err != nil {
		fail(c, err)
		return
	}

	if filter.BudgetID == ez_uuid.Nil {
		fail(c, errBudgetParameter)
		return
	}

	window, err := filter.window(co.Analytics.Now())
	if err != nil {
		fail(c, err)
		return
	}

	series, err := co.Analytics.IncomeExpenseSeries(c, auth.UserID(c), filter.BudgetID.UUID, window)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, IncomeExpenseResponse{Data: series})
}

// @Summary		Get home summary
// @Description	Returns the total balance of all budgets of the caller and their income and expenses of the current week
// @Tags			Analytics
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	HomeResponse
// @Failure		500	{object}	httpError
// @Router			/v1/analytics/home [get]
func (co Controller) GetHome(c *gin.Context) {
	home, err := co.Analytics.HomeSummary(c, auth.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, HomeResponse{Data: home})
}
