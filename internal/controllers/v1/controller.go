// Package v1 contains the gin handlers of the v1 API.
package v1

import (
	"github.com/budgetshare/backend/internal/analytics"
	"github.com/budgetshare/backend/internal/auth"
	"github.com/budgetshare/backend/internal/ledger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Controller struct {
	DB        *gorm.DB
	Ledger    *ledger.Service
	Analytics *analytics.Service
	Auth      auth.Authenticator
}

// RegisterRoutes attaches all v1 routes to the group. Only user
// registration and session creation can be called without a token.
func (co Controller) RegisterRoutes(v1 *gin.RouterGroup) {
	{
		v1.GET("", co.GetV1)
		v1.OPTIONS("", co.OptionsV1)
	}

	co.RegisterUserRoutes(v1.Group("/users"))
	co.RegisterSessionRoutes(v1.Group("/sessions"))

	authenticated := v1.Group("", co.Auth.Middleware())
	co.RegisterBudgetRoutes(authenticated.Group("/budgets"))
	co.RegisterCategoryRoutes(authenticated.Group("/categories"))
	co.RegisterTransactionRoutes(authenticated.Group("/transactions"))
	co.RegisterGoalRoutes(authenticated.Group("/goals"))
	co.RegisterAnalyticsRoutes(authenticated.Group("/analytics"))
}
