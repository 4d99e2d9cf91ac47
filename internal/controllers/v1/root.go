package v1

import (
	"net/http"

	"github.com/budgetshare/backend/internal/httputil"
	"github.com/budgetshare/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Users        string `json:"users" example:"https://example.com/api/v1/users"`               // URL of user registration endpoint
	Sessions     string `json:"sessions" example:"https://example.com/api/v1/sessions"`         // URL of session endpoint
	Budgets      string `json:"budgets" example:"https://example.com/api/v1/budgets"`           // URL of Budget collection endpoint
	Categories   string `json:"categories" example:"https://example.com/api/v1/categories"`     // URL of Category collection endpoint
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions"` // URL of Transaction collection endpoint
	Goals        string `json:"goals" example:"https://example.com/api/v1/goals"`               // URL of Goal collection endpoint
	Analytics    string `json:"analytics" example:"https://example.com/api/v1/analytics"`       // URL of the analytics endpoints
}

// GetV1 returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func (co Controller) GetV1(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Users:        url + "/v1/users",
			Sessions:     url + "/v1/sessions",
			Budgets:      url + "/v1/budgets",
			Categories:   url + "/v1/categories",
			Transactions: url + "/v1/transactions",
			Goals:        url + "/v1/goals",
			Analytics:    url + "/v1/analytics",
		},
	})
}

// OptionsV1 returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func (co Controller) OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}
