package v1

import (
	"net/http"
	"time"

	"github.com/budgetshare/backend/internal/auth"
	"github.com/budgetshare/backend/internal/httputil"
	"github.com/budgetshare/backend/internal/models"
	"github.com/gin-gonic/gin"
)

func (co Controller) RegisterUserRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", co.OptionsUsers)
	r.POST("", co.CreateUser)
}

func (co Controller) RegisterSessionRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", co.OptionsSessions)
	r.POST("", co.CreateSession)
}

type UserCreate struct {
	Name     string `json:"name" example:"Jane Doe"`                  // Display name
	Email    string `json:"email" example:"jane@example.com"`         // Email address, used to log in
	Password string `json:"password" example:"correct horse battery"` // At least 8 characters
}

type SessionCreate struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"correct horse battery"`
}

type Session struct {
	Token     string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.e30.xxx"` // Bearer token for the Authorization header
	ExpiresAt time.Time   `json:"expiresAt" example:"2024-03-16T12:00:00Z"`                     // Time the token expires
	User      models.User `json:"user"`                                                         // The user the token was issued for
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Users
// @Success		204
// @Router			/v1/users [options]
func (co Controller) OptionsUsers(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Register user
// @Description	Creates a new user
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		201		{object}	MutationResponse[models.User]
// @Failure		400		{object}	MutationResponse[models.User]
// @Failure		409		{object}	MutationResponse[models.User]
// @Failure		500		{object}	MutationResponse[models.User]
// @Param			user	body		UserCreate	true	"User"
// @Router			/v1/users [post]
func (co Controller) CreateUser(c *gin.Context) {
	var data UserCreate
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	user, err := auth.Register(co.DB.WithContext(c), data.Name, data.Email, data.Password)
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusCreated, "User registered", user)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Sessions
// @Success		204
// @Router			/v1/sessions [options]
func (co Controller) OptionsSessions(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Log in
// @Description	Checks the credentials and returns a bearer token
// @Tags			Sessions
// @Accept			json
// @Produce		json
// @Success		201		{object}	MutationResponse[Session]
// @Failure		400		{object}	MutationResponse[Session]
// @Failure		401		{object}	MutationResponse[Session]
// @Failure		500		{object}	MutationResponse[Session]
// @Param			session	body		SessionCreate	true	"Credentials"
// @Router			/v1/sessions [post]
func (co Controller) CreateSession(c *gin.Context) {
	var data SessionCreate
	if err := httputil.BindData(c, &data); err != nil {
		reject(c, err)
		return
	}

	user, err := auth.Login(co.DB.WithContext(c), data.Email, data.Password)
	if err != nil {
		reject(c, err)
		return
	}

	token, expires, err := co.Auth.Issue(user.ID)
	if err != nil {
		reject(c, err)
		return
	}

	succeed(c, http.StatusCreated, "Logged in", Session{
		Token:     token,
		ExpiresAt: expires,
		User:      user,
	})
}
