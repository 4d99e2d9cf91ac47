package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/budgetshare/backend/internal/auth"
	"github.com/budgetshare/backend/internal/httputil"
	"github.com/budgetshare/backend/internal/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

var (
	errDateMissing       = fmt.Errorf("%w: the date must be set", models.ErrValidation)
	errTargetDateMissing = fmt.Errorf("%w: the target date must be set", models.ErrValidation)
	errBudgetParameter   = fmt.Errorf("%w: the budget query parameter must be set", models.ErrValidation)
)

// status returns the HTTP status for an error of the ledger.
func status(err error) int {
	var jsonUnmarshalTypeError *json.UnmarshalTypeError

	switch {
	case errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, httputil.ErrInvalidBody),
		errors.Is(err, httputil.ErrRequestBodyEmpty),
		errors.Is(err, httputil.ErrInvalidUUID),
		errors.Is(err, httputil.ErrInvalidQueryString),
		errors.As(err, &jsonUnmarshalTypeError):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// message returns the message shown to the client for err.
//
// Server errors are logged and replaced so that no internals leak.
func message(c *gin.Context, err error) string {
	if status(err) != http.StatusInternalServerError {
		return err.Error()
	}

	log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
	return fmt.Sprintf("%s. The request id is '%v', send this to your server administrator to help them finding the problem", models.ErrGeneral, requestid.Get(c))
}

// fail writes the error response for err.
func fail(c *gin.Context, err error) {
	c.JSON(status(err), httpError{
		Error: message(c, err),
	})
}

// reject writes a failed mutation response for err.
func reject(c *gin.Context, err error) {
	m := message(c, err)
	c.JSON(status(err), MutationResponse[struct{}]{
		Success: false,
		Message: m,
		Error:   &m,
	})
}
