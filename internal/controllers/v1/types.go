package v1

import (
	"fmt"

	"github.com/budgetshare/backend/internal/httputil"
	ez_uuid "github.com/budgetshare/backend/internal/uuid"
	"github.com/gin-gonic/gin"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIMember struct {
	URIID
	UserID ez_uuid.UUID `uri:"userId" binding:"required" format:"UUID"` // ID of the member
}

// bindURI binds the path parameters. Unparseable IDs are reported as
// httputil.ErrInvalidUUID.
func bindURI(c *gin.Context, uri any) error {
	if err := c.ShouldBindUri(uri); err != nil {
		return httputil.ErrInvalidUUID
	}

	return nil
}

// bindQuery binds the query string to filter.
func bindQuery(c *gin.Context, filter any) error {
	if err := c.ShouldBindQuery(filter); err != nil {
		return fmt.Errorf("%w: %v", httputil.ErrInvalidQueryString, err)
	}

	return nil
}

// MutationResponse is returned by all operations that change data.
type MutationResponse[T any] struct {
	Success bool    `json:"success" example:"true"`                       // If the operation was carried out
	Message string  `json:"message" example:"Transaction created"`        // Human readable result of the operation
	Error   *string `json:"error,omitempty" example:"insufficient funds"` // The error, if any occurred
	Data    *T      `json:"data,omitempty"`                               // The resource after the operation
}

// ObjectResponse is returned when reading a single resource.
type ObjectResponse[T any] struct {
	Data T `json:"data"`
}

// ListResponse is returned when reading a list of resources.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// succeed writes a successful mutation response.
func succeed[T any](c *gin.Context, status int, message string, data T) {
	c.JSON(status, MutationResponse[T]{
		Success: true,
		Message: message,
		Data:    &data,
	})
}
