package httputil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"reflect"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GetURLFields returns the names of the fields of filter whose form
// parameter is set in the query string.
//
// queryFields only contains fields that can be used directly in a gorm
// Where statement. Fields tagged with filterField:"false" are processed by
// explicit logic and only appear in setFields.
func GetURLFields(url *url.URL, filter any) ([]any, []string) {
	var queryFields []any
	var setFields []string

	query := url.Query()
	val := reflect.Indirect(reflect.ValueOf(filter))
	for i := 0; i < val.NumField(); i++ {
		field := val.Type().Field(i)
		param := field.Tag.Get("form")

		if !query.Has(param) {
			continue
		}

		setFields = append(setFields, field.Name)
		if field.Tag.Get("filterField") != "false" {
			queryFields = append(queryFields, field.Name)
		}
	}

	return queryFields, setFields
}

// GetBodyFields returns the names of the fields of resource that are set in
// the JSON body of the request, including fields set to null.
//
// The body is read and restored, so this must be called before any of
// gin's c.*Bind methods.
func GetBodyFields(c *gin.Context, resource any) ([]string, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, ErrInvalidBody
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrRequestBodyEmpty
	}

	var mapBody map[string]any
	if err := json.Unmarshal(body, &mapBody); err != nil {
		log.Debug().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return nil, ErrInvalidBody
	}

	var bodyFields []string
	val := reflect.Indirect(reflect.ValueOf(resource))
	for i := 0; i < val.NumField(); i++ {
		field := val.Type().Field(i)
		param, _, _ := strings.Cut(field.Tag.Get("json"), ",")

		if _, ok := mapBody[param]; ok {
			bodyFields = append(bodyFields, field.Name)
		}
	}

	return bodyFields, nil
}
