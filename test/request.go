package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/budgetshare/backend/internal/analytics"
	"github.com/budgetshare/backend/internal/auth"
	"github.com/budgetshare/backend/internal/config"
	v1 "github.com/budgetshare/backend/internal/controllers/v1"
	"github.com/budgetshare/backend/internal/events"
	"github.com/budgetshare/backend/internal/ledger"
	"github.com/budgetshare/backend/internal/models"
	"github.com/budgetshare/backend/internal/router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Config returns the configuration for API tests. API_URL is read from
// the environment and defaults to http://example.com.
func Config(t *testing.T) config.Config {
	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		apiURL = "http://example.com"
	}

	baseURL, err := url.Parse(apiURL)
	if err != nil {
		assert.FailNow(t, "environment variable API_URL must be a valid URL")
	}

	return config.Config{
		APIURL:    baseURL,
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
	}
}

// Controller connects to a new database and returns a controller with
// all services wired to it. Published events are kept in the recorder.
func Controller(t *testing.T) (v1.Controller, *events.Recorder) {
	require.Nil(t, models.Connect(TmpFile(t)), "Database could not be initialized")

	recorder := &events.Recorder{}
	cfg := Config(t)

	return v1.Controller{
		DB:        models.DB,
		Ledger:    ledger.New(models.DB, recorder),
		Analytics: analytics.New(models.DB),
		Auth:      auth.New(cfg.JWTSecret, cfg.JWTTTL),
	}, recorder
}

// Authorization returns the headers to authenticate as the user.
func Authorization(t *testing.T, co v1.Controller, userID uuid.UUID) map[string]string {
	token, _, err := co.Auth.Issue(userID)
	require.Nil(t, err)

	return map[string]string{"Authorization": fmt.Sprintf("Bearer %s", token)}
}

// Request is a helper method to simplify making a HTTP request for tests.
func Request(t *testing.T, co v1.Controller, method, reqURL string, body any, headers ...map[string]string) httptest.ResponseRecorder {
	var byteBuffer *bytes.Buffer

	switch {
	case body == nil:
		byteBuffer = new(bytes.Buffer)
	case reflect.TypeOf(body).Kind() == reflect.String:
		byteBuffer = bytes.NewBufferString(body.(string))
	case reflect.TypeOf(body).Kind() == reflect.Struct || reflect.TypeOf(body).Kind() == reflect.Map || reflect.TypeOf(body).Kind() == reflect.Slice:
		byteStr, err := json.Marshal(body)
		if err != nil {
			assert.Fail(t, "Request body could not be marshalled from struct input", err)
		}
		byteBuffer = bytes.NewBuffer(byteStr)
	default:
		// Assume we got sent a *bytes.Buffer
		byteBuffer = body.(*bytes.Buffer)
	}

	cfg := Config(t)
	r, teardown, err := router.Config(cfg)
	defer teardown()

	if err != nil {
		assert.FailNow(t, "Router could not be initialized", err)
	}
	router.AttachRoutes(cfg, co, r.Group(cfg.APIURL.Path))

	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(method, reqURL, byteBuffer)

	for _, headerMap := range headers {
		for header, value := range headerMap {
			req.Header.Set(header, value)
		}
	}

	r.ServeHTTP(recorder, req)

	return *recorder
}

// DecodeResponse decodes an HTTP response into a target struct.
func DecodeResponse(t *testing.T, r *httptest.ResponseRecorder, target any) {
	err := json.Unmarshal(r.Body.Bytes(), &target)
	if err != nil {
		assert.FailNow(t, "Parsing error", "Unable to parse response from server %q into %v, '%v', Request ID: %s", r.Body, reflect.TypeOf(target), err, r.Result().Header.Get("x-request-id"))
	}
}

// AssertHTTPStatus verifies that the HTTP response status is correct
func AssertHTTPStatus(t *testing.T, r *httptest.ResponseRecorder, expectedStatus ...int) {
	require.Contains(t, expectedStatus, r.Code, "HTTP status is wrong. Request ID: '%s' Response body: %s", r.Result().Header.Get("x-request-id"), r.Body.String())
}
