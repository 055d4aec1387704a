package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// APIResponse is the envelope every endpoint returns
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"meta"`
}

// APIClient sends JSON requests to an http.Handler below a base path
type APIClient struct {
	t        *testing.T
	handler  http.Handler
	basePath string
	Token    string
}

// NewAPIClient creates a client for handler with every path prefixed by basePath
func NewAPIClient(t *testing.T, handler http.Handler, basePath string) *APIClient {
	return &APIClient{t: t, handler: handler, basePath: basePath}
}

// WithToken returns a copy of the client that sends the bearer token
func (c *APIClient) WithToken(token string) *APIClient {
	cp := *c
	cp.Token = token
	return &cp
}

// Do sends the request and returns the recorder
func (c *APIClient) Do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, c.basePath+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

// Expect sends the request, asserts the status code and decodes the envelope
func (c *APIClient) Expect(status int, method, path string, body interface{}) APIResponse {
	c.t.Helper()

	w := c.Do(method, path, body)
	require.Equal(c.t, status, w.Code, "%s %s: %s", method, path, w.Body.String())
	var resp APIResponse
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to parse JSON response")
	}
	return resp
}

// DecodeData unmarshals the envelope data into T
func DecodeData[T any](t *testing.T, resp APIResponse) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out), "Failed to parse response data")
	return out
}

// AssertErrorCode asserts the envelope carries the error code
func AssertErrorCode(t *testing.T, resp APIResponse, code string) {
	t.Helper()
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error, "Expected error object in response")
	assert.Equal(t, code, resp.Error.Code)
}
