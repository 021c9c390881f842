package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrc20-presale/presale-node/internal/shared/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestErrorResponseWithError_AppErrorKeepsContext(t *testing.T) {
	c, w := newContext()
	expireAt := time.UnixMilli(1659806399000)

	ErrorResponseWithError(c, errors.NewAlreadyLockedError(expireAt, 5*time.Minute, 4))

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(errors.ErrorTypeAlreadyLocked), resp.Error.Type)
	assert.EqualValues(t, 1659806399000, resp.Error.Context[errors.ContextExpireAt])
	assert.EqualValues(t, 300, resp.Error.Context[errors.ContextLockTime])
	assert.EqualValues(t, 4, resp.Error.Context[errors.ContextDay])
}

func TestErrorResponseWithError_HidesPlainErrors(t *testing.T) {
	c, w := newContext()

	ErrorResponseWithError(c, fmt.Errorf("dial tcp 10.0.0.1:6379: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(errors.ErrorTypeInternal), resp.Error.Type)
}

func TestSuccessResponse(t *testing.T) {
	c, w := newContext()

	SuccessResponse(c, http.StatusOK, "ok", map[string]int{"day": 2})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"ok","data":{"day":2}}`, w.Body.String())
}
