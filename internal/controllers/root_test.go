package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, method, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRootHandler(t *testing.T) {
	s := Server{Service: "autovm", Title: "AutoVM", Version: "1.0.0"}

	ctx, rec := newTestContext(t, http.MethodGet, "/")
	require.NoError(t, s.RootHandler(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var info ServiceInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "autovm", info.Service)
	assert.Equal(t, "AutoVM", info.Title)
	assert.Empty(t, info.APIVersion)
}

func TestV1RootHandler(t *testing.T) {
	s := Server{Service: "autovm", Title: "AutoVM", Version: "1.0.0"}

	ctx, rec := newTestContext(t, http.MethodGet, "/v1")
	require.NoError(t, s.V1RootHandler(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var info ServiceInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "v1", info.APIVersion)
}

func TestRequestingUserMissingHeader(t *testing.T) {
	s := Server{}

	ctx, rec := newTestContext(t, http.MethodGet, "/v1/vms")
	user, err := s.RequestingUser(ctx)
	assert.Error(t, err)
	assert.Nil(t, user)

	// The helper sends the error response itself.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
