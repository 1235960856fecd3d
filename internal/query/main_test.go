package query

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithQuery(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestValidateBooleanQueryParam(t *testing.T) {
	ctx := contextWithQuery("flag=true")
	value, err := ValidateBooleanQueryParam(ctx, "flag", nil)
	require.NoError(t, err)
	assert.True(t, value)

	// A missing optional parameter falls back to the default.
	defaultValue := false
	value, err = ValidateBooleanQueryParam(ctx, "missing", &defaultValue)
	require.NoError(t, err)
	assert.False(t, value)

	// A missing required parameter is an error.
	_, err = ValidateBooleanQueryParam(ctx, "missing", nil)
	assert.Error(t, err)

	// An unparseable value is an error.
	ctx = contextWithQuery("flag=nope")
	_, err = ValidateBooleanQueryParam(ctx, "flag", nil)
	assert.Error(t, err)
}

func TestValidateIntQueryParam(t *testing.T) {
	ctx := contextWithQuery("offset=25")
	value, err := ValidateIntQueryParam(ctx, "offset", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(25), value)

	var defaultValue int32 = 50
	value, err = ValidateIntQueryParam(ctx, "limit", &defaultValue)
	require.NoError(t, err)
	assert.Equal(t, int32(50), value)

	// Validation checks apply to the parsed value.
	ctx = contextWithQuery("offset=-1")
	_, err = ValidateIntQueryParam(ctx, "offset", nil, "gte=0")
	assert.Error(t, err)

	ctx = contextWithQuery("offset=twenty")
	_, err = ValidateIntQueryParam(ctx, "offset", nil)
	assert.Error(t, err)
}

func TestValidateEnumQueryParam(t *testing.T) {
	valid := []string{"username", "created", "plan"}

	ctx := contextWithQuery("sort-field=CREATED")
	value, err := ValidateEnumQueryParam(ctx, "sort-field", valid, nil)
	require.NoError(t, err)
	assert.Equal(t, "created", value)

	defaultValue := "username"
	value, err = ValidateEnumQueryParam(ctx, "missing", valid, &defaultValue)
	require.NoError(t, err)
	assert.Equal(t, "username", value)

	ctx = contextWithQuery("sort-field=bogus")
	_, err = ValidateEnumQueryParam(ctx, "sort-field", valid, nil)
	assert.Error(t, err)
}

func TestValidateSortOrder(t *testing.T) {
	ctx := contextWithQuery("sort-order=DESC")
	value, err := ValidateSortOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "desc", value)

	ctx = contextWithQuery("")
	value, err = ValidateSortOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "asc", value)

	ctx = contextWithQuery("sort-order=sideways")
	_, err = ValidateSortOrder(ctx)
	assert.Error(t, err)
}
