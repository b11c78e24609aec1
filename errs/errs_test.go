package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiErrSentinelMatching(t *testing.T) {
	err := NewAlreadyExists("profile")

	assert.True(t, errors.Is(err, ErrAlreadyExists))
	assert.True(t, IsAlreadyExists(err))
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Contains(t, err.Error(), "profile")
}

func TestNewDatabaseErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		cause      error
		wantStatus int
	}{
		{"duplicate key", errors.New(`duplicate key value violates unique constraint "idx_profiles_slug"`), http.StatusConflict},
		{"foreign key", errors.New("violates foreign key constraint"), http.StatusBadRequest},
		{"not found", errors.New("record not found"), http.StatusNotFound},
		{"connection", errors.New("connection refused"), http.StatusServiceUnavailable},
		{"anything else", errors.New("syntax error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("write", "profile", tt.cause)
			assert.Equal(t, tt.wantStatus, err.StatusCode)
			assert.Equal(t, tt.cause, err.Cause)
		})
	}
}

func TestUniqueConstraintViolationField(t *testing.T) {
	cause := errors.New("duplicate key")
	err := NewUniqueConstraintViolationError("profiles", "slug", cause)

	assert.True(t, IsUniqueConstraintViolationError(err))
	assert.Equal(t, "slug", err.Field)
	assert.Equal(t, http.StatusConflict, err.StatusCode)
}

func TestInferenceParseErrCarriesRaw(t *testing.T) {
	cause := errors.New("payload is not valid JSON")
	err := NewInferenceParseError("Sorry, I can't do that.", cause)

	assert.True(t, IsInferenceParseError(err))

	parseErr, ok := AsInferenceParse(err)
	require.True(t, ok)
	assert.Equal(t, "Sorry, I can't do that.", parseErr.Raw)
	assert.Contains(t, err.Error(), cause.Error())
}

func TestGetFullError(t *testing.T) {
	inner := errors.New("connection refused")
	mid := NewInternalErrorWithCause("query failed", inner)
	outer := &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        errors.New("request failed"),
		Cause:      mid,
	}

	full := outer.GetFullError()
	assert.Contains(t, full, "request failed")
	assert.Contains(t, full, "query failed")
	assert.Contains(t, full, "connection refused")
}

func TestCandidateValidationErrorDetails(t *testing.T) {
	err := NewCandidateValidationError([]string{"skills.0: name is required", "experiences.1.from: Does not match pattern"})

	assert.True(t, IsCandidateInvalidError(err))
	assert.Contains(t, err.Details, "skills.0")
	assert.Contains(t, err.Details, "experiences.1.from")
}
