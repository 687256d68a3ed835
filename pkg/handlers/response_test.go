package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
)

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", fmt.Errorf("bad input: %w", apperrors.ErrValidation), http.StatusBadRequest, "validation_error"},
		{"authorization", fmt.Errorf("not yours: %w", apperrors.ErrAuthorization), http.StatusForbidden, "authorization_error"},
		{"not found", fmt.Errorf("gone: %w", apperrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{"conflict", fmt.Errorf("already done: %w", apperrors.ErrConflict), http.StatusConflict, "conflict"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, WriteServiceError(rec, tc.err))
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantCode)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteServiceError_InternalHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteServiceError(rec, errors.New("pg: connection refused at 10.0.0.5")))
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
