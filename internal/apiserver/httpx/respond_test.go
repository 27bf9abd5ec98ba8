package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sge-admin/internal/shared/apperr"
	"sge-admin/internal/shared/storage"
	"sge-admin/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   apperr.Kind
		wantMsg    string
	}{
		{"not found", apperr.NotFound("course"), 404, apperr.KindNotFound, "course not found"},
		{"wrapped parent", fmt.Errorf("link: %w", apperr.ParentNotFound("turma")), 404, apperr.KindParentNotFound, "referenced turma not found"},
		{"duplicate", apperr.ErrDuplicateEmail, 400, apperr.KindDuplicateEmail, "email already registered"},
		{"validation", apperr.Validation("name is required"), 422, apperr.KindValidation, "name is required"},
		{"internal hides detail", errors.New("connection refused"), 500, apperr.KindInternal, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			WriteError(rec, req, logging.Discard(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Error)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestWriteErrorSetsBearerChallenge(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), nil, apperr.ErrAuthenticationRequired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"CS101"}`))
	require.NoError(t, DecodeJSON(rec, req, &v))
	assert.Equal(t, "CS101", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{bad`))
	err := DecodeJSON(rec, req, &v)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation})

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(``))
	err = DecodeJSON(rec, req, &v)
	assert.ErrorContains(t, err, "request body is required")
}

func TestNotFoundAs(t *testing.T) {
	err := NotFoundAs(fmt.Errorf("get: %w", storage.ErrNotFound), "student")
	assert.ErrorIs(t, err, apperr.NotFound("student"))

	other := errors.New("boom")
	assert.Same(t, other, NotFoundAs(other, "student"))
}
