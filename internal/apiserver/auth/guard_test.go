package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sge-admin/internal/apiserver/httpx"
	"sge-admin/internal/shared/apperr"
	"sge-admin/internal/shared/model"
	"sge-admin/pkg/logging"
)

func TestGuardRequire(t *testing.T) {
	now := time.Now()
	codec := NewTokenCodec(testSecret, time.Hour)
	guard := NewGuard(codec, logging.Discard())

	adminToken, err := codec.Issue("admin-1", "admin", model.UserRoleAdmin)
	require.NoError(t, err)
	profToken, err := codec.Issue("prof-1", "prof@escola.br", model.UserRoleProfessor)
	require.NoError(t, err)
	expired, err := codec.WithClock(fixedClock(now.Add(-2*time.Hour))).Issue("prof-1", "p", model.UserRoleProfessor)
	require.NoError(t, err)

	tests := []struct {
		name       string
		cap        Capability
		header     string
		wantStatus int
		wantKind   apperr.Kind
	}{
		{"public without token", Public, "", http.StatusOK, ""},
		{"auth without token", Authenticated, "", http.StatusUnauthorized, apperr.KindAuthenticationRequired},
		{"auth malformed header", Authenticated, "Token " + profToken, http.StatusUnauthorized, apperr.KindAuthenticationRequired},
		{"auth empty bearer", Authenticated, "Bearer ", http.StatusUnauthorized, apperr.KindAuthenticationRequired},
		{"auth garbage token", Authenticated, "Bearer nope", http.StatusUnauthorized, apperr.KindAuthenticationRequired},
		{"auth expired token", Authenticated, "Bearer " + expired, http.StatusUnauthorized, apperr.KindAuthenticationRequired},
		{"auth professor", Authenticated, "Bearer " + profToken, http.StatusOK, ""},
		{"auth lowercase scheme", Authenticated, "bearer " + profToken, http.StatusOK, ""},
		{"admin as professor", Admin, "Bearer " + profToken, http.StatusForbidden, apperr.KindAuthorizationDenied},
		{"admin as admin", Admin, "Bearer " + adminToken, http.StatusOK, ""},
		{"admin without token", Admin, "", http.StatusUnauthorized, apperr.KindAuthenticationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *AuthUser
			h := guard.Require(tt.cap, func(w http.ResponseWriter, r *http.Request) {
				seen = GetAuthUser(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantKind != "" {
				var body httpx.ErrorBody
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantKind, body.Error)
				assert.Nil(t, seen)
			}
			if tt.wantKind == apperr.KindAuthenticationRequired {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
			if tt.wantStatus == http.StatusOK && tt.cap != Public {
				require.NotNil(t, seen)
				assert.NotEmpty(t, seen.ID)
			}
		})
	}
}

func TestCapabilityString(t *testing.T) {
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "admin", Admin.String())
	assert.Equal(t, "unknown", Capability(42).String())
}
