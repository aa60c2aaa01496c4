package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/services/hub-service/internal/auth"
)

func TestPartnerAuth(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	token, err := tokens.GenerateToken(auth.Partner{Name: "gef", OperatorID: ids.MustOperatorID("DE*GEF")})
	require.NoError(t, err)

	var seen auth.Partner
	h := PartnerAuth(tokens, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.PartnerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"bearer header", "Bearer " + token, "", http.StatusNoContent},
		{"lowercase scheme", "bearer " + token, "", http.StatusNoContent},
		{"query token", "", "?access_token=" + token, http.StatusNoContent},
		{"missing", "", "", http.StatusUnauthorized},
		{"basic scheme", "Basic " + token, "", http.StatusUnauthorized},
		{"forged", "Bearer " + token + "x", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = auth.Partner{}
			req := httptest.NewRequest(http.MethodPost, "/oicp/evsestatus"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, "gef", seen.Name)
			}
		})
	}
}
