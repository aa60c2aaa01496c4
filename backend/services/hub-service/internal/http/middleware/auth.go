package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"roamhub/backend/services/hub-service/internal/auth"
)

// PartnerAuth validates the partner token and stores the partner in the
// request context. The token is read from the Authorization header, or from
// the access_token query parameter for browser websocket clients.
func PartnerAuth(tokens *auth.TokenService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearer(r)
			if !ok {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			partner, err := tokens.ValidateToken(tokenStr)
			if err != nil {
				logger.Debug("rejected partner token", zap.String("path", r.URL.Path), zap.Error(err))
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPartner(r.Context(), partner)))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		token := strings.TrimSpace(r.URL.Query().Get("access_token"))
		return token, token != ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
