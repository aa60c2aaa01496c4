package handlers

import (
	"context"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/services/hub-service/internal/auth"
	"roamhub/backend/services/hub-service/internal/dispatch"
	"roamhub/backend/services/hub-service/internal/service"
)

// NewAuthorizeStartHandler decides whether a charging session may start.
func NewAuthorizeStartHandler(authorizer *service.Authorizer, logger *zap.Logger) dispatch.HandlerFunc {
	return func(ctx context.Context, partner auth.Partner, payload *etree.Element) (*etree.Element, error) {
		req, err := parse(payload, oicp.ParseAuthorizeStartRequest, logger)
		if err != nil {
			logger.Warn("invalid authorize start", zap.String("partner", partner.Name), zap.Error(err))
			return oicp.AuthorizationStartResponse{
				SessionID:  ids.NewSessionID(),
				Status:     oicp.NotAuthorized,
				StatusCode: *dataError(err),
			}.Element(), nil
		}
		return authorizer.AuthorizeStart(ctx, partner, req).Element(), nil
	}
}
