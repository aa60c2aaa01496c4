package handlers

import (
	"context"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/xmlcodec"
	"roamhub/backend/services/hub-service/internal/auth"
	"roamhub/backend/services/hub-service/internal/dispatch"
	"roamhub/backend/services/hub-service/internal/service"
)

// NewPushEVSEStatusHandler merges pushed EVSE status.
func NewPushEVSEStatusHandler(svc *service.DirectoryService, logger *zap.Logger) dispatch.HandlerFunc {
	return func(ctx context.Context, partner auth.Partner, payload *etree.Element) (*etree.Element, error) {
		req, err := parse(payload, oicp.PushEVSEStatusParser(xmlcodec.FailFast), logger)
		if err != nil {
			logger.Warn("invalid push evse status", zap.String("partner", partner.Name), zap.Error(err))
			return oicp.NegativeAck(oicp.CodeDataError, oicp.WithDescription(err.Error())).Element(), nil
		}
		return svc.PushEVSEStatus(ctx, partner, req).Element(), nil
	}
}
