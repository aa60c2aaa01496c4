package handlers

import (
	"context"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/services/hub-service/internal/auth"
	"roamhub/backend/services/hub-service/internal/dispatch"
	"roamhub/backend/services/hub-service/internal/service"
)

// NewPullEVSEStatusHandler answers with current status per operator.
func NewPullEVSEStatusHandler(svc *service.DirectoryService, logger *zap.Logger) dispatch.HandlerFunc {
	return func(ctx context.Context, partner auth.Partner, payload *etree.Element) (*etree.Element, error) {
		req, err := parse(payload, oicp.ParsePullEVSEStatusRequest, logger)
		if err != nil {
			return oicp.EVSEStatusResponse{Status: dataError(err)}.Element(), nil
		}
		return svc.PullEVSEStatus(ctx, partner, req).Element(), nil
	}
}
