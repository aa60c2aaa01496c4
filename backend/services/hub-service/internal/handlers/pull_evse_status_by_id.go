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

// NewPullEVSEStatusByIDHandler answers the status of the listed EVSEs.
func NewPullEVSEStatusByIDHandler(svc *service.DirectoryService, logger *zap.Logger) dispatch.HandlerFunc {
	return func(ctx context.Context, partner auth.Partner, payload *etree.Element) (*etree.Element, error) {
		req, err := parse(payload, oicp.ParsePullEVSEStatusByIDRequest, logger)
		if err != nil {
			return oicp.EVSEStatusByIDResponse{Status: dataError(err)}.Element(), nil
		}
		return svc.PullEVSEStatusByID(ctx, partner, req).Element(), nil
	}
}
