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

// NewPullEVSEDataHandler answers with the directory, or the changes since LastCall.
func NewPullEVSEDataHandler(svc *service.DirectoryService, logger *zap.Logger) dispatch.HandlerFunc {
	return func(ctx context.Context, partner auth.Partner, payload *etree.Element) (*etree.Element, error) {
		req, err := parse(payload, oicp.ParsePullEVSEDataRequest, logger)
		if err != nil {
			return oicp.EVSEDataResponse{Status: dataError(err)}.Element(), nil
		}
		return svc.PullEVSEData(ctx, partner, req).Element(), nil
	}
}
