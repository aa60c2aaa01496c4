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

// NewChargeDetailRecordHandler accepts the record of a finished session.
func NewChargeDetailRecordHandler(svc *service.CDRService, logger *zap.Logger) dispatch.HandlerFunc {
	return func(ctx context.Context, partner auth.Partner, payload *etree.Element) (*etree.Element, error) {
		cdr, err := parse(payload, oicp.ParseChargeDetailRecord, logger)
		if err != nil {
			logger.Warn("invalid charge detail record", zap.String("partner", partner.Name), zap.Error(err))
			return oicp.NegativeAck(oicp.CodeDataError, oicp.WithDescription(err.Error())).Element(), nil
		}
		return svc.SendChargeDetailRecord(ctx, partner, cdr).Element(), nil
	}
}
