package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"roamhub/backend/libs/oicp/soap"
	"roamhub/backend/services/hub-service/internal/auth"
	"roamhub/backend/services/hub-service/internal/dispatch"
)

// Processor turns a request envelope into a response envelope.
type Processor interface {
	Process(ctx context.Context, partner auth.Partner, raw []byte) (dispatch.Reply, error)
}

// SOAPHandler serves one OICP endpoint. Replies use the SOAP version of the
// request; faults are sent with an error status.
func SOAPHandler(processor Processor, maxBody int64, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partner, ok := auth.PartnerFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}

		reply, err := processor.Process(r.Context(), partner, raw)
		if err != nil {
			logger.Error("soap processing failed", zap.String("partner", partner.Name), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		logger.Debug("soap exchange",
			zap.String("partner", partner.Name),
			zap.String("path", r.URL.Path),
			zap.String("action", soap.Action(r, reply.Version)),
		)

		w.Header().Set("Content-Type", reply.Version.ContentType())
		w.WriteHeader(faultStatus(reply))
		_, _ = w.Write(reply.Body)
	}
}

func faultStatus(reply dispatch.Reply) int {
	switch {
	case reply.Fault == nil:
		return http.StatusOK
	case reply.Version == soap.V12 && reply.Fault.Code == soap.FaultClient:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
