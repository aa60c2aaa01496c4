package handlers

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"roamhub/backend/libs/logging"
	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/xmlcodec"
)

// parse reads payload with p, sending tolerated errors to logger.
func parse[T any](payload *etree.Element, p xmlcodec.Parser[T], logger *zap.Logger) (T, error) {
	v, err := p(payload, logging.CodecErrors(logger))
	if err != nil {
		return v, xmlcodec.ErrorAt(payload, err)
	}
	return v, nil
}

// dataError is the 022 status answered for an unreadable request.
func dataError(err error) *oicp.StatusCode {
	s := oicp.NewStatusCode(oicp.CodeDataError, err.Error(), "")
	return &s
}
