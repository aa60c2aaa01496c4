package oicp

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/xmlcodec"
)

// ErrInconsistentAck marks an acknowledgement whose result flag disagrees with its status code.
var ErrInconsistentAck = errors.New("result flag does not match status code")

// Acknowledgement is the generic answer to a push or charge detail record.
// A positive acknowledgement always carries code 000 and a negative one never does.
type Acknowledgement struct {
	result           bool
	status           StatusCode
	sessionID        ids.SessionID
	partnerSessionID ids.PartnerSessionID
}

type ackOptions struct {
	sessionID        ids.SessionID
	partnerSessionID ids.PartnerSessionID
	description      string
	additionalInfo   string
}

// AckOption customizes an acknowledgement built by PositiveAck or NegativeAck.
type AckOption func(*ackOptions)

func WithSessionID(id ids.SessionID) AckOption {
	return func(o *ackOptions) { o.sessionID = id }
}

func WithPartnerSessionID(id ids.PartnerSessionID) AckOption {
	return func(o *ackOptions) { o.partnerSessionID = id }
}

func WithDescription(text string) AckOption {
	return func(o *ackOptions) { o.description = text }
}

func WithAdditionalInfo(text string) AckOption {
	return func(o *ackOptions) { o.additionalInfo = text }
}

func newAck(result bool, code ResultCode, opts []AckOption) Acknowledgement {
	var o ackOptions
	for _, opt := range opts {
		opt(&o)
	}
	return Acknowledgement{
		result:           result,
		status:           NewStatusCode(code, o.description, o.additionalInfo),
		sessionID:        o.sessionID,
		partnerSessionID: o.partnerSessionID,
	}
}

// PositiveAck acknowledges success.
func PositiveAck(opts ...AckOption) Acknowledgement {
	return newAck(true, CodeSuccess, opts)
}

// NegativeAck reports a failure with code. Code 000 is replaced by 021 System error.
func NegativeAck(code ResultCode, opts ...AckOption) Acknowledgement {
	if code.IsSuccess() {
		code = CodeSystemError
	}
	return newAck(false, code, opts)
}

func (a Acknowledgement) Result() bool           { return a.result }
func (a Acknowledgement) StatusCode() StatusCode { return a.status }

// SessionID returns the hub session id, if any.
func (a Acknowledgement) SessionID() (ids.SessionID, bool) {
	return a.sessionID, !a.sessionID.IsZero()
}

// PartnerSessionID returns the partner session id, if any.
func (a Acknowledgement) PartnerSessionID() (ids.PartnerSessionID, bool) {
	return a.partnerSessionID, !a.partnerSessionID.IsZero()
}

func (a Acknowledgement) String() string {
	if a.result {
		return "ack " + a.status.String()
	}
	return "nack " + a.status.String()
}

// ParseAcknowledgement reads an eRoamingAcknowledgement element. A result
// flag contradicting the status code is rejected with ErrInconsistentAck.
func ParseAcknowledgement(e *etree.Element, onError xmlcodec.ErrorFunc) (Acknowledgement, error) {
	result, err := xmlcodec.Mandatory(e, "Result", xmlcodec.Bool)
	if err != nil {
		return Acknowledgement{}, err
	}
	status, err := xmlcodec.Object(e, "StatusCode", ParseStatusCode, onError)
	if err != nil {
		return Acknowledgement{}, err
	}
	sessionID, err := xmlcodec.OptionalOr(e, "SessionID", ids.ParseSessionID, ids.SessionID{})
	if err != nil {
		return Acknowledgement{}, err
	}
	partnerSessionID, err := xmlcodec.OptionalOr(e, "PartnerSessionID", ids.ParsePartnerSessionID, ids.PartnerSessionID{})
	if err != nil {
		return Acknowledgement{}, err
	}
	if result != status.IsSuccess() {
		return Acknowledgement{}, xmlcodec.ErrorAt(e, fmt.Errorf("%w: result %t with code %s", ErrInconsistentAck, result, status.Code()))
	}
	return Acknowledgement{result: result, status: status, sessionID: sessionID, partnerSessionID: partnerSessionID}, nil
}

// ParseAcknowledgementXML decodes an acknowledgement document, bare or inside a SOAP envelope.
func ParseAcknowledgementXML(data []byte, onError xmlcodec.ErrorFunc) (Acknowledgement, error) {
	return xmlcodec.Decode(data, "eRoamingAcknowledgement", ParseAcknowledgement, onError)
}

// Element builds the CommonTypes:eRoamingAcknowledgement element.
func (a Acknowledgement) Element() *etree.Element {
	e := etree.NewElement(NSCommonTypes.Tag("eRoamingAcknowledgement"))
	xmlcodec.Text(e, NSCommonTypes.Tag("Result"), xmlcodec.FormatBool(a.result))
	a.status.WriteTo(e, NSCommonTypes.Tag("StatusCode"))
	xmlcodec.OptionalText(e, NSCommonTypes.Tag("SessionID"), a.sessionID.String())
	xmlcodec.OptionalText(e, NSCommonTypes.Tag("PartnerSessionID"), a.partnerSessionID.String())
	return e
}

// Marshal writes a as a standalone document.
func (a Acknowledgement) Marshal() ([]byte, error) {
	return Marshal(a.Element())
}

// RequestAck pairs an acknowledgement with the request it answers.
type RequestAck[Req any] struct {
	Acknowledgement
	request Req
}

// Correlate binds ack to req.
func Correlate[Req any](req Req, ack Acknowledgement) RequestAck[Req] {
	return RequestAck[Req]{Acknowledgement: ack, request: req}
}

// Request returns the request that produced the acknowledgement.
func (r RequestAck[Req]) Request() Req {
	return r.request
}
