package oicp

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/xmlcodec"
)

// ResultCode is a numeric outcome code, sent as three digits.
type ResultCode int

const (
	CodeSuccess                    ResultCode = 0
	CodeHubSystemError             ResultCode = 1
	CodeHubDatabaseError           ResultCode = 2
	CodeDataTransactionError       ResultCode = 9
	CodeUnauthorizedAccess         ResultCode = 17
	CodeInconsistentEVSEID         ResultCode = 18
	CodeInconsistentEVCOID         ResultCode = 19
	CodeSystemError                ResultCode = 21
	CodeDataError                  ResultCode = 22
	CodeQRCodeAuthenticationFailed ResultCode = 101
	CodeRFIDAuthenticationFailed   ResultCode = 102
	CodeRFIDCardNotReadable        ResultCode = 103
	CodePLCAuthenticationFailed    ResultCode = 105
	CodeNoPositiveAuthentication   ResultCode = 106
	CodeQRCodeAppTimeout           ResultCode = 110
	CodePLCInvalidEVCOID           ResultCode = 120
	CodePLCInvalidCertificate      ResultCode = 121
	CodePLCTimeout                 ResultCode = 122
	CodeEVCOIDLocked               ResultCode = 200
	CodeNoValidContract            ResultCode = 210
	CodePartnerNotFound            ResultCode = 300
	CodePartnerDidNotRespond       ResultCode = 310
	CodeServiceNotAvailable        ResultCode = 320
	CodeSessionInvalid             ResultCode = 400
	CodeEVSECommunicationFailed    ResultCode = 501
	CodeNoEVConnected              ResultCode = 510
	CodeEVSEAlreadyReserved        ResultCode = 601
	CodeEVSEAlreadyInUse           ResultCode = 602
	CodeUnknownEVSEID              ResultCode = 603
	CodeEVSEIDNotCompatible        ResultCode = 604
	CodeEVSEOutOfService           ResultCode = 700
)

var resultCodes = map[ResultCode]string{
	CodeSuccess:                    "Success",
	CodeHubSystemError:             "Hubject system error",
	CodeHubDatabaseError:           "Hubject database error",
	CodeDataTransactionError:       "Data transaction error",
	CodeUnauthorizedAccess:         "Unauthorized access",
	CodeInconsistentEVSEID:         "Inconsistent EvseID",
	CodeInconsistentEVCOID:         "Inconsistent EvcoID",
	CodeSystemError:                "System error",
	CodeDataError:                  "Data error",
	CodeQRCodeAuthenticationFailed: "QR code authentication failed",
	CodeRFIDAuthenticationFailed:   "RFID authentication failed (invalid UID)",
	CodeRFIDCardNotReadable:        "RFID card not readable",
	CodePLCAuthenticationFailed:    "PLC authentication failed (invalid EvcoID)",
	CodeNoPositiveAuthentication:   "No positive authentication response",
	CodeQRCodeAppTimeout:           "QR code app authentication timeout",
	CodePLCInvalidEVCOID:           "PLC invalid underlying EvcoID",
	CodePLCInvalidCertificate:      "PLC invalid certificate",
	CodePLCTimeout:                 "PLC timeout",
	CodeEVCOIDLocked:               "EvcoID locked",
	CodeNoValidContract:            "No valid contract",
	CodePartnerNotFound:            "Partner not found",
	CodePartnerDidNotRespond:       "Partner did not respond",
	CodeServiceNotAvailable:        "Service not available",
	CodeSessionInvalid:             "Session is invalid",
	CodeEVSECommunicationFailed:    "Communication to EVSE failed",
	CodeNoEVConnected:              "No EV connected to EVSE",
	CodeEVSEAlreadyReserved:        "EVSE already reserved",
	CodeEVSEAlreadyInUse:           "EVSE already in use / wrong token",
	CodeUnknownEVSEID:              "Unknown EVSE ID",
	CodeEVSEIDNotCompatible:        "EVSE ID not compatible",
	CodeEVSEOutOfService:           "EVSE out of service",
}

// ParseResultCode reads a code of up to three digits; codes outside the catalogue are rejected.
func ParseResultCode(text string) (ResultCode, error) {
	if len(text) == 0 || len(text) > 3 {
		return 0, xmlcodec.NewValidationError("result code", text, "expected three digits")
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, xmlcodec.NewValidationError("result code", text, "expected three digits")
	}
	code := ResultCode(n)
	if _, ok := resultCodes[code]; !ok {
		return 0, xmlcodec.NewValidationError("result code", text, "unknown code")
	}
	return code, nil
}

// String returns the three digit wire form.
func (c ResultCode) String() string {
	return fmt.Sprintf("%03d", int(c))
}

// Description returns the catalogue text of c.
func (c ResultCode) Description() string {
	return resultCodes[c]
}

// IsSuccess reports whether c is the success code.
func (c ResultCode) IsSuccess() bool {
	return c == CodeSuccess
}

// StatusCode is a result code with optional human-readable detail.
type StatusCode struct {
	code           ResultCode
	description    string
	additionalInfo string
}

// NewStatusCode builds a status code.
func NewStatusCode(code ResultCode, description, additionalInfo string) StatusCode {
	return StatusCode{code: code, description: description, additionalInfo: additionalInfo}
}

func (s StatusCode) Code() ResultCode       { return s.code }
func (s StatusCode) Description() string    { return s.description }
func (s StatusCode) AdditionalInfo() string { return s.additionalInfo }
func (s StatusCode) IsSuccess() bool        { return s.code.IsSuccess() }

// WithCode returns a copy of s carrying c.
func (s StatusCode) WithCode(c ResultCode) StatusCode {
	s.code = c
	return s
}

func (s StatusCode) String() string {
	if s.description == "" {
		return s.code.String() + " " + s.code.Description()
	}
	return s.code.String() + " " + s.description
}

// ParseStatusCode reads a StatusCode container.
func ParseStatusCode(e *etree.Element, _ xmlcodec.ErrorFunc) (StatusCode, error) {
	code, err := xmlcodec.Mandatory(e, "Code", ParseResultCode)
	if err != nil {
		return StatusCode{}, err
	}
	description, err := xmlcodec.OptionalOr(e, "Description", xmlcodec.String, "")
	if err != nil {
		return StatusCode{}, err
	}
	info, err := xmlcodec.OptionalOr(e, "AdditionalInfo", xmlcodec.String, "")
	if err != nil {
		return StatusCode{}, err
	}
	return NewStatusCode(code, description, info), nil
}

// WriteTo appends s as the container tag. Children are always CommonTypes.
func (s StatusCode) WriteTo(parent *etree.Element, tag string) *etree.Element {
	e := parent.CreateElement(tag)
	xmlcodec.Text(e, NSCommonTypes.Tag("Code"), s.code.String())
	xmlcodec.OptionalText(e, NSCommonTypes.Tag("Description"), s.description)
	xmlcodec.OptionalText(e, NSCommonTypes.Tag("AdditionalInfo"), s.additionalInfo)
	return e
}
