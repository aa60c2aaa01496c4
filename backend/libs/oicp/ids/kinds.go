package ids

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	operatorIDPattern = regexp.MustCompile(`^(([A-Z]{2}\*?[A-Z0-9]{3})|(\+?[0-9]{1,3}\*[0-9]{3}))$`)
	providerIDPattern = regexp.MustCompile(`^[A-Z]{2}[\*\-]?[A-Z0-9]{3}$`)
	evseIDPattern     = regexp.MustCompile(`^(([A-Z]{2}\*?[A-Z0-9]{3}\*?E[A-Z0-9\*]{1,30})|(\+?[0-9]{1,3}\*[0-9]{3}\*[0-9\*]{1,32}))$`)
	sessionIDPattern  = regexp.MustCompile(`^[A-Za-z0-9]{8}-[A-Za-z0-9]{4}-[A-Za-z0-9]{4}-[A-Za-z0-9]{4}-[A-Za-z0-9]{12}$`)
	evcoIDPattern     = regexp.MustCompile(`^(([A-Z]{2}\-?[A-Z0-9]{3}\-?C[A-Z0-9]{8}\-?[0-9A-Z])|([A-Z]{2}[\*\-]?[A-Z0-9]{3}[\*\-]?[A-Z0-9]{6}[\*\-]?[0-9X]))$`)
	uidPattern        = regexp.MustCompile(`^([0-9A-F]{8}|[0-9A-F]{14}|[0-9A-F]{20})$`)
)

func matches(p *regexp.Regexp, s string) string {
	if p.MatchString(s) {
		return ""
	}
	return "does not match " + p.String()
}

func maxLength(s string, n int) string {
	if utf8.RuneCountInString(s) > n {
		return "longer than " + strconv.Itoa(n) + " characters"
	}
	return ""
}

type operatorKind struct{}

func (operatorKind) name() string              { return "operator id" }
func (operatorKind) normalize(s string) string { return strings.ToUpper(s) }
func (operatorKind) validate(s string) string  { return matches(operatorIDPattern, s) }

type providerKind struct{}

func (providerKind) name() string              { return "provider id" }
func (providerKind) normalize(s string) string { return strings.ToUpper(s) }
func (providerKind) validate(s string) string  { return matches(providerIDPattern, s) }

type evseKind struct{}

func (evseKind) name() string              { return "EVSE id" }
func (evseKind) normalize(s string) string { return strings.ToUpper(s) }
func (evseKind) validate(s string) string  { return matches(evseIDPattern, s) }

type sessionKind struct{}

func (sessionKind) name() string              { return "session id" }
func (sessionKind) normalize(s string) string { return s }
func (sessionKind) validate(s string) string  { return matches(sessionIDPattern, s) }

type partnerSessionKind struct{}

func (partnerSessionKind) name() string              { return "partner session id" }
func (partnerSessionKind) normalize(s string) string { return s }
func (partnerSessionKind) validate(s string) string  { return maxLength(s, 250) }

type chargingStationKind struct{}

func (chargingStationKind) name() string              { return "charging station id" }
func (chargingStationKind) normalize(s string) string { return s }
func (chargingStationKind) validate(s string) string  { return maxLength(s, 50) }

type partnerProductKind struct{}

func (partnerProductKind) name() string              { return "partner product id" }
func (partnerProductKind) normalize(s string) string { return s }
func (partnerProductKind) validate(s string) string  { return maxLength(s, 100) }

type evcoKind struct{}

func (evcoKind) name() string              { return "EVCO id" }
func (evcoKind) normalize(s string) string { return strings.ToUpper(s) }
func (evcoKind) validate(s string) string  { return matches(evcoIDPattern, s) }

type uidKind struct{}

func (uidKind) name() string              { return "RFID UID" }
func (uidKind) normalize(s string) string { return strings.ToUpper(s) }
func (uidKind) validate(s string) string  { return matches(uidPattern, s) }

// Identifier kinds.
type (
	OperatorID        = ID[operatorKind]
	ProviderID        = ID[providerKind]
	EVSEID            = ID[evseKind]
	SessionID         = ID[sessionKind]
	PartnerSessionID  = ID[partnerSessionKind]
	ChargingStationID = ID[chargingStationKind]
	PartnerProductID  = ID[partnerProductKind]
	EVCOID            = ID[evcoKind]
	UID               = ID[uidKind]
)

func ParseOperatorID(s string) (OperatorID, error)               { return parse[operatorKind](s) }
func ParseProviderID(s string) (ProviderID, error)               { return parse[providerKind](s) }
func ParseEVSEID(s string) (EVSEID, error)                       { return parse[evseKind](s) }
func ParseSessionID(s string) (SessionID, error)                 { return parse[sessionKind](s) }
func ParsePartnerSessionID(s string) (PartnerSessionID, error)   { return parse[partnerSessionKind](s) }
func ParseChargingStationID(s string) (ChargingStationID, error) { return parse[chargingStationKind](s) }
func ParsePartnerProductID(s string) (PartnerProductID, error)   { return parse[partnerProductKind](s) }
func ParseEVCOID(s string) (EVCOID, error)                       { return parse[evcoKind](s) }
func ParseUID(s string) (UID, error)                             { return parse[uidKind](s) }

func TryParseOperatorID(s string) (OperatorID, bool)               { return tryParse[operatorKind](s) }
func TryParseProviderID(s string) (ProviderID, bool)               { return tryParse[providerKind](s) }
func TryParseEVSEID(s string) (EVSEID, bool)                       { return tryParse[evseKind](s) }
func TryParseSessionID(s string) (SessionID, bool)                 { return tryParse[sessionKind](s) }
func TryParsePartnerSessionID(s string) (PartnerSessionID, bool)   { return tryParse[partnerSessionKind](s) }
func TryParseChargingStationID(s string) (ChargingStationID, bool) { return tryParse[chargingStationKind](s) }
func TryParsePartnerProductID(s string) (PartnerProductID, bool)   { return tryParse[partnerProductKind](s) }
func TryParseEVCOID(s string) (EVCOID, bool)                       { return tryParse[evcoKind](s) }
func TryParseUID(s string) (UID, bool)                             { return tryParse[uidKind](s) }

// NewSessionID generates a random hub session id.
func NewSessionID() SessionID {
	return SessionID{value: uuid.NewString()}
}

// NewPartnerSessionID generates a random partner session id.
func NewPartnerSessionID() PartnerSessionID {
	return PartnerSessionID{value: uuid.NewString()}
}

// MustEVSEID parses s and panics on error. Intended for constants and tests.
func MustEVSEID(s string) EVSEID {
	id, err := ParseEVSEID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// MustOperatorID parses s and panics on error. Intended for constants and tests.
func MustOperatorID(s string) OperatorID {
	id, err := ParseOperatorID(s)
	if err != nil {
		panic(err)
	}
	return id
}
