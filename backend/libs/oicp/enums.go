package oicp

import "roamhub/backend/libs/oicp/xmlcodec"

// EVSEStatusType is the dynamic status of an EVSE.
type EVSEStatusType string

const (
	EVSEAvailable    EVSEStatusType = "Available"
	EVSEReserved     EVSEStatusType = "Reserved"
	EVSEOccupied     EVSEStatusType = "Occupied"
	EVSEOutOfService EVSEStatusType = "OutOfService"
	EVSENotFound     EVSEStatusType = "EvseNotFound"
	EVSEUnknown      EVSEStatusType = "Unknown"
)

var parseEVSEStatusType = xmlcodec.Enum("EVSE status", EVSEAvailable, EVSEReserved, EVSEOccupied, EVSEOutOfService, EVSENotFound, EVSEUnknown)

// ParseEVSEStatusType parses the wire value of an EVSE status.
func ParseEVSEStatusType(text string) (EVSEStatusType, error) {
	return parseEVSEStatusType(text)
}

// PlugType is a connector type offered by an EVSE.
type PlugType string

const (
	PlugSmallPaddleInductive  PlugType = "Small Paddle Inductive"
	PlugLargePaddleInductive  PlugType = "Large Paddle Inductive"
	PlugAVCONConnector        PlugType = "AVCON Connector"
	PlugTeslaConnector        PlugType = "Tesla Connector"
	PlugNEMA520               PlugType = "NEMA 5-20"
	PlugTypeEFrenchStandard   PlugType = "Type E French Standard"
	PlugTypeFSchuko           PlugType = "Type F Schuko"
	PlugTypeGBritishStandard  PlugType = "Type G British Standard"
	PlugTypeJSwissStandard    PlugType = "Type J Swiss Standard"
	PlugType1CableAttached    PlugType = "Type 1 Connector (Cable Attached)"
	PlugType2Outlet           PlugType = "Type 2 Outlet"
	PlugType2CableAttached    PlugType = "Type 2 Connector (Cable Attached)"
	PlugType3Outlet           PlugType = "Type 3 Outlet"
	PlugIEC60309SinglePhase   PlugType = "IEC 60309 Single Phase"
	PlugIEC60309ThreePhase    PlugType = "IEC 60309 Three Phase"
	PlugCCSCombo2CableAttache PlugType = "CCS Combo 2 Plug (Cable Attached)"
	PlugCCSCombo1CableAttache PlugType = "CCS Combo 1 Plug (Cable Attached)"
	PlugCHAdeMO               PlugType = "CHAdeMO"
)

var parsePlugType = xmlcodec.Enum("plug type",
	PlugSmallPaddleInductive, PlugLargePaddleInductive, PlugAVCONConnector, PlugTeslaConnector,
	PlugNEMA520, PlugTypeEFrenchStandard, PlugTypeFSchuko, PlugTypeGBritishStandard,
	PlugTypeJSwissStandard, PlugType1CableAttached, PlugType2Outlet, PlugType2CableAttached,
	PlugType3Outlet, PlugIEC60309SinglePhase, PlugIEC60309ThreePhase, PlugCCSCombo2CableAttache,
	PlugCCSCombo1CableAttache, PlugCHAdeMO,
)

// AuthenticationMode is a way an EVSE can authenticate a driver.
type AuthenticationMode string

const (
	AuthNFCRFIDClassic   AuthenticationMode = "NFC RFID Classic"
	AuthNFCRFIDDESFire   AuthenticationMode = "NFC RFID DESFire"
	AuthPnC              AuthenticationMode = "PnC"
	AuthRemote           AuthenticationMode = "REMOTE"
	AuthDirectPayment    AuthenticationMode = "Direct Payment"
	AuthNoAuthentication AuthenticationMode = "No Authentication Required"
)

var parseAuthenticationMode = xmlcodec.Enum("authentication mode",
	AuthNFCRFIDClassic, AuthNFCRFIDDESFire, AuthPnC, AuthRemote, AuthDirectPayment, AuthNoAuthentication)

// Accessibility describes who may use an EVSE.
type Accessibility string

const (
	AccessFreePublic   Accessibility = "Free publicly accessible"
	AccessRestricted   Accessibility = "Restricted access"
	AccessPayingPublic Accessibility = "Paying publicly accessible"
	AccessTestStation  Accessibility = "Test Station"
)

var parseAccessibility = xmlcodec.Enum("accessibility", AccessFreePublic, AccessRestricted, AccessPayingPublic, AccessTestStation)

// DynamicInfoAvailable tells whether an EVSE reports live status.
type DynamicInfoAvailable string

const (
	DynamicInfoTrue  DynamicInfoAvailable = "true"
	DynamicInfoFalse DynamicInfoAvailable = "false"
	DynamicInfoAuto  DynamicInfoAvailable = "auto"
)

var parseDynamicInfo = xmlcodec.Enum("dynamic info availability", DynamicInfoTrue, DynamicInfoFalse, DynamicInfoAuto)

// AuthorizationStatus is the outcome of an authorization request.
type AuthorizationStatus string

const (
	Authorized    AuthorizationStatus = "Authorized"
	NotAuthorized AuthorizationStatus = "NotAuthorized"
)

var parseAuthorizationStatus = xmlcodec.Enum("authorization status", Authorized, NotAuthorized)
