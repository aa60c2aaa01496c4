package oicp

import (
	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/xmlcodec"
)

// AuthorizeStartRequest asks whether a driver may start charging at an EVSE.
type AuthorizeStartRequest struct {
	SessionID        ids.SessionID
	PartnerSessionID ids.PartnerSessionID
	OperatorID       ids.OperatorID
	EVSEID           ids.EVSEID
	Identification   Identification
	PartnerProductID ids.PartnerProductID
}

func ParseAuthorizeStartRequest(e *etree.Element, onError xmlcodec.ErrorFunc) (AuthorizeStartRequest, error) {
	var r AuthorizeStartRequest
	var err error
	if r.SessionID, err = xmlcodec.OptionalOr(e, "SessionID", ids.ParseSessionID, ids.SessionID{}); err != nil {
		return AuthorizeStartRequest{}, err
	}
	if r.PartnerSessionID, err = xmlcodec.OptionalOr(e, "PartnerSessionID", ids.ParsePartnerSessionID, ids.PartnerSessionID{}); err != nil {
		return AuthorizeStartRequest{}, err
	}
	if r.OperatorID, err = xmlcodec.Mandatory(e, "OperatorID", ids.ParseOperatorID); err != nil {
		return AuthorizeStartRequest{}, err
	}
	if r.EVSEID, err = xmlcodec.OptionalOr(e, "EVSEID", ids.ParseEVSEID, ids.EVSEID{}); err != nil {
		return AuthorizeStartRequest{}, err
	}
	if r.Identification, err = xmlcodec.Object(e, "Identification", ParseIdentification, onError); err != nil {
		return AuthorizeStartRequest{}, err
	}
	if r.PartnerProductID, err = xmlcodec.OptionalOr(e, "PartnerProductID", ids.ParsePartnerProductID, ids.PartnerProductID{}); err != nil {
		return AuthorizeStartRequest{}, err
	}
	return r, nil
}

// ParseAuthorizeStartXML decodes eRoamingAuthorizeStart, bare or SOAP wrapped.
func ParseAuthorizeStartXML(data []byte, onError xmlcodec.ErrorFunc) (AuthorizeStartRequest, error) {
	return xmlcodec.Decode(data, "eRoamingAuthorizeStart", ParseAuthorizeStartRequest, onError)
}

func (r AuthorizeStartRequest) Element() *etree.Element {
	e := etree.NewElement(NSAuthorization.Tag("eRoamingAuthorizeStart"))
	xmlcodec.OptionalText(e, NSAuthorization.Tag("SessionID"), r.SessionID.String())
	xmlcodec.OptionalText(e, NSAuthorization.Tag("PartnerSessionID"), r.PartnerSessionID.String())
	xmlcodec.Text(e, NSAuthorization.Tag("OperatorID"), r.OperatorID.String())
	xmlcodec.OptionalText(e, NSAuthorization.Tag("EVSEID"), r.EVSEID.String())
	r.Identification.WriteTo(e, NSAuthorization.Tag("Identification"))
	xmlcodec.OptionalText(e, NSAuthorization.Tag("PartnerProductID"), r.PartnerProductID.String())
	return e
}

func (r AuthorizeStartRequest) Marshal() ([]byte, error) {
	return Marshal(r.Element())
}

// AuthorizationStartResponse answers AuthorizeStartRequest.
type AuthorizationStartResponse struct {
	SessionID        ids.SessionID
	PartnerSessionID ids.PartnerSessionID
	ProviderID       ids.ProviderID
	Status           AuthorizationStatus
	StatusCode       StatusCode
}

func ParseAuthorizationStartResponse(e *etree.Element, onError xmlcodec.ErrorFunc) (AuthorizationStartResponse, error) {
	var r AuthorizationStartResponse
	var err error
	if r.SessionID, err = xmlcodec.OptionalOr(e, "SessionID", ids.ParseSessionID, ids.SessionID{}); err != nil {
		return AuthorizationStartResponse{}, err
	}
	if r.PartnerSessionID, err = xmlcodec.OptionalOr(e, "PartnerSessionID", ids.ParsePartnerSessionID, ids.PartnerSessionID{}); err != nil {
		return AuthorizationStartResponse{}, err
	}
	if r.ProviderID, err = xmlcodec.OptionalOr(e, "ProviderID", ids.ParseProviderID, ids.ProviderID{}); err != nil {
		return AuthorizationStartResponse{}, err
	}
	if r.Status, err = xmlcodec.Mandatory(e, "AuthorizationStatus", parseAuthorizationStatus); err != nil {
		return AuthorizationStartResponse{}, err
	}
	if r.StatusCode, err = xmlcodec.Object(e, "StatusCode", ParseStatusCode, onError); err != nil {
		return AuthorizationStartResponse{}, err
	}
	return r, nil
}

// ParseAuthorizationStartXML decodes eRoamingAuthorizationStart, bare or SOAP wrapped.
func ParseAuthorizationStartXML(data []byte, onError xmlcodec.ErrorFunc) (AuthorizationStartResponse, error) {
	return xmlcodec.Decode(data, "eRoamingAuthorizationStart", ParseAuthorizationStartResponse, onError)
}

func (r AuthorizationStartResponse) Element() *etree.Element {
	e := etree.NewElement(NSAuthorization.Tag("eRoamingAuthorizationStart"))
	xmlcodec.OptionalText(e, NSAuthorization.Tag("SessionID"), r.SessionID.String())
	xmlcodec.OptionalText(e, NSAuthorization.Tag("PartnerSessionID"), r.PartnerSessionID.String())
	xmlcodec.OptionalText(e, NSAuthorization.Tag("ProviderID"), r.ProviderID.String())
	xmlcodec.Text(e, NSAuthorization.Tag("AuthorizationStatus"), string(r.Status))
	r.StatusCode.WriteTo(e, NSAuthorization.Tag("StatusCode"))
	return e
}

func (r AuthorizationStartResponse) Marshal() ([]byte, error) {
	return Marshal(r.Element())
}
