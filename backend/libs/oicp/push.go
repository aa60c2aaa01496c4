package oicp

import (
	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/xmlcodec"
)

// PushEVSEDataRequest uploads directory records of one operator.
type PushEVSEDataRequest struct {
	Action ActionType
	Data   OperatorEVSEData
}

// PushEVSEStatusRequest uploads status records of one operator.
type PushEVSEStatusRequest struct {
	Action ActionType
	Status OperatorEVSEStatus
}

// PushEVSEDataParser reads eRoamingPushEvseData; mode applies to the records.
func PushEVSEDataParser(mode xmlcodec.Mode) xmlcodec.Parser[PushEVSEDataRequest] {
	return func(e *etree.Element, onError xmlcodec.ErrorFunc) (PushEVSEDataRequest, error) {
		action, err := xmlcodec.Mandatory(e, "ActionType", parseActionType)
		if err != nil {
			return PushEVSEDataRequest{}, err
		}
		data, err := xmlcodec.Object(e, "OperatorEvseData", OperatorEVSEDataParser(mode), onError)
		if err != nil {
			return PushEVSEDataRequest{}, err
		}
		return PushEVSEDataRequest{Action: action, Data: data}, nil
	}
}

// ParsePushEVSEDataXML decodes a push document, bare or SOAP wrapped.
func ParsePushEVSEDataXML(data []byte, mode xmlcodec.Mode, onError xmlcodec.ErrorFunc) (PushEVSEDataRequest, error) {
	return xmlcodec.Decode(data, "eRoamingPushEvseData", PushEVSEDataParser(mode), onError)
}

// Element builds EVSEData:eRoamingPushEvseData.
func (r PushEVSEDataRequest) Element() *etree.Element {
	e := etree.NewElement(NSEVSEData.Tag("eRoamingPushEvseData"))
	xmlcodec.Text(e, NSEVSEData.Tag("ActionType"), string(r.Action))
	r.Data.WriteTo(e)
	return e
}

func (r PushEVSEDataRequest) Marshal() ([]byte, error) {
	return Marshal(r.Element())
}

// PushEVSEStatusParser reads eRoamingPushEvseStatus; mode applies to the records.
func PushEVSEStatusParser(mode xmlcodec.Mode) xmlcodec.Parser[PushEVSEStatusRequest] {
	return func(e *etree.Element, onError xmlcodec.ErrorFunc) (PushEVSEStatusRequest, error) {
		action, err := xmlcodec.Mandatory(e, "ActionType", parseActionType)
		if err != nil {
			return PushEVSEStatusRequest{}, err
		}
		status, err := xmlcodec.Object(e, "OperatorEvseStatus", OperatorEVSEStatusParser(mode), onError)
		if err != nil {
			return PushEVSEStatusRequest{}, err
		}
		return PushEVSEStatusRequest{Action: action, Status: status}, nil
	}
}

// ParsePushEVSEStatusXML decodes a status push document, bare or SOAP wrapped.
func ParsePushEVSEStatusXML(data []byte, mode xmlcodec.Mode, onError xmlcodec.ErrorFunc) (PushEVSEStatusRequest, error) {
	return xmlcodec.Decode(data, "eRoamingPushEvseStatus", PushEVSEStatusParser(mode), onError)
}

// Element builds EVSEStatus:eRoamingPushEvseStatus.
func (r PushEVSEStatusRequest) Element() *etree.Element {
	e := etree.NewElement(NSEVSEStatus.Tag("eRoamingPushEvseStatus"))
	xmlcodec.Text(e, NSEVSEStatus.Tag("ActionType"), string(r.Action))
	r.Status.WriteTo(e)
	return e
}

func (r PushEVSEStatusRequest) Marshal() ([]byte, error) {
	return Marshal(r.Element())
}
