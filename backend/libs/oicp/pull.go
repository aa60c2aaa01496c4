package oicp

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/xmlcodec"
)

// MaxEVSEIDsPerRequest bounds eRoamingPullEvseStatusById.
const MaxEVSEIDsPerRequest = 100

// PullEVSEDataRequest asks for the directory. With LastCall set only records
// changed since then are returned, annotated with their delta.
type PullEVSEDataRequest struct {
	ProviderID ids.ProviderID
	LastCall   *time.Time
}

func ParsePullEVSEDataRequest(e *etree.Element, _ xmlcodec.ErrorFunc) (PullEVSEDataRequest, error) {
	provider, err := xmlcodec.Mandatory(e, "ProviderID", ids.ParseProviderID)
	if err != nil {
		return PullEVSEDataRequest{}, err
	}
	lastCall, err := xmlcodec.Optional(e, "LastCall", xmlcodec.Time)
	if err != nil {
		return PullEVSEDataRequest{}, err
	}
	return PullEVSEDataRequest{ProviderID: provider, LastCall: lastCall}, nil
}

func (r PullEVSEDataRequest) Element() *etree.Element {
	e := etree.NewElement(NSEVSEData.Tag("eRoamingPullEvseData"))
	xmlcodec.Text(e, NSEVSEData.Tag("ProviderID"), r.ProviderID.String())
	xmlcodec.SetOptional(e, NSEVSEData.Tag("LastCall"), r.LastCall, xmlcodec.FormatTime)
	return e
}

// EVSEDataResponse answers PullEVSEDataRequest.
type EVSEDataResponse struct {
	Operators []OperatorEVSEData
	Status    *StatusCode
}

// EVSEDataResponseParser reads eRoamingEvseData in the given mode.
func EVSEDataResponseParser(mode xmlcodec.Mode) xmlcodec.Parser[EVSEDataResponse] {
	return func(e *etree.Element, onError xmlcodec.ErrorFunc) (EVSEDataResponse, error) {
		operators, err := xmlcodec.Repeated(e, "EvseData/OperatorEvseData", OperatorEVSEDataParser(mode), mode, onError)
		if err != nil {
			return EVSEDataResponse{}, err
		}
		status, err := xmlcodec.OptionalObject(e, "StatusCode", ParseStatusCode, onError)
		if err != nil {
			return EVSEDataResponse{}, err
		}
		return EVSEDataResponse{Operators: cloneOrNil(operators), Status: status}, nil
	}
}

// ParseEVSEDataResponseXML decodes eRoamingEvseData, bare or SOAP wrapped.
func ParseEVSEDataResponseXML(data []byte, mode xmlcodec.Mode, onError xmlcodec.ErrorFunc) (EVSEDataResponse, error) {
	return xmlcodec.Decode(data, "eRoamingEvseData", EVSEDataResponseParser(mode), onError)
}

func (r EVSEDataResponse) Element() *etree.Element {
	e := etree.NewElement(NSEVSEData.Tag("eRoamingEvseData"))
	container := e.CreateElement(NSEVSEData.Tag("EvseData"))
	for _, o := range r.Operators {
		o.WriteTo(container)
	}
	if r.Status != nil {
		r.Status.WriteTo(e, NSEVSEData.Tag("StatusCode"))
	}
	return e
}

func (r EVSEDataResponse) Marshal() ([]byte, error) {
	return Marshal(r.Element())
}

// PullEVSEStatusRequest asks for all status records, optionally only those with Status.
type PullEVSEStatusRequest struct {
	ProviderID ids.ProviderID
	Status     *EVSEStatusType
}

func ParsePullEVSEStatusRequest(e *etree.Element, _ xmlcodec.ErrorFunc) (PullEVSEStatusRequest, error) {
	provider, err := xmlcodec.Mandatory(e, "ProviderID", ids.ParseProviderID)
	if err != nil {
		return PullEVSEStatusRequest{}, err
	}
	status, err := xmlcodec.Optional(e, "EvseStatus", parseEVSEStatusType)
	if err != nil {
		return PullEVSEStatusRequest{}, err
	}
	return PullEVSEStatusRequest{ProviderID: provider, Status: status}, nil
}

func (r PullEVSEStatusRequest) Element() *etree.Element {
	e := etree.NewElement(NSEVSEStatus.Tag("eRoamingPullEvseStatus"))
	xmlcodec.Text(e, NSEVSEStatus.Tag("ProviderID"), r.ProviderID.String())
	xmlcodec.SetOptional(e, NSEVSEStatus.Tag("EvseStatus"), r.Status, func(s EVSEStatusType) string { return string(s) })
	return e
}

// EVSEStatusResponse answers PullEVSEStatusRequest.
type EVSEStatusResponse struct {
	Operators []OperatorEVSEStatus
	Status    *StatusCode
}

// EVSEStatusResponseParser reads eRoamingEvseStatus in the given mode.
func EVSEStatusResponseParser(mode xmlcodec.Mode) xmlcodec.Parser[EVSEStatusResponse] {
	return func(e *etree.Element, onError xmlcodec.ErrorFunc) (EVSEStatusResponse, error) {
		operators, err := xmlcodec.Repeated(e, "EvseStatuses/OperatorEvseStatus", OperatorEVSEStatusParser(mode), mode, onError)
		if err != nil {
			return EVSEStatusResponse{}, err
		}
		status, err := xmlcodec.OptionalObject(e, "StatusCode", ParseStatusCode, onError)
		if err != nil {
			return EVSEStatusResponse{}, err
		}
		return EVSEStatusResponse{Operators: cloneOrNil(operators), Status: status}, nil
	}
}

// ParseEVSEStatusResponseXML decodes eRoamingEvseStatus, bare or SOAP wrapped.
func ParseEVSEStatusResponseXML(data []byte, mode xmlcodec.Mode, onError xmlcodec.ErrorFunc) (EVSEStatusResponse, error) {
	return xmlcodec.Decode(data, "eRoamingEvseStatus", EVSEStatusResponseParser(mode), onError)
}

func (r EVSEStatusResponse) Element() *etree.Element {
	e := etree.NewElement(NSEVSEStatus.Tag("eRoamingEvseStatus"))
	container := e.CreateElement(NSEVSEStatus.Tag("EvseStatuses"))
	for _, o := range r.Operators {
		o.WriteTo(container)
	}
	if r.Status != nil {
		r.Status.WriteTo(e, NSEVSEStatus.Tag("StatusCode"))
	}
	return e
}

func (r EVSEStatusResponse) Marshal() ([]byte, error) {
	return Marshal(r.Element())
}

// PullEVSEStatusByIDRequest asks for the status of 1 to 100 given EVSEs.
type PullEVSEStatusByIDRequest struct {
	ProviderID ids.ProviderID
	EVSEIDs    []ids.EVSEID
}

// Validate checks the id count.
func (r PullEVSEStatusByIDRequest) Validate() error {
	if n := len(r.EVSEIDs); n == 0 || n > MaxEVSEIDsPerRequest {
		return xmlcodec.NewValidationError("EVSE id list", fmt.Sprint(n), fmt.Sprintf("expected 1 to %d ids", MaxEVSEIDsPerRequest))
	}
	return nil
}

func ParsePullEVSEStatusByIDRequest(e *etree.Element, onError xmlcodec.ErrorFunc) (PullEVSEStatusByIDRequest, error) {
	provider, err := xmlcodec.Mandatory(e, "ProviderID", ids.ParseProviderID)
	if err != nil {
		return PullEVSEStatusByIDRequest{}, err
	}
	evseIDs, err := xmlcodec.RepeatedScalar(e, "EvseId", ids.ParseEVSEID, xmlcodec.FailFast, onError)
	if err != nil {
		return PullEVSEStatusByIDRequest{}, err
	}
	r := PullEVSEStatusByIDRequest{ProviderID: provider, EVSEIDs: cloneOrNil(evseIDs)}
	if err := r.Validate(); err != nil {
		return PullEVSEStatusByIDRequest{}, xmlcodec.ErrorAt(e, err)
	}
	return r, nil
}

func (r PullEVSEStatusByIDRequest) Element() *etree.Element {
	e := etree.NewElement(NSEVSEStatus.Tag("eRoamingPullEvseStatusById"))
	xmlcodec.Text(e, NSEVSEStatus.Tag("ProviderID"), r.ProviderID.String())
	xmlcodec.RepeatText(e, NSEVSEStatus.Tag("EvseId"), r.EVSEIDs, xmlcodec.Stringer[ids.EVSEID])
	return e
}

// EVSEStatusByIDResponse answers PullEVSEStatusByIDRequest.
type EVSEStatusByIDResponse struct {
	Records []EVSEStatusRecord
	Status  *StatusCode
}

// EVSEStatusByIDResponseParser reads eRoamingEvseStatusById in the given mode.
func EVSEStatusByIDResponseParser(mode xmlcodec.Mode) xmlcodec.Parser[EVSEStatusByIDResponse] {
	return func(e *etree.Element, onError xmlcodec.ErrorFunc) (EVSEStatusByIDResponse, error) {
		records, err := xmlcodec.Repeated(e, "EvseStatusRecords/EvseStatusRecord", ParseEVSEStatusRecord, mode, onError)
		if err != nil {
			return EVSEStatusByIDResponse{}, err
		}
		status, err := xmlcodec.OptionalObject(e, "StatusCode", ParseStatusCode, onError)
		if err != nil {
			return EVSEStatusByIDResponse{}, err
		}
		return EVSEStatusByIDResponse{Records: cloneOrNil(records), Status: status}, nil
	}
}

// ParseEVSEStatusByIDResponseXML decodes eRoamingEvseStatusById, bare or SOAP wrapped.
func ParseEVSEStatusByIDResponseXML(data []byte, mode xmlcodec.Mode, onError xmlcodec.ErrorFunc) (EVSEStatusByIDResponse, error) {
	return xmlcodec.Decode(data, "eRoamingEvseStatusById", EVSEStatusByIDResponseParser(mode), onError)
}

func (r EVSEStatusByIDResponse) Element() *etree.Element {
	e := etree.NewElement(NSEVSEStatus.Tag("eRoamingEvseStatusById"))
	container := e.CreateElement(NSEVSEStatus.Tag("EvseStatusRecords"))
	for _, rec := range r.Records {
		rec.WriteTo(container)
	}
	if r.Status != nil {
		r.Status.WriteTo(e, NSEVSEStatus.Tag("StatusCode"))
	}
	return e
}

func (r EVSEStatusByIDResponse) Marshal() ([]byte, error) {
	return Marshal(r.Element())
}
