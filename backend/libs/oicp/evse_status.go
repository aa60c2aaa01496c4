package oicp

import (
	"strings"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/xmlcodec"
)

// EVSEStatusRecord is the current status of one EVSE.
type EVSEStatusRecord struct {
	evseID ids.EVSEID
	status EVSEStatusType
	delta  *Delta
}

// NewEVSEStatusRecord builds a record without delta annotation.
func NewEVSEStatusRecord(evseID ids.EVSEID, status EVSEStatusType) EVSEStatusRecord {
	return EVSEStatusRecord{evseID: evseID, status: status}
}

func (r EVSEStatusRecord) EVSEID() ids.EVSEID     { return r.evseID }
func (r EVSEStatusRecord) Status() EVSEStatusType { return r.status }
func (r EVSEStatusRecord) Key() ids.EVSEID        { return r.evseID }
func (r EVSEStatusRecord) Delta() (Delta, bool)   { return deltaOf(r.delta) }

// WithDelta returns a copy of r annotated with d; a zero d clears the annotation.
func (r EVSEStatusRecord) WithDelta(d Delta) EVSEStatusRecord {
	r.delta = newDelta(d)
	return r
}

// Equal compares the status payload; the delta annotation is ignored.
func (r EVSEStatusRecord) Equal(o EVSEStatusRecord) bool {
	return r.evseID == o.evseID && r.status == o.status
}

// Compare orders by EVSE id, then status.
func (r EVSEStatusRecord) Compare(o EVSEStatusRecord) int {
	if c := r.evseID.Compare(o.evseID); c != 0 {
		return c
	}
	return strings.Compare(string(r.status), string(o.status))
}

func (r EVSEStatusRecord) String() string {
	return r.evseID.String() + " " + string(r.status)
}

// ParseEVSEStatusRecord reads an EvseStatusRecord element.
func ParseEVSEStatusRecord(e *etree.Element, _ xmlcodec.ErrorFunc) (EVSEStatusRecord, error) {
	evseID, err := xmlcodec.Mandatory(e, "EvseId", ids.ParseEVSEID)
	if err != nil {
		return EVSEStatusRecord{}, err
	}
	status, err := xmlcodec.Mandatory(e, "EvseStatus", parseEVSEStatusType)
	if err != nil {
		return EVSEStatusRecord{}, err
	}
	delta, err := parseDelta(e)
	if err != nil {
		return EVSEStatusRecord{}, err
	}
	return EVSEStatusRecord{evseID: evseID, status: status, delta: delta}, nil
}

// WriteTo appends r as EVSEStatus:EvseStatusRecord.
func (r EVSEStatusRecord) WriteTo(parent *etree.Element) *etree.Element {
	e := parent.CreateElement(NSEVSEStatus.Tag("EvseStatusRecord"))
	writeDelta(e, r.delta)
	xmlcodec.Text(e, NSEVSEStatus.Tag("EvseId"), r.evseID.String())
	xmlcodec.Text(e, NSEVSEStatus.Tag("EvseStatus"), string(r.status))
	return e
}

// Marshal writes r as a standalone fragment document.
func (r EVSEStatusRecord) Marshal() ([]byte, error) {
	root := etree.NewElement("root")
	return Marshal(r.WriteTo(root))
}

// OperatorEVSEStatus groups the status records of one operator.
type OperatorEVSEStatus struct {
	operatorID   ids.OperatorID
	operatorName string
	records      []EVSEStatusRecord
}

// NewOperatorEVSEStatus builds the group; records are copied.
func NewOperatorEVSEStatus(operatorID ids.OperatorID, operatorName string, records ...EVSEStatusRecord) OperatorEVSEStatus {
	return OperatorEVSEStatus{operatorID: operatorID, operatorName: operatorName, records: cloneOrNil(records)}
}

func (o OperatorEVSEStatus) OperatorID() ids.OperatorID { return o.operatorID }
func (o OperatorEVSEStatus) OperatorName() string       { return o.operatorName }
func (o OperatorEVSEStatus) Len() int                   { return len(o.records) }

// Records returns a copy of the records in document order.
func (o OperatorEVSEStatus) Records() []EVSEStatusRecord {
	return cloneOrNil(o.records)
}

// OperatorEVSEStatusParser reads an OperatorEvseStatus element; mode decides
// whether a malformed record aborts the parse or is dropped and reported.
func OperatorEVSEStatusParser(mode xmlcodec.Mode) xmlcodec.Parser[OperatorEVSEStatus] {
	return func(e *etree.Element, onError xmlcodec.ErrorFunc) (OperatorEVSEStatus, error) {
		operatorID, err := xmlcodec.Mandatory(e, "OperatorID", ids.ParseOperatorID)
		if err != nil {
			return OperatorEVSEStatus{}, err
		}
		name, err := xmlcodec.OptionalOr(e, "OperatorName", xmlcodec.String, "")
		if err != nil {
			return OperatorEVSEStatus{}, err
		}
		records, err := xmlcodec.Repeated(e, "EvseStatusRecord", ParseEVSEStatusRecord, mode, onError)
		if err != nil {
			return OperatorEVSEStatus{}, err
		}
		return NewOperatorEVSEStatus(operatorID, name, records...), nil
	}
}

// WriteTo appends o as EVSEStatus:OperatorEvseStatus.
func (o OperatorEVSEStatus) WriteTo(parent *etree.Element) *etree.Element {
	e := parent.CreateElement(NSEVSEStatus.Tag("OperatorEvseStatus"))
	xmlcodec.Text(e, NSEVSEStatus.Tag("OperatorID"), o.operatorID.String())
	xmlcodec.OptionalText(e, NSEVSEStatus.Tag("OperatorName"), o.operatorName)
	for _, r := range o.records {
		r.WriteTo(e)
	}
	return e
}
