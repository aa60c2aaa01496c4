package oicp

import (
	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/xmlcodec"
)

// OperatorEVSEData groups the directory records of one operator.
type OperatorEVSEData struct {
	operatorID   ids.OperatorID
	operatorName string
	records      []EVSEDataRecord
}

// NewOperatorEVSEData builds the group; records are copied.
func NewOperatorEVSEData(operatorID ids.OperatorID, operatorName string, records ...EVSEDataRecord) OperatorEVSEData {
	return OperatorEVSEData{operatorID: operatorID, operatorName: operatorName, records: cloneOrNil(records)}
}

func (o OperatorEVSEData) OperatorID() ids.OperatorID { return o.operatorID }
func (o OperatorEVSEData) OperatorName() string       { return o.operatorName }
func (o OperatorEVSEData) Len() int                   { return len(o.records) }

// Records returns a copy of the records in document order.
func (o OperatorEVSEData) Records() []EVSEDataRecord {
	return cloneOrNil(o.records)
}

// OperatorEVSEDataParser reads an OperatorEvseData element in the given mode.
func OperatorEVSEDataParser(mode xmlcodec.Mode) xmlcodec.Parser[OperatorEVSEData] {
	return func(e *etree.Element, onError xmlcodec.ErrorFunc) (OperatorEVSEData, error) {
		operatorID, err := xmlcodec.Mandatory(e, "OperatorID", ids.ParseOperatorID)
		if err != nil {
			return OperatorEVSEData{}, err
		}
		name, err := xmlcodec.OptionalOr(e, "OperatorName", xmlcodec.String, "")
		if err != nil {
			return OperatorEVSEData{}, err
		}
		records, err := xmlcodec.Repeated(e, "EvseDataRecord", ParseEVSEDataRecord, mode, onError)
		if err != nil {
			return OperatorEVSEData{}, err
		}
		return NewOperatorEVSEData(operatorID, name, records...), nil
	}
}

// WriteTo appends o as EVSEData:OperatorEvseData.
func (o OperatorEVSEData) WriteTo(parent *etree.Element) *etree.Element {
	e := parent.CreateElement(NSEVSEData.Tag("OperatorEvseData"))
	xmlcodec.Text(e, NSEVSEData.Tag("OperatorID"), o.operatorID.String())
	xmlcodec.OptionalText(e, NSEVSEData.Tag("OperatorName"), o.operatorName)
	for _, r := range o.records {
		r.WriteTo(e)
	}
	return e
}
