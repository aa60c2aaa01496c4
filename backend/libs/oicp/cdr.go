package oicp

import (
	"reflect"
	"time"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/xmlcodec"
)

// ChargeDetailRecord is the billing record of a finished charging session.
type ChargeDetailRecord struct {
	sessionID         ids.SessionID
	partnerSessionID  ids.PartnerSessionID
	partnerProductID  ids.PartnerProductID
	evseID            ids.EVSEID
	identification    Identification
	chargingStart     *time.Time
	chargingEnd       *time.Time
	sessionStart      time.Time
	sessionEnd        time.Time
	meterValueStart   *float64
	meterValueEnd     *float64
	meterValues       []float64
	consumedEnergy    *float64
	meteringSignature string
	hubOperatorID     ids.OperatorID
	hubProviderID     ids.ProviderID
}

// ChargeDetailRecordBuilder collects the fields of a ChargeDetailRecord.
// Meter values are in kWh and rounded to three fractional digits by Build.
type ChargeDetailRecordBuilder struct {
	SessionID            ids.SessionID
	PartnerSessionID     ids.PartnerSessionID
	PartnerProductID     ids.PartnerProductID
	EVSEID               ids.EVSEID
	Identification       Identification
	ChargingStart        *time.Time
	ChargingEnd          *time.Time
	SessionStart         time.Time
	SessionEnd           time.Time
	MeterValueStart      *float64
	MeterValueEnd        *float64
	MeterValuesInBetween []float64
	ConsumedEnergy       *float64
	MeteringSignature    string
	HubOperatorID        ids.OperatorID
	HubProviderID        ids.ProviderID
}

func roundedPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := xmlcodec.RoundDecimal(*v)
	return &r
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Build validates the builder and seals it into a record.
func (b ChargeDetailRecordBuilder) Build() (ChargeDetailRecord, error) {
	switch {
	case b.SessionID.IsZero():
		return ChargeDetailRecord{}, xmlcodec.NewValidationError("charge detail record", "", "session id is required")
	case b.EVSEID.IsZero():
		return ChargeDetailRecord{}, xmlcodec.NewValidationError("charge detail record", b.SessionID.String(), "EVSE id is required")
	case b.Identification.IsZero():
		return ChargeDetailRecord{}, xmlcodec.NewValidationError("charge detail record", b.SessionID.String(), "identification is required")
	case b.SessionStart.IsZero() || b.SessionEnd.IsZero():
		return ChargeDetailRecord{}, xmlcodec.NewValidationError("charge detail record", b.SessionID.String(), "session start and end are required")
	case b.SessionEnd.Before(b.SessionStart):
		return ChargeDetailRecord{}, xmlcodec.NewValidationError("charge detail record", b.SessionID.String(), "session ends before it starts")
	}
	values := make([]float64, 0, len(b.MeterValuesInBetween))
	for _, v := range b.MeterValuesInBetween {
		values = append(values, xmlcodec.RoundDecimal(v))
	}
	return ChargeDetailRecord{
		sessionID:         b.SessionID,
		partnerSessionID:  b.PartnerSessionID,
		partnerProductID:  b.PartnerProductID,
		evseID:            b.EVSEID,
		identification:    b.Identification,
		chargingStart:     utcPtr(b.ChargingStart),
		chargingEnd:       utcPtr(b.ChargingEnd),
		sessionStart:      b.SessionStart.UTC(),
		sessionEnd:        b.SessionEnd.UTC(),
		meterValueStart:   roundedPtr(b.MeterValueStart),
		meterValueEnd:     roundedPtr(b.MeterValueEnd),
		meterValues:       cloneOrNil(values),
		consumedEnergy:    roundedPtr(b.ConsumedEnergy),
		meteringSignature: b.MeteringSignature,
		hubOperatorID:     b.HubOperatorID,
		hubProviderID:     b.HubProviderID,
	}, nil
}

func (c ChargeDetailRecord) SessionID() ids.SessionID               { return c.sessionID }
func (c ChargeDetailRecord) PartnerSessionID() ids.PartnerSessionID { return c.partnerSessionID }
func (c ChargeDetailRecord) PartnerProductID() ids.PartnerProductID { return c.partnerProductID }
func (c ChargeDetailRecord) EVSEID() ids.EVSEID                     { return c.evseID }
func (c ChargeDetailRecord) Identification() Identification         { return c.identification }
func (c ChargeDetailRecord) SessionStart() time.Time                { return c.sessionStart }
func (c ChargeDetailRecord) SessionEnd() time.Time                  { return c.sessionEnd }
func (c ChargeDetailRecord) MeterValuesInBetween() []float64        { return cloneOrNil(c.meterValues) }
func (c ChargeDetailRecord) MeteringSignature() string              { return c.meteringSignature }
func (c ChargeDetailRecord) HubOperatorID() ids.OperatorID          { return c.hubOperatorID }
func (c ChargeDetailRecord) HubProviderID() ids.ProviderID          { return c.hubProviderID }

// ChargingStart returns when energy started flowing, if reported.
func (c ChargeDetailRecord) ChargingStart() (time.Time, bool) { return deref(c.chargingStart) }

// ChargingEnd returns when energy stopped flowing, if reported.
func (c ChargeDetailRecord) ChargingEnd() (time.Time, bool) { return deref(c.chargingEnd) }

// MeterValueStart returns the meter reading at the start in kWh, if reported.
func (c ChargeDetailRecord) MeterValueStart() (float64, bool) { return deref(c.meterValueStart) }

// MeterValueEnd returns the meter reading at the end in kWh, if reported.
func (c ChargeDetailRecord) MeterValueEnd() (float64, bool) { return deref(c.meterValueEnd) }

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ToBuilder returns a builder pre-filled with c. ConsumedEnergy carries only
// the reported value, not the one derived from meter readings.
func (c ChargeDetailRecord) ToBuilder() ChargeDetailRecordBuilder {
	return ChargeDetailRecordBuilder{
		SessionID:            c.sessionID,
		PartnerSessionID:     c.partnerSessionID,
		PartnerProductID:     c.partnerProductID,
		EVSEID:               c.evseID,
		Identification:       c.identification,
		ChargingStart:        clonePtr(c.chargingStart),
		ChargingEnd:          clonePtr(c.chargingEnd),
		SessionStart:         c.sessionStart,
		SessionEnd:           c.sessionEnd,
		MeterValueStart:      clonePtr(c.meterValueStart),
		MeterValueEnd:        clonePtr(c.meterValueEnd),
		MeterValuesInBetween: cloneOrNil(c.meterValues),
		ConsumedEnergy:       clonePtr(c.consumedEnergy),
		MeteringSignature:    c.meteringSignature,
		HubOperatorID:        c.hubOperatorID,
		HubProviderID:        c.hubProviderID,
	}
}

// ConsumedEnergy returns the reported energy, or MeterValueEnd - MeterValueStart
// when only the meter readings are known.
func (c ChargeDetailRecord) ConsumedEnergy() (float64, bool) {
	if c.consumedEnergy != nil {
		return *c.consumedEnergy, true
	}
	if c.meterValueStart != nil && c.meterValueEnd != nil {
		return xmlcodec.RoundDecimal(*c.meterValueEnd - *c.meterValueStart), true
	}
	return 0, false
}

// Duration is the length of the session.
func (c ChargeDetailRecord) Duration() time.Duration {
	return c.sessionEnd.Sub(c.sessionStart)
}

// Equal compares every field.
func (c ChargeDetailRecord) Equal(o ChargeDetailRecord) bool {
	return reflect.DeepEqual(c, o)
}

// ParseChargeDetailRecord reads an eRoamingChargeDetailRecord element.
func ParseChargeDetailRecord(e *etree.Element, onError xmlcodec.ErrorFunc) (ChargeDetailRecord, error) {
	var b ChargeDetailRecordBuilder
	var err error
	if b.SessionID, err = xmlcodec.Mandatory(e, "SessionID", ids.ParseSessionID); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.PartnerSessionID, err = xmlcodec.OptionalOr(e, "PartnerSessionID", ids.ParsePartnerSessionID, ids.PartnerSessionID{}); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.PartnerProductID, err = xmlcodec.OptionalOr(e, "PartnerProductID", ids.ParsePartnerProductID, ids.PartnerProductID{}); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.EVSEID, err = xmlcodec.Mandatory(e, "EvseID", ids.ParseEVSEID); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.Identification, err = xmlcodec.Object(e, "Identification", ParseIdentification, onError); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.ChargingStart, err = xmlcodec.Optional(e, "ChargingStart", xmlcodec.Time); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.ChargingEnd, err = xmlcodec.Optional(e, "ChargingEnd", xmlcodec.Time); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.SessionStart, err = xmlcodec.Mandatory(e, "SessionStart", xmlcodec.Time); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.SessionEnd, err = xmlcodec.Mandatory(e, "SessionEnd", xmlcodec.Time); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.MeterValueStart, err = xmlcodec.Optional(e, "MeterValueStart", xmlcodec.Decimal); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.MeterValueEnd, err = xmlcodec.Optional(e, "MeterValueEnd", xmlcodec.Decimal); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.MeterValuesInBetween, err = xmlcodec.RepeatedScalar(e, "MeterValuesInBetween/MeterValue", xmlcodec.Decimal, xmlcodec.FailFast, onError); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.ConsumedEnergy, err = xmlcodec.Optional(e, "ConsumedEnergy", xmlcodec.Decimal); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.MeteringSignature, err = xmlcodec.OptionalOr(e, "MeteringSignature", xmlcodec.String, ""); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.HubOperatorID, err = xmlcodec.OptionalOr(e, "HubOperatorID", ids.ParseOperatorID, ids.OperatorID{}); err != nil {
		return ChargeDetailRecord{}, err
	}
	if b.HubProviderID, err = xmlcodec.OptionalOr(e, "HubProviderID", ids.ParseProviderID, ids.ProviderID{}); err != nil {
		return ChargeDetailRecord{}, err
	}
	cdr, err := b.Build()
	if err != nil {
		return ChargeDetailRecord{}, xmlcodec.ErrorAt(e, err)
	}
	return cdr, nil
}

// ParseChargeDetailRecordXML decodes eRoamingChargeDetailRecord, bare or SOAP wrapped.
func ParseChargeDetailRecordXML(data []byte, onError xmlcodec.ErrorFunc) (ChargeDetailRecord, error) {
	return xmlcodec.Decode(data, "eRoamingChargeDetailRecord", ParseChargeDetailRecord, onError)
}

// Element builds Authorization:eRoamingChargeDetailRecord.
func (c ChargeDetailRecord) Element() *etree.Element {
	ns := NSAuthorization
	e := etree.NewElement(ns.Tag("eRoamingChargeDetailRecord"))
	xmlcodec.Text(e, ns.Tag("SessionID"), c.sessionID.String())
	xmlcodec.OptionalText(e, ns.Tag("PartnerSessionID"), c.partnerSessionID.String())
	xmlcodec.OptionalText(e, ns.Tag("PartnerProductID"), c.partnerProductID.String())
	xmlcodec.Text(e, ns.Tag("EvseID"), c.evseID.String())
	c.identification.WriteTo(e, ns.Tag("Identification"))
	xmlcodec.SetOptional(e, ns.Tag("ChargingStart"), c.chargingStart, xmlcodec.FormatTime)
	xmlcodec.SetOptional(e, ns.Tag("ChargingEnd"), c.chargingEnd, xmlcodec.FormatTime)
	xmlcodec.Text(e, ns.Tag("SessionStart"), xmlcodec.FormatTime(c.sessionStart))
	xmlcodec.Text(e, ns.Tag("SessionEnd"), xmlcodec.FormatTime(c.sessionEnd))
	xmlcodec.SetOptional(e, ns.Tag("MeterValueStart"), c.meterValueStart, xmlcodec.FormatDecimal)
	xmlcodec.SetOptional(e, ns.Tag("MeterValueEnd"), c.meterValueEnd, xmlcodec.FormatDecimal)
	if len(c.meterValues) > 0 {
		between := e.CreateElement(ns.Tag("MeterValuesInBetween"))
		xmlcodec.RepeatText(between, ns.Tag("MeterValue"), c.meterValues, xmlcodec.FormatDecimal)
	}
	xmlcodec.SetOptional(e, ns.Tag("ConsumedEnergy"), c.consumedEnergy, xmlcodec.FormatDecimal)
	xmlcodec.OptionalText(e, ns.Tag("MeteringSignature"), c.meteringSignature)
	xmlcodec.OptionalText(e, ns.Tag("HubOperatorID"), c.hubOperatorID.String())
	xmlcodec.OptionalText(e, ns.Tag("HubProviderID"), c.hubProviderID.String())
	return e
}

func (c ChargeDetailRecord) Marshal() ([]byte, error) {
	return Marshal(c.Element())
}
