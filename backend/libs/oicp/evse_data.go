package oicp

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/xmlcodec"
)

var errNoPlugs = errors.New("at least one plug is required")

// EVSEDataRecord is the static directory entry of one EVSE.
type EVSEDataRecord struct {
	evseID              ids.EVSEID
	chargingStationID   ids.ChargingStationID
	chargingStationName xmlcodec.I18NText
	address             Address
	geo                 GeoCoordinates
	plugs               []PlugType
	authModes           []AuthenticationMode
	maxCapacity         *float64
	accessibility       Accessibility
	hotline             string
	additionalInfo      xmlcodec.I18NText
	isOpen24Hours       bool
	openingTime         string
	hubOperatorID       ids.OperatorID
	clearinghouseID     string
	isHubjectCompatible bool
	dynamicInfo         DynamicInfoAvailable
	delta               *Delta
}

// EVSEDataRecordBuilder collects the fields of an EVSEDataRecord. Zero values
// mean "absent" for the optional fields.
type EVSEDataRecordBuilder struct {
	EVSEID               ids.EVSEID
	ChargingStationID    ids.ChargingStationID
	ChargingStationName  xmlcodec.I18NText
	Address              Address
	GeoCoordinates       GeoCoordinates
	Plugs                []PlugType
	AuthenticationModes  []AuthenticationMode
	MaxCapacity          *float64
	Accessibility        Accessibility
	HotlinePhoneNum      string
	AdditionalInfo       xmlcodec.I18NText
	IsOpen24Hours        bool
	OpeningTime          string
	HubOperatorID        ids.OperatorID
	ClearinghouseID      string
	IsHubjectCompatible  bool
	DynamicInfoAvailable DynamicInfoAvailable
	Delta                Delta
}

// Build validates the builder and seals it into a record.
func (b EVSEDataRecordBuilder) Build() (EVSEDataRecord, error) {
	if b.EVSEID.IsZero() {
		return EVSEDataRecord{}, xmlcodec.NewValidationError("EVSE data record", "", "EVSE id is required")
	}
	if err := xmlcodec.CheckPaired(b.ChargingStationName, PrimaryLanguage); err != nil {
		return EVSEDataRecord{}, err
	}
	if err := b.Address.Validate(); err != nil {
		return EVSEDataRecord{}, err
	}
	country, _ := ParseCountry(b.Address.Country)
	b.Address.Country = country
	if len(b.Plugs) == 0 {
		return EVSEDataRecord{}, errNoPlugs
	}
	for _, p := range b.Plugs {
		if _, err := parsePlugType(string(p)); err != nil {
			return EVSEDataRecord{}, err
		}
	}
	for _, m := range b.AuthenticationModes {
		if _, err := parseAuthenticationMode(string(m)); err != nil {
			return EVSEDataRecord{}, err
		}
	}
	if _, err := parseAccessibility(string(b.Accessibility)); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.HotlinePhoneNum == "" {
		return EVSEDataRecord{}, xmlcodec.NewValidationError("hotline phone number", "", "must not be empty")
	}
	dynamic := b.DynamicInfoAvailable
	if dynamic == "" {
		dynamic = DynamicInfoAuto
	}
	if _, err := parseDynamicInfo(string(dynamic)); err != nil {
		return EVSEDataRecord{}, err
	}
	var maxCapacity *float64
	if b.MaxCapacity != nil {
		v := xmlcodec.RoundDecimal(*b.MaxCapacity)
		maxCapacity = &v
	}
	return EVSEDataRecord{
		evseID:              b.EVSEID,
		chargingStationID:   b.ChargingStationID,
		chargingStationName: b.ChargingStationName,
		address:             b.Address,
		geo:                 b.GeoCoordinates,
		plugs:               cloneOrNil(b.Plugs),
		authModes:           cloneOrNil(b.AuthenticationModes),
		maxCapacity:         maxCapacity,
		accessibility:       b.Accessibility,
		hotline:             b.HotlinePhoneNum,
		additionalInfo:      b.AdditionalInfo,
		isOpen24Hours:       b.IsOpen24Hours,
		openingTime:         b.OpeningTime,
		hubOperatorID:       b.HubOperatorID,
		clearinghouseID:     b.ClearinghouseID,
		isHubjectCompatible: b.IsHubjectCompatible,
		dynamicInfo:         dynamic,
		delta:               newDelta(b.Delta),
	}, nil
}

// ToBuilder returns a builder pre-filled with r.
func (r EVSEDataRecord) ToBuilder() EVSEDataRecordBuilder {
	b := EVSEDataRecordBuilder{
		EVSEID:               r.evseID,
		ChargingStationID:    r.chargingStationID,
		ChargingStationName:  r.chargingStationName,
		Address:              r.address,
		GeoCoordinates:       r.geo,
		Plugs:                cloneOrNil(r.plugs),
		AuthenticationModes:  cloneOrNil(r.authModes),
		Accessibility:        r.accessibility,
		HotlinePhoneNum:      r.hotline,
		AdditionalInfo:       r.additionalInfo,
		IsOpen24Hours:        r.isOpen24Hours,
		OpeningTime:          r.openingTime,
		HubOperatorID:        r.hubOperatorID,
		ClearinghouseID:      r.clearinghouseID,
		IsHubjectCompatible:  r.isHubjectCompatible,
		DynamicInfoAvailable: r.dynamicInfo,
	}
	if r.maxCapacity != nil {
		v := *r.maxCapacity
		b.MaxCapacity = &v
	}
	if r.delta != nil {
		b.Delta = *r.delta
	}
	return b
}

func (r EVSEDataRecord) EVSEID() ids.EVSEID                         { return r.evseID }
func (r EVSEDataRecord) Key() ids.EVSEID                            { return r.evseID }
func (r EVSEDataRecord) ChargingStationID() ids.ChargingStationID   { return r.chargingStationID }
func (r EVSEDataRecord) ChargingStationName() xmlcodec.I18NText     { return r.chargingStationName }
func (r EVSEDataRecord) Address() Address                           { return r.address }
func (r EVSEDataRecord) GeoCoordinates() GeoCoordinates             { return r.geo }
func (r EVSEDataRecord) Plugs() []PlugType                          { return cloneOrNil(r.plugs) }
func (r EVSEDataRecord) AuthenticationModes() []AuthenticationMode  { return cloneOrNil(r.authModes) }
func (r EVSEDataRecord) Accessibility() Accessibility               { return r.accessibility }
func (r EVSEDataRecord) HotlinePhoneNum() string                    { return r.hotline }
func (r EVSEDataRecord) AdditionalInfo() xmlcodec.I18NText          { return r.additionalInfo }
func (r EVSEDataRecord) IsOpen24Hours() bool                        { return r.isOpen24Hours }
func (r EVSEDataRecord) OpeningTime() string                        { return r.openingTime }
func (r EVSEDataRecord) HubOperatorID() ids.OperatorID              { return r.hubOperatorID }
func (r EVSEDataRecord) ClearinghouseID() string                    { return r.clearinghouseID }
func (r EVSEDataRecord) IsHubjectCompatible() bool                  { return r.isHubjectCompatible }
func (r EVSEDataRecord) DynamicInfoAvailable() DynamicInfoAvailable { return r.dynamicInfo }
func (r EVSEDataRecord) Delta() (Delta, bool)                       { return deltaOf(r.delta) }

// MaxCapacity returns the vehicle capacity in kWh, if known.
func (r EVSEDataRecord) MaxCapacity() (float64, bool) {
	if r.maxCapacity == nil {
		return 0, false
	}
	return *r.maxCapacity, true
}

// WithDelta returns a copy of r annotated with d; a zero d clears the annotation.
func (r EVSEDataRecord) WithDelta(d Delta) EVSEDataRecord {
	r.delta = newDelta(d)
	return r
}

// Equal compares every field except the delta annotation.
func (r EVSEDataRecord) Equal(o EVSEDataRecord) bool {
	if !r.chargingStationName.Equal(o.chargingStationName) || !r.additionalInfo.Equal(o.additionalInfo) {
		return false
	}
	a, b := r, o
	a.delta, b.delta = nil, nil
	a.chargingStationName, b.chargingStationName = xmlcodec.I18NText{}, xmlcodec.I18NText{}
	a.additionalInfo, b.additionalInfo = xmlcodec.I18NText{}, xmlcodec.I18NText{}
	return reflect.DeepEqual(a, b)
}

// Compare orders records by EVSE id.
func (r EVSEDataRecord) Compare(o EVSEDataRecord) int {
	return r.evseID.Compare(o.evseID)
}

// ParseEVSEDataRecord reads an EvseDataRecord element.
func ParseEVSEDataRecord(e *etree.Element, onError xmlcodec.ErrorFunc) (EVSEDataRecord, error) {
	var b EVSEDataRecordBuilder
	var err error
	if b.EVSEID, err = xmlcodec.Mandatory(e, "EvseId", ids.ParseEVSEID); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.ChargingStationID, err = xmlcodec.OptionalOr(e, "ChargingStationId", ids.ParseChargingStationID, ids.ChargingStationID{}); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.ChargingStationName, err = xmlcodec.PairedText(e, "ChargingStationName", PrimaryLanguage); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.Address, err = xmlcodec.Object(e, "Address", ParseAddress, onError); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.GeoCoordinates, err = xmlcodec.Object(e, "GeoCoordinates", ParseGeoCoordinates, onError); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.Plugs, err = xmlcodec.RepeatedScalar(e, "Plugs/Plug", parsePlugType, xmlcodec.FailFast, onError); err != nil {
		return EVSEDataRecord{}, err
	}
	if len(b.Plugs) == 0 {
		return EVSEDataRecord{}, xmlcodec.ErrorAt(e, fmt.Errorf("Plugs/Plug: %w", xmlcodec.ErrMissingElement))
	}
	if b.AuthenticationModes, err = xmlcodec.RepeatedScalar(e, "AuthenticationModes/AuthenticationMode", parseAuthenticationMode, xmlcodec.FailFast, onError); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.MaxCapacity, err = xmlcodec.Optional(e, "MaxCapacity", xmlcodec.Decimal); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.Accessibility, err = xmlcodec.Mandatory(e, "Accessibility", parseAccessibility); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.HotlinePhoneNum, err = xmlcodec.Mandatory(e, "HotlinePhoneNum", xmlcodec.NonEmpty); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.AdditionalInfo, err = parseAdditionalInfo(e, onError); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.IsOpen24Hours, err = xmlcodec.Mandatory(e, "IsOpen24Hours", xmlcodec.Bool); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.OpeningTime, err = xmlcodec.OptionalOr(e, "OpeningTime", xmlcodec.String, ""); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.HubOperatorID, err = xmlcodec.OptionalOr(e, "HubOperatorID", ids.ParseOperatorID, ids.OperatorID{}); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.ClearinghouseID, err = xmlcodec.OptionalOr(e, "ClearinghouseID", xmlcodec.String, ""); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.IsHubjectCompatible, err = xmlcodec.Mandatory(e, "IsHubjectCompatible", xmlcodec.Bool); err != nil {
		return EVSEDataRecord{}, err
	}
	if b.DynamicInfoAvailable, err = xmlcodec.OptionalOr(e, "DynamicInfoAvailable", parseDynamicInfo, DynamicInfoAuto); err != nil {
		return EVSEDataRecord{}, err
	}
	delta, err := parseDelta(e)
	if err != nil {
		return EVSEDataRecord{}, err
	}
	if delta != nil {
		b.Delta = *delta
	}
	return b.Build()
}

// parseAdditionalInfo accepts the packed form or a plain primary-language text
// in AdditionalInfo, plus an optional EnAdditionalInfo.
func parseAdditionalInfo(e *etree.Element, onError xmlcodec.ErrorFunc) (xmlcodec.I18NText, error) {
	var t xmlcodec.I18NText
	info, err := xmlcodec.Optional(e, "AdditionalInfo", xmlcodec.String)
	if err != nil {
		return t, err
	}
	if info != nil {
		if xmlcodec.IsPacked(*info) {
			t = xmlcodec.ParsePacked(*info, onError)
		} else {
			t = t.Set(PrimaryLanguage, *info)
		}
	}
	english, err := xmlcodec.Optional(e, "EnAdditionalInfo", xmlcodec.String)
	if err != nil {
		return t, err
	}
	if english != nil {
		t = t.Set(xmlcodec.English, *english)
	}
	return t, nil
}

// WriteTo appends r as EVSEData:EvseDataRecord.
func (r EVSEDataRecord) WriteTo(parent *etree.Element) *etree.Element {
	e := parent.CreateElement(NSEVSEData.Tag("EvseDataRecord"))
	writeDelta(e, r.delta)
	xmlcodec.Text(e, NSEVSEData.Tag("EvseId"), r.evseID.String())
	xmlcodec.OptionalText(e, NSEVSEData.Tag("ChargingStationId"), r.chargingStationID.String())
	xmlcodec.WritePairedText(e, NSEVSEData, "ChargingStationName", r.chargingStationName, PrimaryLanguage)
	r.address.WriteTo(e, NSEVSEData.Tag("Address"))
	r.geo.WriteTo(e, NSEVSEData.Tag("GeoCoordinates"))
	plugs := e.CreateElement(NSEVSEData.Tag("Plugs"))
	xmlcodec.RepeatText(plugs, NSEVSEData.Tag("Plug"), r.plugs, func(p PlugType) string { return string(p) })
	if len(r.authModes) > 0 {
		modes := e.CreateElement(NSEVSEData.Tag("AuthenticationModes"))
		xmlcodec.RepeatText(modes, NSEVSEData.Tag("AuthenticationMode"), r.authModes, func(m AuthenticationMode) string { return string(m) })
	}
	xmlcodec.SetOptional(e, NSEVSEData.Tag("MaxCapacity"), r.maxCapacity, xmlcodec.FormatDecimal)
	xmlcodec.Text(e, NSEVSEData.Tag("Accessibility"), string(r.accessibility))
	xmlcodec.Text(e, NSEVSEData.Tag("HotlinePhoneNum"), r.hotline)
	if !r.additionalInfo.IsEmpty() {
		xmlcodec.Text(e, NSEVSEData.Tag("AdditionalInfo"), r.additionalInfo.Packed())
	}
	xmlcodec.Text(e, NSEVSEData.Tag("IsOpen24Hours"), xmlcodec.FormatBool(r.isOpen24Hours))
	xmlcodec.OptionalText(e, NSEVSEData.Tag("OpeningTime"), r.openingTime)
	xmlcodec.OptionalText(e, NSEVSEData.Tag("HubOperatorID"), r.hubOperatorID.String())
	xmlcodec.OptionalText(e, NSEVSEData.Tag("ClearinghouseID"), r.clearinghouseID)
	xmlcodec.Text(e, NSEVSEData.Tag("IsHubjectCompatible"), xmlcodec.FormatBool(r.isHubjectCompatible))
	xmlcodec.Text(e, NSEVSEData.Tag("DynamicInfoAvailable"), string(r.dynamicInfo))
	return e
}
