package oicp

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/xmlcodec"
)

// GeoCoordinates is a WGS84 position rounded to six fractional digits.
type GeoCoordinates struct {
	latitude  float64
	longitude float64
}

// NewGeoCoordinates validates the ranges and rounds both axes.
func NewGeoCoordinates(latitude, longitude float64) (GeoCoordinates, error) {
	if latitude < -90 || latitude > 90 {
		return GeoCoordinates{}, xmlcodec.NewValidationError("latitude", xmlcodec.FormatCoordinate(latitude), "out of range")
	}
	if longitude < -180 || longitude > 180 {
		return GeoCoordinates{}, xmlcodec.NewValidationError("longitude", xmlcodec.FormatCoordinate(longitude), "out of range")
	}
	return GeoCoordinates{
		latitude:  xmlcodec.RoundCoordinate(latitude),
		longitude: xmlcodec.RoundCoordinate(longitude),
	}, nil
}

func (g GeoCoordinates) Latitude() float64  { return g.latitude }
func (g GeoCoordinates) Longitude() float64 { return g.longitude }

func (g GeoCoordinates) String() string {
	return xmlcodec.FormatCoordinate(g.latitude) + " " + xmlcodec.FormatCoordinate(g.longitude)
}

// ParseGeoCoordinates reads a GeoCoordinates container holding either the
// Google "lat lon" form or the DecimalDegree form.
func ParseGeoCoordinates(e *etree.Element, onError xmlcodec.ErrorFunc) (GeoCoordinates, error) {
	return xmlcodec.Choice(e, onError,
		xmlcodec.When("Google", parseGoogleCoordinates),
		xmlcodec.When("DecimalDegree", parseDecimalDegree),
	)
}

func parseGoogleCoordinates(e *etree.Element, _ xmlcodec.ErrorFunc) (GeoCoordinates, error) {
	text, err := xmlcodec.Mandatory(e, "Coordinates", xmlcodec.NonEmpty)
	if err != nil {
		return GeoCoordinates{}, err
	}
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return GeoCoordinates{}, xmlcodec.NewValidationError("coordinates", text, "expected \"latitude longitude\"")
	}
	lat, err := xmlcodec.Decimal(fields[0])
	if err != nil {
		return GeoCoordinates{}, err
	}
	lon, err := xmlcodec.Decimal(fields[1])
	if err != nil {
		return GeoCoordinates{}, err
	}
	return NewGeoCoordinates(lat, lon)
}

func parseDecimalDegree(e *etree.Element, _ xmlcodec.ErrorFunc) (GeoCoordinates, error) {
	lon, err := xmlcodec.Mandatory(e, "Longitude", xmlcodec.Decimal)
	if err != nil {
		return GeoCoordinates{}, err
	}
	lat, err := xmlcodec.Mandatory(e, "Latitude", xmlcodec.Decimal)
	if err != nil {
		return GeoCoordinates{}, err
	}
	g, err := NewGeoCoordinates(lat, lon)
	if err != nil {
		return GeoCoordinates{}, fmt.Errorf("decimal degree: %w", err)
	}
	return g, nil
}

// WriteTo appends g as the container tag in the DecimalDegree form.
func (g GeoCoordinates) WriteTo(parent *etree.Element, tag string) *etree.Element {
	e := parent.CreateElement(tag)
	dd := e.CreateElement(NSCommonTypes.Tag("DecimalDegree"))
	xmlcodec.Text(dd, NSCommonTypes.Tag("Longitude"), xmlcodec.FormatCoordinate(g.longitude))
	xmlcodec.Text(dd, NSCommonTypes.Tag("Latitude"), xmlcodec.FormatCoordinate(g.latitude))
	return e
}
