package oicp

import (
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/language"

	"roamhub/backend/libs/oicp/xmlcodec"
)

// Address is the postal location of a charging station. Country is an
// ISO 3166 alpha-3 code.
type Address struct {
	Country    string
	City       string
	Street     string
	PostalCode string
	HouseNum   string
	Floor      string
	Region     string
	TimeZone   string
}

// ParseCountry accepts an ISO 3166 alpha-2 or alpha-3 code and returns the alpha-3 form.
func ParseCountry(text string) (string, error) {
	region, err := language.ParseRegion(strings.TrimSpace(text))
	if err != nil || !region.IsCountry() {
		return "", xmlcodec.NewValidationError("country", text, "not an ISO 3166 country code")
	}
	return region.ISO3(), nil
}

// Validate checks the mandatory parts.
func (a Address) Validate() error {
	if _, err := ParseCountry(a.Country); err != nil {
		return err
	}
	if strings.TrimSpace(a.City) == "" {
		return xmlcodec.NewValidationError("city", a.City, "must not be empty")
	}
	if strings.TrimSpace(a.Street) == "" {
		return xmlcodec.NewValidationError("street", a.Street, "must not be empty")
	}
	return nil
}

// ParseAddress reads an Address container.
func ParseAddress(e *etree.Element, _ xmlcodec.ErrorFunc) (Address, error) {
	var a Address
	var err error
	if a.Country, err = xmlcodec.Mandatory(e, "Country", ParseCountry); err != nil {
		return Address{}, err
	}
	if a.City, err = xmlcodec.Mandatory(e, "City", xmlcodec.NonEmpty); err != nil {
		return Address{}, err
	}
	if a.Street, err = xmlcodec.Mandatory(e, "Street", xmlcodec.NonEmpty); err != nil {
		return Address{}, err
	}
	optional := []struct {
		tag    string
		target *string
	}{
		{"PostalCode", &a.PostalCode},
		{"HouseNum", &a.HouseNum},
		{"Floor", &a.Floor},
		{"Region", &a.Region},
		{"TimeZone", &a.TimeZone},
	}
	for _, o := range optional {
		if *o.target, err = xmlcodec.OptionalOr(e, o.tag, xmlcodec.String, ""); err != nil {
			return Address{}, err
		}
	}
	return a, nil
}

// WriteTo appends a as the container tag; the parts are CommonTypes elements.
func (a Address) WriteTo(parent *etree.Element, tag string) *etree.Element {
	e := parent.CreateElement(tag)
	xmlcodec.Text(e, NSCommonTypes.Tag("Country"), a.Country)
	xmlcodec.Text(e, NSCommonTypes.Tag("City"), a.City)
	xmlcodec.Text(e, NSCommonTypes.Tag("Street"), a.Street)
	xmlcodec.OptionalText(e, NSCommonTypes.Tag("PostalCode"), a.PostalCode)
	xmlcodec.OptionalText(e, NSCommonTypes.Tag("HouseNum"), a.HouseNum)
	xmlcodec.OptionalText(e, NSCommonTypes.Tag("Floor"), a.Floor)
	xmlcodec.OptionalText(e, NSCommonTypes.Tag("Region"), a.Region)
	xmlcodec.OptionalText(e, NSCommonTypes.Tag("TimeZone"), a.TimeZone)
	return e
}
