// Package oicp models the directory, status, authorization and charge detail
// messages exchanged between charging station operators and the roaming hub,
// together with their XML codecs.
//
// Every entity is an immutable value. Entities are read with a ParseX function
// taking the element and an optional xmlcodec.ErrorFunc, and written with a
// WriteTo method that appends the entity to a parent element.
package oicp

import (
	"github.com/beevik/etree"
	"golang.org/x/text/language"

	"roamhub/backend/libs/oicp/xmlcodec"
)

// Wire namespaces.
var (
	NSCommonTypes   = xmlcodec.Namespace{Prefix: "CommonTypes", URI: "http://www.hubject.com/b2b/services/commontypes/v2.0"}
	NSEVSEData      = xmlcodec.Namespace{Prefix: "EVSEData", URI: "http://www.hubject.com/b2b/services/evsedata/v2.0"}
	NSEVSEStatus    = xmlcodec.Namespace{Prefix: "EVSEStatus", URI: "http://www.hubject.com/b2b/services/evsestatus/v2.0"}
	NSAuthorization = xmlcodec.Namespace{Prefix: "Authorization", URI: "http://www.hubject.com/b2b/services/authorization/v2.0"}
)

// Namespaces lists every namespace a message may use.
var Namespaces = []xmlcodec.Namespace{NSCommonTypes, NSEVSEData, NSEVSEStatus, NSAuthorization}

// PrimaryLanguage is the language of un-prefixed multi-language elements.
var PrimaryLanguage = language.MustParseBase("de")

// Marshal writes root as a standalone document declaring all namespaces.
func Marshal(root *etree.Element) ([]byte, error) {
	return xmlcodec.Encode(root, Namespaces...)
}

func cloneOrNil[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
