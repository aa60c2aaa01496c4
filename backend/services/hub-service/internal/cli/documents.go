package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/soap"
	"roamhub/backend/libs/oicp/xmlcodec"
)

// element is implemented by every message the codec writes.
type element interface {
	Element() *etree.Element
}

// decoder reads a document of one root element and returns its canonical form.
type decoder func(data []byte, onError xmlcodec.ErrorFunc) (*etree.Element, error)

func decodeAs[T element](root string, p xmlcodec.Parser[T]) decoder {
	return func(data []byte, onError xmlcodec.ErrorFunc) (*etree.Element, error) {
		v, err := xmlcodec.Decode(data, root, p, onError)
		if err != nil {
			return nil, err
		}
		return v.Element(), nil
	}
}

var decoders = map[string]decoder{
	"eRoamingPushEvseData":       decodeAs("eRoamingPushEvseData", oicp.PushEVSEDataParser(xmlcodec.Tolerant)),
	"eRoamingPushEvseStatus":     decodeAs("eRoamingPushEvseStatus", oicp.PushEVSEStatusParser(xmlcodec.Tolerant)),
	"eRoamingPullEvseData":       decodeAs("eRoamingPullEvseData", oicp.ParsePullEVSEDataRequest),
	"eRoamingPullEvseStatus":     decodeAs("eRoamingPullEvseStatus", oicp.ParsePullEVSEStatusRequest),
	"eRoamingPullEvseStatusById": decodeAs("eRoamingPullEvseStatusById", oicp.ParsePullEVSEStatusByIDRequest),
	"eRoamingEvseData":           decodeAs("eRoamingEvseData", oicp.EVSEDataResponseParser(xmlcodec.Tolerant)),
	"eRoamingEvseStatus":         decodeAs("eRoamingEvseStatus", oicp.EVSEStatusResponseParser(xmlcodec.Tolerant)),
	"eRoamingEvseStatusById":     decodeAs("eRoamingEvseStatusById", oicp.EVSEStatusByIDResponseParser(xmlcodec.Tolerant)),
	"eRoamingAuthorizeStart":     decodeAs("eRoamingAuthorizeStart", oicp.ParseAuthorizeStartRequest),
	"eRoamingAuthorizationStart": decodeAs("eRoamingAuthorizationStart", oicp.ParseAuthorizationStartResponse),
	"eRoamingChargeDetailRecord": decodeAs("eRoamingChargeDetailRecord", oicp.ParseChargeDetailRecord),
	"eRoamingAcknowledgement":    decodeAs("eRoamingAcknowledgement", oicp.ParseAcknowledgement),
}

// Supported lists the message roots the tool understands.
func Supported() []string {
	out := make([]string, 0, len(decoders))
	for root := range decoders {
		out = append(out, root)
	}
	sort.Strings(out)
	return out
}

// messageRoot returns the local name of the OICP message in data, looking
// inside a SOAP envelope when there is one.
func messageRoot(data []byte) (string, error) {
	doc, err := xmlcodec.ReadDocument(data)
	if err != nil {
		return "", err
	}
	if doc.Root().Tag != "Envelope" {
		return doc.Root().Tag, nil
	}
	env, err := soap.Parse(data)
	if err != nil {
		return "", err
	}
	return env.Operation(), nil
}

// Problem is one malformed part of a document that decoding skipped.
type Problem struct {
	Node string
	Err  error
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %v", p.Node, p.Err)
}

// Decode reads any supported message and returns the message root, its
// canonical element and the problems tolerated on the way.
func Decode(data []byte) (string, *etree.Element, []Problem, error) {
	root, err := messageRoot(data)
	if err != nil {
		return "", nil, nil, err
	}
	decode, ok := decoders[root]
	if !ok {
		return root, nil, nil, fmt.Errorf("unsupported message %q", root)
	}
	var problems []Problem
	e, err := decode(data, func(_ time.Time, node string, err error) {
		problems = append(problems, Problem{Node: node, Err: err})
	})
	if err != nil {
		return root, nil, problems, err
	}
	return root, e, problems, nil
}
