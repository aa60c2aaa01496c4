// Package soap wraps protocol payloads in SOAP 1.1 and 1.2 envelopes and
// unwraps inbound envelopes back to their payload element.
package soap

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/xmlcodec"
)

// Version is the SOAP protocol version of an envelope.
type Version string

const (
	V11 Version = "1.1"
	V12 Version = "1.2"
)

const (
	Namespace11 = "http://schemas.xmlsoap.org/soap/envelope/"
	Namespace12 = "http://www.w3.org/2003/05/soap-envelope"

	ContentType11 = "text/xml; charset=utf-8"
	ContentType12 = "application/soap+xml; charset=utf-8"

	prefix = "soapenv"
)

var (
	ErrNotEnvelope     = errors.New("soap: root element is not an Envelope")
	ErrEmptyBody       = errors.New("soap: envelope has no body payload")
	ErrVersionMismatch = errors.New("soap: unsupported envelope namespace")
)

// Namespace returns the envelope namespace URI of v.
func (v Version) Namespace() string {
	if v == V12 {
		return Namespace12
	}
	return Namespace11
}

// ContentType returns the media type replies of version v are sent with.
func (v Version) ContentType() string {
	if v == V12 {
		return ContentType12
	}
	return ContentType11
}

// Envelope is a parsed inbound SOAP message.
type Envelope struct {
	Version Version
	Header  *etree.Element
	Body    *etree.Element
}

// Parse reads a SOAP envelope. An envelope without namespace is read as SOAP 1.1.
func Parse(data []byte) (*Envelope, error) {
	doc, err := xmlcodec.ReadDocument(data)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root.Tag != "Envelope" {
		return nil, fmt.Errorf("%w: got %s", ErrNotEnvelope, root.Tag)
	}

	env := &Envelope{
		Header: xmlcodec.Child(root, "Header"),
		Body:   xmlcodec.Child(root, "Body"),
	}
	switch uri := root.NamespaceURI(); uri {
	case Namespace12:
		env.Version = V12
	case Namespace11, "":
		env.Version = V11
	default:
		return nil, fmt.Errorf("%w: %s", ErrVersionMismatch, uri)
	}
	if env.Payload() == nil {
		return nil, ErrEmptyBody
	}
	return env, nil
}

// Payload returns the first element inside the Body.
func (e *Envelope) Payload() *etree.Element {
	if e.Body == nil {
		return nil
	}
	children := e.Body.ChildElements()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// Operation is the local name of the payload element, e.g. eRoamingPushEvseStatus.
func (e *Envelope) Operation() string {
	if p := e.Payload(); p != nil {
		return p.Tag
	}
	return ""
}

// Wrap places payload inside the Body of a new envelope of version v and
// returns the indented document. The payload namespaces are declared on the
// Envelope element.
func Wrap(v Version, payload *etree.Element, namespaces ...xmlcodec.Namespace) ([]byte, error) {
	env := etree.NewElement(prefix + ":Envelope")
	env.CreateElement(prefix + ":Header")
	body := env.CreateElement(prefix + ":Body")
	body.AddChild(payload)

	decls := append([]xmlcodec.Namespace{{Prefix: prefix, URI: v.Namespace()}}, namespaces...)
	return xmlcodec.Encode(env, decls...)
}

// Action returns the SOAP action of r: the SOAPAction header for 1.1 and the
// action parameter of the Content-Type for 1.2, unquoted.
func Action(r *http.Request, v Version) string {
	if v == V12 {
		if _, params, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
			if action := params["action"]; action != "" {
				return action
			}
		}
	}
	return strings.Trim(r.Header.Get("SOAPAction"), `"`)
}
