package soap

import (
	"strings"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/xmlcodec"
)

// FaultCode is the version independent class of a fault.
type FaultCode int

const (
	// FaultClient blames the message the sender produced.
	FaultClient FaultCode = iota
	// FaultServer blames the receiver.
	FaultServer
	// FaultVersionMismatch reports an envelope in an unknown namespace.
	FaultVersionMismatch
)

func (c FaultCode) wire(v Version) string {
	switch c {
	case FaultVersionMismatch:
		return prefix + ":VersionMismatch"
	case FaultServer:
		if v == V12 {
			return prefix + ":Receiver"
		}
		return prefix + ":Server"
	default:
		if v == V12 {
			return prefix + ":Sender"
		}
		return prefix + ":Client"
	}
}

// Fault is sent when a request cannot be read as a protocol message at all.
// Protocol level failures travel as status codes inside the payload instead.
type Fault struct {
	Code    FaultCode
	Message string
	Detail  string
}

func (f Fault) Error() string {
	return "soap fault: " + f.Message
}

// Marshal renders f as a complete envelope of version v.
func (f Fault) Marshal(v Version) ([]byte, error) {
	env := etree.NewElement(prefix + ":Envelope")
	body := env.CreateElement(prefix + ":Body")
	fault := body.CreateElement(prefix + ":Fault")

	if v == V12 {
		code := fault.CreateElement(prefix + ":Code")
		xmlcodec.Text(code, prefix+":Value", f.Code.wire(v))
		reason := fault.CreateElement(prefix + ":Reason")
		text := xmlcodec.Text(reason, prefix+":Text", f.Message)
		text.CreateAttr("xml:lang", "en")
		if f.Detail != "" {
			xmlcodec.Text(fault, prefix+":Detail", f.Detail)
		}
	} else {
		xmlcodec.Text(fault, "faultcode", f.Code.wire(v))
		xmlcodec.Text(fault, "faultstring", f.Message)
		xmlcodec.OptionalText(fault, "detail", f.Detail)
	}
	return xmlcodec.Encode(env, xmlcodec.Namespace{Prefix: prefix, URI: v.Namespace()})
}

// ParseFault returns the fault carried by env, if any.
func ParseFault(env *Envelope) (Fault, bool) {
	e := xmlcodec.Child(env.Body, "Fault")
	if e == nil {
		return Fault{}, false
	}
	var code, message, detail string
	if env.Version == V12 {
		code = textOf(xmlcodec.Find(e, "Code/Value"))
		message = textOf(xmlcodec.Find(e, "Reason/Text"))
		detail = textOf(xmlcodec.Child(e, "Detail"))
	} else {
		code = textOf(xmlcodec.Child(e, "faultcode"))
		message = textOf(xmlcodec.Child(e, "faultstring"))
		detail = textOf(xmlcodec.Child(e, "detail"))
	}
	f := Fault{Code: FaultClient, Message: message, Detail: detail}
	switch localName(code) {
	case "Server", "Receiver":
		f.Code = FaultServer
	case "VersionMismatch":
		f.Code = FaultVersionMismatch
	}
	return f, true
}

func textOf(e *etree.Element) string {
	if e == nil {
		return ""
	}
	return e.Text()
}

func localName(s string) string {
	return s[strings.LastIndexByte(s, ':')+1:]
}
