package oicp

import (
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/xmlcodec"
)

// IdentificationKind names the credential variant of an Identification.
type IdentificationKind int

const (
	IdentificationNone IdentificationKind = iota
	IdentificationRFID
	IdentificationQRCode
	IdentificationPlugAndCharge
	IdentificationRemote
)

var identificationTags = map[IdentificationKind]string{
	IdentificationRFID:          "RFIDmifarefamilyIdentification",
	IdentificationQRCode:        "QRCodeIdentification",
	IdentificationPlugAndCharge: "PlugAndChargeIdentification",
	IdentificationRemote:        "RemoteIdentification",
}

func (k IdentificationKind) String() string {
	if tag, ok := identificationTags[k]; ok {
		return tag
	}
	return "none"
}

const maxPINLength = 20

// Identification is the credential a driver presents: exactly one of an RFID
// UID, a QR code contract with PIN or hashed PIN, a Plug&Charge contract or a
// remote contract. Values are comparable with ==.
type Identification struct {
	kind   IdentificationKind
	uid    ids.UID
	evcoID ids.EVCOID
	pin    string
	hashed HashedPIN
}

func RFIDIdentification(uid ids.UID) Identification {
	return Identification{kind: IdentificationRFID, uid: uid}
}

// QRCodeIdentification builds a QR code credential with a plaintext PIN of at
// most 20 characters. Surrounding whitespace is not part of the PIN.
func QRCodeIdentification(evcoID ids.EVCOID, pin string) (Identification, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" || utf8.RuneCountInString(pin) > maxPINLength {
		return Identification{}, xmlcodec.NewValidationError("PIN", pin, "expected 1 to 20 characters")
	}
	return Identification{kind: IdentificationQRCode, evcoID: evcoID, pin: pin}, nil
}

func QRCodeHashedIdentification(evcoID ids.EVCOID, hashed HashedPIN) Identification {
	return Identification{kind: IdentificationQRCode, evcoID: evcoID, hashed: hashed}
}

func PlugAndChargeIdentification(evcoID ids.EVCOID) Identification {
	return Identification{kind: IdentificationPlugAndCharge, evcoID: evcoID}
}

func RemoteIdentification(evcoID ids.EVCOID) Identification {
	return Identification{kind: IdentificationRemote, evcoID: evcoID}
}

func (i Identification) Kind() IdentificationKind { return i.kind }
func (i Identification) IsZero() bool             { return i.kind == IdentificationNone }

// UID returns the card UID of an RFID credential.
func (i Identification) UID() (ids.UID, bool) {
	return i.uid, i.kind == IdentificationRFID
}

// ContractID returns the EVCO id of the contract based variants.
func (i Identification) ContractID() (ids.EVCOID, bool) {
	return i.evcoID, i.kind != IdentificationRFID && i.kind != IdentificationNone
}

// PIN returns the plaintext PIN of a QR code credential.
func (i Identification) PIN() (string, bool) {
	return i.pin, i.kind == IdentificationQRCode && i.pin != ""
}

// HashedPIN returns the hashed PIN of a QR code credential.
func (i Identification) HashedPIN() (HashedPIN, bool) {
	return i.hashed, i.kind == IdentificationQRCode && i.pin == ""
}

func (i Identification) String() string {
	switch i.kind {
	case IdentificationRFID:
		return "RFID " + i.uid.String()
	case IdentificationNone:
		return "none"
	}
	return i.kind.String() + " " + i.evcoID.String()
}

type qrSecret struct {
	pin    string
	hashed HashedPIN
}

// ParseIdentification reads an Identification container. Candidates are
// probed in the order RFID, QR code, Plug&Charge, remote.
func ParseIdentification(e *etree.Element, onError xmlcodec.ErrorFunc) (Identification, error) {
	return xmlcodec.Choice(e, onError,
		xmlcodec.When(identificationTags[IdentificationRFID], parseRFID),
		xmlcodec.When(identificationTags[IdentificationQRCode], parseQRCode),
		xmlcodec.When(identificationTags[IdentificationPlugAndCharge], contractParser(PlugAndChargeIdentification)),
		xmlcodec.When(identificationTags[IdentificationRemote], contractParser(RemoteIdentification)),
	)
}

func parseRFID(e *etree.Element, _ xmlcodec.ErrorFunc) (Identification, error) {
	uid, err := xmlcodec.Mandatory(e, "UID", ids.ParseUID)
	if err != nil {
		return Identification{}, err
	}
	return RFIDIdentification(uid), nil
}

func parseQRCode(e *etree.Element, onError xmlcodec.ErrorFunc) (Identification, error) {
	evcoID, err := xmlcodec.Mandatory(e, "EVCOID", ids.ParseEVCOID)
	if err != nil {
		return Identification{}, err
	}
	secret, err := xmlcodec.Choice(e, onError,
		xmlcodec.When("PIN", func(pin *etree.Element, _ xmlcodec.ErrorFunc) (qrSecret, error) {
			id, err := QRCodeIdentification(evcoID, pin.Text())
			return qrSecret{pin: id.pin}, err
		}),
		xmlcodec.When("HashedPIN", func(h *etree.Element, onError xmlcodec.ErrorFunc) (qrSecret, error) {
			hashed, err := ParseHashedPIN(h, onError)
			return qrSecret{hashed: hashed}, err
		}),
	)
	if err != nil {
		return Identification{}, err
	}
	if secret.pin != "" {
		return Identification{kind: IdentificationQRCode, evcoID: evcoID, pin: secret.pin}, nil
	}
	return QRCodeHashedIdentification(evcoID, secret.hashed), nil
}

func contractParser(build func(ids.EVCOID) Identification) xmlcodec.Parser[Identification] {
	return func(e *etree.Element, _ xmlcodec.ErrorFunc) (Identification, error) {
		evcoID, err := xmlcodec.Mandatory(e, "EVCOID", ids.ParseEVCOID)
		if err != nil {
			return Identification{}, err
		}
		return build(evcoID), nil
	}
}

// WriteTo appends i as the container tag holding exactly one variant.
func (i Identification) WriteTo(parent *etree.Element, tag string) *etree.Element {
	container := parent.CreateElement(tag)
	tagName, ok := identificationTags[i.kind]
	if !ok {
		return container
	}
	variant := container.CreateElement(NSCommonTypes.Tag(tagName))
	switch i.kind {
	case IdentificationRFID:
		xmlcodec.Text(variant, NSCommonTypes.Tag("UID"), i.uid.String())
	case IdentificationQRCode:
		xmlcodec.Text(variant, NSCommonTypes.Tag("EVCOID"), i.evcoID.String())
		if i.pin != "" {
			xmlcodec.Text(variant, NSCommonTypes.Tag("PIN"), i.pin)
		} else {
			i.hashed.WriteTo(variant)
		}
	default:
		xmlcodec.Text(variant, NSCommonTypes.Tag("EVCOID"), i.evcoID.String())
	}
	return container
}
