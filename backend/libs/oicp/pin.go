package oicp

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/crypto/bcrypt"

	"roamhub/backend/libs/oicp/xmlcodec"
)

// PINFunction names the hash function of a HashedPIN.
type PINFunction string

const (
	PINFunctionMD5    PINFunction = "MD5"
	PINFunctionSHA1   PINFunction = "SHA-1"
	PINFunctionBcrypt PINFunction = "Bcrypt"
)

var parsePINFunction = xmlcodec.Enum("PIN hash function", PINFunctionMD5, PINFunctionSHA1, PINFunctionBcrypt)

// HashedPIN is a QR code PIN transmitted as a salted hash.
// MD5 and SHA-1 values are the hex digest of pin+salt; Bcrypt values are the
// bcrypt hash of pin+salt.
type HashedPIN struct {
	value    string
	function PINFunction
	salt     string
}

// NewHashedPIN wraps an already computed hash. Value and salt are trimmed.
func NewHashedPIN(value string, function PINFunction, salt string) (HashedPIN, error) {
	value, salt = strings.TrimSpace(value), strings.TrimSpace(salt)
	if value == "" {
		return HashedPIN{}, xmlcodec.NewValidationError("hashed PIN", value, "must not be empty")
	}
	if _, err := parsePINFunction(string(function)); err != nil {
		return HashedPIN{}, err
	}
	return HashedPIN{value: value, function: function, salt: salt}, nil
}

// HashPIN computes the hash of pin with function and salt.
func HashPIN(function PINFunction, pin, salt string) (HashedPIN, error) {
	if pin == "" {
		return HashedPIN{}, errors.New("oicp: empty PIN")
	}
	var value string
	switch function {
	case PINFunctionMD5:
		sum := md5.Sum([]byte(pin + salt))
		value = hex.EncodeToString(sum[:])
	case PINFunctionSHA1:
		sum := sha1.Sum([]byte(pin + salt))
		value = hex.EncodeToString(sum[:])
	case PINFunctionBcrypt:
		hash, err := bcrypt.GenerateFromPassword([]byte(pin+salt), bcrypt.DefaultCost)
		if err != nil {
			return HashedPIN{}, err
		}
		value = string(hash)
	default:
		return HashedPIN{}, xmlcodec.NewValidationError("PIN hash function", string(function), "unsupported")
	}
	return HashedPIN{value: value, function: function, salt: salt}, nil
}

func (h HashedPIN) Value() string         { return h.value }
func (h HashedPIN) Function() PINFunction { return h.function }
func (h HashedPIN) Salt() string          { return h.salt }

// Verify reports whether pin matches the hash.
func (h HashedPIN) Verify(pin string) bool {
	switch h.function {
	case PINFunctionBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(h.value), []byte(pin+h.salt)) == nil
	case PINFunctionMD5, PINFunctionSHA1:
		computed, err := HashPIN(h.function, pin, h.salt)
		if err != nil {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(computed.value), []byte(strings.ToLower(h.value))) == 1
	}
	return false
}

// ParseHashedPIN reads a HashedPIN container.
func ParseHashedPIN(e *etree.Element, _ xmlcodec.ErrorFunc) (HashedPIN, error) {
	value, err := xmlcodec.Mandatory(e, "Value", xmlcodec.NonEmpty)
	if err != nil {
		return HashedPIN{}, err
	}
	function, err := xmlcodec.Mandatory(e, "Function", parsePINFunction)
	if err != nil {
		return HashedPIN{}, err
	}
	salt, err := xmlcodec.OptionalOr(e, "Salt", xmlcodec.String, "")
	if err != nil {
		return HashedPIN{}, err
	}
	return HashedPIN{value: value, function: function, salt: salt}, nil
}

// WriteTo appends h as CommonTypes:HashedPIN.
func (h HashedPIN) WriteTo(parent *etree.Element) *etree.Element {
	e := parent.CreateElement(NSCommonTypes.Tag("HashedPIN"))
	xmlcodec.Text(e, NSCommonTypes.Tag("Value"), h.value)
	xmlcodec.Text(e, NSCommonTypes.Tag("Function"), string(h.function))
	xmlcodec.OptionalText(e, NSCommonTypes.Tag("Salt"), h.salt)
	return e
}
