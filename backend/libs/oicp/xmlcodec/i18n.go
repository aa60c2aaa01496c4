package xmlcodec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/language"
)

const packedSeparator = "|||"

// I18NEntry is one language variant of a text.
type I18NEntry struct {
	Language language.Base
	Text     string
}

// I18NText is an ordered set of per-language texts, at most one per language.
type I18NText struct {
	entries []I18NEntry
}

// NewI18NText builds a text from entries; a later entry for the same language replaces an earlier one.
func NewI18NText(entries ...I18NEntry) I18NText {
	var t I18NText
	for _, e := range entries {
		t = t.Set(e.Language, e.Text)
	}
	return t
}

// Set returns a copy of t with lang set to the trimmed text; empty text
// removes the language.
func (t I18NText) Set(lang language.Base, text string) I18NText {
	text = strings.TrimSpace(text)
	out := make([]I18NEntry, 0, len(t.entries)+1)
	replaced := false
	for _, e := range t.entries {
		if e.Language != lang {
			out = append(out, e)
			continue
		}
		if text != "" && !replaced {
			out = append(out, I18NEntry{Language: lang, Text: text})
		}
		replaced = true
	}
	if !replaced && text != "" {
		out = append(out, I18NEntry{Language: lang, Text: text})
	}
	if len(out) == 0 {
		return I18NText{}
	}
	return I18NText{entries: out}
}

// Get returns the text for lang.
func (t I18NText) Get(lang language.Base) (string, bool) {
	for _, e := range t.entries {
		if e.Language == lang {
			return e.Text, true
		}
	}
	return "", false
}

// Entries returns a copy of the entries in order.
func (t I18NText) Entries() []I18NEntry {
	out := make([]I18NEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of languages.
func (t I18NText) Len() int {
	return len(t.entries)
}

// IsEmpty reports whether no language is set.
func (t I18NText) IsEmpty() bool {
	return len(t.entries) == 0
}

// Equal compares texts as sets of (language, text) pairs.
func (t I18NText) Equal(o I18NText) bool {
	if len(t.entries) != len(o.entries) {
		return false
	}
	for _, e := range t.entries {
		if v, ok := o.Get(e.Language); !ok || v != e.Text {
			return false
		}
	}
	return true
}

// ParseLanguage resolves a wire language tag. Upper-case tags are tried as
// ISO 3166 alpha-3 countries first ("GBR" -> English) and then as ISO 639
// codes; lower-case tags are tried as ISO 639 codes first.
func ParseLanguage(tag string) (language.Base, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return language.Base{}, NewValidationError("language", tag, "empty")
	}
	fromRegion := func() (language.Base, bool) {
		region, err := language.ParseRegion(tag)
		if err != nil {
			return language.Base{}, false
		}
		composed, err := language.Compose(region)
		if err != nil {
			return language.Base{}, false
		}
		base, conf := composed.Base()
		return base, conf != language.No
	}
	fromBase := func() (language.Base, bool) {
		base, err := language.ParseBase(strings.ToLower(tag))
		return base, err == nil
	}
	order := []func() (language.Base, bool){fromBase, fromRegion}
	if tag == strings.ToUpper(tag) {
		order = []func() (language.Base, bool){fromRegion, fromBase}
	}
	for _, try := range order {
		if base, ok := try(); ok {
			return base, nil
		}
	}
	return language.Base{}, NewValidationError("language", tag, "unknown language or country code")
}

// LanguageTag returns the canonical wire tag of lang: the upper-case ISO 639-2
// code when it resolves back to lang, otherwise the lower-case one.
func LanguageTag(lang language.Base) string {
	upper := strings.ToUpper(lang.ISO3())
	if back, err := ParseLanguage(upper); err == nil && back == lang {
		return upper
	}
	return strings.ToLower(lang.ISO3())
}

var errPackedToken = errors.New("expected LANG:text")

// ParsePacked reads the "LANG:text|||LANG:text|||" form. Tokens with an
// unparseable language are skipped and reported to onError.
func ParsePacked(s string, onError ErrorFunc) I18NText {
	var t I18NText
	for _, token := range strings.Split(s, packedSeparator) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		tag, body, ok := strings.Cut(token, ":")
		if !ok {
			onError.Report(token, NewValidationError("multi-language token", token, errPackedToken.Error()))
			continue
		}
		lang, err := ParseLanguage(tag)
		if err != nil {
			onError.Report(token, err)
			continue
		}
		t = t.Set(lang, strings.TrimSpace(body))
	}
	return t
}

// IsPacked reports whether s looks like the packed multi-language form.
func IsPacked(s string) bool {
	if !strings.Contains(s, packedSeparator) {
		return false
	}
	tag, _, ok := strings.Cut(s, ":")
	return ok && !strings.ContainsAny(tag, " \t\n")
}

// Packed renders t in the packed form, every token terminated by "|||".
func (t I18NText) Packed() string {
	var b strings.Builder
	for _, e := range t.entries {
		b.WriteString(LanguageTag(e.Language))
		b.WriteByte(':')
		b.WriteString(e.Text)
		b.WriteString(packedSeparator)
	}
	return b.String()
}

func (t I18NText) String() string {
	return t.Packed()
}

// PairedText reads a primary-language element and its "En"-prefixed English
// sibling (e.g. ChargingStationName / EnChargingStationName). The primary text
// is stored under primary.
func PairedText(parent *etree.Element, tag string, primary language.Base) (I18NText, error) {
	var t I18NText
	local, err := Optional(parent, tag, String)
	if err != nil {
		return t, err
	}
	english, err := Optional(parent, "En"+localName(tag), String)
	if err != nil {
		return t, err
	}
	if local != nil {
		t = t.Set(primary, *local)
	}
	if english != nil {
		t = t.Set(English, *english)
	}
	return t, nil
}

// WritePairedText emits the primary element (always, empty when t has no
// primary text) and the "En" sibling when an English text is present. Other
// languages cannot be carried; use CheckPaired to reject them up front.
func WritePairedText(parent *etree.Element, ns Namespace, tag string, t I18NText, primary language.Base) {
	local, _ := t.Get(primary)
	Text(parent, ns.Tag(tag), local)
	if english, ok := t.Get(English); ok && primary != English {
		Text(parent, ns.Tag("En"+tag), english)
	}
}

// CheckPaired reports a language of t that the paired form of primary cannot hold.
func CheckPaired(t I18NText, primary language.Base) error {
	for _, e := range t.entries {
		if e.Language != primary && e.Language != English {
			return NewValidationError("paired text", e.Text, "language "+LanguageTag(e.Language)+" has no element")
		}
	}
	return nil
}

// English is the language of "En"-prefixed elements.
var English = language.MustParseBase("en")

// LanguageOf parses a language tag that is known to be valid; it panics otherwise.
func LanguageOf(tag string) language.Base {
	b, err := ParseLanguage(tag)
	if err != nil {
		panic(fmt.Sprintf("xmlcodec: %v", err))
	}
	return b
}
