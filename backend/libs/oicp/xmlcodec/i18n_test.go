package xmlcodec

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var (
	german = language.MustParseBase("de")
	french = language.MustParseBase("fr")
)

func TestParsePacked(t *testing.T) {
	text := ParsePacked("DEU:Inhalt|||GBR:Content|||FRA:Objet|||", nil)
	require.Equal(t, 3, text.Len())

	v, ok := text.Get(german)
	require.True(t, ok)
	assert.Equal(t, "Inhalt", v)
	v, ok = text.Get(English)
	require.True(t, ok)
	assert.Equal(t, "Content", v)
	v, ok = text.Get(french)
	require.True(t, ok)
	assert.Equal(t, "Objet", v)
}

func TestParsePackedSkipsBadLanguage(t *testing.T) {
	collector := NewCollector(nil)
	text := ParsePacked("DEU:Inhalt|||X1:Kaputt|||no separator|||GBR:Content|||", collector.Func())

	assert.Equal(t, 2, text.Len())
	assert.Equal(t, 2, collector.Len())
	assert.Equal(t, "X1:Kaputt", collector.Reports()[0].Node)
}

func TestPackedRoundTrip(t *testing.T) {
	in := NewI18NText(
		I18NEntry{Language: german, Text: "Inhalt"},
		I18NEntry{Language: English, Text: "Content"},
		I18NEntry{Language: language.MustParseBase("be"), Text: "Змест"},
	)
	packed := in.Packed()
	assert.Equal(t, "DEU:Inhalt|||ENG:Content|||bel:Змест|||", packed)

	out := ParsePacked(packed, nil)
	assert.Equal(t, in, out)
	assert.True(t, in.Equal(out))
}

func TestI18NTextSet(t *testing.T) {
	text := NewI18NText(I18NEntry{Language: german, Text: "a"})
	changed := text.Set(german, "b").Set(English, "c")

	v, _ := text.Get(german)
	assert.Equal(t, "a", v, "Set must not mutate the receiver")
	v, _ = changed.Get(german)
	assert.Equal(t, "b", v)
	assert.Equal(t, 2, changed.Len())
	assert.True(t, changed.Set(german, "").Set(English, "").IsEmpty())
}

func TestIsPacked(t *testing.T) {
	assert.True(t, IsPacked("DEU:Inhalt|||"))
	assert.False(t, IsPacked("Opening hours: 8-18"))
	assert.False(t, IsPacked("plain"))
}

func TestPairedText(t *testing.T) {
	root := mustRoot(t, `<R><Name>Ladestation</Name><EnName>Charging station</EnName></R>`)
	text, err := PairedText(root, "Name", german)
	require.NoError(t, err)
	assert.Equal(t, 2, text.Len())
}

func TestPairedTextRoundTrip(t *testing.T) {
	ns := Namespace{Prefix: "T", URI: "urn:t"}
	tests := []struct {
		name string
		text I18NText
		wire []string
	}{
		{
			name: "primary and english",
			text: NewI18NText(I18NEntry{Language: german, Text: "Ladestation"}, I18NEntry{Language: English, Text: "Charging station"}),
			wire: []string{"<T:Name>Ladestation</T:Name>", "<T:EnName>Charging station</T:EnName>"},
		},
		{
			name: "primary only",
			text: NewI18NText(I18NEntry{Language: german, Text: "Ladestation"}),
			wire: []string{"<T:Name>Ladestation</T:Name>"},
		},
		{
			name: "english only",
			text: NewI18NText(I18NEntry{Language: English, Text: "Car park"}),
			wire: []string{"<T:EnName>Car park</T:EnName>"},
		},
		{
			name: "empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, CheckPaired(tt.text, german))
			doc := etree.NewDocument()
			out := doc.CreateElement("R")
			WritePairedText(out, ns, "Name", tt.text, german)
			require.NotNil(t, out.SelectElement("T:Name"))
			xml, err := doc.WriteToString()
			require.NoError(t, err)
			for _, w := range tt.wire {
				assert.Contains(t, xml, w)
			}
			if _, ok := tt.text.Get(English); !ok {
				assert.NotContains(t, xml, "EnName")
			}

			back, err := PairedText(out, "Name", german)
			require.NoError(t, err)
			assert.True(t, tt.text.Equal(back), "got %s", back)
		})
	}
}

func TestCheckPairedRejectsOtherLanguages(t *testing.T) {
	text := NewI18NText(I18NEntry{Language: french, Text: "Parking"})
	err := CheckPaired(text, german)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "FRA")

	assert.NoError(t, CheckPaired(text, french))
}

func TestI18NTextSetTrims(t *testing.T) {
	text := NewI18NText(I18NEntry{Language: german, Text: "  Mitte \n"})
	v, _ := text.Get(german)
	assert.Equal(t, "Mitte", v)
	assert.True(t, text.Set(german, "   ").IsEmpty())
}
