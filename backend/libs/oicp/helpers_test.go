package oicp

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/xmlcodec"
)

// roundTrip writes an entity below a wrapper element, serializes the document
// and parses the first element named root back.
func roundTrip[T any](t *testing.T, write func(parent *etree.Element), root string, parse xmlcodec.Parser[T]) T {
	t.Helper()
	wrapper := etree.NewElement("Wrapper")
	write(wrapper)
	data, err := Marshal(wrapper)
	require.NoError(t, err)
	out, err := xmlcodec.Decode(data, root, parse, nil)
	require.NoError(t, err, string(data))
	return out
}

func parseString[T any](t *testing.T, xml, root string, parse xmlcodec.Parser[T], onError xmlcodec.ErrorFunc) (T, error) {
	t.Helper()
	return xmlcodec.Decode([]byte(xml), root, parse, onError)
}

func mustUID(t *testing.T, s string) ids.UID {
	t.Helper()
	uid, err := ids.ParseUID(s)
	require.NoError(t, err)
	return uid
}

func mustEVCOID(t *testing.T, s string) ids.EVCOID {
	t.Helper()
	id, err := ids.ParseEVCOID(s)
	require.NoError(t, err)
	return id
}

func mustProviderID(t *testing.T, s string) ids.ProviderID {
	t.Helper()
	id, err := ids.ParseProviderID(s)
	require.NoError(t, err)
	return id
}
