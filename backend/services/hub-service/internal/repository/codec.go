package repository

import (
	"github.com/beevik/etree"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/xmlcodec"
)

// Codec stores records as their canonical XML fragment.
type Codec[R any] struct {
	root  string
	write func(R, *etree.Element) *etree.Element
	parse xmlcodec.Parser[R]
}

var (
	DataCodec = Codec[oicp.EVSEDataRecord]{
		root:  "EvseDataRecord",
		write: oicp.EVSEDataRecord.WriteTo,
		parse: oicp.ParseEVSEDataRecord,
	}
	StatusCodec = Codec[oicp.EVSEStatusRecord]{
		root:  "EvseStatusRecord",
		write: oicp.EVSEStatusRecord.WriteTo,
		parse: oicp.ParseEVSEStatusRecord,
	}
)

func (c Codec[R]) Encode(r R) (string, error) {
	data, err := oicp.Marshal(c.write(r, etree.NewElement("root")))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c Codec[R]) Decode(payload string) (R, error) {
	return xmlcodec.Decode([]byte(payload), c.root, c.parse, nil)
}
