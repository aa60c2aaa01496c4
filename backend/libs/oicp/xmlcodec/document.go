package xmlcodec

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// ReadDocument parses raw bytes into an etree document.
func ReadDocument(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("xmlcodec: invalid XML: %w", err)
	}
	if doc.Root() == nil {
		return nil, errors.New("xmlcodec: empty document")
	}
	return doc, nil
}

// Decode reads data and parses the first element named root found anywhere in
// it, so bare payloads and SOAP-wrapped payloads are handled alike.
func Decode[T any](data []byte, root string, parse Parser[T], onError ErrorFunc) (T, error) {
	var zero T
	doc, err := ReadDocument(data)
	if err != nil {
		return zero, err
	}
	e := Locate(doc.Root(), root)
	if e == nil {
		return zero, &CodecError{Path: root, Err: ErrMissingElement}
	}
	v, err := parse(e, onError)
	if err != nil {
		return zero, codecError(e.GetPath(), err)
	}
	return v, nil
}

// NewDocument wraps root in a document with an XML declaration and the given
// namespace declarations on the root element.
func NewDocument(root *etree.Element, namespaces ...Namespace) *etree.Document {
	for _, ns := range namespaces {
		ns.Declare(root)
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(root)
	return doc
}

// Encode writes root as an indented document.
func Encode(root *etree.Element, namespaces ...Namespace) ([]byte, error) {
	doc := NewDocument(root, namespaces...)
	doc.Indent(2)
	return doc.WriteToBytes()
}
