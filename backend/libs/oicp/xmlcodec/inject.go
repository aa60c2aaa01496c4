package xmlcodec

import (
	"github.com/beevik/etree"
)

// Namespace binds a prefix to a namespace URI for outbound documents.
type Namespace struct {
	Prefix string
	URI    string
}

// Tag qualifies a local name with the namespace prefix.
func (n Namespace) Tag(local string) string {
	return n.Prefix + ":" + local
}

// Declare adds the xmlns declaration to e unless it is already there.
func (n Namespace) Declare(e *etree.Element) {
	key := "xmlns:" + n.Prefix
	if e.SelectAttr(key) != nil {
		return
	}
	e.CreateAttr(key, n.URI)
}

// Text appends a child that is always emitted, even with empty text.
func Text(parent *etree.Element, tag, value string) *etree.Element {
	e := parent.CreateElement(tag)
	e.SetText(value)
	return e
}

// OptionalText appends a child only when value is not empty.
func OptionalText(parent *etree.Element, tag, value string) *etree.Element {
	if value == "" {
		return nil
	}
	return Text(parent, tag, value)
}

// SetOptional appends a child only when v is set.
func SetOptional[T any](parent *etree.Element, tag string, v *T, format func(T) string) *etree.Element {
	if v == nil {
		return nil
	}
	return Text(parent, tag, format(*v))
}

// Repeat writes every item through write, in order.
func Repeat[T any](parent *etree.Element, items []T, write func(parent *etree.Element, item T)) {
	for _, item := range items {
		write(parent, item)
	}
}

// RepeatText appends one child per item.
func RepeatText[T any](parent *etree.Element, tag string, items []T, format func(T) string) {
	for _, item := range items {
		Text(parent, tag, format(item))
	}
}

// Attr sets an attribute on e.
func Attr(e *etree.Element, key, value string) {
	e.CreateAttr(key, value)
}
