package xmlcodec

import (
	"strings"

	"github.com/beevik/etree"
)

// localName strips a namespace prefix ("EVSEData:EvseId" -> "EvseId").
func localName(tag string) string {
	if idx := strings.IndexByte(tag, ':'); idx >= 0 {
		return tag[idx+1:]
	}
	return tag
}

func splitPath(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, localName(p))
		}
	}
	return out
}

// Child returns the first direct child whose local name matches tag, ignoring
// the namespace prefix.
func Child(parent *etree.Element, tag string) *etree.Element {
	if parent == nil {
		return nil
	}
	tag = localName(tag)
	for _, c := range parent.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Children returns all direct children whose local name matches tag, in document order.
func Children(parent *etree.Element, tag string) []*etree.Element {
	if parent == nil {
		return nil
	}
	tag = localName(tag)
	var out []*etree.Element
	for _, c := range parent.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Find walks a "/"-separated path of local names below parent.
func Find(parent *etree.Element, path string) *etree.Element {
	cur := parent
	for _, seg := range splitPath(path) {
		cur = Child(cur, seg)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FindAll resolves every segment but the last with Find and returns all
// children matching the last segment.
func FindAll(parent *etree.Element, path string) []*etree.Element {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil
	}
	container := Find(parent, strings.Join(segs[:len(segs)-1], "/"))
	return Children(container, segs[len(segs)-1])
}

// Locate finds the first element with the given local name anywhere at or
// below root, depth first.
func Locate(root *etree.Element, tag string) *etree.Element {
	if root == nil {
		return nil
	}
	tag = localName(tag)
	if root.Tag == tag {
		return root
	}
	for _, c := range root.ChildElements() {
		if found := Locate(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func text(e *etree.Element) string {
	return strings.TrimSpace(e.Text())
}

func pathOf(parent *etree.Element, path string) string {
	path = strings.Trim(path, "/")
	switch {
	case parent == nil:
		return path
	case path == "":
		return parent.GetPath()
	}
	return parent.GetPath() + "/" + path
}
