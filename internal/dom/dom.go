// Package dom exposes the small slice of a document tree the overlay renderer
// needs: text slots and element attributes.
package dom

import "strings"

// TextNode is a mutable text slot in the tree.
type TextNode interface {
	Text() string
	SetText(string)
}

// Attr is a name/value attribute pair.
type Attr struct {
	Name  string
	Value string
}

// Element is a mutable element in the tree.
type Element interface {
	Tag() string
	Attrs() []Attr
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)
}

// Tree is a scannable document.
type Tree interface {
	// TextNodes returns every bindable text node in document order.
	TextNodes() []TextNode
	// Elements returns every element in document order.
	Elements() []Element
	// ElementByID returns the first element with the given id.
	ElementByID(id string) (Element, bool)
}

// HasClass reports whether el carries the class name.
func HasClass(el Element, name string) bool {
	raw, _ := el.Attr("class")
	for _, c := range strings.Fields(raw) {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds name to el's class list if missing.
func AddClass(el Element, name string) {
	if HasClass(el, name) {
		return
	}
	raw, _ := el.Attr("class")
	classes := append(strings.Fields(raw), name)
	el.SetAttr("class", strings.Join(classes, " "))
}

// RemoveClass drops name from el's class list.
func RemoveClass(el Element, name string) {
	raw, ok := el.Attr("class")
	if !ok {
		return
	}
	fields := strings.Fields(raw)
	kept := fields[:0]
	for _, c := range fields {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(fields) {
		return
	}
	el.SetAttr("class", strings.Join(kept, " "))
}
