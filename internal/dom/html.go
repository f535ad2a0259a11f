package dom

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a Tree backed by a parsed HTML document.
//
// A Document is not safe for concurrent use; the render loop owns it.
type Document struct {
	root *html.Node
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses an HTML document held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(bytes.NewBufferString(s))
}

// ParseFile parses the HTML document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Render serializes the document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// HTML serializes the document to a string.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TextNodes returns text nodes outside <script> and <style>.
func (d *Document) TextNodes() []TextNode {
	var out []TextNode
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return false
		}
		if n.Type == html.TextNode {
			out = append(out, textNode{n})
		}
		return true
	})
	return out
}

// Elements returns every element node.
func (d *Document) Elements() []Element {
	var out []Element
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			out = append(out, element{n})
		}
		return true
	})
	return out
}

// ElementByID returns the first element whose id attribute equals id.
func (d *Document) ElementByID(id string) (Element, bool) {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode {
			if v, ok := attr(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return element{found}, true
}

// walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

type textNode struct{ n *html.Node }

func (t textNode) Text() string     { return t.n.Data }
func (t textNode) SetText(s string) { t.n.Data = s }

type element struct{ n *html.Node }

func (e element) Tag() string { return e.n.Data }

func (e element) Attrs() []Attr {
	out := make([]Attr, len(e.n.Attr))
	for i, a := range e.n.Attr {
		out[i] = Attr{Name: a.Key, Value: a.Val}
	}
	return out
}

func (e element) Attr(name string) (string, bool) { return attr(e.n, name) }

func (e element) SetAttr(name, value string) {
	for i := range e.n.Attr {
		if e.n.Attr[i].Namespace == "" && e.n.Attr[i].Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

func (e element) RemoveAttr(name string) {
	kept := e.n.Attr[:0]
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		kept = append(kept, a)
	}
	e.n.Attr = kept
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}
