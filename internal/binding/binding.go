// Package binding compiles "{{ }}" markers and conditional-visibility
// attributes found in a document tree into reusable bindings, and applies
// them to a view model every frame.
package binding

import (
	"strings"

	"github.com/preston-bernstein/scoreboard-overlay/internal/dom"
	"github.com/preston-bernstein/scoreboard-overlay/internal/expr"
	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
)

// ConditionAttr is the attribute holding a visibility condition.
const ConditionAttr = "data-fs-if"

const (
	hiddenStyle    = "display: none"
	ariaHiddenAttr = "aria-hidden"
)

// TargetKind tells where a value binding writes.
type TargetKind uint8

const (
	TextTarget TargetKind = iota
	AttrTarget
)

// Value binds a template string to a text node or an element attribute.
type Value struct {
	kind  TargetKind
	text  dom.TextNode
	el    dom.Element
	attr  string
	parts []Part
}

// Kind reports the target type.
func (b Value) Kind() TargetKind { return b.kind }

// AttrName is the bound attribute, empty for text bindings.
func (b Value) AttrName() string { return b.attr }

// Parts returns the compiled template parts.
func (b Value) Parts() []Part { return b.parts }

// Render evaluates the template against view.
func (b Value) Render(view jsonval.Value) string {
	return renderParts(b.parts, view)
}

func renderParts(parts []Part, view jsonval.Value) string {
	var sb strings.Builder
	for _, p := range parts {
		if p.Kind == Literal {
			sb.WriteString(p.Value)
			continue
		}
		sb.WriteString(expr.EvaluateString(p.Value, view))
	}
	return sb.String()
}

func (b Value) apply(view jsonval.Value) {
	out := b.Render(view)
	switch b.kind {
	case TextTarget:
		if b.text != nil {
			b.text.SetText(out)
		}
	case AttrTarget:
		if b.el != nil {
			b.el.SetAttr(b.attr, out)
		}
	}
}

// Conditional toggles an element's visibility from a boolean condition. The
// element stays in the tree. The element's own style and aria-hidden values,
// templated or not, are owned by the conditional so they cannot undo a hide.
type Conditional struct {
	el    dom.Element
	cond  string
	style attrSlot
	aria  attrSlot
}

// attrSlot remembers an attribute as the template author wrote it.
type attrSlot struct {
	present bool
	raw     string
	parts   []Part
}

func captureAttr(el dom.Element, name string) attrSlot {
	raw, ok := el.Attr(name)
	slot := attrSlot{present: ok, raw: raw}
	if parts, ok := ParseTemplate(raw); ok {
		slot.parts = parts
	}
	return slot
}

func (a attrSlot) render(view jsonval.Value) string {
	if a.parts != nil {
		return renderParts(a.parts, view)
	}
	return a.raw
}

func (a attrSlot) restore(el dom.Element, name string, view jsonval.Value) {
	if a.present {
		el.SetAttr(name, a.render(view))
		return
	}
	el.RemoveAttr(name)
}

// Condition returns the compiled condition source.
func (c Conditional) Condition() string { return c.cond }

// Visible evaluates the condition against view.
func (c Conditional) Visible(view jsonval.Value) bool {
	return expr.EvaluateCondition(c.cond, view)
}

func (c Conditional) apply(view jsonval.Value) {
	if c.el == nil {
		return
	}
	if c.Visible(view) {
		c.style.restore(c.el, "style", view)
		c.aria.restore(c.el, ariaHiddenAttr, view)
		return
	}
	c.el.SetAttr("style", joinStyle(c.style.render(view), hiddenStyle))
	c.el.SetAttr(ariaHiddenAttr, "true")
}

func joinStyle(base, extra string) string {
	base = strings.TrimRight(strings.TrimSpace(base), ";")
	if base == "" {
		return extra
	}
	return base + "; " + extra
}

// Set holds every binding compiled from one tree.
type Set struct {
	Values       []Value
	Conditionals []Conditional
}

// Len returns the total number of bindings.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values) + len(s.Conditionals)
}

// Compile scans tree once and collects its bindings. Text nodes are visited
// first, then element attributes, both in document order.
func Compile(tree dom.Tree) *Set {
	set := &Set{}
	if tree == nil {
		return set
	}
	for _, n := range tree.TextNodes() {
		if parts, ok := ParseTemplate(n.Text()); ok {
			set.Values = append(set.Values, Value{kind: TextTarget, text: n, parts: parts})
		}
	}
	for _, el := range tree.Elements() {
		cond, conditional := el.Attr(ConditionAttr)
		if conditional {
			set.Conditionals = append(set.Conditionals, Conditional{
				el:    el,
				cond:  strings.TrimSpace(cond),
				style: captureAttr(el, "style"),
				aria:  captureAttr(el, ariaHiddenAttr),
			})
		}
		for _, a := range el.Attrs() {
			if a.Name == ConditionAttr {
				continue
			}
			if conditional && (a.Name == "style" || a.Name == ariaHiddenAttr) {
				continue
			}
			if parts, ok := ParseTemplate(a.Value); ok {
				set.Values = append(set.Values, Value{kind: AttrTarget, el: el, attr: a.Name, parts: parts})
			}
		}
	}
	return set
}

// Apply runs all conditional bindings, then all value bindings, against view.
func (s *Set) Apply(view jsonval.Value) {
	if s == nil {
		return
	}
	for _, c := range s.Conditionals {
		c.apply(view)
	}
	for _, b := range s.Values {
		b.apply(view)
	}
}
