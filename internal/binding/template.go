package binding

import (
	"regexp"
	"strings"
)

// PartKind distinguishes literal text from an embedded expression.
type PartKind uint8

const (
	Literal PartKind = iota
	Expr
)

// Part is one segment of a compiled template string.
type Part struct {
	Kind  PartKind
	Value string
}

// markerPattern matches "{{ expr }}". The expression may not contain '}', so
// the first "}}" always closes the nearest marker.
var markerPattern = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)

// ParseTemplate splits s into literal and expression parts. It reports false
// when s carries no markers.
func ParseTemplate(s string) ([]Part, bool) {
	if !strings.Contains(s, "{{") {
		return nil, false
	}
	matches := markerPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return nil, false
	}
	parts := make([]Part, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			parts = append(parts, Part{Kind: Literal, Value: s[last:m[0]]})
		}
		parts = append(parts, Part{Kind: Expr, Value: strings.TrimSpace(s[m[2]:m[3]])})
		last = m[1]
	}
	if last < len(s) {
		parts = append(parts, Part{Kind: Literal, Value: s[last:]})
	}
	return parts, true
}
