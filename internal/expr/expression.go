package expr

import (
	"regexp"
	"strings"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
)

// ternaryPattern matches `cond ? 'a' : 'b'`. The overlay script also accepted
// `??` as the separator, so both are treated the same.
var ternaryPattern = regexp.MustCompile(`^(.+?)\s*(\?\??)\s*(['"].*?['"])\s*:\s*(['"].*?['"])$`)

// Evaluate evaluates a single template expression (the text between "{{" and
// "}}") against data.
//
// Supported forms, in priority order:
//
//	cond ? 'yes' : 'no'   ternary with quoted literal branches
//	!path, a && b         boolean conditions, yielding a Bool
//	home.title            plain path, yielding the resolved value
//
// A plain path that resolves to null or undefined yields the empty string.
func Evaluate(src string, data jsonval.Value) jsonval.Value {
	src = strings.TrimSpace(src)
	if src == "" {
		return jsonval.String("")
	}
	if m := ternaryPattern.FindStringSubmatch(src); m != nil {
		if EvaluateCondition(strings.TrimSpace(m[1]), data) {
			return jsonval.String(stripQuotes(m[3]))
		}
		return jsonval.String(stripQuotes(m[4]))
	}
	if isCondition(src) {
		return jsonval.Bool(EvaluateCondition(src, data))
	}
	v := Resolve(data, src)
	if v.IsNullish() {
		return jsonval.String("")
	}
	return v
}

// EvaluateString evaluates src and renders the result for template output.
func EvaluateString(src string, data jsonval.Value) string {
	return Evaluate(src, data).String()
}

func isCondition(src string) bool {
	return strings.HasPrefix(src, "!") ||
		strings.Contains(src, "&&") ||
		strings.Contains(src, "||")
}

func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
