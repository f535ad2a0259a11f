package expr

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
)

type tokenKind uint8

const (
	tokPath tokenKind = iota
	tokNot
	tokAnd
	tokOr
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

func (k tokenKind) isOperator() bool {
	return k == tokNot || k == tokAnd || k == tokOr
}

func (k tokenKind) precedence() int {
	switch k {
	case tokNot:
		return 3
	case tokAnd:
		return 2
	case tokOr:
		return 1
	}
	return 0
}

func (k tokenKind) rightAssoc() bool { return k == tokNot }

// tokenize splits a condition into operators, parentheses and path tokens.
// Anything that is not whitespace, a parenthesis, "!", "&&" or "||" is part
// of a path.
func tokenize(src string) []token {
	var toks []token
	var path strings.Builder
	flush := func() {
		if path.Len() > 0 {
			toks = append(toks, token{kind: tokPath, text: path.String()})
			path.Reset()
		}
	}
	for i := 0; i < len(src); {
		c := src[i]
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			flush()
			i += size
		case c == '(':
			flush()
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			flush()
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case c == '!':
			flush()
			toks = append(toks, token{kind: tokNot, text: "!"})
			i++
		case strings.HasPrefix(src[i:], "&&"):
			flush()
			toks = append(toks, token{kind: tokAnd, text: "&&"})
			i += 2
		case strings.HasPrefix(src[i:], "||"):
			flush()
			toks = append(toks, token{kind: tokOr, text: "||"})
			i += 2
		default:
			path.WriteString(src[i : i+size])
			i += size
		}
	}
	flush()
	return toks
}

// toRPN reorders infix tokens into postfix with the shunting-yard algorithm.
// It reports false for mismatched parentheses.
func toRPN(toks []token) ([]token, bool) {
	out := make([]token, 0, len(toks))
	var ops []token
	for _, t := range toks {
		switch {
		case t.kind == tokPath:
			out = append(out, t)
		case t.kind.isOperator():
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if !top.kind.isOperator() {
					break
				}
				if top.kind.precedence() > t.kind.precedence() ||
					(top.kind.precedence() == t.kind.precedence() && !t.kind.rightAssoc()) {
					out = append(out, top)
					ops = ops[:len(ops)-1]
					continue
				}
				break
			}
			ops = append(ops, t)
		case t.kind == tokLParen:
			ops = append(ops, t)
		case t.kind == tokRParen:
			matched := false
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.kind == tokLParen {
					matched = true
					break
				}
				out = append(out, top)
			}
			if !matched {
				return nil, false
			}
		}
	}
	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.kind == tokLParen {
			return nil, false
		}
		out = append(out, top)
	}
	return out, true
}

// EvaluateCondition evaluates a boolean condition such as
// "!swap_sides && (home.logo || away.logo)" against data.
//
// Precedence is ! over && over ||. Both operands of && and || are always
// evaluated. Empty or malformed conditions evaluate to false.
func EvaluateCondition(cond string, data jsonval.Value) bool {
	toks := tokenize(cond)
	if len(toks) == 0 {
		return false
	}
	rpn, ok := toRPN(toks)
	if !ok {
		return false
	}
	stack := make([]bool, 0, len(rpn))
	for _, t := range rpn {
		switch t.kind {
		case tokPath:
			stack = append(stack, Resolve(data, t.text).Truthy())
		case tokNot:
			if len(stack) < 1 {
				return false
			}
			stack[len(stack)-1] = !stack[len(stack)-1]
		case tokAnd, tokOr:
			if len(stack) < 2 {
				return false
			}
			b, a := stack[len(stack)-1], stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			if t.kind == tokAnd {
				stack = append(stack, a && b)
			} else {
				stack = append(stack, a || b)
			}
		}
	}
	if len(stack) != 1 {
		return false
	}
	return stack[0]
}
