package expr

import (
	"regexp"
	"strconv"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
)

// segmentPattern matches one path segment: a bare name or a bracketed index.
var segmentPattern = regexp.MustCompile(`([^\[.\]]+)|\[(\d+)\]`)

// Resolve walks root along a dotted/indexed path such as "timers[0].mmss".
//
// A nullish intermediate stops the walk and is returned as is, so callers can
// tell an explicit null from a missing field. Indexing anything but an array
// yields Undefined.
func Resolve(root jsonval.Value, path string) jsonval.Value {
	if root.IsNullish() || path == "" {
		return jsonval.Undefined
	}
	cur := root
	for _, m := range segmentPattern.FindAllStringSubmatch(path, -1) {
		if m[1] != "" {
			cur = field(cur, m[1])
		} else {
			if !cur.IsArray() {
				return jsonval.Undefined
			}
			idx, err := strconv.Atoi(m[2])
			if err != nil {
				return jsonval.Undefined
			}
			cur = cur.Index(idx)
		}
		if cur.IsNullish() {
			return cur
		}
	}
	return cur
}

// field looks up a named segment. Arrays accept numeric names so that
// "timers.0" behaves like "timers[0]".
func field(cur jsonval.Value, name string) jsonval.Value {
	switch cur.Kind() {
	case jsonval.KindObject:
		return cur.Get(name)
	case jsonval.KindArray:
		idx, err := strconv.Atoi(name)
		if err != nil || idx < 0 {
			return jsonval.Undefined
		}
		return cur.Index(idx)
	}
	return jsonval.Undefined
}
