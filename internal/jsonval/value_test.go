package jsonval

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"undefined", Undefined, false},
		{"null", Null, false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero", Number(0), false},
		{"nan", Number(math.NaN()), false},
		{"negative", Number(-1), true},
		{"empty string", String(""), false},
		{"blank string", String("  \t"), false},
		{"zero string", String("0"), true},
		{"text", String("x"), true},
		{"empty array", Array(), true},
		{"empty object", Object(nil), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.Truthy(); got != tc.want {
				t.Fatalf("Truthy() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestToNumber(t *testing.T) {
	if got := String(" 1500 ").ToNumber(); got != 1500 {
		t.Fatalf("expected numeric string to parse, got %v", got)
	}
	if got := String("").ToNumber(); got != 0 {
		t.Fatalf("expected blank string to be 0, got %v", got)
	}
	if got := Bool(true).ToNumber(); got != 1 {
		t.Fatalf("expected true to be 1, got %v", got)
	}
	if got := String("abc").ToNumber(); !math.IsNaN(got) {
		t.Fatalf("expected NaN for non-numeric string, got %v", got)
	}
	if got := Undefined.ToNumber(); !math.IsNaN(got) {
		t.Fatalf("expected NaN for undefined, got %v", got)
	}
}

func TestStringRendering(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Undefined, ""},
		{Null, ""},
		{Bool(true), "true"},
		{Number(3), "3"},
		{Number(2.5), "2.5"},
		{Number(math.Copysign(0, -1)), "0"},
		{String("Home"), "Home"},
		{Array(Number(1), Null, String("x")), "1,,x"},
		{MustFromAny(map[string]any{"b": 1, "a": "x"}), `{"a":"x","b":1}`},
	}
	for _, tc := range cases {
		if got := tc.v.String(); got != tc.want {
			t.Fatalf("String() of %s = %q, want %q", tc.v.Kind(), got, tc.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := MustFromAny(map[string]any{
		"home":   map[string]any{"title": "A"},
		"timers": []any{map[string]any{"remaining_ms": 1000}},
	})
	cp := orig.Clone()
	cp.Get("home").Set("title", String("B"))
	cp.Get("timers").Index(0).Set("live_ms", Number(5))

	if got := orig.Get("home").Get("title").String(); got != "A" {
		t.Fatalf("clone mutation leaked into original title: %q", got)
	}
	if !orig.Get("timers").Index(0).Get("live_ms").IsNullish() {
		t.Fatalf("clone mutation leaked into original timer")
	}
}

func TestDecodePreservesUnknownFields(t *testing.T) {
	v, err := Decode([]byte(`{"home":{"title":"A","score":3},"extra":{"nested":[1,true,null]}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := map[string]any{
		"home":  map[string]any{"title": "A", "score": 3.0},
		"extra": map[string]any{"nested": []any{1.0, true, nil}},
	}
	if diff := cmp.Diff(want, v.Interface()); diff != "" {
		t.Fatalf("decoded value mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	if _, err := Decode([]byte(`{"home":`)); err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	for _, raw := range []string{
		`{"a":1} trailing garbage`,
		`{"a":1} {"b":2}`,
		`[1] 2`,
	} {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Fatalf("expected error for trailing data in %q", raw)
		}
	}
	v, err := Decode([]byte("{\"a\":1}\n  \t"))
	if err != nil {
		t.Fatalf("expected trailing whitespace to be accepted, got %v", err)
	}
	if got := v.Get("a").String(); got != "1" {
		t.Fatalf("expected a=1, got %q", got)
	}
}

func TestMarshalSkipsUndefinedAndSortsKeys(t *testing.T) {
	v := Object(map[string]Value{
		"z":    Number(1),
		"a":    Undefined,
		"m":    Number(math.NaN()),
		"list": Array(),
	})
	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if got, want := string(b), `{"list":[],"m":null,"z":1}`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestSetUndefinedDeletes(t *testing.T) {
	v := Object(map[string]Value{"a": Number(1)})
	v.Set("a", Undefined)
	if v.Len() != 0 {
		t.Fatalf("expected field to be deleted, got %d fields", v.Len())
	}
}

func TestFromAnyYAMLStyleMaps(t *testing.T) {
	v, err := FromAny(map[string]any{"teams": map[any]any{"home": "A", 1: true}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := v.Get("teams").Get("home").String(); got != "A" {
		t.Fatalf("expected nested map conversion, got %q", got)
	}
	if !v.Get("teams").Get("1").Truthy() {
		t.Fatalf("expected non-string keys to be stringified")
	}
	if _, err := FromAny(struct{}{}); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
