package dom

import (
	"strings"
	"testing"
)

const page = `<!DOCTYPE html><html><head><style>.x{}</style><script>var a = "{{nope}}";</script></head>
<body><div id="scoreboard" class="board is-hidden"><span data-role="home">Home</span></div></body></html>`

func TestTextNodesSkipScriptAndStyle(t *testing.T) {
	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	for _, n := range doc.TextNodes() {
		if strings.Contains(n.Text(), "nope") || strings.Contains(n.Text(), ".x{}") {
			t.Fatalf("script/style text should be skipped, got %q", n.Text())
		}
	}
	var found bool
	for _, n := range doc.TextNodes() {
		if n.Text() == "Home" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected body text node to be returned")
	}
}

func TestElementAttributes(t *testing.T) {
	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	board, ok := doc.ElementByID("scoreboard")
	if !ok {
		t.Fatal("expected #scoreboard")
	}
	if board.Tag() != "div" {
		t.Fatalf("expected div, got %s", board.Tag())
	}
	board.SetAttr("aria-hidden", "true")
	board.SetAttr("aria-hidden", "false")
	if v, _ := board.Attr("aria-hidden"); v != "false" {
		t.Fatalf("expected attribute overwrite, got %q", v)
	}
	board.RemoveAttr("aria-hidden")
	if _, ok := board.Attr("aria-hidden"); ok {
		t.Fatal("expected attribute removed")
	}
	if _, ok := doc.ElementByID("missing"); ok {
		t.Fatal("expected missing id to be reported")
	}
}

func TestClassHelpers(t *testing.T) {
	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	board, _ := doc.ElementByID("scoreboard")

	RemoveClass(board, "is-hidden")
	if HasClass(board, "is-hidden") || !HasClass(board, "board") {
		t.Fatalf("unexpected classes after remove: %v", board.Attrs())
	}
	AddClass(board, "is-hidden")
	AddClass(board, "is-hidden")
	if v, _ := board.Attr("class"); v != "board is-hidden" {
		t.Fatalf("expected single is-hidden class, got %q", v)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	doc, err := ParseString(`<p>a</p>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	doc.TextNodes()[0].SetText("b & c")
	out, err := doc.HTML()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "<p>b &amp; c</p>") {
		t.Fatalf("expected escaped text in output, got %s", out)
	}
}
