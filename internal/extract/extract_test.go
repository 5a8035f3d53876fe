package extract

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := FromHTML([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func firstBlock(t *testing.T, src string) *html.Node {
	t.Helper()
	doc := mustParse(t, src)
	n := findFirst(doc.Root, atom.P)
	if n == nil {
		t.Fatalf("no <p> in %q", src)
	}
	return n
}

func TestFromHTML_Title(t *testing.T) {
	doc := mustParse(t, `<!doctype html><html><head><title>  My Chat  </title></head><body></body></html>`)
	if doc.Title != "My Chat" {
		t.Fatalf("expected title 'My Chat', got %q", doc.Title)
	}
}

func TestFromHTML_NoTitle(t *testing.T) {
	doc := mustParse(t, `<p>hi</p>`)
	if doc.Title != "" {
		t.Fatalf("expected empty title, got %q", doc.Title)
	}
}

func TestExtract_PlainText(t *testing.T) {
	p := firstBlock(t, `<p>Hello world</p>`)
	var e Extractor
	if got := e.Extract(p, false); got != "Hello world" {
		t.Fatalf("plain: got %q", got)
	}
	if got := e.Extract(p, true); got != "Hello world" {
		t.Fatalf("markup: got %q", got)
	}
}

func TestExtract_EmphasisWrapping(t *testing.T) {
	p := firstBlock(t, `<p>Say <strong>now</strong> please</p>`)
	var e Extractor
	want := `Say <prosody volume="x-loud" rate="80%">now</prosody> please`
	if got := e.Extract(p, true); got != want {
		t.Fatalf("markup: got %q, want %q", got, want)
	}
	if got := e.Extract(p, false); got != "Say now please" {
		t.Fatalf("plain: got %q", got)
	}
}

func TestExtract_EntityEncoding(t *testing.T) {
	p := firstBlock(t, `<p>Cost: 5 &lt; 10 &amp; "ok"</p>`)
	var e Extractor
	want := `Cost: 5 &lt; 10 &amp; &quot;ok&quot;`
	if got := e.Extract(p, true); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := e.Extract(p, false); got != `Cost: 5 < 10 & "ok"` {
		t.Fatalf("plain got %q", got)
	}
}

func TestExtract_RawLessThanInSource(t *testing.T) {
	p := firstBlock(t, `<p>Cost: 5 < 10 & "ok"</p>`)
	var e Extractor
	want := `Cost: 5 &lt; 10 &amp; &quot;ok&quot;`
	if got := e.Extract(p, true); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtract_EmphasisContentIsEncodedAndFlattened(t *testing.T) {
	p := firstBlock(t, `<p><strong>R&amp;D <em>now</em></strong></p>`)
	var e Extractor
	want := `<prosody volume="x-loud" rate="80%">R&amp;D now</prosody>`
	if got := e.Extract(p, true); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtract_NestedInlineFlattens(t *testing.T) {
	p := firstBlock(t, `<p>See <a href="x"><em>this</em> link</a><!-- hidden -->.</p>`)
	var e Extractor
	if got := e.Extract(p, false); got != "See this link." {
		t.Fatalf("got %q", got)
	}
}

func TestExtract_EmptyAndNil(t *testing.T) {
	var e Extractor
	if got := e.Extract(nil, true); got != "" {
		t.Fatalf("nil block: got %q", got)
	}
	p := firstBlock(t, `<p></p>`)
	if got := e.Extract(p, true); got != "" {
		t.Fatalf("empty block: got %q", got)
	}
}

func TestExtract_CustomEmphasisTag(t *testing.T) {
	p := firstBlock(t, `<p>a <b>b</b> <strong>c</strong></p>`)
	e := Extractor{EmphasisTag: "b"}
	got := e.Extract(p, true)
	if !strings.Contains(got, `">b</prosody>`) {
		t.Fatalf("custom tag not wrapped: %q", got)
	}
	if strings.Count(got, "<prosody") != 1 {
		t.Fatalf("strong should not be wrapped with custom tag: %q", got)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	p := firstBlock(t, `<p>x <strong>y</strong> 'z'</p>`)
	var e Extractor
	first := e.Extract(p, true)
	for i := 0; i < 5; i++ {
		if got := e.Extract(p, true); got != first {
			t.Fatalf("run %d differs: %q vs %q", i, got, first)
		}
	}
}

func TestClassify(t *testing.T) {
	doc := mustParse(t, `<p>t<strong>s</strong><i>i</i><!--c--></p>`)
	p := findFirst(doc.Root, atom.P)
	var e Extractor
	var kinds []NodeKind
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		kinds = append(kinds, e.Classify(c))
	}
	want := []NodeKind{KindText, KindEmphasis, KindElement, KindIgnored}
	if len(kinds) != len(want) {
		t.Fatalf("kinds=%v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kind[%d]=%s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestTextContent_SkipsComments(t *testing.T) {
	doc := mustParse(t, `<div id="d">a<!--x--><span>b<b>c</b></span></div>`)
	d := findFirst(doc.Root, atom.Div)
	if got := TextContent(d); got != "abc" {
		t.Fatalf("got %q", got)
	}
}
