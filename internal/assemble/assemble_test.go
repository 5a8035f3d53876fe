package assemble

import (
	"strings"
	"testing"

	"github.com/hyperifyio/grokcap/internal/extract"
)

const page = `<html><head><title>t</title></head><body>
<div class="message-bubble rounded-br-lg"><p>Mine &amp; yours</p></div>
<div class="message-bubble"><p>Say <strong>now</strong> please</p><li>it's</li></div>
</body></html>`

func parse(t *testing.T, src string) *extract.Document {
	t.Helper()
	doc, err := extract.FromHTML([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestAssemble_PlainOtherRole(t *testing.T) {
	doc := parse(t, page)
	res := New().Assemble(doc.Root, Mode{IncludeBothRoles: false, EmitMarkup: false})
	want := "Say now please\n\nit's\n\n\n\n"
	if res.Text != want {
		t.Fatalf("got %q, want %q", res.Text, want)
	}
	if res.Containers != 1 || res.Blocks != 2 {
		t.Fatalf("counts: containers=%d blocks=%d", res.Containers, res.Blocks)
	}
}

func TestAssemble_MarkupBothRoles(t *testing.T) {
	doc := parse(t, page)
	res := New().Assemble(doc.Root, Mode{IncludeBothRoles: true, EmitMarkup: true})
	want := "<speak>\n" +
		"Mine &amp; yours <break/>\n" +
		"\n<break strength=\"x-strong\"/>\n\n" +
		`Say <prosody volume="x-loud" rate="80%">now</prosody> please <break/>` + "\n" +
		"it&apos;s <break/>\n" +
		"\n<break strength=\"x-strong\"/>\n\n" +
		"</speak>"
	if res.Text != want {
		t.Fatalf("got %q\nwant %q", res.Text, want)
	}
}

func TestAssemble_MarkupRootNotNested(t *testing.T) {
	doc := parse(t, page)
	for _, both := range []bool{false, true} {
		res := New().Assemble(doc.Root, Mode{IncludeBothRoles: both, EmitMarkup: true})
		if !strings.HasPrefix(res.Text, "<speak>") || !strings.HasSuffix(res.Text, "</speak>") {
			t.Fatalf("markup not wrapped: %q", res.Text)
		}
		if strings.Count(res.Text, "<speak>") != 1 || strings.Count(res.Text, "</speak>") != 1 {
			t.Fatalf("nested root: %q", res.Text)
		}
	}
}

func TestAssemble_PlainHasNoRoot(t *testing.T) {
	doc := parse(t, `<div class="message-bubble"><p>&lt;speak&gt; is a tag</p></div>`)
	res := New().Assemble(doc.Root, Mode{IncludeBothRoles: true})
	// page text is passed through verbatim in plain mode
	if res.Text != "<speak> is a tag\n\n\n\n" {
		t.Fatalf("got %q", res.Text)
	}
	doc = parse(t, page)
	res = New().Assemble(doc.Root, Mode{IncludeBothRoles: true})
	if strings.Contains(res.Text, "<speak>") || strings.Contains(res.Text, "</speak>") {
		t.Fatalf("plain output contains markup root: %q", res.Text)
	}
}

func TestAssemble_EmptyDocument(t *testing.T) {
	doc := parse(t, `<html><body><p>no bubbles</p></body></html>`)
	a := New()
	if got := a.Assemble(doc.Root, Mode{EmitMarkup: true}).Text; got != "<speak>\n</speak>" {
		t.Fatalf("markup empty: got %q", got)
	}
	if got := a.Assemble(doc.Root, Mode{EmitMarkup: false}).Text; got != "" {
		t.Fatalf("plain empty: got %q", got)
	}
	if got := a.Assemble(nil, Mode{IncludeBothRoles: true}).Text; got != "" {
		t.Fatalf("nil root: got %q", got)
	}
}

func TestAssemble_BothRolesIsSuperset(t *testing.T) {
	doc := parse(t, page)
	a := New()
	for _, markup := range []bool{false, true} {
		narrow := a.Assemble(doc.Root, Mode{IncludeBothRoles: false, EmitMarkup: markup})
		wide := a.Assemble(doc.Root, Mode{IncludeBothRoles: true, EmitMarkup: markup})
		if wide.Blocks < narrow.Blocks || wide.Containers < narrow.Containers {
			t.Fatalf("both roles lost coverage: %+v vs %+v", wide, narrow)
		}
	}
}

func TestAssemble_TurnWithoutBlocksStillSeparated(t *testing.T) {
	doc := parse(t, `<div class="message-bubble"><span>image only</span></div>`)
	res := New().Assemble(doc.Root, Mode{IncludeBothRoles: true})
	if res.Text != "\n\n" || res.Blocks != 0 || res.Containers != 1 {
		t.Fatalf("got %+v", res)
	}
}

func TestDefaultMode(t *testing.T) {
	m := DefaultMode()
	if !m.IncludeBothRoles || m.EmitMarkup {
		t.Fatalf("unexpected default mode %+v", m)
	}
}
