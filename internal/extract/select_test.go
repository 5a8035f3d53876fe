package extract

import (
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const chatPage = `<!doctype html><html><head><title>Chat</title></head><body>
<div class="message-bubble rounded-br-lg"><p>Question one</p></div>
<div class="message-bubble"><h1>Answer</h1><p>First</p><ul><li>item</li></ul></div>
<div class="message-bubble rounded-br-lg"><p>Question two</p></div>
<div class="message-bubble x"><p>Second</p></div>
<div class="other"><p>Sidebar</p></div>
</body></html>`

func texts(nodes []*html.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, TextContent(n))
	}
	return out
}

func TestContainers_ByRole(t *testing.T) {
	doc := mustParse(t, chatPage)
	s := DefaultSelector()

	all := s.Containers(doc.Root, true)
	if len(all) != 4 {
		t.Fatalf("both roles: got %d containers, want 4", len(all))
	}
	other := s.Containers(doc.Root, false)
	if len(other) != 2 {
		t.Fatalf("other role: got %d containers, want 2", len(other))
	}
	for _, c := range other {
		if s.IsOwn(c) {
			t.Fatalf("own message selected without both roles: %q", TextContent(c))
		}
	}
	// other-role selection is a subset of both-role selection
	seen := map[*html.Node]bool{}
	for _, c := range all {
		seen[c] = true
	}
	for _, c := range other {
		if !seen[c] {
			t.Fatalf("container missing from both-role selection")
		}
	}
}

func TestBlocks_DocumentOrder(t *testing.T) {
	doc := mustParse(t, chatPage)
	s := DefaultSelector()
	other := s.Containers(doc.Root, false)
	got := texts(s.Blocks(other[0]))
	want := []string{"Answer", "First", "item"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("block %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBlocks_NestedMatchesIncluded(t *testing.T) {
	doc := mustParse(t, `<div class="message-bubble"><ul><li><p>inner</p></li></ul></div>`)
	s := DefaultSelector()
	c := s.Containers(doc.Root, true)
	blocks := s.Blocks(c[0])
	if len(blocks) != 2 || blocks[0].Data != "li" || blocks[1].Data != "p" {
		t.Fatalf("unexpected blocks: %v", texts(blocks))
	}
}

func TestBlocks_H6NotInDefaultSet(t *testing.T) {
	doc := mustParse(t, `<div class="message-bubble"><h6>small</h6><h5>five</h5></div>`)
	s := DefaultSelector()
	blocks := s.Blocks(s.Containers(doc.Root, true)[0])
	if got := texts(blocks); len(got) != 1 || got[0] != "five" {
		t.Fatalf("got %v", got)
	}
}

func TestBlocks_CustomTags(t *testing.T) {
	doc := mustParse(t, `<div class="message-bubble"><p>p</p><blockquote>q</blockquote></div>`)
	s := Selector{ContainerClass: "message-bubble", BlockTags: []string{"blockquote"}}
	blocks := s.Blocks(s.Containers(doc.Root, true)[0])
	if got := texts(blocks); len(got) != 1 || got[0] != "q" {
		t.Fatalf("got %v", got)
	}
}

func TestHasClass_ExactToken(t *testing.T) {
	doc := mustParse(t, `<div class="message-bubble-wide">x</div>`)
	d := findFirst(doc.Root, atom.Div)
	if HasClass(d, "message-bubble") {
		t.Fatalf("class prefix must not match")
	}
	if !HasClass(d, "message-bubble-wide") {
		t.Fatalf("exact class should match")
	}
}

func TestContainers_EmptyClassSelectsNothing(t *testing.T) {
	doc := mustParse(t, chatPage)
	if got := (Selector{}).Containers(doc.Root, true); len(got) != 0 {
		t.Fatalf("got %d containers", len(got))
	}
}
