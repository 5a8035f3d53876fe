package session

import "testing"

func TestSlugifyTitle(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "extracted-text"},
		{"   ", "extracted-text"},
		{"!!!", "extracted-text"},
		{"Grok - Chat about Go", "grok---chat"},
		{"How to bake bread quickly", "how-to-bake"},
		{"Café Déjà Vu notes", "cafe-deja-vu"},
		{"snake_case title", "snake_case-title"},
		{"Q&A: part 2", "qa-part-2"},
	}
	for _, c := range cases {
		if got := SlugifyTitle(c.in); got != c.want {
			t.Fatalf("SlugifyTitle(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestDefaultFilename(t *testing.T) {
	if got := DefaultFilename("Hello World"); got != "hello-world.txt" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeFilename(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"   ", ""},
		{"notes", "notes.txt"},
		{" notes ", "notes.txt"},
		{"notes.ssml", "notes.ssml"},
		{"archive.tar.gz", "archive.tar.gz"},
	}
	for _, c := range cases {
		if got := NormalizeFilename(c.in); got != c.want {
			t.Fatalf("NormalizeFilename(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}
