package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const page = `<html><head><title>Saved chat</title></head><body><div class="message-bubble"><p>hi</p></div></body></html>`

type stubFetcher struct {
	calls int
	body  string
	err   error
}

func (f *stubFetcher) Get(_ context.Context, _ string) ([]byte, string, error) {
	f.calls++
	return []byte(f.body), "text/html", f.err
}

type stubRenderer struct{ calls int }

func (r *stubRenderer) Render(_ context.Context, _ string) ([]byte, error) {
	r.calls++
	return []byte(page), nil
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.html")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := Loader{}.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Title != "Saved chat" {
		t.Fatalf("title=%q", doc.Title)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := (Loader{}).Load(context.Background(), filepath.Join(t.TempDir(), "nope.html")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad_Stdin(t *testing.T) {
	l := Loader{Stdin: strings.NewReader(page)}
	doc, err := l.Load(context.Background(), "-")
	if err != nil || doc.Title != "Saved chat" {
		t.Fatalf("doc=%+v err=%v", doc, err)
	}
}

func TestLoad_EmptyInputIsEmptyDocument(t *testing.T) {
	for _, in := range []string{"", "  \n"} {
		l := Loader{Stdin: strings.NewReader(in)}
		doc, err := l.Load(context.Background(), "-")
		if err != nil {
			t.Fatalf("input %q: %v", in, err)
		}
		if doc.Root == nil || doc.Title != "" {
			t.Fatalf("input %q: doc=%+v", in, doc)
		}
	}
}

func TestLoad_URLUsesFetcherUnlessRender(t *testing.T) {
	f := &stubFetcher{body: page}
	r := &stubRenderer{}
	if _, err := (Loader{Fetcher: f, Renderer: r}).Load(context.Background(), "https://chat.example/c/1"); err != nil {
		t.Fatalf("fetch load: %v", err)
	}
	if _, err := (Loader{Fetcher: f, Renderer: r, Render: true}).Load(context.Background(), "https://chat.example/c/1"); err != nil {
		t.Fatalf("render load: %v", err)
	}
	if f.calls != 1 || r.calls != 1 {
		t.Fatalf("fetch calls=%d render calls=%d", f.calls, r.calls)
	}
}

func TestLoad_FetchErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	_, err := (Loader{Fetcher: &stubFetcher{err: boom}}).Load(context.Background(), "http://x.example")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestIsURL(t *testing.T) {
	for in, want := range map[string]bool{
		"https://grok.com/chat/1": true,
		"HTTP://a":                true,
		"chat.html":               false,
		"-":                       false,
	} {
		if got := IsURL(in); got != want {
			t.Fatalf("IsURL(%q)=%v", in, got)
		}
	}
}
