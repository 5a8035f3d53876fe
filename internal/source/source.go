// Package source resolves the CLI input argument into a parsed chat page.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/grokcap/internal/extract"
)

// Stdin is the argument that selects standard input.
const Stdin = "-"

// Fetcher downloads a page over HTTP.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Renderer loads a page in a browser and returns its live DOM.
type Renderer interface {
	Render(ctx context.Context, url string) ([]byte, error)
}

// Loader reads pages from files, stdin, plain HTTP or a browser.
type Loader struct {
	Stdin   io.Reader
	Fetcher Fetcher
	// Renderer is used for URLs when Render is set.
	Renderer Renderer
	Render   bool
}

// IsURL reports whether arg names an http(s) page.
func IsURL(arg string) bool {
	a := strings.ToLower(strings.TrimSpace(arg))
	return strings.HasPrefix(a, "http://") || strings.HasPrefix(a, "https://")
}

// Load reads arg and parses it. An empty page is not an error; it parses
// into a document without containers.
func (l Loader) Load(ctx context.Context, arg string) (*extract.Document, error) {
	raw, err := l.read(ctx, strings.TrimSpace(arg))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		log.Debug().Str("input", arg).Msg("input is empty")
	}
	doc, err := extract.FromHTML(raw)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("input", arg).Int("bytes", len(raw)).Str("title", doc.Title).Msg("loaded page")
	return doc, nil
}

func (l Loader) read(ctx context.Context, arg string) ([]byte, error) {
	switch {
	case arg == "" || arg == Stdin:
		r := l.Stdin
		if r == nil {
			r = os.Stdin
		}
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	case IsURL(arg) && l.Render:
		if l.Renderer == nil {
			return nil, errors.New("render requested but no renderer configured")
		}
		return l.Renderer.Render(ctx, arg)
	case IsURL(arg):
		if l.Fetcher == nil {
			return nil, errors.New("url input but no fetcher configured")
		}
		b, _, err := l.Fetcher.Get(ctx, arg)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", arg, err)
		}
		return b, nil
	default:
		b, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
		return b, nil
	}
}
