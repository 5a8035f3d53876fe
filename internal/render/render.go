// Package render loads a chat page in headless Chromium and returns the DOM
// as the browser sees it after scripts have run. Chat front-ends build their
// message list client-side, so the raw HTTP body is often an empty shell.
package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds navigation, waiting and serialisation together.
const DefaultTimeout = 45 * time.Second

// Options configures a Renderer.
type Options struct {
	// ControlURL is the DevTools WebSocket URL of a running browser. Empty
	// launches a local one.
	ControlURL string
	// BrowserBin overrides the browser executable for local launches.
	BrowserBin string
	// Show runs a visible browser window instead of headless mode.
	Show bool
	// WaitSelector is a CSS selector that must match before the DOM is read,
	// typically the message container class.
	WaitSelector string
	Timeout      time.Duration
}

// Renderer fetches rendered DOM snapshots.
type Renderer struct {
	opts Options
}

// New returns a Renderer with defaults applied.
func New(opts Options) *Renderer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Renderer{opts: opts}
}

// ClassSelector turns a class name into a CSS selector.
func ClassSelector(class string) string {
	class = strings.TrimSpace(class)
	if class == "" {
		return ""
	}
	return "." + class
}

// Render navigates to pageURL and returns document.documentElement.outerHTML.
func (r *Renderer) Render(ctx context.Context, pageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	controlURL := r.opts.ControlURL
	launched := false
	if controlURL == "" {
		l := launcher.New().Context(ctx).Headless(!r.opts.Show)
		if r.opts.BrowserBin != "" {
			l = l.Bin(r.opts.BrowserBin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("render: launch browser: %w", err)
		}
		defer l.Kill()
		controlURL = u
		launched = true
		log.Debug().Str("control_url", u).Msg("launched local browser")
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("render: connect: %w", err)
	}
	if launched {
		defer b.Close()
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("render: open %s: %w", pageURL, err)
	}
	defer page.Close()

	if err := page.WaitLoad(); err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("render: wait load")
	}
	if sel := strings.TrimSpace(r.opts.WaitSelector); sel != "" {
		if _, err := page.Element(sel); err != nil {
			return nil, fmt.Errorf("render: wait for %s: %w", sel, err)
		}
	}
	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("render: get DOM: %w", err)
	}
	log.Debug().Str("url", pageURL).Int("bytes", len(html)).Msg("rendered page")
	return []byte(html), nil
}
