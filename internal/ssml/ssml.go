// Package ssml holds the small set of speech markup fragments grokcap emits
// and the entity encoder applied to text before it is placed inside them.
package ssml

import (
	"fmt"
	"strings"
)

const (
	// RootOpen and RootClose wrap a whole markup document.
	RootOpen  = "<speak>\n"
	RootClose = "</speak>"

	// ShortPause follows every block.
	ShortPause = "<break/>"
	// LongPause separates conversational turns.
	LongPause = `<break strength="x-strong"/>`
)

// entities maps each reserved character to its named entity. The replacer
// makes a single pass so an ampersand it produces is never encoded again.
var entities = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape replaces & < > " ' with their named entities. The input is raw DOM
// text; calling Escape twice on the same text double-encodes it.
func Escape(s string) string {
	if s == "" {
		return ""
	}
	return entities.Replace(s)
}

// Prosody carries the attribute values used to voice emphasised text.
type Prosody struct {
	Volume string
	Rate   string
}

// DefaultProsody is the loud, slowed-down voice used for <strong> text.
func DefaultProsody() Prosody {
	return Prosody{Volume: "x-loud", Rate: "80%"}
}

// Wrap surrounds already escaped text with a prosody element. Empty
// attribute values fall back to DefaultProsody.
func (p Prosody) Wrap(escaped string) string {
	def := DefaultProsody()
	vol := strings.TrimSpace(p.Volume)
	if vol == "" {
		vol = def.Volume
	}
	rate := strings.TrimSpace(p.Rate)
	if rate == "" {
		rate = def.Rate
	}
	return fmt.Sprintf(`<prosody volume="%s" rate="%s">%s</prosody>`, Escape(vol), Escape(rate), escaped)
}
