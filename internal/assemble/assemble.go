// Package assemble selects conversational turns from a parsed page and joins
// the per-block text into the final plain or speech markup output.
package assemble

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperifyio/grokcap/internal/extract"
	"github.com/hyperifyio/grokcap/internal/ssml"
)

// Mode is the pair of independent toggles controlling a build. Every
// combination is valid.
type Mode struct {
	// IncludeBothRoles selects the user's own messages as well as the other
	// participant's.
	IncludeBothRoles bool
	// EmitMarkup produces speech markup instead of plain text.
	EmitMarkup bool
}

// DefaultMode is used when nothing has been stored yet.
func DefaultMode() Mode {
	return Mode{IncludeBothRoles: true, EmitMarkup: false}
}

// Separators between blocks and turns.
const (
	plainBlockEnd  = "\n\n"
	plainTurnEnd   = "\n\n"
	markupBlockEnd = " " + ssml.ShortPause + "\n"
	markupTurnEnd  = "\n" + ssml.LongPause + "\n\n"
)

// Result is one complete build.
type Result struct {
	Text       string
	Mode       Mode
	Containers int
	Blocks     int
}

// Assembler combines a Selector with a BlockExtractor.
type Assembler struct {
	Selector  extract.Selector
	Extractor extract.BlockExtractor
}

// New returns an Assembler using the default page layout.
func New() Assembler {
	return Assembler{Selector: extract.DefaultSelector(), Extractor: extract.Extractor{}}
}

// Assemble builds the full output for root under mode. The string is always
// rebuilt from scratch.
func (a Assembler) Assemble(root *html.Node, mode Mode) Result {
	ex := a.Extractor
	if ex == nil {
		ex = extract.Extractor{}
	}
	blockEnd, turnEnd := plainBlockEnd, plainTurnEnd
	if mode.EmitMarkup {
		blockEnd, turnEnd = markupBlockEnd, markupTurnEnd
	}

	res := Result{Mode: mode}
	var b strings.Builder
	if mode.EmitMarkup {
		b.WriteString(ssml.RootOpen)
	}
	for _, c := range a.Selector.Containers(root, mode.IncludeBothRoles) {
		res.Containers++
		for _, blk := range a.Selector.Blocks(c) {
			res.Blocks++
			b.WriteString(ex.Extract(blk, mode.EmitMarkup))
			b.WriteString(blockEnd)
		}
		b.WriteString(turnEnd)
	}
	if mode.EmitMarkup {
		b.WriteString(ssml.RootClose)
	}
	res.Text = b.String()
	return res
}
