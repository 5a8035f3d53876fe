package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperifyio/grokcap/internal/ssml"
)

// NodeKind classifies a node for the block walk.
type NodeKind int

const (
	// KindIgnored covers comments, doctypes and anything else that is not
	// text or an element.
	KindIgnored NodeKind = iota
	KindText
	// KindEmphasis is the one inline element given prosody treatment.
	KindEmphasis
	KindElement
)

func (k NodeKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEmphasis:
		return "emphasis"
	case KindElement:
		return "element"
	default:
		return "ignored"
	}
}

// DefaultEmphasisTag is the inline tag voiced with prosody in markup mode.
const DefaultEmphasisTag = "strong"

// BlockExtractor turns one block element into a string. Implementations
// must be deterministic and free of side effects.
type BlockExtractor interface {
	Extract(block *html.Node, markup bool) string
}

// Extractor is the standard BlockExtractor. The zero value uses
// DefaultEmphasisTag and ssml.DefaultProsody.
type Extractor struct {
	EmphasisTag string
	Prosody     ssml.Prosody
}

// Classify reports the kind of n.
func (e Extractor) Classify(n *html.Node) NodeKind {
	if n == nil {
		return KindIgnored
	}
	switch n.Type {
	case html.TextNode:
		return KindText
	case html.ElementNode:
		if strings.EqualFold(n.Data, e.emphasisTag()) {
			return KindEmphasis
		}
		return KindElement
	default:
		return KindIgnored
	}
}

// Extract concatenates the text of block's children in document order. With
// markup set, text is entity encoded and emphasis elements are wrapped in a
// prosody element; otherwise everything is emitted as plain text.
func (e Extractor) Extract(block *html.Node, markup bool) string {
	if block == nil {
		return ""
	}
	var b strings.Builder
	for c := block.FirstChild; c != nil; c = c.NextSibling {
		e.visit(&b, c, markup)
	}
	return b.String()
}

func (e Extractor) visit(b *strings.Builder, n *html.Node, markup bool) {
	switch e.Classify(n) {
	case KindText:
		b.WriteString(encode(n.Data, markup))
	case KindEmphasis:
		text := encode(TextContent(n), markup)
		if markup {
			b.WriteString(e.Prosody.Wrap(text))
		} else {
			b.WriteString(text)
		}
	case KindElement:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			e.visit(b, c, markup)
		}
	case KindIgnored:
	}
}

func (e Extractor) emphasisTag() string {
	if tag := strings.TrimSpace(e.EmphasisTag); tag != "" {
		return tag
	}
	return DefaultEmphasisTag
}

func encode(s string, markup bool) string {
	if markup {
		return ssml.Escape(s)
	}
	return s
}
