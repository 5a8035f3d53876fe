package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Default page structure of the chat UI grokcap was written for.
const (
	DefaultContainerClass = "message-bubble"
	DefaultOwnMarkerClass = "rounded-br-lg"
)

// DefaultBlockTags lists the paragraph-level tags read inside a container.
var DefaultBlockTags = []string{"p", "h1", "h2", "h3", "h4", "h5", "li"}

// Selector finds conversational turns and the blocks inside them. Matching
// follows querySelectorAll: descendants only, document order, nested
// matches included.
type Selector struct {
	// ContainerClass marks one conversational turn.
	ContainerClass string
	// OwnMarkerClass is present on containers holding the user's own
	// messages and absent on the other participant's.
	OwnMarkerClass string
	BlockTags      []string
}

// DefaultSelector returns the selector for the stock page layout.
func DefaultSelector() Selector {
	return Selector{
		ContainerClass: DefaultContainerClass,
		OwnMarkerClass: DefaultOwnMarkerClass,
		BlockTags:      append([]string(nil), DefaultBlockTags...),
	}
}

// Containers returns the turns under root. Without includeBothRoles only
// containers lacking the own-message marker are returned.
func (s Selector) Containers(root *html.Node, includeBothRoles bool) []*html.Node {
	class := strings.TrimSpace(s.ContainerClass)
	if root == nil || class == "" {
		return nil
	}
	marker := strings.TrimSpace(s.OwnMarkerClass)
	return descendants(root, func(n *html.Node) bool {
		if !HasClass(n, class) {
			return false
		}
		if includeBothRoles || marker == "" {
			return true
		}
		return !HasClass(n, marker)
	})
}

// IsOwn reports whether container carries the own-message marker.
func (s Selector) IsOwn(container *html.Node) bool {
	marker := strings.TrimSpace(s.OwnMarkerClass)
	return marker != "" && HasClass(container, marker)
}

// Blocks returns the block elements inside container.
func (s Selector) Blocks(container *html.Node) []*html.Node {
	if container == nil {
		return nil
	}
	tags := s.BlockTags
	if len(tags) == 0 {
		tags = DefaultBlockTags
	}
	return descendants(container, func(n *html.Node) bool {
		for _, t := range tags {
			if strings.EqualFold(n.Data, strings.TrimSpace(t)) {
				return true
			}
		}
		return false
	})
}

// HasClass reports whether n is an element whose class list contains class.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func descendants(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}
