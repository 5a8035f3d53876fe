package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed chat page. Root is the document node returned by the
// HTML parser; it is only read, never modified.
type Document struct {
	Title string
	Root  *html.Node
}

// Parse reads a full HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{Title: strings.TrimSpace(findTitle(root)), Root: root}, nil
}

// FromHTML parses an in-memory page.
func FromHTML(input []byte) (*Document, error) {
	return Parse(bytes.NewReader(input))
}

func findTitle(n *html.Node) string {
	head := findFirst(n, atom.Head)
	if head == nil {
		return ""
	}
	t := findFirst(head, atom.Title)
	if t == nil {
		return ""
	}
	return TextContent(t)
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, a); res != nil {
			return res
		}
	}
	return nil
}

// TextContent concatenates every descendant text node of n in document
// order, like the DOM textContent property. Comments contribute nothing.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}
