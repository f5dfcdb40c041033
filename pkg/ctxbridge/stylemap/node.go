package stylemap

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kind classifies a StyleNode.
type Kind int

const (
	// KindText is a text leaf.
	KindText Kind = iota
	KindBlock
	KindSpan
	KindStrike
	KindUnderline
	KindBreak
	// KindOther is an unsupported element; its text is kept, its style is not.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBlock:
		return "block"
	case KindSpan:
		return "span"
	case KindStrike:
		return "strike"
	case KindUnderline:
		return "underline"
	case KindBreak:
		return "break"
	default:
		return "other"
	}
}

// StyleNode is one element of parsed markup.
type StyleNode struct {
	Kind Kind
	// Tag is the element name, empty for text and implicit blocks.
	Tag      string
	Decls    map[string]string
	Children []*StyleNode
	// Text is set on text leaves only.
	Text string
}

func kindOf(a atom.Atom) Kind {
	switch a {
	case atom.Div, atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return KindBlock
	case atom.Span:
		return KindSpan
	case atom.S, atom.Strike, atom.Del:
		return KindStrike
	case atom.U:
		return KindUnderline
	case atom.Br:
		return KindBreak
	default:
		return KindOther
	}
}

// Parse reads a markup fragment and returns its top-level blocks in
// document order. Top-level content outside any block element is grouped
// into implicit blocks; whitespace-only gaps between blocks are dropped.
func Parse(markup string) ([]*StyleNode, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, err
	}

	var (
		blocks   []*StyleNode
		implicit *StyleNode
	)
	for _, n := range nodes {
		sn := convert(n)
		if sn == nil {
			continue
		}
		if sn.Kind == KindBlock {
			implicit = nil
			blocks = append(blocks, sn)
			continue
		}
		if implicit == nil {
			if sn.Kind == KindText && strings.TrimSpace(sn.Text) == "" {
				continue
			}
			implicit = &StyleNode{Kind: KindBlock, Decls: map[string]string{}}
			blocks = append(blocks, implicit)
		}
		implicit.Children = append(implicit.Children, sn)
	}
	return blocks, nil
}

func convert(n *html.Node) *StyleNode {
	switch n.Type {
	case html.TextNode:
		return &StyleNode{Kind: KindText, Text: n.Data}
	case html.ElementNode:
	default:
		// comments, doctypes
		return nil
	}
	sn := &StyleNode{Kind: kindOf(n.DataAtom), Tag: n.Data, Decls: map[string]string{}}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, "style") {
			sn.Decls = ParseDeclarations(a.Val)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			sn.Children = append(sn.Children, child)
		}
	}
	return sn
}

// DirectText concatenates the text leaves that are immediate children of n.
func (n *StyleNode) DirectText() string {
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Kind == KindText {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

// HasInline reports whether n has recognised inline (or nested block)
// children. Text, breaks and unsupported elements do not count.
func (n *StyleNode) HasInline() bool {
	for _, c := range n.Children {
		switch c.Kind {
		case KindSpan, KindStrike, KindUnderline, KindBlock:
			return true
		}
	}
	return false
}

// PlainText returns all text under n, with breaks rendered as newlines.
func (n *StyleNode) PlainText() string {
	var sb strings.Builder
	n.plain(&sb)
	return sb.String()
}

func (n *StyleNode) plain(sb *strings.Builder) {
	switch n.Kind {
	case KindText:
		sb.WriteString(n.Text)
	case KindBreak:
		sb.WriteByte('\n')
	default:
		for _, c := range n.Children {
			c.plain(sb)
		}
	}
}
