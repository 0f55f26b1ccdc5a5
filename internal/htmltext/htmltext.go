// Package htmltext converts Jenkins HTML console logs into line-addressable
// plain text, and strips markup from individual log fragments.
package htmltext

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Lines decodes and parses an HTML document and returns its visible text
// split into lines, in document order. Block-level elements and <br> act as
// line boundaries, so Jenkins console markup (one span or div per console
// line) yields one entry per console line. Plain-text input passes through
// with its own line structure intact.
//
// The input is decoded per its declared or sniffed charset; logs that are
// not valid UTF-8 are transcoded rather than rejected.
func Lines(r io.Reader) ([]string, error) {
	decoded, err := charset.NewReader(r, "text/html")
	if err != nil {
		return nil, fmt.Errorf("htmltext: detect charset: %w", err)
	}

	doc, err := html.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("htmltext: parse: %w", err)
	}

	var sb strings.Builder
	collectLines(doc, &sb)
	return splitLines(sb.String()), nil
}

// collectLines walks the DOM appending text node data, with newlines at
// <br> and at the close of block-level elements.
func collectLines(doc *html.Node, sb *strings.Builder) {
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			case atom.Br:
				sb.WriteByte('\n')
				return
			case atom.A:
				// Console links (remote job URLs, SDK URLs) live in the
				// href, not the anchor text. Keep the URL.
				if href := attrVal(n, "href"); strings.HasPrefix(href, "http") {
					sb.WriteString(href)
					return
				}
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
		if n.Type == html.ElementNode && isBlock(n.DataAtom) {
			sb.WriteByte('\n')
		}
	}
	f(doc)
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// isBlock reports whether closing the element should break the line.
func isBlock(a atom.Atom) bool {
	switch a {
	case atom.Div, atom.P, atom.Pre, atom.Li, atom.Tr, atom.Table,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

// splitLines normalizes line endings and drops trailing empty lines that are
// artifacts of block-element breaks.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// FirstHref parses an HTML fragment and returns the href of the first
// anchor element, or false if the fragment contains none.
func FirstHref(fragment string) (string, bool) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return "", false
	}

	var href string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if href != "" {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			for _, a := range n.Attr {
				if a.Key == "href" && a.Val != "" {
					href = a.Val
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	for _, n := range nodes {
		f(n)
	}
	return href, href != ""
}

// CleanValue strips any markup from a parameter value and, when the result
// looks like a URL, undoes percent-encoding. Values that fail to unescape
// keep their original form.
func CleanValue(s string) string {
	text := s
	if strings.ContainsAny(s, "<>") {
		nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
			Type:     html.ElementNode,
			Data:     "div",
			DataAtom: atom.Div,
		})
		if err == nil {
			var sb strings.Builder
			for _, n := range nodes {
				collectFragmentText(n, &sb)
			}
			text = sb.String()
		}
	}

	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "http") {
		// PathUnescape, not QueryUnescape: a "+" in a JDK version URL is a
		// literal plus, not an encoded space.
		if unescaped, err := url.PathUnescape(text); err == nil {
			text = unescaped
		}
	}
	return strings.TrimSpace(text)
}

func collectFragmentText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectFragmentText(c, sb)
	}
}
