package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// flatText returns the visible text of sel with inline markup flattened.
// Text nodes are concatenated as rendered, so link text is kept while link
// targets and other attributes are discarded. Block-level elements and <br>
// separate words, and whitespace runs collapse to a single space.
func flatText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		}
		if breaksText[n.DataAtom] {
			b.WriteByte(' ')
			defer b.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

// breaksText lists the elements rendered on their own line.
var breaksText = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Details: true, atom.Div: true, atom.Dl: true,
	atom.Dt: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Summary: true, atom.Table: true, atom.Td: true,
	atom.Th: true, atom.Tr: true, atom.Ul: true,
}

// classContains reports whether the lowercased class attribute of sel
// contains any of the keywords.
func classContains(sel *goquery.Selection, keywords ...string) bool {
	class, ok := sel.Attr("class")
	if !ok || class == "" {
		return false
	}
	class = strings.ToLower(class)
	for _, kw := range keywords {
		if strings.Contains(class, kw) {
			return true
		}
	}
	return false
}

// classHasPrefix reports whether any class token of sel starts with prefix.
func classHasPrefix(sel *goquery.Selection, prefix string) bool {
	class, _ := sel.Attr("class")
	for _, token := range strings.Fields(class) {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}

// hasRole reports whether sel carries the given ARIA role.
func hasRole(sel *goquery.Selection, role string) bool {
	r, _ := sel.Attr("role")
	return strings.EqualFold(strings.TrimSpace(r), role)
}
