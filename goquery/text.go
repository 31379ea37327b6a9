package goquery

import (
	"strings"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipText holds elements whose content is never recipe text.
var skipText = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Button:   true,
}

// nodeText renders the visible text of a selection. Unlike Selection.Text,
// it separates adjacent sibling elements with a space so
// "<span>1</span><span>cup</span>" reads "1 cup".
func nodeText(s *goquery.Selection) string {
	var sb strings.Builder
	for _, n := range s.Nodes {
		writeText(&sb, n)
	}
	return cleanplate.CleanText(sb.String())
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipText[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			sb.WriteByte(' ')
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
		if c.Type == html.ElementNode && c.NextSibling != nil && c.NextSibling.Type == html.ElementNode {
			sb.WriteByte(' ')
		}
	}
}
