package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "dd": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "tr": true, "ul": true,
}

var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "head": true,
}

var hiddenClasses = map[string]bool{"hidden": true, "d-none": true, "invisible": true, "sr-only": true}

// InnerText approximates the browser's innerText for a snapshot: block elements
// and <br> break lines, whitespace inside a line collapses, blank lines are dropped.
func InnerText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}

	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	}

	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// Hidden reports whether the first node of sel, or any ancestor, is hidden by
// markup alone (hidden/aria-hidden attributes, inline display:none, utility classes).
// Layout is not available in a snapshot, so this is a heuristic.
func Hidden(sel *goquery.Selection) bool {
	if sel.Length() == 0 {
		return true
	}
	for s := sel.First(); s.Length() > 0; s = s.Parent() {
		if s.Get(0).Type != html.ElementNode {
			break
		}
		if _, ok := s.Attr("hidden"); ok {
			return true
		}
		if s.AttrOr("aria-hidden", "") == "true" {
			return true
		}
		if goquery.NodeName(s) == "input" && strings.EqualFold(s.AttrOr("type", ""), "hidden") {
			return true
		}
		style := strings.ReplaceAll(strings.ToLower(s.AttrOr("style", "")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return true
		}
		for _, class := range strings.Fields(s.AttrOr("class", "")) {
			if hiddenClasses[class] {
				return true
			}
		}
	}
	return false
}
