package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// renderHTML converts an HTML filing to plain text through a goquery DOM
// pass: noise removal, inline-XBRL unwrapping, then a structural walk that
// renders table rows as delimited lines and block boundaries as newlines.
func renderHTML(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		// goquery almost never fails, but the tokenizer path handles
		// anything it rejects.
		return renderSGMLText(text)
	}

	removeNoise(doc)
	unwrapInlineXBRL(doc)

	var b strings.Builder
	body := doc.Find("body")
	nodes := body.Nodes
	if len(nodes) == 0 {
		nodes = doc.Selection.Nodes
	}
	for _, node := range nodes {
		writeNodeText(node, &b)
	}
	return b.String()
}

// pageNumberOnly matches footer fragments like "Page 12", "- 7 -", "F-3".
var pageNumberOnly = regexp.MustCompile(`^(?:Page\s*)?\d+$|^-\s*\d+\s*-$|^[A-Z]?-\d+$`)

// removeNoise strips elements that carry no filing body text.
func removeNoise(doc *goquery.Document) {
	doc.Find("script, style, noscript, template").Remove()

	// Hidden elements and the non-display iXBRL header block.
	doc.Find("[hidden], [style*='display:none'], [style*='display: none']").Remove()
	doc.Find("ix\\:header").Remove()

	// Spacer images and page-number footers.
	doc.Find("img").Remove()
	doc.Find("p, div, span").Each(func(i int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) < 20 && pageNumberOnly.MatchString(text) && sel.Children().Length() == 0 {
			sel.Remove()
		}
	})
}

// unwrapInlineXBRL replaces inline-XBRL tagging with the human-readable
// text it wraps, discarding the attribute payload.
func unwrapInlineXBRL(doc *goquery.Document) {
	doc.Find("ix\\:nonfraction, ix\\:nonnumeric, ix\\:fraction, ix\\:continuation").Each(func(i int, sel *goquery.Selection) {
		sel.ReplaceWithHtml(sel.Text())
	})
}

// blockTags force a line break around their content when rendering.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "section": true, "article": true,
	"hr": true, "caption": true,
}

// writeNodeText renders a DOM subtree as plain text. Tables get dedicated
// handling so their row/column structure survives as text.
func writeNodeText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "template", "head":
			return
		case "br":
			b.WriteByte('\n')
			return
		case "table":
			writeTableText(n, b)
			return
		}
		if blockTags[n.Data] {
			b.WriteByte('\n')
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(c, b)
	}

	if n.Type == html.ElementNode && blockTags[n.Data] {
		b.WriteByte('\n')
	}
}

// writeTableText renders a table as one line per row with cells joined by
// " | ", keeping numeric tables visually parseable in the output.
func writeTableText(table *html.Node, b *strings.Builder) {
	b.WriteByte('\n')
	for _, tr := range findAll(table, "tr") {
		cells := make([]string, 0, 8)
		for _, cell := range findAll(tr, "td", "th") {
			var cb strings.Builder
			writeNodeText(cell, &cb)
			cells = append(cells, strings.Join(strings.Fields(cb.String()), " "))
		}
		// Skip rows that are pure spacing.
		row := strings.TrimSpace(strings.Join(cells, " | "))
		if strings.Trim(row, "| ") == "" {
			continue
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

// findAll collects descendant elements matching any of the given tag
// names, without descending into a matched element.
func findAll(n *html.Node, names ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				matched := false
				for _, name := range names {
					if c.Data == name {
						out = append(out, c)
						matched = true
						break
					}
				}
				if matched {
					continue
				}
			}
			walk(c)
		}
	}
	walk(n)
	return out
}
