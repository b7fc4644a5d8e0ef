package normalize

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	// EDGAR submission envelope: the SEC-HEADER metadata block plus the
	// per-document tag lines that frame each document in a full submission.
	secHeaderPattern  = regexp.MustCompile(`(?is)<(?:SEC|IMS)-HEADER>.*?</(?:SEC|IMS)-HEADER>`)
	secTagLinePattern = regexp.MustCompile(`(?im)^<(?:TYPE|SEQUENCE|FILENAME|DESCRIPTION)>[^\n<]*$`)
	secMarkerPattern  = regexp.MustCompile(`(?i)</?(?:SEC-DOCUMENT|DOCUMENT|TEXT)>`)
	xbrlWrapPattern   = regexp.MustCompile(`(?i)<XBRL[^>]*>|</XBRL>`)
	pageBreakPattern  = regexp.MustCompile(`(?i)<PAGE>[ \t]*\d*`)
)

// stripSECEnvelope removes the EDGAR submission wrapper so only filing body
// text reaches the renderers. Applied to both HTML and text submissions;
// the patterns are inert on documents that lack the envelope.
func stripSECEnvelope(text string) string {
	text = secHeaderPattern.ReplaceAllString(text, "")
	text = secTagLinePattern.ReplaceAllString(text, "")
	text = secMarkerPattern.ReplaceAllString(text, "")
	text = xbrlWrapPattern.ReplaceAllString(text, "")
	return pageBreakPattern.ReplaceAllString(text, "\n")
}

// sgmlBlockTags are the tags old text submissions use for layout; each is
// replaced by a line break. Everything else is dropped in place.
var sgmlBlockTags = map[string]bool{
	"p": true, "br": true, "div": true, "tr": true, "table": true,
	"hr": true, "li": true, "caption": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// renderSGMLText strips tag-like markup from an SGML-era text submission
// using a streaming tokenizer rather than a DOM: these documents rely on
// fixed-width layout, so text must pass through byte-for-byte with no
// reflowing. The tokenizer follows HTML5 rules, so a bare '<' followed by
// a space, digit, or '=' stays literal text and entities are unescaped.
func renderSGMLText(text string) string {
	z := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	b.Grow(len(text))

	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				// Keep whatever the tokenizer choked on rather than
				// losing it.
				b.Write(z.Raw())
			}
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if sgmlBlockTags[string(name)] {
				b.WriteByte('\n')
			}
		}
	}
}
