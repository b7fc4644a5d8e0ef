// Package normalize converts raw SEC filing text into clean, markup-free
// plain text while preserving table row/column structure.
//
// Filings span three decades of formats: modern inline-XBRL HTML, plain
// HTML, and SGML-era text submissions with fake uppercase tags and
// fixed-width tables. The normalizer picks a strategy per document:
//   - HTML documents go through a goquery DOM pass (noise removal, XBRL
//     unwrapping, table rows rendered as delimited lines).
//   - Everything else goes through a tolerant tokenizer pass that drops
//     recognized tags and keeps all other text literally, so an unmatched
//     '<' never destroys surrounding prose.
package normalize

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyInput is the only failure the normalizer reports. Malformed
// markup is always handled best-effort.
var ErrEmptyInput = errors.New("normalize: empty input")

// Normalizer cleans one filing at a time. It is stateless and safe for
// concurrent use.
type Normalizer struct{}

// New returns a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// htmlDocPattern decides whether a document is real HTML or an SGML-era
// text submission. Old text filings use fake tags like <PAGE> and <TABLE>
// but never carry an <html>/<body> skeleton or <div>/<td> markup.
var htmlDocPattern = regexp.MustCompile(`(?i)<(?:!doctype\s+html|html[\s>]|body[\s>]|div[\s>]|td[\s>])`)

// Normalize converts raw decoded filing text into a NormalizedDocument:
// no tags, whitespace collapsed within prose lines, line breaks preserved
// between logical blocks, table rows kept as delimited lines.
func (n *Normalizer) Normalize(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	// The EDGAR submission envelope is not filing body text.
	text = stripSECEnvelope(text)

	if htmlDocPattern.MatchString(text) {
		text = renderHTML(text)
	} else {
		text = renderSGMLText(text)
	}

	// Mojibake repair must run before punctuation folding: the folds would
	// otherwise rewrite the middle bytes of the mojibake sequences.
	text = fixMojibake(text)
	text = foldUnicode(text)
	text = stripControlChars(text)
	text = stripPageArtifacts(text)
	text = tidyWhitespace(text)

	return strings.TrimSpace(text), nil
}

// unicode punctuation folded to ASCII so header patterns match uniformly
// across filer typography.
var unicodeFolds = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "--",
	"…", "...",
	" ", " ",
	"•", "*",
	"·", "*",
	"−", "-",
)

func foldUnicode(text string) string {
	return unicodeFolds.Replace(text)
}

// mojibakeFixes repairs the common UTF-8-read-as-Windows-1252 artifacts
// found in re-encoded older filings.
var mojibakeFixes = strings.NewReplacer(
	"\u00e2\u20ac\u2122", "'", // mangled right single quote
	"\u00e2\u20ac\u0153", `"`, // mangled left double quote
	"\u00e2\u20ac\u009d", `"`, // mangled right double quote
	"\u00e2\u20ac\u201c", "-", // mangled en dash
	"\u00e2\u20ac\u201d", "--", // mangled em dash
	"\u00c3\u00a2", "",
	"\u00c2", "",
)

func fixMojibake(text string) string {
	return mojibakeFixes.Replace(text)
}

// controlCharPattern matches control characters except \t and \n, plus the
// replacement rune a lossy decode may have introduced.
var controlCharPattern = regexp.MustCompile(`[\x{0000}-\x{0008}\x{000B}\x{000C}\x{000E}-\x{001F}\x{007F}-\x{009F}\x{FFFD}]`)

func stripControlChars(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return controlCharPattern.ReplaceAllString(text, " ")
}

var (
	tocLinePattern        = regexp.MustCompile(`(?im)^\s*Table\s+of\s+Contents\s*$`)
	barePageNumberPattern = regexp.MustCompile(`(?m)^\s*-?\s*\d{1,3}\s*-?\s*$`)
)

// stripPageArtifacts removes pagination leftovers: standalone page numbers
// and repeated "Table of Contents" click-back lines.
func stripPageArtifacts(text string) string {
	text = tocLinePattern.ReplaceAllString(text, "")
	return barePageNumberPattern.ReplaceAllString(text, "")
}

// structuredLinePatterns recognize lines that belong to tables or columnar
// data; their internal spacing is load-bearing and must not be collapsed.
var (
	ruleLinePattern     = regexp.MustCompile(`^\s*[-=_]{3,}\s*$`)
	columnGapPattern    = regexp.MustCompile(`\S\s{3,}\S`)
	numberTokenPattern  = regexp.MustCompile(`(?:\$\s*)?\(?\d[\d,]*(?:\.\d+)?\)?%?`)
	leadingSpacePattern = regexp.MustCompile(`^[ \t]*`)
)

func isStructuredLine(line string) bool {
	if ruleLinePattern.MatchString(line) {
		return true
	}
	if columnGapPattern.MatchString(line) {
		return true
	}
	if strings.Count(line, "|") >= 2 {
		return true
	}
	return hasColumnarNumbers(line)
}

// hasColumnarNumbers reports whether a line carries two or more numeric
// tokens spread apart, the signature of a financial table row.
func hasColumnarNumbers(line string) bool {
	locs := numberTokenPattern.FindAllStringIndex(line, -1)
	if len(locs) < 2 {
		return false
	}
	for i := 1; i < len(locs); i++ {
		if locs[i][0]-locs[i-1][0] > 10 {
			return true
		}
	}
	return false
}

// tidyWhitespace collapses prose whitespace while leaving structured lines
// alone: inline runs become single spaces, indentation is capped, trailing
// space is trimmed, and blank-line runs shrink to a single blank line.
func tidyWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := 0

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blank++
			if blank == 1 && len(out) > 0 {
				out = append(out, "")
			}
			continue
		}
		blank = 0

		if isStructuredLine(line) {
			out = append(out, strings.TrimRight(line, " \t"))
			continue
		}

		indent := len(leadingSpacePattern.FindString(line))
		if indent > 4 {
			indent = 4
		}
		out = append(out, strings.Repeat(" ", indent)+strings.Join(strings.Fields(line), " "))
	}

	// Drop a trailing blank line left by the loop.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
