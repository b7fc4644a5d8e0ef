package section

import (
	"errors"
	"log"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"mdna_extractor/pkg/models"
)

var (
	// ErrNotFound means no Item 7 heading matched anywhere, or every match
	// sat inside a table of contents.
	ErrNotFound = errors.New("section: no Item 7 heading found in body")

	// ErrAmbiguous means disambiguation left multiple equally plausible
	// candidates. Guessing between them risks extracting the wrong text,
	// so the filing is failed instead.
	ErrAmbiguous = errors.New("section: multiple equally plausible Item 7 candidates")

	// ErrTooShort means a heading matched but the span behind it fails
	// content validation: a TOC entry, a stub, or a table-only region.
	ErrTooShort = errors.New("section: located span fails content validation")
)

// candidate is one potential MD&A start heading.
type candidate struct {
	start int // first non-space byte of the heading
	end   int // end of the heading match
	rank  int
	span  models.Span // heading start to computed end boundary
}

// Locator finds the Item 7 span in normalized filing text. It is
// stateless after construction and safe for concurrent use.
type Locator struct {
	cfg      Config
	patterns *PatternSet
}

// NewLocator builds a locator from thresholds and a pattern set. A nil
// set means the built-in tables.
func NewLocator(cfg Config, ps *PatternSet) *Locator {
	if ps == nil {
		ps = BuiltinPatterns()
	}
	return &Locator{cfg: cfg, patterns: ps}
}

// Locate returns the [start, end) span of the MD&A section, or one of
// ErrNotFound, ErrAmbiguous, ErrTooShort.
func (l *Locator) Locate(text string) (models.Span, error) {
	all := l.findStarts(text)
	if len(all) == 0 {
		return models.Span{}, ErrNotFound
	}

	// Strict pass filters TOC and early-document matches; if it rejects
	// everything, retry without the position floor. Some filings put the
	// MD&A unusually early.
	survivors := l.filterStarts(text, all, l.cfg.MinStartOffset)
	if len(survivors) == 0 {
		log.Printf("[DEBUG] all %d Item 7 matches rejected by strict filter, relaxing position floor", len(all))
		survivors = l.filterStarts(text, all, 0)
	}
	if len(survivors) == 0 {
		return models.Span{}, ErrNotFound
	}

	// Compute each survivor's span to its end boundary; a span below the
	// minimum is a TOC entry or a degenerate heading-on-heading match.
	plausible := make([]candidate, 0, len(survivors))
	for _, c := range survivors {
		c.span = models.Span{Start: c.start, End: l.endBoundary(text, c.end)}
		if c.span.Len() >= l.cfg.MinSpanChars || len(text) < l.cfg.ShortDocLimit {
			plausible = append(plausible, c)
		}
	}
	if len(plausible) == 0 {
		return models.Span{}, ErrTooShort
	}

	// Prefer the last plausible candidate: earlier ones are TOC or
	// cross-reference artifacts that slipped past the filters. If the
	// heuristics cannot order the top two, fail rather than guess.
	chosen := plausible[len(plausible)-1]
	if len(plausible) > 1 {
		prev := plausible[len(plausible)-2]
		if prev.rank == chosen.rank && prev.span.Len() == chosen.span.Len() {
			return models.Span{}, ErrAmbiguous
		}
	}

	if err := l.validate(text[chosen.span.Start:chosen.span.End]); err != nil {
		return models.Span{}, err
	}
	return chosen.span, nil
}

// findStarts runs every start pattern, trims leading whitespace from each
// match, and returns candidates de-duplicated by position in document
// order. A position matched by several patterns keeps the best rank.
func (l *Locator) findStarts(text string) []candidate {
	byStart := make(map[int]candidate)
	for _, p := range l.patterns.Start {
		for _, loc := range p.Re.FindAllStringIndex(text, -1) {
			start := loc[0]
			for start < loc[1] && isHeadingSpace(text[start]) {
				start++
			}
			if prev, ok := byStart[start]; !ok || p.Rank < prev.rank {
				byStart[start] = candidate{start: start, end: loc[1], rank: p.Rank}
			}
		}
	}

	out := make([]candidate, 0, len(byStart))
	for _, c := range byStart {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func isHeadingSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// filterStarts drops candidates that sit in the TOC region: too early in
// the document, preceded by TOC markers, or not followed by real prose.
func (l *Locator) filterStarts(text string, all []candidate, minOffset int) []candidate {
	out := make([]candidate, 0, len(all))
	for _, c := range all {
		if c.start < minOffset && len(text) > l.cfg.ShortDocLimit {
			continue
		}
		if l.inTOC(text, c) {
			continue
		}
		if !l.contentFollows(text, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

var (
	tocMarkerPattern = regexp.MustCompile(`(?im)TABLE\s+OF\s+CONTENTS|INDEX\s+TO\s+(?:FINANCIAL\s+STATEMENTS|FORM)`)
	tocExitPattern   = regexp.MustCompile(`(?im)^\s*(?:PART\s+I\s*$|BUSINESS\s*$|RISK\s+FACTORS|FORWARD.?LOOKING\s+STATEMENTS|INTRODUCTION|OVERVIEW|SUMMARY)`)
	tocEntryPattern  = regexp.MustCompile(`\.{5,}|\s\d{1,3}\s*(?:\n|$)`)
)

// inTOC reports whether the text behind a candidate looks like an active
// table-of-contents region.
func (l *Locator) inTOC(text string, c candidate) bool {
	if len(text) < l.cfg.ShortDocLimit/2 {
		return false
	}
	from := c.start - l.cfg.TOCLookBack
	if from < 0 {
		from = 0
	}
	preceding := text[from:c.start]

	if !tocMarkerPattern.MatchString(preceding) {
		return false
	}
	if tocExitPattern.MatchString(preceding) {
		return false
	}

	// A TOC is sparse. Dense text behind the match means the marker was a
	// click-back line, not a live TOC.
	lines := strings.Split(preceding, "\n")
	if len(lines) > 20 {
		lines = lines[len(lines)-20:]
	}
	dense := 0
	for _, line := range lines {
		if len(strings.TrimSpace(line)) > 20 {
			dense++
		}
	}
	return dense <= 10
}

// contentFollows reports whether real discussion text follows the heading
// rather than a page number, leader dots, or further TOC entries.
func (l *Locator) contentFollows(text string, c candidate) bool {
	ahead := len(text) - c.end
	if ahead > l.cfg.ContentLookAhead {
		ahead = l.cfg.ContentLookAhead
	}
	following := text[c.end : c.end+ahead]

	if ahead < 100 {
		return ahead > 20
	}

	head := following
	if len(head) > 200 {
		head = head[:200]
	}
	if tocEntryPattern.MatchString(head) {
		return false
	}

	// Many short lines in a row is the TOC signature.
	lines := strings.Split(following, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	short := 0
	for _, line := range lines {
		if n := len(strings.TrimSpace(line)); n > 0 && n < 50 {
			short++
		}
	}
	if short > 5 {
		return false
	}

	lower := strings.ToLower(following)
	for _, kw := range mdnaKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	// No keywords nearby; accept if at least one substantial sentence
	// follows the heading.
	for _, sentence := range strings.FieldsFunc(lower, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if len(strings.Fields(sentence)) > 5 {
			return true
		}
	}
	return false
}

// endBoundary finds where the MD&A ends: the next Item 7A heading, then
// Item 8, then the fallback cues, then end of document.
func (l *Locator) endBoundary(text string, from int) int {
	rest := text[from:]

	if pos, ok := earliestMatch(rest, l.patterns.End7A); ok {
		return from + pos
	}
	if pos, ok := earliestMatch(rest, l.patterns.End8); ok {
		return from + pos
	}
	if pos, ok := earliestMatch(rest, l.patterns.FallbackEnd); ok {
		return from + pos
	}
	return len(text)
}

// earliestMatch returns the smallest trimmed match offset across a
// pattern table.
func earliestMatch(text string, patterns []Pattern) (int, bool) {
	best, found := 0, false
	for _, p := range patterns {
		loc := p.Re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		start := loc[0]
		for start < loc[1] && isHeadingSpace(text[start]) {
			start++
		}
		if !found || start < best {
			best, found = start, true
		}
	}
	return best, found
}

// mdnaKeywords is the vocabulary a genuine MD&A section contains.
var mdnaKeywords = []string{
	"financial condition",
	"results of operations",
	"liquidity",
	"capital resources",
	"revenue",
	"cash flow",
	"fiscal",
	"year ended",
}

// validate applies the content sanity checks to a located span.
func (l *Locator) validate(span string) error {
	words := len(strings.Fields(span))
	if words < l.cfg.MinWords {
		return ErrTooShort
	}
	if words > l.cfg.MaxWords {
		log.Printf("[WARNING] MD&A section unusually long (%d words)", words)
	}

	letters, nonSpace := 0, 0
	for _, r := range span {
		if unicode.IsSpace(r) {
			continue
		}
		nonSpace++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if nonSpace == 0 || letters*100 < nonSpace*l.cfg.MinProsePercent {
		return ErrTooShort
	}

	lower := strings.ToLower(span)
	hits := 0
	for _, kw := range mdnaKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	if hits < l.cfg.MinKeywordHits {
		return ErrTooShort
	}
	return nil
}

// IncorporationByReference checks the opening of a located span for
// language incorporating the MD&A from another document. The referenced
// document is reported, never fetched.
func (l *Locator) IncorporationByReference(span string) (string, bool) {
	head := span
	if len(head) > 2000 {
		head = head[:2000]
	}
	for _, p := range l.patterns.Incorporation {
		if m := p.Re.FindString(head); m != "" {
			return strings.Join(strings.Fields(m), " "), true
		}
	}
	return "", false
}
