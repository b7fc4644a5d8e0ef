package section

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testConfig relaxes thresholds for compact fixtures. Production values
// assume multi-hundred-KB filings.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinStartOffset = 0
	cfg.MinSpanChars = 50
	cfg.MinWords = 10
	return cfg
}

const mdnaBody = `The Company's revenue grew 10% during the year ended December 31, 2003.
Liquidity and capital resources remained strong, with operating cash flow
covering all planned expenditures. Results of operations improved across
every segment as discussed below.`

func TestLocateMinimalFiling(t *testing.T) {
	l := NewLocator(testConfig(), nil)

	doc := strings.Join([]string{
		"TABLE OF CONTENTS",
		"Item 7. Management's Discussion and Analysis..........45",
		"Item 8. Financial Statements..........60",
		"",
		"PART I",
		"The registrant operates retail stores in several states.",
		"",
		"Item 7. Management's Discussion and Analysis of Financial Condition.",
		mdnaBody,
		"",
		"Item 7A. Quantitative and Qualitative Disclosures About Market Risk.",
		"Interest rate exposure is limited.",
	}, "\n")

	span, err := l.Locate(doc)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}

	got := doc[span.Start:span.End]
	if !strings.HasPrefix(got, "Item 7. Management's Discussion and Analysis of Financial Condition.") {
		t.Errorf("span does not start at the body heading:\n%q", got)
	}
	if strings.Contains(got, "Item 7A") {
		t.Errorf("span includes the Item 7A heading:\n%q", got)
	}
	if strings.Contains(got, "TABLE OF CONTENTS") {
		t.Errorf("span starts at the TOC entry:\n%q", got)
	}
	if !strings.Contains(got, "revenue grew 10%") {
		t.Errorf("span misses the MD&A body:\n%q", got)
	}
}

func TestLocateNotFound(t *testing.T) {
	l := NewLocator(testConfig(), nil)

	_, err := l.Locate("This filing discusses business operations but has no numbered items at all.")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocateDegenerate(t *testing.T) {
	l := NewLocator(testConfig(), nil)

	doc := "Item 7. Management's Discussion and Analysis\n" +
		"Item 7A. Quantitative and Qualitative Disclosures\n" +
		"Rate tables follow."
	_, err := l.Locate(doc)
	if !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort for header-on-header match, got %v", err)
	}
}

func TestLocateEndOfDocument(t *testing.T) {
	l := NewLocator(testConfig(), nil)

	doc := "Item 7. Management's Discussion and Analysis of Financial Condition.\n" + mdnaBody
	span, err := l.Locate(doc)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if span.End != len(doc) {
		t.Errorf("expected span to extend to end of document: end=%d len=%d", span.End, len(doc))
	}
}

func TestLocateFallbackEnd(t *testing.T) {
	l := NewLocator(testConfig(), nil)

	doc := "Item 7. Management's Discussion and Analysis of Financial Condition.\n" +
		mdnaBody + "\n\nSIGNATURES\nPursuant to the requirements of the Securities Exchange Act."
	span, err := l.Locate(doc)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if strings.Contains(doc[span.Start:span.End], "SIGNATURES") {
		t.Errorf("span crosses the SIGNATURES fallback boundary")
	}
}

func TestLocateAmbiguous(t *testing.T) {
	l := NewLocator(testConfig(), nil)

	block := "Item 7. Management's Discussion and Analysis of Financial Condition.\n" +
		mdnaBody + "\nItem 7A. Market Risk Disclosures.\nFiller text here.\n"
	_, err := l.Locate(block + block)
	if !errors.Is(err, ErrAmbiguous) {
		t.Errorf("expected ErrAmbiguous for two identical candidates, got %v", err)
	}
}

func TestLocateRejectsEarlyTOCInLongFiling(t *testing.T) {
	l := NewLocator(DefaultConfig(), nil)

	filler := strings.Repeat("General business discussion continues on this line of the filing.\n", 400)
	body := strings.Repeat(
		"The Company's revenue grew and liquidity remained strong through the year ended fiscal 2003. ", 60)

	doc := "TABLE OF CONTENTS\n" +
		"Item 7. Management's Discussion and Analysis..........45\n" +
		"Item 8. Financial Statements..........60\n\n" +
		"PART I\nBUSINESS\n" + filler +
		"Item 7. Management's Discussion and Analysis of Financial Condition.\n" +
		body + "\n" +
		"Item 7A. Quantitative and Qualitative Disclosures About Market Risk.\nLimited exposure.\n"

	span, err := l.Locate(doc)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	got := doc[span.Start:span.End]
	if !strings.HasPrefix(got, "Item 7. Management's Discussion and Analysis of Financial Condition.") {
		t.Errorf("locator picked the TOC entry instead of the body heading")
	}
}

func TestIncorporationByReference(t *testing.T) {
	l := NewLocator(testConfig(), nil)

	span := "Item 7. Management's Discussion and Analysis. The information required by " +
		"Item 7 is incorporated herein by reference to the Registrant's Proxy Statement."
	ref, ok := l.IncorporationByReference(span)
	if !ok {
		t.Fatal("expected incorporation-by-reference language to be detected")
	}
	if !strings.Contains(ref, "incorporated") {
		t.Errorf("unexpected matched phrase: %q", ref)
	}

	if _, ok := l.IncorporationByReference(mdnaBody); ok {
		t.Error("false positive on plain MD&A prose")
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locator.yaml")
	if err := os.WriteFile(path, []byte("min_words: 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MinWords != 42 {
		t.Errorf("min_words not applied: %d", cfg.MinWords)
	}
	if cfg.MinSpanChars != DefaultConfig().MinSpanChars {
		t.Errorf("unset field lost its default: %d", cfg.MinSpanChars)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.hjson")
	content := `{
  # heading used by a handful of pre-2000 filers
  start: ["(?im)^[ \t]*ITEM 7 -- ANNUAL REVIEW OF OPERATIONS"]
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ps := BuiltinPatterns()
	before := len(ps.Start)
	if err := LoadOverrides(path, ps); err != nil {
		t.Fatalf("LoadOverrides failed: %v", err)
	}
	if len(ps.Start) != before+1 {
		t.Fatalf("override pattern not appended: %d -> %d", before, len(ps.Start))
	}
	if ps.Start[before].Rank <= ps.Start[before-1].Rank {
		t.Errorf("override pattern must rank below built-ins")
	}

	l := NewLocator(testConfig(), ps)
	doc := "ITEM 7 -- ANNUAL REVIEW OF OPERATIONS\n" + mdnaBody
	if _, err := l.Locate(doc); err != nil {
		t.Errorf("override pattern did not match: %v", err)
	}
}
