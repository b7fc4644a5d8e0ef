package extract

import (
	"strings"
	"testing"

	"mdna_extractor/pkg/core/normalize"
	"mdna_extractor/pkg/core/section"
	"mdna_extractor/pkg/models"
)

func testOptions() Options {
	cfg := section.DefaultConfig()
	cfg.MinStartOffset = 0
	cfg.MinSpanChars = 50
	cfg.MinWords = 10
	return Options{Config: cfg}
}

const sampleFiling = `<SEC-HEADER>ACCESSION NUMBER: 0000320193-03-000011
CENTRAL INDEX KEY: 320193
</SEC-HEADER>
<TYPE>10-K
<TEXT>
ANNUAL REPORT PURSUANT TO SECTION 13

Item 7. Management's Discussion and Analysis of Financial Condition.
The Company's revenue grew 10% during the year ended December 31, 2003.
Liquidity and capital resources remained strong, and results of operations
improved in every segment the Company reports.

Item 7A. Quantitative and Qualitative Disclosures About Market Risk.
Exposure is limited to interest rates.
</TEXT>`

func TestExtractSuccess(t *testing.T) {
	engine := NewEngine(testOptions())

	filing := models.Filing{CIK: "0000320193", FormType: "10-K"}
	result := engine.Extract(models.RawFiling{Data: []byte(sampleFiling), Filing: filing})

	if !result.Success {
		t.Fatalf("expected success, got stage=%s reason=%s", result.Stage, result.Reason)
	}
	if !strings.Contains(result.Text, "revenue grew 10%") {
		t.Errorf("extracted text misses the MD&A body:\n%s", result.Text)
	}
	if strings.Contains(result.Text, "Item 7A") {
		t.Errorf("extracted text crosses the Item 7A boundary")
	}
	if result.WordCount == 0 || result.Encoding != "utf-8" || result.Lossy {
		t.Errorf("metadata wrong: words=%d encoding=%q lossy=%v",
			result.WordCount, result.Encoding, result.Lossy)
	}
}

// The extracted text must always be a contiguous substring of the
// normalized document for the same filing.
func TestExtractSpanRoundTrip(t *testing.T) {
	engine := NewEngine(testOptions())

	result := engine.Extract(models.RawFiling{Data: []byte(sampleFiling)})
	if !result.Success {
		t.Fatalf("expected success, got stage=%s reason=%s", result.Stage, result.Reason)
	}

	doc, err := normalize.New().Normalize(sampleFiling)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if doc[result.Span.Start:result.Span.End] != result.Text {
		t.Error("result text is not the span slice of the normalized document")
	}
}

func TestExtractFailureStages(t *testing.T) {
	engine := NewEngine(testOptions())

	tests := []struct {
		name   string
		data   []byte
		stage  string
		reason models.FailureReason
	}{
		{"empty input", nil, StageDecode, models.FailureEmptyInput},
		{"whitespace only", []byte("   \n\t  "), StageNormalize, models.FailureEmptyInput},
		{"no item 7", []byte("Annual report with no numbered discussion sections."), StageLocate, models.FailureNotFound},
	}

	for _, tt := range tests {
		result := engine.Extract(models.RawFiling{Data: tt.data})
		if result.Success {
			t.Errorf("%s: expected failure", tt.name)
			continue
		}
		if result.Stage != tt.stage || result.Reason != tt.reason {
			t.Errorf("%s: got stage=%s reason=%s, want stage=%s reason=%s",
				tt.name, result.Stage, result.Reason, tt.stage, tt.reason)
		}
	}
}

func TestExtractStrictDecode(t *testing.T) {
	opts := testOptions()
	opts.StrictDecode = true
	engine := NewEngine(opts)

	// Dense C1 bytes defeat every clean decoder.
	result := engine.Extract(models.RawFiling{Data: []byte("x\x81\x90\x8d\x9d\x81\x90\x8d\x9d")})
	if result.Success || result.Reason != models.FailureUndecodableEncoding {
		t.Errorf("expected UNDECODABLE_ENCODING under strict decode, got success=%v reason=%s",
			result.Success, result.Reason)
	}
}

// Extraction must terminate with a typed result on any input, including
// binary garbage.
func TestExtractTotality(t *testing.T) {
	engine := NewEngine(testOptions())

	inputs := [][]byte{
		nil,
		{0x00, 0x01, 0x02, 0xFF, 0xFE},
		[]byte(strings.Repeat("\x81\x90", 512)),
		[]byte("<html><body><div>"),
		[]byte("Item 7"),
	}
	valid := map[models.FailureReason]bool{
		models.FailureEmptyInput:          true,
		models.FailureUndecodableEncoding: true,
		models.FailureNotFound:            true,
		models.FailureAmbiguousMatch:      true,
		models.FailureTooShort:            true,
	}

	for i, data := range inputs {
		result := engine.Extract(models.RawFiling{Data: data})
		if result.Success {
			t.Errorf("input %d: unexpected success", i)
			continue
		}
		if !valid[result.Reason] {
			t.Errorf("input %d: undefined failure reason %q", i, result.Reason)
		}
	}
}
