// Package models defines the data types shared by the extraction engine
// and its collaborators.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Filing identifies a single SEC filing document.
type Filing struct {
	CIK             string    `json:"cik"`
	CompanyName     string    `json:"company_name"`
	FormType        string    `json:"form_type"` // "10-K" or "10-K/A"
	FilingDate      time.Time `json:"filing_date"`
	AccessionNumber string    `json:"accession_number"`
	SourceName      string    `json:"source_name"` // archive entry name
}

// PadCIK normalizes a CIK to the 10-digit zero-padded form used by EDGAR.
func PadCIK(cik string) string {
	cik = strings.TrimLeft(strings.TrimSpace(cik), "0")
	if cik == "" {
		return ""
	}
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}

// IsAmended reports whether this is an amended filing.
func (f Filing) IsAmended() bool {
	return strings.HasSuffix(f.FormType, "/A")
}

// ID returns a stable identifier for logging, preferring the accession number.
func (f Filing) ID() string {
	if f.AccessionNumber != "" {
		return f.AccessionNumber
	}
	if f.SourceName != "" {
		return f.SourceName
	}
	return f.CIK
}

// RawFiling is the immutable input to one extraction call: the raw document
// bytes plus whatever metadata the archive walker could sniff. The engine
// borrows the buffer for the duration of the call and never mutates it.
type RawFiling struct {
	Data         []byte
	EncodingHint string // declared encoding, possibly absent or wrong
	Filing       Filing
}

// Span marks a half-open [Start, End) range into a normalized document.
type Span struct {
	Start int
	End   int
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// FailureReason enumerates the per-filing failure taxonomy. All failures are
// local to one filing and never fatal to a run.
type FailureReason string

const (
	FailureNone                FailureReason = ""
	FailureEmptyInput          FailureReason = "EMPTY_INPUT"
	FailureUndecodableEncoding FailureReason = "UNDECODABLE_ENCODING"
	FailureNotFound            FailureReason = "NOT_FOUND"
	FailureAmbiguousMatch      FailureReason = "AMBIGUOUS_MATCH"
	FailureTooShort            FailureReason = "TOO_SHORT"
)

// ExtractionResult is the terminal output of one extraction call.
// Exactly one of Text (with Success=true) or Reason is meaningful.
type ExtractionResult struct {
	Filing  Filing
	Success bool

	// Success fields
	Text      string
	Span      Span
	WordCount int
	Encoding  string // encoding actually used by the resolver
	Lossy     bool   // lossy decode fallback was applied

	// Failure fields
	Stage  string // "decode", "normalize", "locate"
	Reason FailureReason
}

// Failure builds a failed result for the given stage and reason.
func Failure(filing Filing, stage string, reason FailureReason) ExtractionResult {
	return ExtractionResult{Filing: filing, Stage: stage, Reason: reason}
}

// RunStats aggregates counters for one batch run. It is owned by the
// orchestration layer and passed explicitly; the core never touches it.
type RunStats struct {
	Archives    int
	FilesSeen   int
	FilteredOut int
	Extracted   int
	Failed      int
	ByReason    map[FailureReason]int
}

// NewRunStats returns an empty counters object.
func NewRunStats() *RunStats {
	return &RunStats{ByReason: make(map[FailureReason]int)}
}

// RecordFailure counts one failed filing under its reason.
func (s *RunStats) RecordFailure(reason FailureReason) {
	s.Failed++
	s.ByReason[reason]++
}

// Summary renders the counters as a single log-friendly line.
func (s *RunStats) Summary() string {
	return fmt.Sprintf("archives=%d files=%d filtered=%d extracted=%d failed=%d",
		s.Archives, s.FilesSeen, s.FilteredOut, s.Extracted, s.Failed)
}
