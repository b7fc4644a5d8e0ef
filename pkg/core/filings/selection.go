package filings

import (
	"fmt"

	"mdna_extractor/pkg/models"
)

// Selector decides which archive entries to extract when a company filed
// more than once for the same year. An amendment (10-K/A) supersedes the
// original 10-K it amends; among same-form duplicates the latest filing
// date wins.
type Selector struct {
	byKey map[string]models.Filing
}

// NewSelector returns an empty selector.
func NewSelector() *Selector {
	return &Selector{byKey: make(map[string]models.Filing)}
}

func selectionKey(f models.Filing) string {
	return fmt.Sprintf("%s:%d", f.CIK, f.FilingDate.Year())
}

// Add registers a filing candidate. Filings without a CIK or date cannot
// be grouped and are always kept; Add reports whether the caller should
// bypass selection for this filing.
func (s *Selector) Add(f models.Filing) (ungrouped bool) {
	if f.CIK == "" || f.FilingDate.IsZero() {
		return true
	}

	key := selectionKey(f)
	current, ok := s.byKey[key]
	if !ok || supersedes(f, current) {
		s.byKey[key] = f
	}
	return false
}

// supersedes reports whether a beats b for the same company-year.
func supersedes(a, b models.Filing) bool {
	if a.IsAmended() != b.IsAmended() {
		return a.IsAmended()
	}
	return a.FilingDate.After(b.FilingDate)
}

// Selected reports whether a filing won its company-year group.
func (s *Selector) Selected(f models.Filing) bool {
	winner, ok := s.byKey[selectionKey(f)]
	return ok && winner.SourceName == f.SourceName
}
