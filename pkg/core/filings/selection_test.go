package filings

import (
	"testing"
	"time"

	"mdna_extractor/pkg/models"
)

func filing(name, cik, form string, date time.Time) models.Filing {
	return models.Filing{SourceName: name, CIK: cik, FormType: form, FilingDate: date}
}

func TestSelectorAmendmentWins(t *testing.T) {
	s := NewSelector()

	original := filing("a.txt", "0000320193", "10-K", time.Date(2003, 3, 31, 0, 0, 0, 0, time.UTC))
	amended := filing("b.txt", "0000320193", "10-K/A", time.Date(2003, 6, 15, 0, 0, 0, 0, time.UTC))

	s.Add(original)
	s.Add(amended)

	if s.Selected(original) {
		t.Error("original 10-K selected despite amendment")
	}
	if !s.Selected(amended) {
		t.Error("10-K/A not selected")
	}
}

func TestSelectorAmendmentWinsRegardlessOfOrder(t *testing.T) {
	s := NewSelector()

	amended := filing("b.txt", "0000320193", "10-K/A", time.Date(2003, 6, 15, 0, 0, 0, 0, time.UTC))
	original := filing("a.txt", "0000320193", "10-K", time.Date(2003, 3, 31, 0, 0, 0, 0, time.UTC))

	s.Add(amended)
	s.Add(original)

	if !s.Selected(amended) {
		t.Error("earlier-registered 10-K/A lost to the original")
	}
}

func TestSelectorLatestDateWins(t *testing.T) {
	s := NewSelector()

	early := filing("a.txt", "0000320193", "10-K", time.Date(2003, 3, 31, 0, 0, 0, 0, time.UTC))
	late := filing("b.txt", "0000320193", "10-K", time.Date(2003, 4, 2, 0, 0, 0, 0, time.UTC))

	s.Add(early)
	s.Add(late)

	if !s.Selected(late) || s.Selected(early) {
		t.Error("latest filing date did not win among same-form duplicates")
	}
}

func TestSelectorSeparateYears(t *testing.T) {
	s := NewSelector()

	y2002 := filing("a.txt", "0000320193", "10-K", time.Date(2002, 3, 31, 0, 0, 0, 0, time.UTC))
	y2003 := filing("b.txt", "0000320193", "10-K", time.Date(2003, 3, 31, 0, 0, 0, 0, time.UTC))

	s.Add(y2002)
	s.Add(y2003)

	if !s.Selected(y2002) || !s.Selected(y2003) {
		t.Error("filings in different years must not compete")
	}
}

func TestSelectorUngrouped(t *testing.T) {
	s := NewSelector()

	if !s.Add(models.Filing{SourceName: "nometa.txt"}) {
		t.Error("filing without CIK/date must be reported as ungrouped")
	}
	if s.Add(filing("a.txt", "0000320193", "10-K", time.Date(2003, 3, 31, 0, 0, 0, 0, time.UTC))) {
		t.Error("fully identified filing reported as ungrouped")
	}
}
