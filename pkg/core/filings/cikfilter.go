package filings

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"regexp"

	"mdna_extractor/pkg/models"
)

// CIKFilter restricts a run to the companies listed in a CSV file. The
// CIK is read from the first column; a header row is detected and
// skipped. An empty filter admits everything.
type CIKFilter struct {
	ciks map[string]bool
}

var nonDigitPattern = regexp.MustCompile(`\D`)

// LoadCIKFilter reads a CIK list from a CSV file. Each CIK is stored in
// both zero-padded and unpadded form so lookups are padding-insensitive.
func LoadCIKFilter(path string) (*CIKFilter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CIK list %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CIK list %s: %w", path, err)
	}

	filter := &CIKFilter{ciks: make(map[string]bool)}
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		digits := nonDigitPattern.ReplaceAllString(record[0], "")
		if digits == "" {
			// A non-numeric first row is the header.
			if i == 0 {
				continue
			}
			log.Printf("[WARNING] CIK list row %d has no numeric CIK, skipping: %q", i+1, record[0])
			continue
		}
		padded := models.PadCIK(digits)
		filter.ciks[padded] = true
		filter.ciks[trimZeros(padded)] = true
	}

	log.Printf("loaded %d CIKs from %s", len(filter.ciks)/2, path)
	return filter, nil
}

func trimZeros(cik string) string {
	i := 0
	for i < len(cik)-1 && cik[i] == '0' {
		i++
	}
	return cik[i:]
}

// Empty reports whether the filter admits everything.
func (f *CIKFilter) Empty() bool {
	return f == nil || len(f.ciks) == 0
}

// Allow reports whether a filing with this CIK should be processed.
func (f *CIKFilter) Allow(cik string) bool {
	if f.Empty() {
		return true
	}
	padded := models.PadCIK(cik)
	return f.ciks[padded] || f.ciks[trimZeros(padded)]
}
