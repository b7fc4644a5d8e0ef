// Package filings handles everything around the extraction core: walking
// ZIP archives, identifying filings, CIK filtering, amendment selection,
// and writing extracted sections to disk.
package filings

import (
	"regexp"
	"strings"
	"time"

	"mdna_extractor/pkg/models"
)

// entryNamePattern matches the EDGAR bulk-download naming convention:
// YYYYMMDD_FORMTYPE_edgar_data_CIK_ACCESSION.txt
var entryNamePattern = regexp.MustCompile(`(?i)(\d{8})_(10-K(?:/A|A)?)_edgar_data_(\d{1,10})_([0-9\-]+)\.txt$`)

// ParseEntryName extracts filing metadata from an archive entry name.
// Returns false when the name does not follow the bulk-download convention.
func ParseEntryName(name string) (models.Filing, bool) {
	m := entryNamePattern.FindStringSubmatch(name)
	if m == nil {
		return models.Filing{}, false
	}

	filing := models.Filing{
		CIK:             models.PadCIK(m[3]),
		FormType:        normalizeFormType(m[2]),
		AccessionNumber: m[4],
		SourceName:      name,
	}
	if date, err := time.Parse("20060102", m[1]); err == nil {
		filing.FilingDate = date
	}
	return filing, true
}

func normalizeFormType(raw string) string {
	form := strings.ToUpper(raw)
	if form == "10-KA" {
		form = "10-K/A"
	}
	return form
}

// Content header patterns from the SGML submission envelope. Only the
// first few KB of a filing are scanned; the envelope always leads.
var (
	contentCIKPattern  = regexp.MustCompile(`(?i)CENTRAL\s+INDEX\s+KEY:\s*(\d+)`)
	contentFormPattern = regexp.MustCompile(`(?i)CONFORMED\s+SUBMISSION\s+TYPE:\s*([0-9]+-[A-Z]+(?:/A)?)`)
	contentDatePattern = regexp.MustCompile(`(?i)FILED\s+AS\s+OF\s+DATE:\s*(\d{8})`)
	contentNamePattern = regexp.MustCompile(`(?i)COMPANY\s+CONFORMED\s+NAME:\s*(.+)`)
)

const sniffWindow = 8 * 1024

// SniffContent fills blank Filing fields from the submission envelope at
// the top of the raw document. Fields already set by the entry name win;
// the envelope only supplements.
func SniffContent(data []byte, filing *models.Filing) {
	window := data
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}
	head := string(window)

	if filing.CIK == "" {
		if m := contentCIKPattern.FindStringSubmatch(head); m != nil {
			filing.CIK = models.PadCIK(m[1])
		}
	}
	if filing.FormType == "" {
		if m := contentFormPattern.FindStringSubmatch(head); m != nil {
			filing.FormType = strings.ToUpper(m[1])
		}
	}
	if filing.FilingDate.IsZero() {
		if m := contentDatePattern.FindStringSubmatch(head); m != nil {
			if date, err := time.Parse("20060102", m[1]); err == nil {
				filing.FilingDate = date
			}
		}
	}
	if filing.CompanyName == "" {
		if m := contentNamePattern.FindStringSubmatch(head); m != nil {
			filing.CompanyName = strings.TrimSpace(m[1])
		}
	}
}
