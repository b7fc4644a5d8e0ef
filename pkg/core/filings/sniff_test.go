package filings

import (
	"testing"
	"time"

	"mdna_extractor/pkg/models"
)

func TestParseEntryName(t *testing.T) {
	tests := []struct {
		name     string
		wantOK   bool
		wantCIK  string
		wantForm string
		wantDate string
	}{
		{"20030331_10-K_edgar_data_320193_0000320193-03-000011.txt", true, "0000320193", "10-K", "2003-03-31"},
		{"19991229_10-KA_edgar_data_78003_0000078003-99-000123.txt", true, "0000078003", "10-K/A", "1999-12-29"},
		{"archives/2003/20030331_10-k_edgar_data_320193_0000320193-03-000011.txt", true, "0000320193", "10-K", "2003-03-31"},
		{"random_report.txt", false, "", "", ""},
		{"20030331_10-Q_edgar_data_320193_0000320193-03-000012.txt", false, "", "", ""},
	}

	for _, tt := range tests {
		filing, ok := ParseEntryName(tt.name)
		if ok != tt.wantOK {
			t.Errorf("%s: ok=%v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if filing.CIK != tt.wantCIK {
			t.Errorf("%s: CIK=%s, want %s", tt.name, filing.CIK, tt.wantCIK)
		}
		if filing.FormType != tt.wantForm {
			t.Errorf("%s: form=%s, want %s", tt.name, filing.FormType, tt.wantForm)
		}
		if got := filing.FilingDate.Format("2006-01-02"); got != tt.wantDate {
			t.Errorf("%s: date=%s, want %s", tt.name, got, tt.wantDate)
		}
	}
}

func TestSniffContent(t *testing.T) {
	data := []byte(`<SEC-HEADER>
CONFORMED SUBMISSION TYPE: 10-K
FILED AS OF DATE: 20030331
COMPANY CONFORMED NAME: APPLE COMPUTER INC
CENTRAL INDEX KEY: 320193
</SEC-HEADER>
body text follows`)

	var filing models.Filing
	SniffContent(data, &filing)

	if filing.CIK != "0000320193" {
		t.Errorf("CIK=%s", filing.CIK)
	}
	if filing.FormType != "10-K" {
		t.Errorf("form=%s", filing.FormType)
	}
	if filing.CompanyName != "APPLE COMPUTER INC" {
		t.Errorf("company=%q", filing.CompanyName)
	}
	if filing.FilingDate != time.Date(2003, 3, 31, 0, 0, 0, 0, time.UTC) {
		t.Errorf("date=%v", filing.FilingDate)
	}
}

func TestSniffContentKeepsExisting(t *testing.T) {
	filing := models.Filing{CIK: "0000000042", FormType: "10-K/A"}
	SniffContent([]byte("CENTRAL INDEX KEY: 320193\nCONFORMED SUBMISSION TYPE: 10-K\n"), &filing)

	if filing.CIK != "0000000042" || filing.FormType != "10-K/A" {
		t.Errorf("sniff overwrote entry-name metadata: %+v", filing)
	}
}
