package sheets

import (
	"testing"
)

func TestParseJobTable(t *testing.T) {
	values := [][]string{
		{"Job tracker", ""},
		{"", ""},
		{"Job Title", "Company Name", "Job Description (raw)", "Keywords extracted", "Resume version [link]", "Cover letter version"},
		{"Platform Engineer", "Acme", "Build platforms", "", "", ""},
		{"", "", "", "", "", ""},
		{"SRE", "Globex", "Keep sites up", "go, kubernetes", "https://drive.google.com/file/d/abc/view", ""},
	}

	table, err := parseJobTable(values)
	if err != nil {
		t.Fatalf("parseJobTable failed: %v", err)
	}

	if table.HeaderRow != 3 {
		t.Errorf("Expected header row 3, got %d", table.HeaderRow)
	}

	if len(table.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(table.Records))
	}

	first := table.Records[0]
	if first.Row != 4 {
		t.Errorf("Expected first record at row 4, got %d", first.Row)
	}
	if first.JobTitle != "Platform Engineer" {
		t.Errorf("Expected job title Platform Engineer, got %q", first.JobTitle)
	}
	if first.Company != "Acme" {
		t.Errorf("Expected company Acme, got %q", first.Company)
	}
	if first.JobDescription != "Build platforms" {
		t.Errorf("Expected job description, got %q", first.JobDescription)
	}

	second := table.Records[1]
	if second.Row != 6 {
		t.Errorf("Expected second record at row 6, got %d", second.Row)
	}
	if second.Keywords != "go, kubernetes" {
		t.Errorf("Expected keywords preserved, got %q", second.Keywords)
	}
	if second.ResumeLink == "" {
		t.Error("Expected resume link preserved")
	}
}

func TestParseJobTableColumnPositions(t *testing.T) {
	values := [][]string{
		{"Job Title", "Job Description (raw)", "Keywords extracted", "Resume version [link]"},
		{"Engineer", "desc", "", ""},
	}

	table, err := parseJobTable(values)
	if err != nil {
		t.Fatalf("parseJobTable failed: %v", err)
	}

	if table.Column(ColKeywords) != 3 {
		t.Errorf("Expected keywords column 3, got %d", table.Column(ColKeywords))
	}
	if table.Column(ColResumeLink) != 4 {
		t.Errorf("Expected resume link column 4, got %d", table.Column(ColResumeLink))
	}
	if table.Column(ColCoverLetterVersion) != 0 {
		t.Errorf("Expected missing cover letter column, got %d", table.Column(ColCoverLetterVersion))
	}
}

func TestParseJobTableHeaderFallback(t *testing.T) {
	// No detectable header pair: row 1 is used as the header.
	values := [][]string{
		{"Job Title", "Keywords extracted", "Resume version [link]"},
		{"Engineer", "", ""},
	}

	table, err := parseJobTable(values)
	if err != nil {
		t.Fatalf("parseJobTable failed: %v", err)
	}

	if table.HeaderRow != 1 {
		t.Errorf("Expected fallback header row 1, got %d", table.HeaderRow)
	}
	if len(table.Records) != 1 {
		t.Errorf("Expected 1 record, got %d", len(table.Records))
	}
}

func TestParseJobTableMissingRequiredColumns(t *testing.T) {
	values := [][]string{
		{"Job Title", "Job Description (raw)"},
		{"Engineer", "desc"},
	}

	_, err := parseJobTable(values)
	if err == nil {
		t.Error("Expected error for missing keywords column, got nil")
	}
}

func TestParseJobTableEmpty(t *testing.T) {
	_, err := parseJobTable(nil)
	if err == nil {
		t.Error("Expected error for empty sheet, got nil")
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Job Title", "JOBTITLE"},
		{"  job_title  ", "JOBTITLE"},
		{"Resume version [link]", "RESUMEVERSIONLINK"},
		{"Keywords extracted", "KEYWORDSEXTRACTED"},
		{"", ""},
	}

	for _, tt := range tests {
		got := normalizeHeader(tt.in)
		if got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
	}

	for _, tt := range tests {
		got := columnLetter(tt.col)
		if got != tt.want {
			t.Errorf("columnLetter(%d) = %q, want %q", tt.col, got, tt.want)
		}
	}
}
