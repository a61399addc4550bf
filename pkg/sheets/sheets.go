// Package sheets reads the job tracking spreadsheet and writes tailoring
// results back to it. The sheet layout is user-maintained, so the header row
// is detected rather than assumed and column names are normalized to a
// canonical vocabulary.
package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/nikogura/docx-tailor/pkg/backoff"
	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// headerScanRows is how many leading rows are scanned for the header row.
const headerScanRows = 10

// Canonical column names used throughout the pipeline.
const (
	ColJobTitle           = "JOB_TITLE"
	ColCompany            = "COMPANY"
	ColJobURL             = "JOB_URL"
	ColJobDescription     = "JOB_DESCRIPTION"
	ColKeywords           = "KEYWORDS"
	ColResumeLink         = "RESUME_LINK"
	ColCoverLetterVersion = "COVER_LETTER_VERSION"
	ColTailoringStatus    = "TAILORING_STATUS"
)

// columnMapping translates normalized header cells to canonical names.
// Headers not listed here keep their trimmed raw text.
//
//nolint:gochecknoglobals // Static lookup table
var columnMapping = map[string]string{
	"JOBID":                   "JOB_ID",
	"JOBTITLE":                ColJobTitle,
	"COMPANYNAME":             ColCompany,
	"LOCATION":                "LOCATION",
	"EXPERIENCELEVEL":         "EXPERIENCE_LEVEL",
	"SPONSORSHIP":             "SPONSORSHIP",
	"POSTINGURL":              ColJobURL,
	"POSTEDDATE":              "POSTED_DATE",
	"JOBDESCRIPTIONRAW":       ColJobDescription,
	"KEYWORDSEXTRACTED":       ColKeywords,
	"RESUMEVERSIONLINK":       ColResumeLink,
	"COVERLETTERVERSION":      ColCoverLetterVersion,
	"TAILORINGSTATUS":         ColTailoringStatus,
	"PRIORITYSCORE":           "PRIORITY_SCORE",
	"CONFIDENCESCORE":         "CONFIDENCE_SCORE",
	"CONTACTNAMECONTACTEMAIL": "CONTACT_INFO",
	"FOLLOWUPDATE":            "FOLLOW_UP_DATE",
	"APPLICATIONCOUNT":        "APPLICATION_COUNT",
	"WORKTYPE":                "WORK_TYPE",
	"CONTACTURL":              "CONTACT_URL",
}

//nolint:gochecknoglobals // Compiled once
var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)

// normalizeHeader strips everything but letters and digits and uppercases,
// so "Job Title", "job_title", and "Job title:" all compare equal.
func normalizeHeader(s string) (norm string) {
	norm = nonAlphanumeric.ReplaceAllString(strings.ToUpper(strings.TrimSpace(s)), "")
	return norm
}

// JobRecord is one job posting row from the tracking sheet. Row is the
// 1-based sheet row number so write-backs target the right cell even when
// rows were skipped.
type JobRecord struct {
	Row            int
	JobTitle       string
	Company        string
	JobURL         string
	JobDescription string
	Keywords       string
	ResumeLink     string
	CoverLetter    string
	Fields         map[string]string
}

// JobTable is the parsed tracking sheet: the detected header row, canonical
// column positions (1-based), and one record per non-empty job row.
type JobTable struct {
	HeaderRow int
	Columns   map[string]int
	Records   []JobRecord
}

// Column returns the 1-based column index for a canonical name, or 0 when
// the sheet has no such column.
func (t *JobTable) Column(name string) (col int) {
	col = t.Columns[name]
	return col
}

// parseJobTable builds a JobTable from raw cell values. The header row is
// detected by looking for a title-ish and a description-ish column within
// the first few rows; rows with no job title are skipped.
func parseJobTable(values [][]string) (table JobTable, err error) {
	table.Columns = map[string]int{}

	if len(values) == 0 {
		err = errors.New("worksheet has no values")
		return table, err
	}

	headerIdx := -1
	limit := len(values)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for r := 0; r < limit; r++ {
		var hasTitle, hasDescription bool
		for _, cell := range values[r] {
			switch normalizeHeader(cell) {
			case "JOBTITLE", "TITLE", "ROLE", "POSITION":
				hasTitle = true
			case "JOBDESCRIPTION", "DESCRIPTION", "JD", "JOBDESCRIPTIONRAW":
				hasDescription = true
			}
		}
		if hasTitle && hasDescription {
			headerIdx = r
			break
		}
	}
	if headerIdx < 0 {
		// Fall back to treating row 1 as the header.
		headerIdx = 0
	}
	table.HeaderRow = headerIdx + 1

	// Map each column position to its canonical name.
	headerCells := values[headerIdx]
	names := make([]string, len(headerCells))
	for c, cell := range headerCells {
		name := strings.TrimSpace(cell)
		if canonical, ok := columnMapping[normalizeHeader(cell)]; ok {
			name = canonical
		}
		names[c] = name
		if name != "" {
			if _, taken := table.Columns[name]; !taken {
				table.Columns[name] = c + 1
			}
		}
	}

	if table.Column(ColKeywords) == 0 {
		err = errors.New("required 'Keywords extracted' column not found in sheet")
		return table, err
	}
	if table.Column(ColResumeLink) == 0 {
		err = errors.New("required 'Resume version [link]' column not found in sheet")
		return table, err
	}

	for r := headerIdx + 1; r < len(values); r++ {
		row := values[r]
		rec := JobRecord{
			Row:    r + 1,
			Fields: map[string]string{},
		}
		for c, cell := range row {
			if c >= len(names) || names[c] == "" {
				continue
			}
			rec.Fields[names[c]] = cell
		}
		rec.JobTitle = strings.TrimSpace(rec.Fields[ColJobTitle])
		if rec.JobTitle == "" {
			continue
		}
		rec.Company = strings.TrimSpace(rec.Fields[ColCompany])
		rec.JobURL = strings.TrimSpace(rec.Fields[ColJobURL])
		rec.JobDescription = rec.Fields[ColJobDescription]
		rec.Keywords = strings.TrimSpace(rec.Fields[ColKeywords])
		rec.ResumeLink = strings.TrimSpace(rec.Fields[ColResumeLink])
		rec.CoverLetter = strings.TrimSpace(rec.Fields[ColCoverLetterVersion])

		table.Records = append(table.Records, rec)
	}

	return table, err
}

// Client wraps the Sheets API with rate limiting and retry.
type Client struct {
	svc     *sheets.Service
	sheetID string
	limiter *rate.Limiter
	retry   backoff.Config
}

// NewClient creates a Sheets client authenticated with a service account
// credentials file. Credentials are validated up front so a bad file fails
// here instead of on the first API call.
func NewClient(ctx context.Context, credentialsFile, sheetID string) (client *Client, err error) {
	var data []byte
	data, err = os.ReadFile(credentialsFile) //nolint:gosec // Path comes from user config
	if err != nil {
		err = errors.Wrapf(err, "failed to read credentials file: %s", credentialsFile)
		return client, err
	}

	var creds *google.Credentials
	creds, err = google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		err = errors.Wrapf(err, "invalid Google credentials: %s", credentialsFile)
		return client, err
	}

	var svc *sheets.Service
	svc, err = sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		err = errors.Wrap(err, "failed to create sheets service")
		return client, err
	}

	client = &Client{
		svc:     svc,
		sheetID: sheetID,
		// Sheets API quota is 60 requests per minute per user.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		retry:   backoff.DefaultConfig,
	}
	return client, err
}

// FetchJobs reads the worksheet and parses it into job records.
func (c *Client) FetchJobs(ctx context.Context, worksheet string) (table JobTable, err error) {
	err = c.limiter.Wait(ctx)
	if err != nil {
		return table, err
	}

	var resp *sheets.ValueRange
	resp, err = backoff.Do(ctx, c.retry, func() (vr *sheets.ValueRange, getErr error) {
		vr, getErr = c.svc.Spreadsheets.Values.Get(c.sheetID, worksheet).Context(ctx).Do()
		return vr, getErr
	})
	if err != nil {
		err = errors.Wrapf(err, "failed to read worksheet %s", worksheet)
		return table, err
	}

	values := make([][]string, len(resp.Values))
	for r, row := range resp.Values {
		cells := make([]string, len(row))
		for c, v := range row {
			cells[c] = fmt.Sprintf("%v", v)
		}
		values[r] = cells
	}

	table, err = parseJobTable(values)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse worksheet %s", worksheet)
		return table, err
	}

	return table, err
}

// UpdateCell writes a single cell identified by 1-based row and column.
func (c *Client) UpdateCell(ctx context.Context, worksheet string, row, col int, value string) (err error) {
	if row < 1 || col < 1 {
		err = errors.Errorf("invalid cell coordinates row=%d col=%d", row, col)
		return err
	}

	err = c.limiter.Wait(ctx)
	if err != nil {
		return err
	}

	cellRange := fmt.Sprintf("%s!%s%d", worksheet, columnLetter(col), row)
	body := &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}

	_, err = backoff.Do(ctx, c.retry, func() (resp *sheets.UpdateValuesResponse, updErr error) {
		resp, updErr = c.svc.Spreadsheets.Values.Update(c.sheetID, cellRange, body).
			ValueInputOption("RAW").Context(ctx).Do()
		return resp, updErr
	})
	if err != nil {
		err = errors.Wrapf(err, "failed to update cell %s", cellRange)
		return err
	}

	return err
}

// UpdateKeywords writes the extracted keywords string for one job row.
func (c *Client) UpdateKeywords(ctx context.Context, worksheet string, table JobTable, rec JobRecord, keywords string) (err error) {
	err = c.UpdateCell(ctx, worksheet, rec.Row, table.Column(ColKeywords), keywords)
	return err
}

// UpdateResumeLink writes the tailored resume link for one job row.
func (c *Client) UpdateResumeLink(ctx context.Context, worksheet string, table JobTable, rec JobRecord, link string) (err error) {
	err = c.UpdateCell(ctx, worksheet, rec.Row, table.Column(ColResumeLink), link)
	return err
}

// UpdateCoverLetterLink writes the cover letter link for one job row. The
// column is optional; a missing column is reported as an error so the caller
// can decide to skip.
func (c *Client) UpdateCoverLetterLink(ctx context.Context, worksheet string, table JobTable, rec JobRecord, link string) (err error) {
	col := table.Column(ColCoverLetterVersion)
	if col == 0 {
		err = errors.New("sheet has no cover letter column")
		return err
	}
	err = c.UpdateCell(ctx, worksheet, rec.Row, col, link)
	return err
}

// columnLetter converts a 1-based column index to A1 notation letters.
func columnLetter(col int) (letters string) {
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
