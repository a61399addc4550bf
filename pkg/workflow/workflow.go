// Package workflow orchestrates the tailoring pipeline: read job rows from
// the tracking sheet, extract keywords, rewrite the master resume for each
// job, rebuild a formatted document, upload it, and write links back to the
// sheet. Failures are per-job: one bad row never stops the batch.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nikogura/docx-tailor/pkg/codec"
	"github.com/nikogura/docx-tailor/pkg/docx"
	"github.com/nikogura/docx-tailor/pkg/llm"
	"github.com/nikogura/docx-tailor/pkg/sheets"
	"github.com/pkg/errors"
)

// LanguageModel is the content-generation surface the pipeline needs.
type LanguageModel interface {
	TailorResume(ctx context.Context, req llm.TailorRequest) (structuredText string, err error)
	GenerateCoverLetter(ctx context.Context, req llm.CoverLetterRequest) (letter string, err error)
}

// KeywordExtractor ranks the keywords of a job description. Split from
// LanguageModel so extraction can run on a cheaper model than generation.
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, jobDescription string) (keywords []llm.Keyword, err error)
}

// DescriptionFetcher retrieves job description text from a URL or file path.
type DescriptionFetcher interface {
	FetchWithContext(ctx context.Context, input string) (content string, err error)
}

// JobSheet is the tracking sheet surface the pipeline needs.
type JobSheet interface {
	FetchJobs(ctx context.Context, worksheet string) (table sheets.JobTable, err error)
	UpdateKeywords(ctx context.Context, worksheet string, table sheets.JobTable, rec sheets.JobRecord, keywords string) (err error)
	UpdateResumeLink(ctx context.Context, worksheet string, table sheets.JobTable, rec sheets.JobRecord, link string) (err error)
	UpdateCoverLetterLink(ctx context.Context, worksheet string, table sheets.JobTable, rec sheets.JobRecord, link string) (err error)
}

// Uploader stores a local file remotely and returns a shareable link.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (link string, err error)
}

// Tailor runs the tailoring pipeline. All collaborators are explicit so
// tests can substitute fakes.
type Tailor struct {
	Name         string
	TemplatePath string
	OutputDir    string
	Worksheet    string

	LLM      LanguageModel
	Keywords KeywordExtractor
	Sheet    JobSheet
	Drive    Uploader

	// JD fills in a job description from the row's posting URL when the
	// description cell is empty. Nil disables URL fetching; such rows are
	// skipped.
	JD DescriptionFetcher

	Strict            bool
	OverwriteKeywords bool
	CoverLetters      bool
	DryRun            bool
	Limit             int
}

// Summary reports what a batch run did.
type Summary struct {
	Processed int
	Generated int
	Skipped   int
	Failed    int
}

// Run executes the pipeline over every eligible job row.
func (t *Tailor) Run(ctx context.Context) (summary Summary, err error) {
	var template *docx.Document
	template, err = docx.Open(t.TemplatePath)
	if err != nil {
		err = errors.Wrap(err, "failed to open master template")
		return summary, err
	}

	var masterText string
	masterText, err = codec.Encode(template)
	if err != nil {
		err = errors.Wrap(err, "failed to encode master template")
		return summary, err
	}

	var table sheets.JobTable
	table, err = t.Sheet.FetchJobs(ctx, t.Worksheet)
	if err != nil {
		err = errors.Wrap(err, "failed to fetch job records")
		return summary, err
	}

	slog.Info("fetched job records", slog.Int("count", len(table.Records)), slog.Int("header_row", table.HeaderRow))

	for _, rec := range table.Records {
		if t.Limit > 0 && summary.Processed >= t.Limit {
			break
		}

		if rec.JobTitle == "" {
			summary.Skipped++
			continue
		}

		if strings.TrimSpace(rec.JobDescription) == "" && (t.JD == nil || rec.JobURL == "") {
			summary.Skipped++
			continue
		}

		if rec.ResumeLink != "" {
			slog.Info("skipping job, resume already exists",
				slog.String("job", rec.JobTitle), slog.String("link", rec.ResumeLink))
			summary.Skipped++
			continue
		}

		summary.Processed++

		if t.DryRun {
			slog.Info("dry run, would tailor resume",
				slog.String("job", rec.JobTitle), slog.String("company", rec.Company))
			continue
		}

		jobErr := t.processJob(ctx, template, masterText, table, rec)
		if jobErr != nil {
			slog.Error("job failed",
				slog.String("job", rec.JobTitle), slog.String("company", rec.Company),
				slog.Any("error", jobErr))
			summary.Failed++
			continue
		}

		summary.Generated++
	}

	slog.Info("batch complete",
		slog.Int("processed", summary.Processed),
		slog.Int("generated", summary.Generated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))

	return summary, err
}

// processJob runs the full pipeline for one job row.
func (t *Tailor) processJob(ctx context.Context, template *docx.Document, masterText string, table sheets.JobTable, rec sheets.JobRecord) (err error) {
	slog.Info("tailoring resume", slog.String("job", rec.JobTitle), slog.String("company", rec.Company))

	if strings.TrimSpace(rec.JobDescription) == "" {
		rec.JobDescription, err = t.JD.FetchWithContext(ctx, rec.JobURL)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch job description from %s", rec.JobURL)
			return err
		}
		slog.Info("fetched job description",
			slog.String("job", rec.JobTitle), slog.String("url", rec.JobURL))
	}

	var keywords []llm.Keyword
	keywords, err = t.ensureKeywords(ctx, table, rec)
	if err != nil {
		err = errors.Wrap(err, "keyword extraction failed")
		return err
	}

	var tailoredText string
	tailoredText, err = t.LLM.TailorResume(ctx, llm.TailorRequest{
		JobTitle:       rec.JobTitle,
		CompanyName:    rec.Company,
		JobDescription: rec.JobDescription,
		Keywords:       keywords,
		MasterText:     masterText,
	})
	if err != nil {
		err = errors.Wrap(err, "tailoring failed")
		return err
	}

	var out *docx.Document
	out, err = codec.Decode(tailoredText, template, t.Strict)
	if err != nil {
		err = errors.Wrap(err, "document rebuild failed")
		return err
	}

	outPath := filepath.Join(t.OutputDir, OutputFileName(t.Name, rec.Company, rec.JobTitle))
	err = out.SaveAs(outPath)
	if err != nil {
		err = errors.Wrap(err, "failed to save tailored resume")
		return err
	}

	var link string
	link, err = t.Drive.Upload(ctx, outPath)
	if err != nil {
		err = errors.Wrapf(err, "failed to upload resume: %s", outPath)
		return err
	}

	err = t.Sheet.UpdateResumeLink(ctx, t.Worksheet, table, rec, link)
	if err != nil {
		err = errors.Wrap(err, "failed to record resume link in sheet")
		return err
	}

	slog.Info("resume generated", slog.String("job", rec.JobTitle), slog.String("path", outPath), slog.String("link", link))

	if t.CoverLetters && rec.CoverLetter == "" && table.Column(sheets.ColCoverLetterVersion) != 0 {
		// Cover letter trouble should not fail an otherwise finished job.
		letterErr := t.generateCoverLetter(ctx, table, rec, keywords, tailoredText)
		if letterErr != nil {
			slog.Warn("cover letter generation failed",
				slog.String("job", rec.JobTitle), slog.Any("error", letterErr))
		}
	}

	return err
}

// ensureKeywords returns the ranked keywords for a job, extracting and
// recording them when the sheet has none (or when overwriting).
func (t *Tailor) ensureKeywords(ctx context.Context, table sheets.JobTable, rec sheets.JobRecord) (keywords []llm.Keyword, err error) {
	if rec.Keywords != "" && !t.OverwriteKeywords {
		keywords = ParseKeywords(rec.Keywords)
		return keywords, err
	}

	keywords, err = t.Keywords.ExtractKeywords(ctx, rec.JobDescription)
	if err != nil {
		return keywords, err
	}

	err = t.Sheet.UpdateKeywords(ctx, t.Worksheet, table, rec, FormatKeywords(keywords))
	if err != nil {
		err = errors.Wrap(err, "failed to record keywords in sheet")
		return keywords, err
	}

	return keywords, err
}

// generateCoverLetter produces, saves, uploads, and records a cover letter.
func (t *Tailor) generateCoverLetter(ctx context.Context, table sheets.JobTable, rec sheets.JobRecord, keywords []llm.Keyword, resumeText string) (err error) {
	var letter string
	letter, err = t.LLM.GenerateCoverLetter(ctx, llm.CoverLetterRequest{
		Name:           t.Name,
		CompanyName:    rec.Company,
		JobTitle:       rec.JobTitle,
		JobDescription: rec.JobDescription,
		Keywords:       keywords,
		ResumeText:     resumeText,
	})
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(OutputFileName(t.Name, rec.Company, rec.JobTitle), ".docx")
	letterPath := filepath.Join(t.OutputDir, base+"_cover_letter.txt")
	err = os.WriteFile(letterPath, []byte(letter), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to save cover letter: %s", letterPath)
		return err
	}

	var link string
	link, err = t.Drive.Upload(ctx, letterPath)
	if err != nil {
		err = errors.Wrapf(err, "failed to upload cover letter: %s", letterPath)
		return err
	}

	err = t.Sheet.UpdateCoverLetterLink(ctx, t.Worksheet, table, rec, link)
	if err != nil {
		err = errors.Wrap(err, "failed to record cover letter link in sheet")
		return err
	}

	slog.Info("cover letter generated", slog.String("job", rec.JobTitle), slog.String("link", link))
	return err
}

//nolint:gochecknoglobals // Compiled once
var (
	unsafeChars   = regexp.MustCompile(`[^\w\s-]`)
	spacesHyphens = regexp.MustCompile(`[-\s]+`)
)

// OutputFileName builds the Name_company_role.docx filename for one job.
func OutputFileName(name, company, jobTitle string) (filename string) {
	if company == "" {
		company = "company"
	}
	filename = fmt.Sprintf("%s_%s_%s.docx", sanitizePart(name), strings.ToLower(sanitizePart(company)), strings.ToLower(sanitizePart(jobTitle)))
	return filename
}

// sanitizePart strips punctuation and joins words with underscores.
func sanitizePart(s string) (part string) {
	part = unsafeChars.ReplaceAllString(s, "")
	part = strings.TrimSpace(part)
	part = spacesHyphens.ReplaceAllString(part, "_")
	return part
}

// FormatKeywords renders ranked keywords as the comma-separated string
// stored in the sheet, in rank order.
func FormatKeywords(keywords []llm.Keyword) (s string) {
	terms := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		terms = append(terms, kw.Term)
	}
	s = strings.Join(terms, ", ")
	return s
}

// ParseKeywords reads a comma-separated keyword string back into ranked
// keywords, ranked by position.
func ParseKeywords(s string) (keywords []llm.Keyword) {
	for _, term := range strings.Split(s, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		keywords = append(keywords, llm.Keyword{Term: term, Rank: len(keywords) + 1})
	}
	return keywords
}
