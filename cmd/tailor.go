package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/nikogura/docx-tailor/pkg/config"
	"github.com/nikogura/docx-tailor/pkg/drive"
	"github.com/nikogura/docx-tailor/pkg/jd"
	"github.com/nikogura/docx-tailor/pkg/llm"
	"github.com/nikogura/docx-tailor/pkg/sheets"
	"github.com/nikogura/docx-tailor/pkg/workflow"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var worksheet string

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var overwriteKeywords bool

//nolint:gochecknoglobals // Cobra boilerplate
var coverLetters bool

//nolint:gochecknoglobals // Cobra boilerplate
var dryRun bool

//nolint:gochecknoglobals // Cobra boilerplate
var bestEffort bool

//nolint:gochecknoglobals // Cobra boilerplate
var limit int

//nolint:gochecknoglobals // Cobra boilerplate
var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor the master resume for every open job in the tracking sheet",
	Long: `Tailor the master resume for every job row in the tracking sheet that
has no resume link yet.

For each job: keywords are extracted from the job description (reused from
the sheet when already present), the master resume text is rewritten by
Claude, the document is rebuilt from the master template with its formatting
intact, uploaded to Google Drive, and the share link is written back to the
sheet.

Example:
  docx-tailor tailor
  docx-tailor tailor --worksheet "Jobs" --limit 5
  docx-tailor tailor --dry-run
  docx-tailor tailor --cover-letters --overwrite-keywords`,
	RunE: runTailor,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(tailorCmd)
	tailorCmd.Flags().StringVar(&worksheet, "worksheet", "", "Worksheet name (default from config)")
	tailorCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	tailorCmd.Flags().BoolVar(&overwriteKeywords, "overwrite-keywords", false, "Re-extract keywords even when the sheet already has them")
	tailorCmd.Flags().BoolVar(&coverLetters, "cover-letters", false, "Also generate and upload cover letters")
	tailorCmd.Flags().BoolVar(&dryRun, "dry-run", false, "List jobs that would be processed without calling any APIs")
	tailorCmd.Flags().BoolVar(&bestEffort, "best-effort", false, "Keep going on formatting drift instead of aborting the document")
	tailorCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of jobs to process (0 = no limit)")
}

func runTailor(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		return err
	}

	ws := worksheet
	if ws == "" {
		ws = cfg.Worksheet
	}
	outDir := outputDir
	if outDir == "" {
		outDir = cfg.Defaults.OutputDir
	}

	var sheetClient *sheets.Client
	sheetClient, err = sheets.NewClient(ctx, cfg.GoogleCredentialsFile, cfg.SheetID)
	if err != nil {
		err = errors.Wrap(err, "failed to connect to Google Sheets")
		return err
	}

	var driveClient *drive.Client
	driveClient, err = drive.NewClient(ctx, cfg.GoogleCredentialsFile, cfg.DriveFolderID)
	if err != nil {
		err = errors.Wrap(err, "failed to connect to Google Drive")
		return err
	}

	tailor := &workflow.Tailor{
		Name:              cfg.Name,
		TemplatePath:      cfg.TemplatePath,
		OutputDir:         outDir,
		Worksheet:         ws,
		LLM:               llm.NewClient(cfg.AnthropicAPIKey, cfg.GetGenerationModel()),
		Keywords:          llm.NewClient(cfg.AnthropicAPIKey, cfg.GetKeywordsModel()),
		Sheet:             sheetClient,
		Drive:             driveClient,
		JD:                &jd.Fetcher{},
		Strict:            !bestEffort,
		OverwriteKeywords: overwriteKeywords,
		CoverLetters:      coverLetters,
		DryRun:            dryRun,
		Limit:             limit,
	}

	var summary workflow.Summary
	summary, err = tailor.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d jobs: %d generated, %d skipped, %d failed\n",
		summary.Processed, summary.Generated, summary.Skipped, summary.Failed)

	if summary.Failed > 0 {
		err = errors.Errorf("%d jobs failed", summary.Failed)
		return err
	}

	return err
}
