package cmd

import (
	"os"

	"github.com/nikogura/docx-tailor/pkg/codec"
	"github.com/nikogura/docx-tailor/pkg/docx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var decodeTemplate string

//nolint:gochecknoglobals // Cobra boilerplate
var decodeOut string

//nolint:gochecknoglobals // Cobra boilerplate
var decodeBestEffort bool

//nolint:gochecknoglobals // Cobra boilerplate
var decodeCmd = &cobra.Command{
	Use:   "decode <resume.txt>",
	Short: "Rebuild a Word resume from structured text",
	Long: `Rebuild a Word resume from structured text using a template document as
the formatting source.

Each section's content is rebuilt by cloning formatted paragraphs from the
template, so the output matches the template's formatting exactly. By
default every rebuilt paragraph is verified against its formatting donor and
any drift aborts the conversion; use --best-effort to keep going instead.

Example:
  docx-tailor decode tailored.txt --template master.docx --out tailored.docx`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringVar(&decodeTemplate, "template", "", "Template .docx providing the formatting (required)")
	decodeCmd.Flags().StringVar(&decodeOut, "out", "", "Output .docx path (required)")
	decodeCmd.Flags().BoolVar(&decodeBestEffort, "best-effort", false, "Keep going on formatting drift instead of aborting")
	_ = decodeCmd.MarkFlagRequired("template")
	_ = decodeCmd.MarkFlagRequired("out")
}

func runDecode(cmd *cobra.Command, args []string) (err error) {
	var data []byte
	data, err = os.ReadFile(args[0])
	if err != nil {
		err = errors.Wrapf(err, "failed to read structured text: %s", args[0])
		return err
	}

	var template *docx.Document
	template, err = docx.Open(decodeTemplate)
	if err != nil {
		return err
	}

	var out *docx.Document
	out, err = codec.Decode(string(data), template, !decodeBestEffort)
	if err != nil {
		return err
	}

	err = out.SaveAs(decodeOut)
	return err
}
