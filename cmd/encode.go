package cmd

import (
	"fmt"
	"os"

	"github.com/nikogura/docx-tailor/pkg/codec"
	"github.com/nikogura/docx-tailor/pkg/docx"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var encodeOut string

//nolint:gochecknoglobals // Cobra boilerplate
var encodeCmd = &cobra.Command{
	Use:   "encode <resume.docx>",
	Short: "Convert a Word resume to structured text",
	Long: `Convert a Word resume to the structured text format used for tailoring.

Recognized ALL-CAPS section headers become ===SECTION=== markers; everything
before the first recognized header becomes the ===HEADER=== section. The
output is plain text suitable for editing or feeding to a language model.

Example:
  docx-tailor encode resume.docx
  docx-tailor encode resume.docx --out resume.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringVar(&encodeOut, "out", "", "Output file (default stdout)")
}

func runEncode(cmd *cobra.Command, args []string) (err error) {
	var doc *docx.Document
	doc, err = docx.Open(args[0])
	if err != nil {
		return err
	}

	var text string
	text, err = codec.Encode(doc)
	if err != nil {
		return err
	}

	if encodeOut == "" {
		fmt.Println(text)
		return err
	}

	err = os.WriteFile(encodeOut, []byte(text), 0600)
	return err
}
