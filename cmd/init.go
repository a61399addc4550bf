package cmd

import (
	"fmt"

	"github.com/nikogura/docx-tailor/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file",
	Long: `Create a starter config file at $HOME/.docx-tailor/config.json.

Edit the generated file to set your name, Anthropic API key, Google service
account credentials, sheet ID, and master template path.`,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	err = config.InitConfig(getConfigFile())
	if err != nil {
		return err
	}

	fmt.Println("Config created. Edit it before running 'docx-tailor tailor'.")
	return err
}
