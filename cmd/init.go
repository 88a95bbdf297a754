package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dcamposl/ragdocs/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ragdocs configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure ragdocs and generates a .ragdocs.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
