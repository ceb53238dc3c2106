package cmd

import (
	"github.com/spf13/cobra"

	"github.com/folio-web/folio/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .folio.yml with an interactive wizard",
	Long:  `Asks where admin edits are stored, where the published data.json lives and which port to serve on, then writes .folio.yml.`,
	// The wizard runs before any config exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
