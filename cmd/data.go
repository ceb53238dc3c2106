package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-web/folio/internal/render"
	"github.com/folio-web/folio/internal/session"
	"github.com/folio-web/folio/internal/site"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored content as a data.json document",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		data, err := a.editor.Export(cmd.Context(), cliActor())
		if err != nil {
			return err
		}
		if exportOut == "" || exportOut == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", exportOut, err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d bytes to %s\n", len(data), exportOut)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <data.json>",
	Short: "Load a data.json document into local storage",
	Long:  `Writes every field present in the document to local storage. Fields that are absent or null are left untouched.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fields, err := a.editor.Import(cmd.Context(), cliActor(), data)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Imported %s\n", strings.Join(fields, ", "))
		return nil
	},
}

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the page and data.json into a directory for static hosting",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		renderer, err := render.NewRenderer(session.Path)
		if err != nil {
			return err
		}
		reconciler, _ := a.reconciler()
		pages := site.New(reconciler, renderer, a.audit, logger)

		written, err := pages.WriteStatic(cmd.Context(), a.records, buildOut)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")
	buildCmd.Flags().StringVarP(&buildOut, "output", "o", "public", "output directory")
	rootCmd.AddCommand(exportCmd, importCmd, buildCmd)
}
