package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/folio-web/folio/internal/imagecheck"
	"github.com/folio-web/folio/internal/progress"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Inspect the images the site references",
}

var imagesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report remote images that no longer load",
	Long: `Reconciles the dataset the page would show, then probes every remote image
source (project thumbnails, gallery images, hero slideshow). Inline data URIs are
not checked. Exits non-zero when any image is unreachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		reconciler, _ := a.reconciler()
		res, err := reconciler.Load(cmd.Context())
		if err != nil {
			return err
		}
		if res.SnapshotErr != nil {
			logger.Warn("checking stored images only", zap.Error(res.SnapshotErr))
		}

		urls := imagecheck.Remote(imagecheck.Sources(res.Dataset))
		if len(urls) == 0 {
			fmt.Println("No remote images to check.")
			return nil
		}

		reporter := progress.NewReporter(os.Stderr)
		reporter.Start(len(urls), "Checking images")
		checker := imagecheck.New(cfg.Images.Concurrency, cfg.Images.Timeout)
		checker.OnDone = func(r imagecheck.Result) { reporter.Step(r.URL) }
		failed, err := checker.Check(cmd.Context(), urls)
		reporter.Finish()
		if err != nil {
			return err
		}

		if len(failed) == 0 {
			fmt.Printf("All %d image(s) reachable.\n", len(urls))
			return nil
		}
		for _, r := range failed {
			if r.Err != "" {
				fmt.Printf("  %s: %s\n", r.URL, r.Err)
			} else {
				fmt.Printf("  %s: HTTP %d\n", r.URL, r.Status)
			}
		}
		return fmt.Errorf("%d of %d image(s) unreachable", len(failed), len(urls))
	},
}

func init() {
	imagesCmd.AddCommand(imagesCheckCmd)
	rootCmd.AddCommand(imagesCmd)
}
