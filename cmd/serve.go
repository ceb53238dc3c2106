package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/folio-web/folio/internal/admin"
	"github.com/folio-web/folio/internal/audit"
	"github.com/folio-web/folio/internal/render"
	"github.com/folio-web/folio/internal/server"
	"github.com/folio-web/folio/internal/session"
	"github.com/folio-web/folio/internal/site"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio page and the admin API",
	Long: `Starts the folio HTTP server: the public page at /, its live session socket,
the admin API under /api/admin and the audit log under /api/audit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reconciler, fileSource := a.reconciler()
		if fileSource != nil && cfg.Snapshot.Watch {
			if err := fileSource.Watch(ctx); err != nil {
				logger.Warn("snapshot watch disabled", zap.Error(err))
			}
			defer fileSource.Close()
		}

		renderer, err := render.NewRenderer(session.Path)
		if err != nil {
			return err
		}
		pages := site.New(reconciler, renderer, a.audit, logger)

		port := cfg.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		srv := server.New(server.Config{Port: port, AllowAll: cfg.CORS.AllowAll}, a.db, logger)
		srv.Register(
			pages,
			server.RouteFunc(func(r chi.Router) { admin.RegisterRoutes(r, a.editor) }),
			server.RouteFunc(func(r chi.Router) { audit.RegisterRoutes(r, a.audit) }),
		)
		srv.RegisterStreaming(session.NewHandler(pages.Dataset, logger))

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "folio %s serving on http://localhost:%d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Storage: %s (%s)\n", cfg.Storage.Driver, cfg.DataDir)
		switch {
		case cfg.Snapshot.URL != "":
			fmt.Fprintf(os.Stderr, "  Snapshot: %s\n", cfg.Snapshot.URL)
		case cfg.Snapshot.Path != "":
			fmt.Fprintf(os.Stderr, "  Snapshot: %s (watch=%v)\n", cfg.Snapshot.Path, cfg.Snapshot.Watch)
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
