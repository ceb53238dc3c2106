package cmd

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/folio-web/folio/internal/admin"
	"github.com/folio-web/folio/internal/audit"
	"github.com/folio-web/folio/internal/config"
	"github.com/folio-web/folio/internal/db"
	"github.com/folio-web/folio/internal/gallery"
	"github.com/folio-web/folio/internal/portfolio"
	"github.com/folio-web/folio/internal/snapshot"
	"github.com/folio-web/folio/internal/storage"
)

// app holds the stores every command works against. The SQLite database is
// always opened since the audit trail lives there whatever the storage
// driver.
type app struct {
	db      *db.DB
	kv      storage.KV
	records *storage.Records
	audit   *audit.Store
	editor  *admin.Editor
}

func openApp() (*app, error) {
	var (
		database *db.DB
		err      error
	)
	if cfg.Storage.Driver == config.StorageMemory {
		database, err = db.OpenMemory()
	} else {
		database, err = db.Open(filepath.Join(cfg.DataDir, "folio.db"))
	}
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	var kv storage.KV
	if cfg.Storage.Driver == config.StorageSQLite {
		kv = storage.NewSQLiteKV(database)
	} else if kv, err = storage.Open(string(cfg.Storage.Driver), cfg.DataDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	records := storage.NewRecords(kv, logger)
	auditStore := audit.NewStore(database)
	return &app{
		db:      database,
		kv:      kv,
		records: records,
		audit:   auditStore,
		editor:  admin.NewEditor(records, gallery.NewModel(records, logger), auditStore, logger),
	}, nil
}

func (a *app) Close() {
	if _, shared := a.kv.(*storage.SQLiteKV); !shared {
		if err := a.kv.Close(); err != nil {
			logger.Warn("closing storage", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		logger.Warn("closing database", zap.Error(err))
	}
}

// snapshotSource builds the configured data.json source. A URL wins over a
// path. The returned FileSource is nil unless a path is used.
func snapshotSource() (snapshot.Source, *snapshot.FileSource) {
	switch {
	case cfg.Snapshot.URL != "":
		return snapshot.NewHTTPSource(cfg.Snapshot.URL, &http.Client{Timeout: cfg.Snapshot.Timeout}), nil
	case cfg.Snapshot.Path != "":
		fs := snapshot.NewFileSource(cfg.Snapshot.Path, logger)
		return fs, fs
	}
	return nil, nil
}

func (a *app) reconciler() (*snapshot.Reconciler, *snapshot.FileSource) {
	src, fs := snapshotSource()
	r := snapshot.NewReconciler(src, a.records, logger).
		WithTimeout(cfg.Snapshot.Timeout).
		WithContactDefaults(portfolio.Contact{Email: cfg.ContactDefaults.Email, Phone: cfg.ContactDefaults.Phone})
	return r, fs
}

// cliActor attributes CLI changes to the local operator.
func cliActor() admin.Actor {
	return admin.Actor{Type: audit.ActorCLI, ID: "cli"}
}

// promptConfirmer asks on the terminal unless yes is set.
func promptConfirmer(yes bool) gallery.Confirmer {
	if yes {
		return gallery.Always
	}
	return gallery.ConfirmFunc(func(question string) bool {
		p := promptui.Prompt{
			Label:     question,
			IsConfirm: true,
		}
		_, err := p.Run()
		return err == nil
	})
}
