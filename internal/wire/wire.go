// Package wire provides dependency injection for the covmeter application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/covmeter/internal/adapters/filesystem"
	"github.com/example/covmeter/internal/adapters/logging"
	"github.com/example/covmeter/internal/adapters/sqlite"
	"github.com/example/covmeter/internal/app"
	"github.com/example/covmeter/internal/config"
	"github.com/example/covmeter/internal/db"
	"github.com/example/covmeter/internal/ports/primary"
	"github.com/example/covmeter/internal/ports/secondary"
)

var (
	cfg            *config.Config
	logger         secondary.Logger
	measureService primary.MeasureService
	once           sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the singleton Logger instance.
func Logger() secondary.Logger {
	once.Do(initServices)
	return logger
}

// MeasureService returns the singleton MeasureService instance.
func MeasureService() primary.MeasureService {
	once.Do(initServices)
	return measureService
}

// Sync flushes buffered log output if a logger was initialized. It does not
// trigger initialization itself, so commands that never touched the services
// can call it unconditionally on exit.
func Sync() {
	if zl, ok := logger.(*logging.ZapLogger); ok {
		_ = zl.Sync()
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	cfg, err = config.Load(cwd)
	if err != nil {
		log.Fatalf("no covmeter configuration found, run 'covmeter init' first: %v", err)
	}

	zapLogger, err := logging.NewZapLogger()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	logger = zapLogger

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	receiptRepo := sqlite.NewReceiptRepository(database)

	fs, err := buildFilestore(database)
	if err != nil {
		log.Fatalf("failed to initialize filestore: %v", err)
	}

	reportDir := cfg.ReportDir
	if reportDir == "" {
		reportDir = filepath.Join(cwd, ".covmeter", "reports")
	}

	measureService = app.NewMeasureService(fs, receiptRepo, logger, reportDir, cfg.StateDir)
}

// buildFilestore selects the filestore backend from configuration. The dir
// backend is rooted under the experiment name so concurrent experiments on
// one machine do not collide.
func buildFilestore(database *sql.DB) (secondary.Filestore, error) {
	if cfg.Filestore == config.FilestoreSQLite {
		return sqlite.NewFilestore(database), nil
	}

	root := cfg.FilestoreRoot
	if root == "" {
		var err error
		root, err = config.DefaultFilestoreRoot()
		if err != nil {
			return nil, err
		}
	}
	return filesystem.NewFilestore(filepath.Join(root, cfg.Experiment))
}
