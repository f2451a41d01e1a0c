package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/OCAP2/roundengine/internal/config"
	"github.com/OCAP2/roundengine/internal/database"
	"github.com/OCAP2/roundengine/internal/influx"
	"github.com/OCAP2/roundengine/internal/storage"
	"github.com/OCAP2/roundengine/internal/storage/gormstore"
	"github.com/OCAP2/roundengine/internal/storage/memory"
	sqlitestorage "github.com/OCAP2/roundengine/internal/storage/sqlite"
	wsstorage "github.com/OCAP2/roundengine/internal/storage/websocket"
)

// pendingReporter is implemented by the backends that queue writes.
type pendingReporter interface {
	Pending() int
}

func initStorage(storageCfg config.StorageConfig, dbLog zerolog.Logger) (storage.Backend, error) {
	backend, err := createStorageBackend(storageCfg, dbLog)
	if err != nil {
		Logger.Error("Failed to create storage backend", "error", err)
		return nil, err
	}
	if err := backend.Init(); err != nil {
		Logger.Error("Failed to initialize storage backend", "type", storageCfg.Type, "error", err)
		return nil, err
	}
	return backend, nil
}

func createStorageBackend(storageCfg config.StorageConfig, dbLog zerolog.Logger) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		db, err := database.OpenPostgres(config.GetDBConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		Logger.Info("Postgres storage backend initialized")
		return gormstore.New(gormstore.Dependencies{
			DB:       db,
			Logger:   Logger,
			DBLogger: dbLog,
		}), nil

	case "sqlite":
		backend, err := sqlitestorage.New(storageCfg.SQLite, Logger, dbLog)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		Logger.Info("SQLite storage backend initialized", "outputDir", storageCfg.SQLite.OutputDir)
		return backend, nil

	case "websocket":
		Logger.Info("WebSocket storage backend initialized", "url", storageCfg.WebSocket.URL)
		return wsstorage.New(storageCfg.WebSocket, Logger), nil

	case "memory", "":
		Logger.Info("Memory storage backend initialized", "outputDir", storageCfg.Memory.OutputDir)
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}

// initInflux returns nil when heat telemetry is disabled.
func initInflux(ctx context.Context, logsDir string, log zerolog.Logger) *influx.Manager {
	backup := filepath.Join(logsDir, fmt.Sprintf("%s_influx_%s.lp.gz", AppName, SessionStartTime.Format("20060102_150405")))
	m := influx.NewManager(config.GetInfluxConfig(), log, backup)
	if err := m.Connect(ctx); err != nil {
		if !errors.Is(err, influx.ErrDisabled) {
			Logger.Error("Failed to connect to InfluxDB", "error", err)
		}
		return nil
	}
	return m
}
