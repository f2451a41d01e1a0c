// Command roundengine loads a scenario and plays it headless, recording the
// game to the configured storage backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/OCAP2/roundengine/internal/api"
	"github.com/OCAP2/roundengine/internal/config"
	"github.com/OCAP2/roundengine/internal/dispatcher"
	"github.com/OCAP2/roundengine/internal/handlers"
	"github.com/OCAP2/roundengine/internal/logging"
	"github.com/OCAP2/roundengine/internal/monitor"
	intOtel "github.com/OCAP2/roundengine/internal/otel"
	"github.com/OCAP2/roundengine/internal/scenario"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion = "0.0.1"
	BuildDate      = "unknown"

	AppName = "roundengine"
)

var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	SessionStartTime = time.Now()
)

func main() {
	var (
		configDir    string
		scenarioPath string
		rounds       int
		statusDir    string
	)
	flag.StringVar(&configDir, "config", ".", "directory containing "+config.FileName)
	flag.StringVar(&scenarioPath, "scenario", "", "scenario YAML file to play (required)")
	flag.IntVar(&rounds, "rounds", 0, "stop after this many rounds (0 = play to the end)")
	flag.StringVar(&statusDir, "status-dir", "", "write "+monitor.StatusFileName+" here while running")
	flag.Parse()

	if scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -scenario is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, scenarioPath, configDir, rounds, statusDir)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, scenarioPath, configDir string, rounds int, statusDir string) int {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(logging.Options{Level: "info"})
	Logger = SlogManager.Logger()

	if err := config.Load(configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config", "path", viper.ConfigFileUsed())
	}

	position := &logging.Position{}
	logFile, dbLog, closeLogs := setupLogging(position)
	defer closeLogs()
	Logger.Info("Starting up...", "version", CurrentVersion, "build", BuildDate)

	scn, err := scenario.Load(scenarioPath)
	if err != nil {
		Logger.Error("Failed to load scenario", "error", err)
		return 1
	}

	storageCfg := config.GetStorageConfig()
	backend, err := initStorage(storageCfg, dbLog)
	if err != nil {
		return 1
	}
	defer func() {
		if err := backend.Close(); err != nil {
			Logger.Error("Failed to close storage backend", "error", err)
		}
	}()

	deps := handlers.Dependencies{
		Backend:  backend,
		Logger:   Logger,
		Rules:    config.GetRulesConfig(),
		Position: position,
	}
	if p, ok := backend.(pendingReporter); ok {
		deps.Pending = p.Pending
	}
	if m := initInflux(ctx, viper.GetString("logsDir"), dbLog); m != nil {
		deps.Telemetry = m
		defer func() {
			if err := m.Close(); err != nil {
				Logger.Error("Failed to close InfluxDB", "error", err)
			}
		}()
	}
	if key := viper.GetString("api.apiKey"); key != "" {
		deps.Uploader = api.New(viper.GetString("api.serverUrl"), key)
	}

	svc := handlers.NewService(deps)
	mgr, err := svc.StartGame(scn)
	if err != nil {
		Logger.Error("Failed to start game", "error", err)
		return 1
	}

	d, err := dispatcher.New(logging.NewDispatcherLogger(dbLog))
	if err != nil {
		Logger.Error("Failed to create dispatcher", "error", err)
		return 1
	}
	mgr.RegisterHandlers(d)

	if statusDir != "" {
		mon := monitor.NewService(monitor.Dependencies{
			Status:    mgr.Status,
			Logger:    Logger,
			OutputDir: statusDir,
		})
		if err := mon.Start(); err != nil {
			Logger.Error("Failed to start status monitor", "error", err)
		} else {
			defer mon.Stop()
		}
	}

	ap := handlers.NewAutopilot(d, mgr, scn, Logger)
	ap.MaxRounds = rounds
	st, runErr := ap.Run(ctx)
	for _, line := range st.Lines() {
		Logger.Info(line)
	}

	// the context may be cancelled already, the record still has to be written
	endCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := svc.Finish(endCtx); err != nil {
		Logger.Error("Failed to end game", "error", err)
		return 1
	}
	flushTelemetry(endCtx, logFile)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		Logger.Error("Game aborted", "error", runErr)
		return 1
	}
	return 0
}

// setupLogging opens the session log file and sets up slog (console, file,
// OTel, Graylog) and the zerolog logger used by the database, influx and
// dispatcher layers.
func setupLogging(position *logging.Position) (io.Writer, zerolog.Logger, func()) {
	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		Logger.Error("Failed to create logs directory", "error", err, "path", logsDir)
	}

	logPath := logging.LogFilePath(logsDir, AppName, SessionStartTime)
	var file io.Writer
	var closers []func()
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", logPath)
	} else {
		file = f
		closers = append(closers, func() { _ = f.Close() })
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		writer := file
		if writer == nil {
			writer = os.Stdout
		}
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    writer,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			Logger.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
		}
	}

	opts := logging.Options{
		File:    file,
		Level:   viper.GetString("logLevel"),
		Context: position.Attrs,
	}
	if OTelProvider != nil {
		opts.Provider = OTelProvider.LoggerProvider()
	}
	if viper.GetBool("graylog.enabled") {
		addr := viper.GetString("graylog.address")
		w, err := logging.DialGELF(addr)
		if err != nil {
			Logger.Error("Failed to connect to Graylog", "error", err, "address", addr)
		} else {
			opts.Extra = append(opts.Extra, logging.NewGELFHandler(w, slog.LevelInfo, AppName))
			closers = append(closers, func() { _ = w.Close() })
		}
	}
	SlogManager.Setup(opts)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", logPath)

	level, err := zerolog.ParseLevel(viper.GetString("logLevel"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}}
	if file != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: file, TimeFormat: time.RFC3339, NoColor: true})
	}
	dbLog := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()

	return file, dbLog, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

func flushTelemetry(ctx context.Context, logFile io.Writer) {
	if err := SlogManager.Flush(ctx); err != nil {
		Logger.Error("Failed to flush logs", "error", err)
	}
	if OTelProvider == nil {
		return
	}
	if err := OTelProvider.Flush(ctx); err != nil {
		Logger.Error("Failed to flush OTel", "error", err)
	}
	if err := OTelProvider.Shutdown(ctx); err != nil {
		Logger.Error("Failed to shut down OTel", "error", err)
	}
	if f, ok := logFile.(*os.File); ok {
		_ = f.Sync()
	}
}
