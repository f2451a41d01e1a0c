// Package influx writes per-round heat telemetry to InfluxDB, falling back
// to a gzipped line-protocol file when the server is unreachable.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/OCAP2/roundengine/internal/config"
	"github.com/OCAP2/roundengine/pkg/core"
)

// Measurement names.
const (
	MeasurementHeat  = "entity_heat"
	MeasurementPhase = "phase"
)

// retention of created buckets
const retentionSeconds = 60 * 60 * 24 * 90

// ErrDisabled is returned by Connect when influx is switched off.
var ErrDisabled = errors.New("influx is disabled")

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client       influxdb2.Client
	Writers      map[string]influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	Config       config.InfluxConfig
	Logger       zerolog.Logger
	BackupPath   string

	mu         sync.Mutex
	backupFile io.Closer
}

// NewManager creates a new InfluxDB manager.
func NewManager(cfg config.InfluxConfig, log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		Writers:    make(map[string]influxdb2_api.WriteAPI),
		Config:     cfg,
		Logger:     log,
		BackupPath: backupPath,
	}
}

// Connect establishes a connection to InfluxDB. When the server does not
// answer, points go to the backup file instead.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.Config.Enabled {
		return ErrDisabled
	}

	m.Client = influxdb2.NewClientWithOptions(
		m.Config.URL(),
		m.Config.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(ctx)
	if err != nil || !running {
		m.Logger.Info().Str("backupPath", m.BackupPath).
			Msg("Failed to initialize InfluxDB client, writing to backup file")
		return m.OpenBackup()
	}

	if err := m.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}
	m.CreateWriters()
	m.IsValid = true
	m.Logger.Info().Msg("InfluxDB client initialized")
	return nil
}

// OpenBackup opens the gzipped line-protocol backup file for appending.
func (m *Manager) OpenBackup() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BackupWriter != nil {
		return nil
	}
	file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backupFile = file
	m.BackupWriter = gzip.NewWriter(file)
	return nil
}

func (m *Manager) setupOrganizationAndBucket(ctx context.Context) error {
	orgName := m.Config.Org

	influxOrg, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		influxOrg, err = m.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return err
		}
	}

	bucket := m.Config.Bucket
	if _, err = m.Client.BucketsAPI().FindBucketByName(ctx, bucket); err == nil {
		return nil
	}
	m.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")
	rule := domain.RetentionRuleTypeExpire
	_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, influxOrg, bucket, domain.RetentionRule{
		Type:         &rule,
		EverySeconds: retentionSeconds,
	})
	if err != nil {
		m.Logger.Error().Err(err).Str("bucket", bucket).Msg("Error creating bucket")
		return err
	}
	return nil
}

// CreateWriters creates the write API of the configured bucket.
func (m *Manager) CreateWriters() {
	bucket := m.Config.Bucket
	w := m.Client.WriteAPI(m.Config.Org, bucket)
	m.Writers[bucket] = w

	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Str("bucket", bucket).
				Msg("Error sending data to InfluxDB")
		}
	}(w.Errors())

	m.Logger.Debug().Str("bucket", bucket).Msg("InfluxDB writer initialized")
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(bucket string, point *influxdb2_write.Point) error {
	if m.IsValid {
		w, ok := m.Writers[bucket]
		if !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		w.WritePoint(point)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BackupWriter == nil {
		return errors.New("influxDB client not initialized and backup writer not available")
	}
	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if !strings.HasSuffix(lineProtocol, "\n") {
		lineProtocol += "\n"
	}
	if _, err := m.BackupWriter.Write([]byte(lineProtocol)); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// RecordHeat writes one heat point per state.
func (m *Manager) RecordHeat(states []*core.EntityState) error {
	var errs []error
	for _, s := range states {
		errs = append(errs, m.WritePoint(m.Config.Bucket, HeatPoint(s)))
	}
	return errors.Join(errs...)
}

// RecordPhase writes the phase point of r.
func (m *Manager) RecordPhase(r *core.PhaseRecord) error {
	return m.WritePoint(m.Config.Bucket, PhasePoint(r))
}

// Close flushes pending writes and closes the client and backup file.
func (m *Manager) Close() error {
	for _, w := range m.Writers {
		w.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BackupWriter == nil {
		return nil
	}
	err := m.BackupWriter.Close()
	if m.backupFile != nil {
		err = errors.Join(err, m.backupFile.Close())
	}
	m.BackupWriter = nil
	return err
}

// HeatPoint is the heat measurement of an entity snapshot.
func HeatPoint(s *core.EntityState) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(
		MeasurementHeat,
		map[string]string{
			"game":     s.GameID,
			"entity":   strconv.Itoa(s.EntityID),
			"owner":    strconv.Itoa(s.Owner),
			"category": s.Category,
		},
		map[string]interface{}{
			"round":           s.Round,
			"heat":            s.Thermal.Heat,
			"capacity":        s.Thermal.Capacity,
			"shutdown":        s.Thermal.Shutdown,
			"coolantFailure":  s.Thermal.CoolantFailure,
			"empInterference": s.Thermal.EMPInterference,
		},
		s.Time,
	)
}

// PhasePoint is the phase measurement of a phase record.
func PhasePoint(r *core.PhaseRecord) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(
		MeasurementPhase,
		map[string]string{
			"game":  r.GameID,
			"phase": r.Phase,
		},
		map[string]interface{}{
			"round":   r.Round,
			"turns":   len(r.Turns),
			"reports": len(r.Reports),
		},
		r.Time,
	)
}
