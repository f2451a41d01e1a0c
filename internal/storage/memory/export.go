package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	v1 "github.com/OCAP2/roundengine/internal/storage/memory/export/v1"
	"github.com/OCAP2/roundengine/pkg/core"
)

var fileNameReplacer = strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_")

// exportJSON writes the game data to a JSON file, gzipped if configured.
// Callers hold b.mu.
func (b *Backend) exportJSON() error {
	export := v1.Build(&v1.GameData{
		Info:     b.info,
		Result:   b.result,
		Entities: b.entities,
		Phases:   b.phases,
		Rounds:   b.rounds,
	})

	name := fileNameReplacer.Replace(b.info.Name)
	if name == "" {
		name = "game"
	}
	filename := fmt.Sprintf("%s_%s.json", name, b.info.StartTime.Format("20060102_150405"))
	if b.cfg.CompressOutput {
		filename += ".gz"
	}

	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)
	if err := writeExport(outputPath, export, b.cfg.CompressOutput); err != nil {
		return err
	}

	b.lastExportPath = outputPath
	b.lastExportMeta = core.UploadMetadata{
		GameName: b.info.Name,
		Rounds:   export.Rounds,
	}
	if export.WinningTeam != 0 {
		b.lastExportMeta.Winner = fmt.Sprintf("team %d", export.WinningTeam)
	}
	return nil
}

func writeExport(path string, data v1.Export, compress bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	var w io.Writer = f
	if compress {
		gz := gzip.NewWriter(f)
		defer func() {
			if cerr := gz.Close(); err == nil {
				err = cerr
			}
		}()
		w = gz
	}
	return json.NewEncoder(w).Encode(data)
}

// ExportedFilePath returns the path of the last export
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// ExportMetadata returns upload metadata of the last export
func (b *Backend) ExportMetadata() core.UploadMetadata {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportMeta
}
