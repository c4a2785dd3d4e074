package canvas

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/cartodraw/maplayer/pkg/core"
)

// PinJSON is a pin in the exported snapshot. Geometry is serialized as WKT.
type PinJSON struct {
	ID       core.PrimitiveID `json:"id"`
	Geometry string           `json:"geometry"`
	Style    core.MarkerStyle `json:"style"`
	Meta     core.Metadata    `json:"meta,omitempty"`
}

// LineJSON is a line in the exported snapshot.
type LineJSON struct {
	ID       core.PrimitiveID `json:"id"`
	Geometry string           `json:"geometry"`
	Style    core.LineStyle   `json:"style"`
}

// SnapshotJSON is the root export structure.
type SnapshotJSON struct {
	ExportedAt time.Time  `json:"exportedAt"`
	Pins       []PinJSON  `json:"pins"`
	Lines      []LineJSON `json:"lines"`
}

func pointWKT(loc core.Location) string {
	p := geom.NewPoint(geom.Coordinates{
		XY: geom.XY{X: loc.Longitude, Y: loc.Latitude},
	})
	return p.AsText()
}

func lineWKT(from, to core.Location) string {
	seq := geom.NewSequence([]float64{
		from.Longitude, from.Latitude,
		to.Longitude, to.Latitude,
	}, geom.DimXY)
	return geom.NewLineString(seq).AsText()
}

// Snapshot captures the current canvas contents, ordered by primitive ID.
func (c *Canvas) Snapshot() SnapshotJSON {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := SnapshotJSON{ExportedAt: time.Now().UTC()}

	for _, p := range c.pins {
		snap.Pins = append(snap.Pins, PinJSON{
			ID:       p.ID,
			Geometry: pointWKT(p.Location),
			Style:    p.Style,
			Meta:     p.Meta,
		})
	}
	for _, l := range c.lines {
		snap.Lines = append(snap.Lines, LineJSON{
			ID:       l.ID,
			Geometry: lineWKT(l.From, l.To),
			Style:    l.Style,
		})
	}

	sort.Slice(snap.Pins, func(i, j int) bool { return snap.Pins[i].ID < snap.Pins[j].ID })
	sort.Slice(snap.Lines, func(i, j int) bool { return snap.Lines[i].ID < snap.Lines[j].ID })
	return snap
}

// Export writes a snapshot to outputDir as JSON, optionally gzipped.
// Returns the written file path.
func (c *Canvas) Export(outputDir string, compress bool) (string, error) {
	snap := c.Snapshot()

	timestamp := snap.ExportedAt.Format("20060102_150405")
	var filename string
	if compress {
		filename = fmt.Sprintf("canvas_%s.json.gz", timestamp)
	} else {
		filename = fmt.Sprintf("canvas_%s.json", timestamp)
	}
	outputPath := filepath.Join(outputDir, filename)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if compress {
		if err := writeGzipJSON(outputPath, snap); err != nil {
			return "", err
		}
		return outputPath, nil
	}
	if err := writeJSON(outputPath, snap); err != nil {
		return "", err
	}
	return outputPath, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

func writeGzipJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	if err := json.NewEncoder(gz).Encode(v); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}
