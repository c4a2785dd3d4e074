// Command maplayer-demo exercises the overlay stack end to end: it scatters
// markers on an in-memory canvas, clusters them, explodes the densest cluster
// into a spider layout, simulates the interaction events, and exports a
// canvas snapshot.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/cartodraw/maplayer/internal/canvas"
	"github.com/cartodraw/maplayer/internal/config"
	"github.com/cartodraw/maplayer/internal/loader"
	"github.com/cartodraw/maplayer/internal/logging"
	"github.com/cartodraw/maplayer/internal/remote"
	"github.com/cartodraw/maplayer/internal/viewport"
	"github.com/cartodraw/maplayer/pkg/cluster"
	"github.com/cartodraw/maplayer/pkg/core"
	"github.com/cartodraw/maplayer/pkg/events"
	"github.com/cartodraw/maplayer/pkg/geo"
	"github.com/cartodraw/maplayer/pkg/maps"
	"github.com/cartodraw/maplayer/pkg/spider"
)

var (
	configDir   = flag.String("config", ".", "directory containing maplayer.cfg.json")
	markerCount = flag.Int("markers", 200, "number of demo markers to scatter")
	seed        = flag.Int64("seed", 42, "random seed for marker placement")
	spreadDeg   = flag.Float64("spread", 0.5, "marker scatter radius in degrees")
)

func main() {
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		// No config file is fine for a demo run; defaults apply.
		config.SetDefaults()
	}

	sessionStart := time.Now()
	logsDir := config.GetString("logsDir")
	_ = os.MkdirAll(logsDir, 0755)

	var logger zerolog.Logger
	logFile, err := os.Create(logging.LogFilePath(logsDir, "maplayer-demo", sessionStart))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot create log file: %v\n", err)
		logger = logging.Setup(nil, config.GetString("logLevel"))
	} else {
		defer logFile.Close()
		logger = logging.Setup(logFile, config.GetString("logLevel"))
	}

	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("demo failed")
	}
}

func run(logger zerolog.Logger) error {
	view := viewport.NewContext(viewport.View{
		Center: core.Location{
			Latitude:  config.GetFloat64("map.centerLatitude"),
			Longitude: config.GetFloat64("map.centerLongitude"),
		},
		Zoom: config.GetInt("map.zoom"),
	})

	if key := config.GetString("loader.apiKey"); key != "" {
		ld := loader.New(config.GetString("loader.serviceUrl"), key)
		if url, err := ld.ScriptURL("loadMapScenario"); err == nil {
			logger.Info().Str("url", url).Msg("provider script URL")
		}
		if err := ld.Healthcheck(); err != nil {
			logger.Warn().Err(err).Msg("provider healthcheck failed")
		}
	}

	cv := canvas.New()
	var surface core.Surface = cv

	remoteCfg := config.Remote()
	if remoteCfg.Enabled {
		rs, err := remote.New(cv, remote.Config{URL: remoteCfg.URL, Secret: remoteCfg.Secret}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("remote mirroring disabled")
		} else {
			defer rs.Close()
			surface = rs
		}
	}

	bus, err := events.New(logging.NewBusLogger(logger))
	if err != nil {
		return fmt.Errorf("creating event bus: %w", err)
	}

	proj := geo.NewMercator(config.GetInt("map.tileSize"), view.Get().Zoom)
	m := maps.New(proj, surface, bus)

	markers := scatterMarkers(view.Get().Center, *markerCount, *seed, *spreadDeg)

	layer := cluster.NewLayer(m.Surface)
	layer.PointSize = config.GetInt("cluster.pointSize")
	layer.TileSize = config.GetInt("cluster.tileSize")
	layer.MinZoom = config.GetInt("cluster.minZoom")
	layer.MaxZoom = config.GetInt("cluster.maxZoom")
	layer.SetMarkers(markers)

	zoom := view.Get().Zoom
	if err := layer.Render(zoom); err != nil {
		return fmt.Errorf("rendering cluster layer: %w", err)
	}
	logger.Info().
		Int("markers", layer.MarkerCount()).
		Int("clusters", len(layer.At(zoom))).
		Int("zoom", zoom).
		Msg("cluster layer rendered")

	sp := spider.New(proj, m.Surface, config.SpiderOptions(), logging.NewBusLogger(logger))
	detach := sp.Attach(bus)
	defer detach()

	sp.OnSelected(func(sel spider.Selection) {
		if sel.Marker != nil {
			logger.Info().Str("marker", sel.Marker.Style.Text).Msg("marker selected")
			return
		}
		logger.Info().Int("pins", len(sel.Cluster.ContainedPins())).Msg("cluster exploded")
	})
	sp.OnUnselected(func() {
		logger.Info().Msg("cluster collapsed")
	})

	// Explode the densest cluster.
	densest := densestCluster(layer.At(zoom))
	if densest == nil {
		return fmt.Errorf("no clusters at zoom %d", zoom)
	}
	bus.Publish(events.Event{Type: events.ClusterClick, Target: spider.Cluster(densest)})
	logger.Info().Int("spiderMarkers", sp.MarkerCount()).Msg("spider expanded")

	// Hover and click one of the spider pins.
	if id, ok := firstSpiderPin(cv); ok {
		bus.Publish(events.Event{Type: events.PinHoverIn, Target: id})
		bus.Publish(events.Event{Type: events.PinHoverOut, Target: id})
		bus.Publish(events.Event{Type: events.PinClick, Target: id})
	}

	// An outside click collapses with the default options.
	bus.Publish(events.Event{Type: events.MapClick, Location: view.Get().Center})
	logger.Info().Bool("expanded", sp.Expanded()).Msg("after outside click")

	// Zoom always collapses, demonstrated by re-expanding first.
	bus.Publish(events.Event{Type: events.ClusterClick, Target: spider.Cluster(densest)})
	newView := view.SetZoom(zoom + 1)
	proj.SetZoom(newView.Zoom)
	bus.Publish(events.Event{Type: events.ZoomEnd, Zoom: newView.Zoom})
	logger.Info().Bool("expanded", sp.Expanded()).Msg("after zoom")

	exportCfg := config.Export()
	path, err := cv.Export(exportCfg.OutputDir, exportCfg.CompressOutput)
	if err != nil {
		return fmt.Errorf("exporting snapshot: %w", err)
	}
	logger.Info().
		Str("path", path).
		Int("pins", cv.PinCount()).
		Int("lines", cv.LineCount()).
		Int("ops", len(cv.Ops())).
		Msg("snapshot exported")

	return nil
}

// scatterMarkers creates count markers randomly placed around center.
func scatterMarkers(center core.Location, count int, seed int64, spread float64) []*maps.Marker {
	rng := rand.New(rand.NewSource(seed))
	markers := make([]*maps.Marker, 0, count)
	for i := 0; i < count; i++ {
		loc := core.Location{
			Latitude:  center.Latitude + (rng.Float64()-0.5)*2*spread,
			Longitude: center.Longitude + (rng.Float64()-0.5)*2*spread,
		}
		mk := maps.NewMarker(loc, core.MarkerStyle{
			Color: "#337ab7",
			Text:  fmt.Sprintf("pin-%d", i),
		})
		markers = append(markers, mk)
	}
	return markers
}

func densestCluster(clusters []*cluster.Marker) *cluster.Marker {
	var best *cluster.Marker
	for _, c := range clusters {
		if best == nil || c.Count() > best.Count() {
			best = c
		}
	}
	return best
}

// firstSpiderPin finds a rendered spider pin on the canvas.
func firstSpiderPin(cv *canvas.Canvas) (core.PrimitiveID, bool) {
	for _, op := range cv.Ops() {
		if op.Kind != canvas.OpAddPin {
			continue
		}
		if pin, ok := cv.Pin(op.ID); ok {
			if flag, ok := pin.Meta["isSpiderPin"].(bool); ok && flag {
				return pin.ID, true
			}
		}
	}
	return 0, false
}
