package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	geojson "github.com/paulmach/go.geojson"
	"github.com/sirupsen/logrus"

	"github.com/Maalch/stats-lycansv2-sub006/deathmap"
	"github.com/Maalch/stats-lycansv2-sub006/gamelog"
)

// Server exposes the death-map pipeline to the dashboard frontend: the
// React app fetches clustered markers, heatmap contour bands, and
// region-query drill-downs from here and only does the rendering.
type Server struct {
	store    *gamelog.Store
	registry *deathmap.Registry
	cacheDir string
	log      *logrus.Logger
}

const (
	// Fallback canvas sizes for maps without a calibration.
	defaultScatterWidth  = 1000.0
	defaultScatterHeight = 800.0
	defaultHeatmapWidth  = 800.0
	defaultHeatmapHeight = 600.0

	// The cluster-radius slider runs 0-60 in steps of 5.
	maxClusterRadius = 60.0

	defaultBandwidth = 20.0
)

func main() {
	addr := flag.String("addr", ":8000", "HTTP listen address")
	cacheDir := flag.String("cache-dir", "data/deathcache", "event cache directory")
	snapshotPath := flag.String("snapshot", "", "game-log export to load at startup")
	maxSnapshots := flag.Int("max-snapshots", 3, "decoded snapshots kept in memory")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := os.MkdirAll(*cacheDir, 0755); err != nil {
		log.WithError(err).Fatal("failed to create cache directory")
	}

	server := &Server{
		store:    gamelog.NewStore(*maxSnapshots, log),
		registry: deathmap.NewRegistry(),
		cacheDir: *cacheDir,
		log:      log,
	}

	if *snapshotPath != "" {
		if _, err := server.loadSnapshotFile(*snapshotPath, ""); err != nil {
			log.WithError(err).WithField("path", *snapshotPath).
				Fatal("failed to load startup snapshot")
		}
	}

	r := gin.Default()
	r.Use(corsMiddleware())

	r.GET("/api/maps", server.handleMaps)
	r.GET("/api/deaths/markers", server.handleMarkers)
	r.GET("/api/deaths/heatmap", server.handleHeatmap)
	r.GET("/api/deaths/region", server.handleRegion)
	r.GET("/api/snapshots", server.handleListSnapshots)
	r.POST("/api/snapshots", server.handleLoadSnapshot)
	r.POST("/api/snapshots/activate/:id", server.handleActivateSnapshot)
	r.GET("/api/caches", server.handleListCaches)
	r.POST("/api/caches/load/:id", server.handleLoadCache)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.WithField("addr", *addr).Info("starting server")
		if err := r.Run(*addr); err != nil {
			log.WithError(err).Error("server stopped")
		}
	}()

	<-quit
	log.Info("shutting down")
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// loadSnapshotFile loads an export by extension: .zst reads the compressed
// event cache, .bin the mmap cache, anything else decodes the JSON export
// and optionally writes a cache in the requested format.
func (s *Server) loadSnapshotFile(path, cacheFormat string) (string, error) {
	switch filepath.Ext(path) {
	case ".zst":
		events, err := gamelog.LoadEvents(path)
		if err != nil {
			return "", err
		}
		return s.store.Add(gamelog.NewCachedSnapshot(events)), nil
	case ".bin":
		events, err := gamelog.LoadEventsMMap(path)
		if err != nil {
			return "", err
		}
		return s.store.Add(gamelog.NewCachedSnapshot(events)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	snap, err := gamelog.ParseSnapshot(data)
	if err != nil {
		return "", err
	}
	id := s.store.Add(snap)

	if !snap.Legacy && len(snap.Events) > 0 {
		switch cacheFormat {
		case "mmap":
			name := strings.TrimSuffix(gamelog.CacheFilename(s.cacheDir, len(snap.Events)), ".zst") + ".bin"
			if err := gamelog.SaveEventsMMap(name, snap.Events); err != nil {
				s.log.WithError(err).Warn("failed to write mmap cache")
			}
		default:
			name := gamelog.CacheFilename(s.cacheDir, len(snap.Events))
			if err := gamelog.SaveEvents(name, snap.Events); err != nil {
				s.log.WithError(err).Warn("failed to write event cache")
			}
		}
	}
	return id, nil
}

// filterFromQuery builds the event filter shared by the three death
// endpoints.
func filterFromQuery(c *gin.Context) gamelog.Filter {
	f := gamelog.Filter{
		MapName: c.Query("map"),
		Camp:    deathmap.Camp(c.Query("camp")),
	}
	if raw := c.Query("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.DeathTypes = append(f.DeathTypes, deathmap.DeathType(t))
			}
		}
	}
	return f
}

// projectedPoints runs filter + calibration lookup + projection for a view
// mode and returns the screen points with the canvas size used.
func (s *Server) projectedPoints(c *gin.Context, mode deathmap.ViewMode) ([]deathmap.ScreenPoint, float64, float64) {
	width, height := defaultScatterWidth, defaultScatterHeight
	if mode == deathmap.ViewHeatmap {
		width, height = defaultHeatmapWidth, defaultHeatmapHeight
	}

	snap := s.store.Active()
	if snap == nil {
		return nil, width, height
	}
	filter := filterFromQuery(c)
	events := filter.Apply(snap.Events)

	var calibPtr *deathmap.MapCalibration
	if calib, ok := s.registry.Lookup(filter.MapName, mode); ok {
		calibPtr = &calib
		width, height = calib.ImageWidth, calib.ImageHeight
	} else {
		if w, err := strconv.ParseFloat(c.Query("width"), 64); err == nil && w > 0 {
			width = w
		}
		if h, err := strconv.ParseFloat(c.Query("height"), 64); err == nil && h > 0 {
			height = h
		}
	}
	return deathmap.Project(events, calibPtr, width, height), width, height
}

func (s *Server) handleMaps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"scatter": s.registry.CalibratedMaps(deathmap.ViewScatter),
		"heatmap": s.registry.CalibratedMaps(deathmap.ViewHeatmap),
	})
}

func (s *Server) handleMarkers(c *gin.Context) {
	points, _, _ := s.projectedPoints(c, deathmap.ViewScatter)

	radius := 0.0
	if r, err := strconv.ParseFloat(c.Query("radius"), 64); err == nil {
		radius = r
	}
	if radius < 0 {
		radius = 0
	}
	if radius > maxClusterRadius {
		radius = maxClusterRadius
	}

	clusters := deathmap.ClusterPoints(points, radius)

	fc := geojson.NewFeatureCollection()
	for i := range clusters {
		cl := &clusters[i]
		f := geojson.NewPointFeature([]float64{cl.CentroidX, cl.CentroidY})
		f.SetProperty("cluster", cl.Count() > 1)
		f.SetProperty("point_count", cl.Count())
		f.SetProperty("dominant_type", string(cl.DominantType))
		fc.AddFeature(f)
	}
	c.JSON(http.StatusOK, fc)
}

func (s *Server) handleHeatmap(c *gin.Context) {
	points, width, height := s.projectedPoints(c, deathmap.ViewHeatmap)

	bandwidth := defaultBandwidth
	if b, err := strconv.ParseFloat(c.Query("bandwidth"), 64); err == nil && b > 0 {
		bandwidth = b
	}

	field := deathmap.BuildContours(points, int(width), int(height), bandwidth)

	fc := geojson.NewFeatureCollection()
	maxDensity := field.MaxValue()
	for _, band := range field {
		polygons := make([][][][]float64, 0, len(band.Polygons))
		for _, ring := range band.Polygons {
			coords := make([][]float64, 0, len(ring))
			for _, p := range ring {
				coords = append(coords, []float64{p.X, p.Y})
			}
			polygons = append(polygons, [][][]float64{coords})
		}
		f := geojson.NewMultiPolygonFeature(polygons...)
		f.SetProperty("density", band.Value)
		f.SetProperty("max_density", maxDensity)
		fc.AddFeature(f)
	}
	c.JSON(http.StatusOK, fc)
}

// regionEvent is the drill-down payload for one resolved death event.
type regionEvent struct {
	VictimID  string  `json:"victimId"`
	KillerID  string  `json:"killerId,omitempty"`
	DeathType string  `json:"deathType"`
	Camp      string  `json:"camp"`
	MapName   string  `json:"mapName"`
	GameID    string  `json:"gameId"`
	WorldX    float64 `json:"worldX"`
	WorldZ    float64 `json:"worldZ"`
}

func (s *Server) handleRegion(c *gin.Context) {
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	y, errY := strconv.ParseFloat(c.Query("y"), 64)
	if errX != nil || errY != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query position"})
		return
	}
	radius := 15.0 // click preset; hover passes a smaller value
	if r, err := strconv.ParseFloat(c.Query("radius"), 64); err == nil && r >= 0 {
		radius = r
	}

	points, _, _ := s.projectedPoints(c, deathmap.ViewScatter)
	hits := deathmap.PointsWithin(x, y, points, radius)

	out := make([]regionEvent, 0, len(hits))
	for _, ev := range hits {
		out = append(out, regionEvent{
			VictimID:  ev.VictimID,
			KillerID:  ev.KillerID,
			DeathType: string(ev.DeathType),
			Camp:      string(ev.VictimCamp),
			MapName:   ev.MapName,
			GameID:    ev.GameID,
			WorldX:    ev.WorldX,
			WorldZ:    ev.WorldZ,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": out, "count": len(out)})
}

func (s *Server) handleListSnapshots(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.List())
}

func (s *Server) handleLoadSnapshot(c *gin.Context) {
	var req struct {
		Path  string `json:"path"`
		Cache string `json:"cache"`
	}
	if err := c.BindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	id, err := s.loadSnapshotFile(req.Path, req.Cache)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) handleActivateSnapshot(c *gin.Context) {
	if err := s.store.Activate(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (s *Server) handleListCaches(c *gin.Context) {
	caches, err := gamelog.ListCaches(s.cacheDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, caches)
}

func (s *Server) handleLoadCache(c *gin.Context) {
	path, err := gamelog.FindCacheFile(s.cacheDir, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	events, err := gamelog.LoadEvents(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	id := s.store.Add(gamelog.NewCachedSnapshot(events))
	c.JSON(http.StatusOK, gin.H{"id": id, "numEvents": len(events)})
}
