package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/Maalch/stats-lycansv2-sub006/deathmap"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to file")
	numEvents  = flag.Int("events", 5000, "number of death events to generate")
	radius     = flag.Float64("radius", 30, "cluster radius in pixels")
	bandwidth  = flag.Float64("bandwidth", 20, "density kernel bandwidth in pixels")
)

// generateEvents creates n random death events spread over the Village
// play area. Deterministic seed for reproducibility.
func generateEvents(n int) []deathmap.DeathEvent {
	source := rand.NewSource(42)
	r := rand.New(source)

	types := []deathmap.DeathType{
		deathmap.DeathWolfKill, deathmap.DeathVote,
		deathmap.DeathHunterShot, deathmap.DeathLover,
	}
	camps := []deathmap.Camp{
		deathmap.CampVillagers, deathmap.CampWolves, deathmap.CampSolo,
	}

	events := make([]deathmap.DeathEvent, n)
	for i := 0; i < n; i++ {
		events[i] = deathmap.DeathEvent{
			WorldX:     -80 + r.Float64()*180,
			WorldZ:     -90 + r.Float64()*160,
			VictimID:   fmt.Sprintf("player-%d", i%20),
			DeathType:  types[r.Intn(len(types))],
			VictimCamp: camps[r.Intn(len(camps))],
			MapName:    deathmap.VillageMap,
			GameID:     fmt.Sprintf("game-%d", i/12),
		}
	}
	return events
}

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Printf("could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	registry := deathmap.NewRegistry()
	events := generateEvents(*numEvents)

	calib, _ := registry.Lookup(deathmap.VillageMap, deathmap.ViewScatter)
	start := time.Now()
	points := deathmap.Project(events, &calib, calib.ImageWidth, calib.ImageHeight)
	fmt.Printf("Projected %d events in %v\n", len(points), time.Since(start))

	start = time.Now()
	clusters := deathmap.ClusterPoints(points, *radius)
	fmt.Printf("Clustered into %d clusters (radius %.0f) in %v\n",
		len(clusters), *radius, time.Since(start))

	heatCalib, _ := registry.Lookup(deathmap.VillageMap, deathmap.ViewHeatmap)
	heatPoints := deathmap.Project(events, &heatCalib, heatCalib.ImageWidth, heatCalib.ImageHeight)

	start = time.Now()
	field := deathmap.BuildContours(heatPoints,
		int(heatCalib.ImageWidth), int(heatCalib.ImageHeight), *bandwidth)
	rings := 0
	for _, band := range field {
		rings += len(band.Polygons)
	}
	fmt.Printf("Built %d contour bands (%d rings, bandwidth %.0f) in %v\n",
		len(field), rings, *bandwidth, time.Since(start))

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			fmt.Printf("could not create memory profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Printf("could not write memory profile: %v\n", err)
			os.Exit(1)
		}
	}
}
