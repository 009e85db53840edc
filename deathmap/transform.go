package deathmap

import "math"

// MapCalibration holds the per-map camera constants translating world
// coordinates into image pixels. Scale and image dimensions are positive;
// the manual offset is a hand-tuned pixel correction.
type MapCalibration struct {
	CameraOffsetX float64
	CameraOffsetZ float64
	Scale         float64 // pixels per world unit
	ImageWidth    float64
	ImageHeight   float64
	ManualDX      float64
	ManualDY      float64
}

// ToScreen converts a world position into image pixel space. World Z maps
// to screen Y; the game engine treats Y as height, which 2D maps ignore.
func ToScreen(worldX, worldZ float64, c MapCalibration) (px, py float64) {
	px = (worldX-c.CameraOffsetX)*c.Scale + c.ImageWidth/2 + c.ManualDX
	py = (worldZ-c.CameraOffsetZ)*c.Scale + c.ImageHeight/2 + c.ManualDY
	return px, py
}

// ToWorld is the algebraic inverse of ToScreen.
func ToWorld(px, py float64, c MapCalibration) (worldX, worldZ float64) {
	worldX = (px-c.ImageWidth/2-c.ManualDX)/c.Scale + c.CameraOffsetX
	worldZ = (py-c.ImageHeight/2-c.ManualDY)/c.Scale + c.CameraOffsetZ
	return worldX, worldZ
}

// fitPadding is the fraction of the observed span added on each side when
// fitting uncalibrated coordinates to a canvas.
const fitPadding = 0.10

// EventBounds returns the world bounds of a set of events, padded by 10%
// on each axis. An empty set falls back to a fixed 0-100 domain so the
// fallback projection stays total.
func EventBounds(events []DeathEvent) Bounds {
	if len(events) == 0 {
		return Bounds{MinX: 0, MinZ: 0, MaxX: 100, MaxZ: 100}
	}
	b := Bounds{
		MinX: math.Inf(1), MinZ: math.Inf(1),
		MaxX: math.Inf(-1), MaxZ: math.Inf(-1),
	}
	for i := range events {
		b.Extend(events[i].WorldX, events[i].WorldZ)
	}
	padX := (b.MaxX - b.MinX) * fitPadding
	padZ := (b.MaxZ - b.MinZ) * fitPadding
	b.MinX -= padX
	b.MaxX += padX
	b.MinZ -= padZ
	b.MaxZ += padZ
	return b
}

// fitToCanvas linearly rescales a world position into the canvas using
// precomputed bounds. Degenerate spans collapse to the canvas center.
func fitToCanvas(wx, wz float64, b Bounds, width, height float64) (px, py float64) {
	spanX := b.MaxX - b.MinX
	spanZ := b.MaxZ - b.MinZ
	if spanX <= 0 {
		px = width / 2
	} else {
		px = (wx - b.MinX) / spanX * width
	}
	if spanZ <= 0 {
		py = height / 2
	} else {
		py = (wz - b.MinZ) / spanZ * height
	}
	return px, py
}

// Project converts events to screen points. With a calibration it applies
// the camera transform; without one it falls back to min-max fitting the
// raw world coordinates onto the canvas.
func Project(events []DeathEvent, calib *MapCalibration, width, height float64) []ScreenPoint {
	points := make([]ScreenPoint, 0, len(events))
	var bounds Bounds
	if calib == nil {
		bounds = EventBounds(events)
	}
	for i := range events {
		ev := &events[i]
		var x, y float64
		if calib != nil {
			x, y = ToScreen(ev.WorldX, ev.WorldZ, *calib)
		} else {
			x, y = fitToCanvas(ev.WorldX, ev.WorldZ, bounds, width, height)
		}
		points = append(points, ScreenPoint{X: x, Y: y, Event: ev})
	}
	return points
}
