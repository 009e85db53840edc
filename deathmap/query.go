package deathmap

import "math"

// PointsWithin resolves a canvas interaction back to the originating death
// events: every rendered point within radius pixels of the query position,
// boundary inclusive. Click and hover use the same operation with
// different radii.
func PointsWithin(clickX, clickY float64, points []ScreenPoint, radius float64) []*DeathEvent {
	events := make([]*DeathEvent, 0)
	for _, p := range points {
		if math.Hypot(p.X-clickX, p.Y-clickY) <= radius {
			events = append(events, p.Event)
		}
	}
	return events
}
