package deathmap

// DeathType is the categorical cause-of-death code from the game log export.
type DeathType string

const (
	DeathWolfKill   DeathType = "WOLF_KILL"
	DeathVote       DeathType = "VOTE"
	DeathHunterShot DeathType = "HUNTER_SHOT"
	DeathLover      DeathType = "LOVER"
	DeathAvenger    DeathType = "AVENGER"
	DeathAssassin   DeathType = "ASSASSIN"
	DeathCrush      DeathType = "CRUSH"
	DeathStarvation DeathType = "STARVATION"
	DeathUnknown    DeathType = "UNKNOWN"
)

// Camp is the victim's faction at the time of death.
type Camp string

const (
	CampVillagers Camp = "VILLAGERS"
	CampWolves    Camp = "WOLVES"
	CampSolo      Camp = "SOLO"
	CampUnknown   Camp = "UNKNOWN"
)

// DeathEvent is one player death in one game, in world coordinates.
// Events are derived once per snapshot load and never mutated.
type DeathEvent struct {
	WorldX     float64
	WorldZ     float64
	VictimID   string
	KillerID   string // empty when the death has no killer (vote, starvation)
	DeathType  DeathType
	VictimCamp Camp
	MapName    string
	GameID     string
}

// ScreenPoint is a death event projected into canvas pixel space.
// Event points back at the originating record so interaction queries
// can resolve to source game data.
type ScreenPoint struct {
	X, Y  float64
	Event *DeathEvent
}

// Cluster groups death events rendered as a single marker.
// Members keep input order; DominantType is the most frequent death type
// among members, ties broken by first appearance.
type Cluster struct {
	CentroidX    float64
	CentroidY    float64
	Members      []ScreenPoint
	DominantType DeathType
}

// Count returns the number of member events.
func (c *Cluster) Count() int { return len(c.Members) }

// PixelPoint is a position on the rendered canvas.
type PixelPoint struct {
	X, Y float64
}

// Ring is a closed polygon ring in pixel space. The first and last
// points are equal.
type Ring []PixelPoint

// ContourBand is one iso-level of a density field: the density value the
// contour was extracted at and the closed rings enclosing the region at or
// above that value.
type ContourBand struct {
	Value    float64
	Polygons []Ring
}

// DensityField is an ordered sequence of contour bands, ascending by value.
// Consumed immediately for rendering, never persisted.
type DensityField []ContourBand

// MaxValue returns the highest band value in the field, or 0 for an empty
// field. Renderers normalize band colors against this per field, not
// against a fixed scale.
func (f DensityField) MaxValue() float64 {
	max := 0.0
	for _, b := range f {
		if b.Value > max {
			max = b.Value
		}
	}
	return max
}

// Bounds is an axis-aligned box in world coordinates.
type Bounds struct {
	MinX, MinZ, MaxX, MaxZ float64
}

// Extend expands the bounds to include a point.
func (b *Bounds) Extend(x, z float64) {
	if x < b.MinX {
		b.MinX = x
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if z < b.MinZ {
		b.MinZ = z
	}
	if z > b.MaxZ {
		b.MaxZ = z
	}
}
