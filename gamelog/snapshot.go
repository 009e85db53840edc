package gamelog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Maalch/stats-lycansv2-sub006/deathmap"
)

// Snapshot is one decoded game-log export: the flattened death events of
// every game in the file. Snapshots are immutable once decoded; filter
// changes recompute derived data wholesale instead of mutating it.
type Snapshot struct {
	ID        string
	Events    []deathmap.DeathEvent
	GameCount int
	Legacy    bool
	LoadedAt  time.Time
}

// export mirrors the dashboard's JSON game-log format.
type export struct {
	Version int          `json:"version"`
	Games   []exportGame `json:"games"`
}

type exportGame struct {
	GameID string        `json:"gameId"`
	Map    string        `json:"map"`
	Deaths []exportDeath `json:"deaths"`
}

type exportDeath struct {
	VictimID  string          `json:"victimId"`
	KillerID  *string         `json:"killerId"`
	DeathType string          `json:"deathType"`
	Camp      string          `json:"camp"`
	Position  *exportPosition `json:"position"`
}

type exportPosition struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// IsLegacy reports whether raw data is a pre-position-tracking export.
// Version 2 exports always carry positions. Older files are sniffed for a
// position on any death before the full decode; hand-edited files
// sometimes drop the version field but keep positions. Legacy files
// decode to an empty event set rather than an error, and the frontend
// explains the gap to the user.
func IsLegacy(data []byte) bool {
	if gjson.GetBytes(data, "version").Int() >= 2 {
		return false
	}
	found := false
	gjson.GetBytes(data, "games").ForEach(func(_, game gjson.Result) bool {
		game.Get("deaths").ForEach(func(_, d gjson.Result) bool {
			if d.Get("position").Exists() {
				found = true
			}
			return !found
		})
		return !found
	})
	return !found
}

// ParseSnapshot decodes a game-log export into a snapshot. Malformed JSON
// is an error; a legacy export is not.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	if IsLegacy(data) {
		return &Snapshot{
			Events:   make([]deathmap.DeathEvent, 0),
			Legacy:   true,
			LoadedAt: time.Now(),
		}, nil
	}

	var ex export
	if err := json.Unmarshal(data, &ex); err != nil {
		return nil, fmt.Errorf("failed to decode game log: %w", err)
	}

	snap := &Snapshot{
		Events:    make([]deathmap.DeathEvent, 0),
		GameCount: len(ex.Games),
		LoadedAt:  time.Now(),
	}
	for _, game := range ex.Games {
		for _, d := range game.Deaths {
			if d.Position == nil {
				// Individual deaths can lack positions even in recent
				// exports (disconnects mid-game).
				continue
			}
			ev := deathmap.DeathEvent{
				WorldX:     d.Position.X,
				WorldZ:     d.Position.Z,
				VictimID:   d.VictimID,
				DeathType:  deathmap.DeathType(d.DeathType),
				VictimCamp: deathmap.Camp(d.Camp),
				MapName:    game.Map,
				GameID:     game.GameID,
			}
			if d.KillerID != nil {
				ev.KillerID = *d.KillerID
			}
			if ev.DeathType == "" {
				ev.DeathType = deathmap.DeathUnknown
			}
			if ev.VictimCamp == "" {
				ev.VictimCamp = deathmap.CampUnknown
			}
			snap.Events = append(snap.Events, ev)
		}
	}
	return snap, nil
}

// NewCachedSnapshot wraps events restored from an event cache. The game
// count is recovered from the distinct game ids.
func NewCachedSnapshot(events []deathmap.DeathEvent) *Snapshot {
	games := make(map[string]struct{})
	for i := range events {
		games[events[i].GameID] = struct{}{}
	}
	return &Snapshot{
		Events:    events,
		GameCount: len(games),
		LoadedAt:  time.Now(),
	}
}

// Filter selects the subset of a snapshot's events feeding the spatial
// pipeline. Zero values mean "no constraint".
type Filter struct {
	MapName    string
	Camp       deathmap.Camp
	DeathTypes []deathmap.DeathType
}

// Apply returns the events matching the filter, in snapshot order.
func (f Filter) Apply(events []deathmap.DeathEvent) []deathmap.DeathEvent {
	out := make([]deathmap.DeathEvent, 0, len(events))
	for _, ev := range events {
		if f.MapName != "" && ev.MapName != f.MapName {
			continue
		}
		if f.Camp != "" && ev.VictimCamp != f.Camp {
			continue
		}
		if len(f.DeathTypes) > 0 && !containsType(f.DeathTypes, ev.DeathType) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func containsType(types []deathmap.DeathType, dt deathmap.DeathType) bool {
	for _, t := range types {
		if t == dt {
			return true
		}
	}
	return false
}
