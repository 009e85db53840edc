package gamelog

import (
	"testing"

	"github.com/Maalch/stats-lycansv2-sub006/deathmap"
)

const sampleExport = `{
	"version": 2,
	"games": [
		{
			"gameId": "game-1",
			"map": "Village",
			"deaths": [
				{
					"victimId": "alice",
					"killerId": "bob",
					"deathType": "WOLF_KILL",
					"camp": "VILLAGERS",
					"position": {"x": 12.5, "z": -33.1}
				},
				{
					"victimId": "carol",
					"killerId": null,
					"deathType": "VOTE",
					"camp": "WOLVES",
					"position": {"x": -4.0, "z": 18.75}
				},
				{
					"victimId": "dave",
					"killerId": null,
					"deathType": "VOTE",
					"camp": "VILLAGERS"
				}
			]
		},
		{
			"gameId": "game-2",
			"map": "Village",
			"deaths": [
				{
					"victimId": "erin",
					"killerId": "frank",
					"deathType": "",
					"camp": "",
					"position": {"x": 0, "z": 0}
				}
			]
		}
	]
}`

const legacyExport = `{
	"games": [
		{
			"gameId": "game-1",
			"map": "Village",
			"deaths": [
				{"victimId": "alice", "deathType": "WOLF_KILL", "camp": "VILLAGERS"}
			]
		}
	]
}`

func TestParseSnapshot(t *testing.T) {
	snap, err := ParseSnapshot([]byte(sampleExport))
	if err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}
	if snap.Legacy {
		t.Error("Expected a current-format snapshot")
	}
	if snap.GameCount != 2 {
		t.Errorf("Expected 2 games, got %d", snap.GameCount)
	}
	// The death without a position is dropped.
	if len(snap.Events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(snap.Events))
	}

	first := snap.Events[0]
	if first.VictimID != "alice" || first.KillerID != "bob" {
		t.Errorf("Unexpected first event actors: %+v", first)
	}
	if first.WorldX != 12.5 || first.WorldZ != -33.1 {
		t.Errorf("Unexpected first event position: %+v", first)
	}
	if first.DeathType != deathmap.DeathWolfKill || first.VictimCamp != deathmap.CampVillagers {
		t.Errorf("Unexpected first event classification: %+v", first)
	}

	second := snap.Events[1]
	if second.KillerID != "" {
		t.Errorf("Expected empty killer for a vote, got %q", second.KillerID)
	}

	// Blank classifications default to unknown.
	third := snap.Events[2]
	if third.DeathType != deathmap.DeathUnknown || third.VictimCamp != deathmap.CampUnknown {
		t.Errorf("Expected unknown defaults, got %s / %s", third.DeathType, third.VictimCamp)
	}
	if third.GameID != "game-2" || third.MapName != "Village" {
		t.Errorf("Unexpected third event game fields: %+v", third)
	}
}

func TestParseSnapshotLegacy(t *testing.T) {
	snap, err := ParseSnapshot([]byte(legacyExport))
	if err != nil {
		t.Fatalf("Legacy export should not error: %v", err)
	}
	if !snap.Legacy {
		t.Error("Expected legacy flag")
	}
	if len(snap.Events) != 0 {
		t.Errorf("Expected no events from a legacy export, got %d", len(snap.Events))
	}
}

func TestParseSnapshotMalformed(t *testing.T) {
	if _, err := ParseSnapshot([]byte(`{"version": 2, "games": [`)); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}

func TestIsLegacy(t *testing.T) {
	if IsLegacy([]byte(sampleExport)) {
		t.Error("Version 2 export misdetected as legacy")
	}
	if !IsLegacy([]byte(legacyExport)) {
		t.Error("Positionless export not detected as legacy")
	}

	// Hand-edited files sometimes lose the version field but keep
	// positions; those still decode.
	unversioned := `{
		"games": [
			{
				"gameId": "g",
				"map": "Village",
				"deaths": [
					{"victimId": "a", "position": {"x": 1, "z": 2}}
				]
			}
		]
	}`
	if IsLegacy([]byte(unversioned)) {
		t.Error("Unversioned export with positions misdetected as legacy")
	}
}

func TestNewCachedSnapshot(t *testing.T) {
	events := []deathmap.DeathEvent{
		{VictimID: "a", GameID: "g1"},
		{VictimID: "b", GameID: "g1"},
		{VictimID: "c", GameID: "g2"},
	}
	snap := NewCachedSnapshot(events)
	if snap.GameCount != 2 {
		t.Errorf("Expected 2 games recovered, got %d", snap.GameCount)
	}
	if len(snap.Events) != 3 {
		t.Errorf("Expected 3 events, got %d", len(snap.Events))
	}
}

func TestFilterApply(t *testing.T) {
	events := []deathmap.DeathEvent{
		{VictimID: "a", MapName: "Village", VictimCamp: deathmap.CampVillagers, DeathType: deathmap.DeathWolfKill},
		{VictimID: "b", MapName: "Village", VictimCamp: deathmap.CampWolves, DeathType: deathmap.DeathVote},
		{VictimID: "c", MapName: "Chateau", VictimCamp: deathmap.CampVillagers, DeathType: deathmap.DeathVote},
	}

	if got := (Filter{}).Apply(events); len(got) != 3 {
		t.Errorf("Empty filter: expected all 3 events, got %d", len(got))
	}

	got := Filter{MapName: "Village"}.Apply(events)
	if len(got) != 2 {
		t.Errorf("Map filter: expected 2 events, got %d", len(got))
	}

	got = Filter{Camp: deathmap.CampVillagers}.Apply(events)
	if len(got) != 2 || got[0].VictimID != "a" || got[1].VictimID != "c" {
		t.Errorf("Camp filter: unexpected result %+v", got)
	}

	got = Filter{
		MapName:    "Village",
		DeathTypes: []deathmap.DeathType{deathmap.DeathVote, deathmap.DeathHunterShot},
	}.Apply(events)
	if len(got) != 1 || got[0].VictimID != "b" {
		t.Errorf("Combined filter: unexpected result %+v", got)
	}
}
