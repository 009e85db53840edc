package gamelog

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Maalch/stats-lycansv2-sub006/deathmap"
)

func sampleEvents() []deathmap.DeathEvent {
	return []deathmap.DeathEvent{
		{
			WorldX:     12.5,
			WorldZ:     -33.1,
			VictimID:   "alice",
			KillerID:   "bob",
			DeathType:  deathmap.DeathWolfKill,
			VictimCamp: deathmap.CampVillagers,
			MapName:    "Village",
			GameID:     "game-1",
		},
		{
			WorldX:     -4,
			WorldZ:     18.75,
			VictimID:   "carol",
			DeathType:  deathmap.DeathVote,
			VictimCamp: deathmap.CampWolves,
			MapName:    "Village",
			GameID:     "game-1",
		},
		{
			WorldX:     0,
			WorldZ:     0,
			VictimID:   "erin",
			KillerID:   "frank",
			DeathType:  deathmap.DeathUnknown,
			VictimCamp: deathmap.CampUnknown,
			MapName:    "Chateau",
			GameID:     "game-2",
		},
	}
}

func TestSaveLoadEvents(t *testing.T) {
	dir := t.TempDir()
	events := sampleEvents()

	filename := CacheFilename(dir, len(events))
	if err := SaveEvents(filename, events); err != nil {
		t.Fatalf("Failed to save events: %v", err)
	}

	loaded, err := LoadEvents(filename)
	if err != nil {
		t.Fatalf("Failed to load events: %v", err)
	}
	if !reflect.DeepEqual(loaded, events) {
		t.Errorf("Loaded events differ from saved:\ngot  %+v\nwant %+v", loaded, events)
	}
}

func TestSaveLoadEventsEmpty(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "empty.zst")

	if err := SaveEvents(filename, nil); err != nil {
		t.Fatalf("Failed to save empty set: %v", err)
	}
	loaded, err := LoadEvents(filename)
	if err != nil {
		t.Fatalf("Failed to load empty set: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Expected no events, got %d", len(loaded))
	}
}

func TestCacheFilename(t *testing.T) {
	filename := CacheFilename("data", 250)
	base := filepath.Base(filename)
	if !strings.HasPrefix(base, "deaths-250p-") || !strings.HasSuffix(base, ".zst") {
		t.Errorf("Unexpected cache filename %s", base)
	}
	if parts := strings.Split(strings.TrimSuffix(base, ".zst"), "-"); len(parts) != 5 {
		t.Errorf("Expected 5 filename parts, got %d in %s", len(parts), base)
	}
}

func TestListCaches(t *testing.T) {
	dir := t.TempDir()
	events := sampleEvents()

	filename := CacheFilename(dir, len(events))
	if err := SaveEvents(filename, events); err != nil {
		t.Fatalf("Failed to save events: %v", err)
	}

	caches, err := ListCaches(dir)
	if err != nil {
		t.Fatalf("Failed to list caches: %v", err)
	}
	if len(caches) != 1 {
		t.Fatalf("Expected 1 cache, got %d", len(caches))
	}
	if caches[0].NumEvents != len(events) {
		t.Errorf("Expected %d events in listing, got %d", len(events), caches[0].NumEvents)
	}
	if caches[0].FileSize <= 0 {
		t.Errorf("Expected a positive file size, got %d", caches[0].FileSize)
	}
	if !strings.Contains(filepath.Base(filename), caches[0].ID) {
		t.Errorf("Listed id %s not part of filename %s", caches[0].ID, filename)
	}
}

func TestListCachesIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	if err := SaveEvents(filepath.Join(dir, "notes.zst"), nil); err != nil {
		t.Fatalf("Failed to save decoy: %v", err)
	}

	caches, err := ListCaches(dir)
	if err != nil {
		t.Fatalf("Failed to list caches: %v", err)
	}
	if len(caches) != 0 {
		t.Errorf("Expected foreign .zst files to be skipped, got %d entries", len(caches))
	}
}

func TestFindCacheFile(t *testing.T) {
	dir := t.TempDir()
	events := sampleEvents()

	filename := CacheFilename(dir, len(events))
	if err := SaveEvents(filename, events); err != nil {
		t.Fatalf("Failed to save events: %v", err)
	}
	caches, err := ListCaches(dir)
	if err != nil || len(caches) != 1 {
		t.Fatalf("Failed to list caches: %v (%d entries)", err, len(caches))
	}

	found, err := FindCacheFile(dir, caches[0].ID)
	if err != nil {
		t.Fatalf("Failed to find cache file: %v", err)
	}
	if found != filename {
		t.Errorf("Expected %s, got %s", filename, found)
	}

	if _, err := FindCacheFile(dir, "zzzzzzzz"); err == nil {
		t.Error("Expected an error for an unknown cache id")
	}
}
