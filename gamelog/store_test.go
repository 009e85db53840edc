package gamelog

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Maalch/stats-lycansv2-sub006/deathmap"
)

func quietStore(maxSnapshots int) *Store {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewStore(maxSnapshots, log)
}

func testSnapshot(events int) *Snapshot {
	snap := &Snapshot{
		Events:    make([]deathmap.DeathEvent, events),
		GameCount: 1,
		LoadedAt:  time.Now(),
	}
	return snap
}

func TestStoreAddActivates(t *testing.T) {
	store := quietStore(3)

	id := store.Add(testSnapshot(5))
	if id == "" {
		t.Fatal("Expected a non-empty snapshot id")
	}

	active := store.Active()
	if active == nil || active.ID != id {
		t.Errorf("Expected snapshot %s active, got %+v", id, active)
	}

	got, err := store.Get(id)
	if err != nil {
		t.Fatalf("Failed to get snapshot: %v", err)
	}
	if len(got.Events) != 5 {
		t.Errorf("Expected 5 events, got %d", len(got.Events))
	}
}

func TestStoreGetUnknown(t *testing.T) {
	store := quietStore(3)
	if _, err := store.Get("missing"); err == nil {
		t.Error("Expected an error for an unknown snapshot id")
	}
	if err := store.Activate("missing"); err == nil {
		t.Error("Expected an error activating an unknown snapshot")
	}
	if store.Active() != nil {
		t.Error("Expected no active snapshot in an empty store")
	}
}

func TestStoreActivate(t *testing.T) {
	store := quietStore(3)

	first := store.Add(testSnapshot(1))
	second := store.Add(testSnapshot(2))

	if store.Active().ID != second {
		t.Fatalf("Expected latest snapshot %s active", second)
	}
	if err := store.Activate(first); err != nil {
		t.Fatalf("Failed to activate: %v", err)
	}
	if store.Active().ID != first {
		t.Errorf("Expected snapshot %s active after activation", first)
	}
}

func TestStoreEviction(t *testing.T) {
	store := quietStore(2)

	first := store.Add(testSnapshot(1))
	time.Sleep(time.Millisecond)
	second := store.Add(testSnapshot(2))
	time.Sleep(time.Millisecond)

	// Touching the first snapshot makes the second the eviction candidate.
	if _, err := store.Get(first); err != nil {
		t.Fatalf("Failed to get snapshot: %v", err)
	}
	time.Sleep(time.Millisecond)

	third := store.Add(testSnapshot(3))

	if _, err := store.Get(second); err == nil {
		t.Error("Expected the least recently used snapshot to be evicted")
	}
	if _, err := store.Get(first); err != nil {
		t.Errorf("Recently used snapshot was evicted: %v", err)
	}
	if _, err := store.Get(third); err != nil {
		t.Errorf("New snapshot missing after eviction: %v", err)
	}
}

func TestStoreList(t *testing.T) {
	store := quietStore(3)

	store.Add(&Snapshot{LoadedAt: time.Now().Add(-time.Hour)})
	newest := store.Add(&Snapshot{
		Events:   make([]deathmap.DeathEvent, 7),
		LoadedAt: time.Now(),
	})

	infos := store.List()
	if len(infos) != 2 {
		t.Fatalf("Expected 2 snapshots listed, got %d", len(infos))
	}
	if infos[0].ID != newest {
		t.Errorf("Expected newest snapshot first, got %s", infos[0].ID)
	}
	if infos[0].NumEvents != 7 {
		t.Errorf("Expected 7 events on the newest entry, got %d", infos[0].NumEvents)
	}
	if !infos[0].Active || infos[1].Active {
		t.Error("Expected only the newest snapshot to be active")
	}
}
