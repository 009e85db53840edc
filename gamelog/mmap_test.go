package gamelog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSaveLoadEventsMMap(t *testing.T) {
	dir := t.TempDir()
	events := sampleEvents()
	filename := filepath.Join(dir, "deaths.bin")

	if err := SaveEventsMMap(filename, events); err != nil {
		t.Fatalf("Failed to save events: %v", err)
	}

	info, err := os.Stat(filename)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Size() != eventsMMapSize(events) {
		t.Errorf("Expected file size %d, got %d", eventsMMapSize(events), info.Size())
	}

	loaded, err := LoadEventsMMap(filename)
	if err != nil {
		t.Fatalf("Failed to load events: %v", err)
	}
	if !reflect.DeepEqual(loaded, events) {
		t.Errorf("Loaded events differ from saved:\ngot  %+v\nwant %+v", loaded, events)
	}
}

func TestEventsMMapSize(t *testing.T) {
	if size := eventsMMapSize(nil); size != 4 {
		t.Errorf("Expected 4 bytes for an empty set, got %d", size)
	}
}
