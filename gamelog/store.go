package gamelog

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store holds decoded snapshots in memory. The dashboard typically works
// against one active snapshot but keeps a few recent ones loaded so
// switching between exports is instant; the stalest snapshot is evicted
// beyond the cap.
type Store struct {
	mu           sync.RWMutex
	snapshots    map[string]*Snapshot
	lastAccessed map[string]time.Time
	maxSnapshots int
	active       string
	log          *logrus.Logger
}

// NewStore creates a store keeping at most maxSnapshots decoded snapshots.
func NewStore(maxSnapshots int, log *logrus.Logger) *Store {
	if maxSnapshots <= 0 {
		maxSnapshots = 3
	}
	if log == nil {
		log = logrus.New()
	}
	return &Store{
		snapshots:    make(map[string]*Snapshot),
		lastAccessed: make(map[string]time.Time),
		maxSnapshots: maxSnapshots,
		log:          log,
	}
}

// Add registers a snapshot, assigns it an id, makes it active, and evicts
// the least recently used snapshot when over capacity.
func (s *Store) Add(snap *Snapshot) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.ID == "" {
		snap.ID = uuid.New().String()[:8]
	}

	if len(s.snapshots) >= s.maxSnapshots {
		s.evictOldest()
	}

	s.snapshots[snap.ID] = snap
	s.lastAccessed[snap.ID] = time.Now()
	s.active = snap.ID

	s.log.WithFields(logrus.Fields{
		"snapshot": snap.ID,
		"events":   len(snap.Events),
		"games":    snap.GameCount,
		"legacy":   snap.Legacy,
	}).Info("snapshot loaded")

	return snap.ID
}

// evictOldest removes the least recently accessed snapshot. Caller holds
// the write lock.
func (s *Store) evictOldest() {
	var oldestID string
	var oldestTime time.Time
	first := true
	for id, accessTime := range s.lastAccessed {
		if first || accessTime.Before(oldestTime) {
			oldestID = id
			oldestTime = accessTime
			first = false
		}
	}
	if oldestID == "" {
		return
	}
	delete(s.snapshots, oldestID)
	delete(s.lastAccessed, oldestID)
	if s.active == oldestID {
		s.active = ""
	}
	s.log.WithField("snapshot", oldestID).Info("evicted snapshot")
}

// Get returns a snapshot by id and refreshes its access time.
func (s *Store) Get(id string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return nil, fmt.Errorf("no snapshot with id %s", id)
	}
	s.lastAccessed[id] = time.Now()
	return snap, nil
}

// Activate marks a loaded snapshot as the one queries run against.
func (s *Store) Activate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[id]; !ok {
		return fmt.Errorf("no snapshot with id %s", id)
	}
	s.active = id
	s.lastAccessed[id] = time.Now()
	return nil
}

// Active returns the active snapshot, or nil when none is loaded.
func (s *Store) Active() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == "" {
		return nil
	}
	snap := s.snapshots[s.active]
	if snap != nil {
		s.lastAccessed[s.active] = time.Now()
	}
	return snap
}

// SnapshotInfo is the listing entry for a loaded snapshot.
type SnapshotInfo struct {
	ID        string    `json:"id"`
	NumEvents int       `json:"numEvents"`
	GameCount int       `json:"gameCount"`
	Legacy    bool      `json:"legacy"`
	LoadedAt  time.Time `json:"loadedAt"`
	Active    bool      `json:"active"`
}

// List describes the loaded snapshots, most recently loaded first.
func (s *Store) List() []SnapshotInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]SnapshotInfo, 0, len(s.snapshots))
	for id, snap := range s.snapshots {
		infos = append(infos, SnapshotInfo{
			ID:        id,
			NumEvents: len(snap.Events),
			GameCount: snap.GameCount,
			Legacy:    snap.Legacy,
			LoadedAt:  snap.LoadedAt,
			Active:    id == s.active,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].LoadedAt.After(infos[j].LoadedAt)
	})
	return infos
}
