package gamelog

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/Maalch/stats-lycansv2-sub006/deathmap"
)

// Decoded event sets are cached as zstd-compressed little-endian binary
// so a dashboard reload skips re-parsing the JSON export. The filename
// carries the event count, a timestamp, and a short id:
// deaths-{count}p-{timestamp}-{id}.zst

const cacheTimeFormat = "20060102-150405"

// CacheFilename builds the cache path for an event set of the given size.
func CacheFilename(dir string, count int) string {
	timestamp := time.Now().Format(cacheTimeFormat)
	id := uuid.New().String()[:8]
	return filepath.Join(dir, fmt.Sprintf("deaths-%dp-%s-%s.zst", count, timestamp, id))
}

// SaveEvents writes an event set to a compressed cache file.
func SaveEvents(filename string, events []deathmap.DeathEvent) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	bufWriter := bufio.NewWriterSize(file, 1024*1024)
	enc, err := zstd.NewWriter(bufWriter,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}

	binary.Write(enc, binary.LittleEndian, uint32(len(events)))
	for i := range events {
		ev := &events[i]
		binary.Write(enc, binary.LittleEndian, ev.WorldX)
		binary.Write(enc, binary.LittleEndian, ev.WorldZ)
		writeString(enc, ev.VictimID)
		writeString(enc, ev.KillerID)
		writeString(enc, string(ev.DeathType))
		writeString(enc, string(ev.VictimCamp))
		writeString(enc, ev.MapName)
		writeString(enc, ev.GameID)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close encoder: %w", err)
	}
	if err := bufWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}
	return nil
}

// LoadEvents reads an event set from a compressed cache file.
func LoadEvents(filename string) ([]deathmap.DeathEvent, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	dec, err := zstd.NewReader(bufio.NewReaderSize(file, 1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()

	return readEvents(dec)
}

func readEvents(r io.Reader) ([]deathmap.DeathEvent, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read event count: %w", err)
	}

	events := make([]deathmap.DeathEvent, count)
	for i := range events {
		ev := &events[i]
		if err := binary.Read(r, binary.LittleEndian, &ev.WorldX); err != nil {
			return nil, fmt.Errorf("failed to read event %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &ev.WorldZ); err != nil {
			return nil, fmt.Errorf("failed to read event %d: %w", i, err)
		}
		var strs [6]string
		for j := range strs {
			s, err := readString(r)
			if err != nil {
				return nil, fmt.Errorf("failed to read event %d: %w", i, err)
			}
			strs[j] = s
		}
		ev.VictimID, ev.KillerID = strs[0], strs[1]
		ev.DeathType = deathmap.DeathType(strs[2])
		ev.VictimCamp = deathmap.Camp(strs[3])
		ev.MapName, ev.GameID = strs[4], strs[5]
	}
	return events, nil
}

func writeString(w io.Writer, s string) {
	binary.Write(w, binary.LittleEndian, uint32(len(s)))
	w.Write([]byte(s))
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// CacheInfo describes one cache file on disk.
type CacheInfo struct {
	ID        string    `json:"id"`
	NumEvents int       `json:"numEvents"`
	Timestamp time.Time `json:"timestamp"`
	FileSize  int64     `json:"fileSize"`
}

// ListCaches returns the cache files in a directory, newest first.
func ListCaches(dir string) ([]CacheInfo, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	caches := make([]CacheInfo, 0)
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".zst" {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		// deaths-{count}p-{timestamp}-{id}.zst
		name := strings.TrimSuffix(file.Name(), ".zst")
		parts := strings.Split(name, "-")
		if len(parts) != 5 || parts[0] != "deaths" {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSuffix(parts[1], "p"))
		if err != nil {
			continue
		}
		timestamp, err := time.Parse(cacheTimeFormat, parts[2]+"-"+parts[3])
		if err != nil {
			continue
		}
		caches = append(caches, CacheInfo{
			ID:        parts[4],
			NumEvents: count,
			Timestamp: timestamp,
			FileSize:  info.Size(),
		})
	}

	sort.Slice(caches, func(i, j int) bool {
		return caches[i].Timestamp.After(caches[j].Timestamp)
	})
	return caches, nil
}

// FindCacheFile locates the cache file carrying the given id.
func FindCacheFile(dir, id string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, file := range files {
		if strings.Contains(file.Name(), id) && strings.HasSuffix(file.Name(), ".zst") {
			return filepath.Join(dir, file.Name()), nil
		}
	}
	return "", fmt.Errorf("no cache file found with id %s", id)
}
