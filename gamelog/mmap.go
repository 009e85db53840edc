package gamelog

import (
	"fmt"
	"math"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/Maalch/stats-lycansv2-sub006/deathmap"
)

// Uncompressed memory-mapped variant of the event cache, used for large
// exports where decompression latency on every reload is noticeable. Same
// field order as the zstd cache, without the compression layer.

type mmapWriter struct {
	data   mmap.MMap
	offset int
}

func (w *mmapWriter) writeUint32(v uint32) {
	w.data[w.offset] = byte(v)
	w.data[w.offset+1] = byte(v >> 8)
	w.data[w.offset+2] = byte(v >> 16)
	w.data[w.offset+3] = byte(v >> 24)
	w.offset += 4
}

func (w *mmapWriter) writeFloat64(v float64) {
	bits := math.Float64bits(v)
	for i := 0; i < 8; i++ {
		w.data[w.offset+i] = byte(bits >> (8 * i))
	}
	w.offset += 8
}

func (w *mmapWriter) writeString(s string) {
	w.writeUint32(uint32(len(s)))
	copy(w.data[w.offset:], s)
	w.offset += len(s)
}

type mmapReader struct {
	data   mmap.MMap
	offset int
}

func (r *mmapReader) readUint32() uint32 {
	v := uint32(r.data[r.offset]) |
		uint32(r.data[r.offset+1])<<8 |
		uint32(r.data[r.offset+2])<<16 |
		uint32(r.data[r.offset+3])<<24
	r.offset += 4
	return v
}

func (r *mmapReader) readFloat64() float64 {
	var bits uint64
	for i := 0; i < 8; i++ {
		bits |= uint64(r.data[r.offset+i]) << (8 * i)
	}
	r.offset += 8
	return math.Float64frombits(bits)
}

func (r *mmapReader) readString() string {
	n := int(r.readUint32())
	s := string(r.data[r.offset : r.offset+n])
	r.offset += n
	return s
}

// eventsMMapSize is the exact byte size of the mapped layout.
func eventsMMapSize(events []deathmap.DeathEvent) int64 {
	size := int64(4) // event count
	for i := range events {
		ev := &events[i]
		size += 16 // WorldX, WorldZ
		for _, s := range []string{
			ev.VictimID, ev.KillerID, string(ev.DeathType),
			string(ev.VictimCamp), ev.MapName, ev.GameID,
		} {
			size += 4 + int64(len(s))
		}
	}
	return size
}

// SaveEventsMMap writes an event set through a memory mapping.
func SaveEventsMMap(filename string, events []deathmap.DeathEvent) error {
	size := eventsMMapSize(events)

	file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := file.Truncate(size); err != nil {
		return fmt.Errorf("failed to truncate file: %w", err)
	}

	mmapData, err := mmap.Map(file, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to mmap file: %w", err)
	}
	defer mmapData.Unmap()

	w := &mmapWriter{data: mmapData}
	w.writeUint32(uint32(len(events)))
	for i := range events {
		ev := &events[i]
		w.writeFloat64(ev.WorldX)
		w.writeFloat64(ev.WorldZ)
		w.writeString(ev.VictimID)
		w.writeString(ev.KillerID)
		w.writeString(string(ev.DeathType))
		w.writeString(string(ev.VictimCamp))
		w.writeString(ev.MapName)
		w.writeString(ev.GameID)
	}

	return mmapData.Flush()
}

// LoadEventsMMap reads an event set through a memory mapping.
func LoadEventsMMap(filename string) ([]deathmap.DeathEvent, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	mmapData, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap file: %w", err)
	}
	defer mmapData.Unmap()

	r := &mmapReader{data: mmapData}
	count := r.readUint32()
	events := make([]deathmap.DeathEvent, count)
	for i := range events {
		ev := &events[i]
		ev.WorldX = r.readFloat64()
		ev.WorldZ = r.readFloat64()
		ev.VictimID = r.readString()
		ev.KillerID = r.readString()
		ev.DeathType = deathmap.DeathType(r.readString())
		ev.VictimCamp = deathmap.Camp(r.readString())
		ev.MapName = r.readString()
		ev.GameID = r.readString()
	}
	return events, nil
}
