package deathmap

// ViewMode selects which calibration table a lookup reads. Scatter and
// heatmap renderers use different canvas sizes for the same map, so each
// carries its own constants.
type ViewMode string

const (
	ViewScatter ViewMode = "scatter"
	ViewHeatmap ViewMode = "heatmap"
)

// Registry is the static per-map calibration store. Maps without an entry
// are not an error; callers degrade to the fallback projection.
type Registry struct {
	scatter map[string]MapCalibration
	heatmap map[string]MapCalibration
}

// VillageMap is the only map with a full camera calibration today. Older
// and special-event maps fall back to dynamic bounds fitting.
const VillageMap = "Village"

// NewRegistry returns the registry with the hardcoded calibration table.
func NewRegistry() *Registry {
	return &Registry{
		scatter: map[string]MapCalibration{
			VillageMap: {
				CameraOffsetX: 12.5,
				CameraOffsetZ: -18.0,
				Scale:         5.2,
				ImageWidth:    1024,
				ImageHeight:   768,
				ManualDX:      14,
				ManualDY:      -6,
			},
		},
		heatmap: map[string]MapCalibration{
			VillageMap: {
				CameraOffsetX: 12.5,
				CameraOffsetZ: -18.0,
				Scale:         3.9,
				ImageWidth:    800,
				ImageHeight:   600,
				ManualDX:      10,
				ManualDY:      -4,
			},
		},
	}
}

// Lookup returns the calibration for a map and view mode, and whether one
// exists.
func (r *Registry) Lookup(mapName string, mode ViewMode) (MapCalibration, bool) {
	var table map[string]MapCalibration
	switch mode {
	case ViewHeatmap:
		table = r.heatmap
	default:
		table = r.scatter
	}
	c, ok := table[mapName]
	return c, ok
}

// CalibratedMaps lists the map names present in a view mode's table.
func (r *Registry) CalibratedMaps(mode ViewMode) []string {
	var table map[string]MapCalibration
	switch mode {
	case ViewHeatmap:
		table = r.heatmap
	default:
		table = r.scatter
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	return names
}
