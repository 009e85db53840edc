package deathmap

import "math"

// contourLevels is the fixed number of iso-levels per density field.
const contourLevels = 15

// kernelReach truncates the Gaussian kernel; contributions beyond three
// standard deviations are below float noise for rendering purposes.
const kernelReach = 3.0

// BuildContours rasterizes a Gaussian kernel density estimate of the
// points over a width x height pixel grid and extracts filled contour
// rings at 15 equally spaced levels between zero and the observed maximum
// density. Bandwidth is the kernel standard deviation in pixels. Empty
// input or a degenerate grid yields an empty field.
func BuildContours(points []ScreenPoint, width, height int, bandwidth float64) DensityField {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return DensityField{}
	}
	if bandwidth <= 0 {
		bandwidth = 1
	}

	grid := rasterize(points, width, height, bandwidth)

	max := 0.0
	for _, v := range grid.cells {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return DensityField{}
	}

	field := make(DensityField, 0, contourLevels)
	for i := 1; i <= contourLevels; i++ {
		// Levels sit strictly inside (0, max); a contour at max itself
		// would always be a degenerate point.
		t := max * float64(i) / float64(contourLevels+1)
		field = append(field, ContourBand{
			Value:    t,
			Polygons: grid.contourRings(t),
		})
	}
	return field
}

// densityGrid carries KDE values on a grid padded with a one-cell zero
// border so every contour ring closes inside the grid.
type densityGrid struct {
	w, h  int // padded dimensions
	cells []float64
}

func (g *densityGrid) at(x, y int) float64 { return g.cells[y*g.w+x] }

func rasterize(points []ScreenPoint, width, height int, sigma float64) *densityGrid {
	g := &densityGrid{w: width + 2, h: height + 2}
	g.cells = make([]float64, g.w*g.h)

	reach := int(math.Ceil(kernelReach * sigma))
	norm := 1 / (2 * math.Pi * sigma * sigma)
	inv2s2 := 1 / (2 * sigma * sigma)

	for _, p := range points {
		x0 := int(math.Floor(p.X)) - reach
		x1 := int(math.Ceil(p.X)) + reach
		y0 := int(math.Floor(p.Y)) - reach
		y1 := int(math.Ceil(p.Y)) + reach
		if x0 < 0 {
			x0 = 0
		}
		if y0 < 0 {
			y0 = 0
		}
		if x1 > width-1 {
			x1 = width - 1
		}
		if y1 > height-1 {
			y1 = height - 1
		}
		for py := y0; py <= y1; py++ {
			dy := float64(py) - p.Y
			row := (py + 1) * g.w
			for px := x0; px <= x1; px++ {
				dx := float64(px) - p.X
				g.cells[row+px+1] += norm * math.Exp(-(dx*dx+dy*dy)*inv2s2)
			}
		}
	}
	return g
}

// segment is one directed contour edge. Orientation keeps the region at
// or above the threshold on the left, so rings stitch head to tail.
type segment struct {
	a, b PixelPoint
}

// contourRings runs marching squares at threshold t and stitches the
// resulting segments into closed rings in canvas pixel coordinates.
func (g *densityGrid) contourRings(t float64) []Ring {
	var segs []segment
	for y := 0; y < g.h-1; y++ {
		for x := 0; x < g.w-1; x++ {
			segs = g.cellSegments(x, y, t, segs)
		}
	}
	return stitch(segs)
}

func (g *densityGrid) cellSegments(x, y int, t float64, segs []segment) []segment {
	tl := g.at(x, y)
	tr := g.at(x+1, y)
	br := g.at(x+1, y+1)
	bl := g.at(x, y+1)

	idx := 0
	if tl >= t {
		idx |= 1
	}
	if tr >= t {
		idx |= 2
	}
	if br >= t {
		idx |= 4
	}
	if bl >= t {
		idx |= 8
	}
	if idx == 0 || idx == 15 {
		return segs
	}

	fx := float64(x)
	fy := float64(y)
	top := func() PixelPoint { return PixelPoint{fx + (t-tl)/(tr-tl), fy} }
	right := func() PixelPoint { return PixelPoint{fx + 1, fy + (t-tr)/(br-tr)} }
	bottom := func() PixelPoint { return PixelPoint{fx + (t-bl)/(br-bl), fy + 1} }
	left := func() PixelPoint { return PixelPoint{fx, fy + (t-tl)/(bl-tl)} }

	add := func(a, b PixelPoint) {
		if a != b {
			segs = append(segs, segment{a, b})
		}
	}

	switch idx {
	case 1:
		add(left(), top())
	case 2:
		add(top(), right())
	case 3:
		add(left(), right())
	case 4:
		add(right(), bottom())
	case 5:
		// Saddle: the cell center decides whether the two inside
		// corners connect.
		if (tl+tr+br+bl)/4 >= t {
			add(right(), top())
			add(left(), bottom())
		} else {
			add(left(), top())
			add(right(), bottom())
		}
	case 6:
		add(top(), bottom())
	case 7:
		add(left(), bottom())
	case 8:
		add(bottom(), left())
	case 9:
		add(bottom(), top())
	case 10:
		if (tl+tr+br+bl)/4 >= t {
			add(top(), left())
			add(bottom(), right())
		} else {
			add(top(), right())
			add(bottom(), left())
		}
	case 11:
		add(bottom(), right())
	case 12:
		add(right(), left())
	case 13:
		add(right(), top())
	case 14:
		add(top(), left())
	}
	return segs
}

// stitch chains directed segments into closed rings. Interpolated
// endpoints on a shared cell edge are computed from the same corner
// values in both cells, so matching on exact coordinates is safe.
func stitch(segs []segment) []Ring {
	byStart := make(map[PixelPoint][]int, len(segs))
	for i, s := range segs {
		byStart[s.a] = append(byStart[s.a], i)
	}
	used := make([]bool, len(segs))

	var rings []Ring
	for i := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		start := segs[i].a
		ring := Ring{toCanvas(start), toCanvas(segs[i].b)}
		cur := segs[i].b
		for cur != start {
			next := -1
			for _, j := range byStart[cur] {
				if !used[j] {
					next = j
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			cur = segs[next].b
			ring = append(ring, toCanvas(cur))
		}
		if cur != start || len(ring) < 4 {
			continue
		}
		rings = append(rings, ring)
	}
	return rings
}

// toCanvas shifts a padded-grid vertex back into canvas pixel space.
func toCanvas(p PixelPoint) PixelPoint {
	return PixelPoint{p.X - 1, p.Y - 1}
}
