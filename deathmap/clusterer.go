package deathmap

import "math"

// ClusterPoints groups points whose distance to an existing cluster's
// current centroid is within radius. The algorithm is greedy and
// order-dependent: points are visited in input order, centroids are
// recomputed from scratch on every append, and each new point is compared
// against the drifted centroid, not the original seed. Radius 0 is the
// degenerate case where every point stays its own cluster.
func ClusterPoints(points []ScreenPoint, radius float64) []Cluster {
	clusters := make([]Cluster, 0)
	for _, p := range points {
		best := -1
		bestDist := math.Inf(1)
		for i := range clusters {
			d := math.Hypot(p.X-clusters[i].CentroidX, p.Y-clusters[i].CentroidY)
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		if best >= 0 && radius > 0 && bestDist <= radius {
			c := &clusters[best]
			c.Members = append(c.Members, p)
			c.CentroidX, c.CentroidY = centroid(c.Members)
		} else {
			clusters = append(clusters, Cluster{
				CentroidX: p.X,
				CentroidY: p.Y,
				Members:   []ScreenPoint{p},
			})
		}
	}
	for i := range clusters {
		clusters[i].DominantType = dominantType(clusters[i].Members)
	}
	return clusters
}

// centroid is the arithmetic mean of member coordinates. The full
// recomputation matters: an incremental update would round differently and
// change where later points attach.
func centroid(members []ScreenPoint) (x, y float64) {
	var sumX, sumY float64
	for _, m := range members {
		sumX += m.X
		sumY += m.Y
	}
	n := float64(len(members))
	return sumX / n, sumY / n
}

// dominantType returns the death type with the highest member count,
// ties broken by order of first appearance among members.
func dominantType(members []ScreenPoint) DeathType {
	if len(members) == 0 {
		return DeathUnknown
	}
	counts := make(map[DeathType]int, len(members))
	order := make([]DeathType, 0, len(members))
	for _, m := range members {
		dt := m.Event.DeathType
		if counts[dt] == 0 {
			order = append(order, dt)
		}
		counts[dt]++
	}
	best := order[0]
	for _, dt := range order[1:] {
		if counts[dt] > counts[best] {
			best = dt
		}
	}
	return best
}
