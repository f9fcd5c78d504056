package plot

import (
	"math"
	"sort"
)

// swarm returns a perpendicular offset for each value so that no two points
// lie within one dot of each other, where a dot spans dx along the value axis
// and dy across it. Points are placed in value order, each at the candidate
// offset (0, +dy, -dy, +2dy, ...) nearest the centre line that clears every
// point already placed. Offsets are clipped to +/-limit, which can reintroduce
// overlap when a group is too dense for the space.
func swarm(values []float64, dx, dy, limit float64) []float64 {
	offsets := make([]float64, len(values))
	if len(values) == 0 || dx <= 0 || dy <= 0 {
		return offsets
	}
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	var done []point
	for _, i := range idx {
		x := values[i]
		// Only points within dx along the axis can collide.
		var near []point
		for j := len(done) - 1; j >= 0 && x-done[j].x < dx; j-- {
			near = append(near, done[j])
		}
		var y float64
		for step := 0; ; step++ {
			y = float64((step+1)/2) * dy
			if step%2 == 0 {
				y = -y
			}
			if fits(x, y, near, dx, dy) || math.Abs(y) > limit {
				break
			}
		}
		y = math.Max(-limit, math.Min(limit, y))
		offsets[i] = y
		done = append(done, point{x, y})
	}
	return offsets
}

type point struct{ x, y float64 }

func fits(x, y float64, near []point, dx, dy float64) bool {
	for _, p := range near {
		ex := (x - p.x) / dx
		ey := (y - p.y) / dy
		if ex*ex+ey*ey < 1-1e-9 {
			return false
		}
	}
	return true
}
