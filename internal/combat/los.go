package combat

import "math"

// HasLineOfSight returns true unless some standing LOS-blocking obstacle
// lies on the straight segment between the two points. Obstacles behind the
// target or off the line never block: the perpendicular foot of the obstacle
// must fall between the endpoints and within losBlockDistance of the
// segment.
func HasLineOfSight(fromX, fromY, toX, toY float64, obstacles []*Obstacle) bool {
	for _, o := range obstacles {
		if !o.BlocksLineOfSight() {
			continue
		}
		if segmentOccluded(fromX, fromY, toX, toY, o.X, o.Y) {
			return false
		}
	}
	return true
}

// segmentOccluded checks whether point (px,py) sits on the segment a→b
// closely enough to occlude it.
func segmentOccluded(ax, ay, bx, by, px, py float64) bool {
	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-12 {
		// Degenerate segment: occluded only if the blocker sits on the point.
		return math.Hypot(px-ax, py-ay) <= losBlockDistance
	}

	// Unnormalized projection of the blocker onto the segment direction.
	// Outside [0, lenSq] the blocker is before the shooter or past the
	// target.
	t := (px-ax)*dx + (py-ay)*dy
	if t < 0 || t > lenSq {
		return false
	}

	// Perpendicular distance from the blocker to the line.
	footX := ax + dx*(t/lenSq)
	footY := ay + dy*(t/lenSq)
	return math.Hypot(px-footX, py-footY) <= losBlockDistance
}

// pointToSegmentDist returns the distance from (px,py) to the closest point
// of the segment a→b.
func pointToSegmentDist(px, py, ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-12 {
		return math.Hypot(px-ax, py-ay)
	}
	t := clamp(((px-ax)*dx+(py-ay)*dy)/lenSq, 0, 1)
	return math.Hypot(px-(ax+dx*t), py-(ay+dy*t))
}
