package combat

import "sort"

// TargetPriority selects the sorting strategy for target selection.
// PriorityNone means "no strategy": retarget checks then only test validity.
type TargetPriority int

const (
	PriorityNone TargetPriority = iota
	PriorityClosest
	PriorityWeakest
	PriorityHighestThreat
	PriorityLowestArmor
	PrioritySupport
	PriorityRanged
)

func (p TargetPriority) String() string {
	switch p {
	case PriorityClosest:
		return "closest"
	case PriorityWeakest:
		return "weakest"
	case PriorityHighestThreat:
		return "highest_threat"
	case PriorityLowestArmor:
		return "lowest_armor"
	case PrioritySupport:
		return "support"
	case PriorityRanged:
		return "ranged"
	default:
		return "none"
	}
}

// AIProfile is the static behavioural tuning for a unit type.
type AIProfile struct {
	Aggression     float64 // 0-1, willingness to close distance
	Priority       TargetPriority
	PreferredRange float64 // px standoff for missile troops, 0 = melee
	CanFlee        bool
	UsesAbilities  bool
}

// Retarget hysteresis thresholds: the minimum improvement an alternative
// target must show before a unit abandons its current one.
const (
	retargetCloserBy   = 3.0  // closest: alternative at least this much nearer
	retargetWeakerFrac = 0.70 // weakest: alternative hp at most this fraction of current
	retargetThreatFrac = 1.50 // highest threat: alternative attack at least this multiple
	retargetArmorFrac  = 0.50 // lowest armor: alternative defense at most this fraction
	retargetScoreGap   = 20.0 // support/ranged: score must beat current by more than this
)

// InRange reports whether target is within unit's attack reach (Euclidean).
func InRange(unit, target *Unit) bool {
	return distance(unit.X, unit.Y, target.X, target.Y) <= unit.Stats.Range
}

// FindTargetsInRange filters candidates to those alive, in range, and with a
// clear line of sight from the unit.
func FindTargetsInRange(unit *Unit, candidates []*Unit, obstacles []*Obstacle) []*Unit {
	var out []*Unit
	for _, c := range candidates {
		if c.IsDead || !InRange(unit, c) {
			continue
		}
		if !HasLineOfSight(unit.X, unit.Y, c.X, c.Y, obstacles) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// PrioritizeTargets returns the candidates sorted best-first for the given
// strategy. PriorityClosest requires the acting unit for the distance
// reference; other strategies accept a nil unit. The input slice is not
// modified.
func PrioritizeTargets(candidates []*Unit, priority TargetPriority, unit *Unit) []*Unit {
	out := append([]*Unit(nil), candidates...)
	switch priority {
	case PriorityClosest:
		if unit == nil {
			panic("combat: PriorityClosest needs an acting unit")
		}
		sort.SliceStable(out, func(i, j int) bool {
			return distance(unit.X, unit.Y, out[i].X, out[i].Y) < distance(unit.X, unit.Y, out[j].X, out[j].Y)
		})
	case PriorityWeakest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Stats.HP < out[j].Stats.HP })
	case PriorityHighestThreat:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Stats.Attack > out[j].Stats.Attack })
	case PriorityLowestArmor:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Stats.Defense < out[j].Stats.Defense })
	case PrioritySupport:
		sort.SliceStable(out, func(i, j int) bool { return supportScore(out[i].Type) > supportScore(out[j].Type) })
	case PriorityRanged:
		sort.SliceStable(out, func(i, j int) bool {
			return rangedScore(out[i].Type, out[i].Stats.Range) > rangedScore(out[j].Type, out[j].Stats.Range)
		})
	}
	return out
}

// SelectTarget picks the best living candidate for the strategy, or nil when
// none remain.
func SelectTarget(unit *Unit, candidates []*Unit, priority TargetPriority) *Unit {
	alive := aliveOf(candidates)
	if len(alive) == 0 {
		return nil
	}
	return PrioritizeTargets(alive, priority, unit)[0]
}

// ShouldRetarget decides whether a unit abandons its current target.
// Always true when the current target is missing, dead, or out of range.
// With a strategy supplied and the current target still valid, the best
// alternative must be "significantly better", past the per-strategy
// hysteresis threshold, to force a switch, which prevents oscillating
// target-flicker every tick.
func ShouldRetarget(unit, current *Unit, candidates []*Unit, priority TargetPriority) bool {
	if current == nil || current.IsDead || !InRange(unit, current) {
		return true
	}
	if priority == PriorityNone {
		return false
	}

	var others []*Unit
	for _, c := range candidates {
		if c.IsDead || c.ID == current.ID {
			continue
		}
		others = append(others, c)
	}
	if len(others) == 0 {
		return false
	}
	best := PrioritizeTargets(others, priority, unit)[0]

	switch priority {
	case PriorityClosest:
		return distance(unit.X, unit.Y, best.X, best.Y) <= distance(unit.X, unit.Y, current.X, current.Y)-retargetCloserBy
	case PriorityWeakest:
		return best.Stats.HP <= current.Stats.HP*retargetWeakerFrac
	case PriorityHighestThreat:
		return best.Stats.Attack >= current.Stats.Attack*retargetThreatFrac
	case PriorityLowestArmor:
		return best.Stats.Defense <= current.Stats.Defense*retargetArmorFrac
	case PrioritySupport:
		return supportScore(best.Type) > supportScore(current.Type)+retargetScoreGap
	case PriorityRanged:
		return rangedScore(best.Type, best.Stats.Range) > rangedScore(current.Type, current.Stats.Range)+retargetScoreGap
	default:
		return false
	}
}
