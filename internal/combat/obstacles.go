package combat

import "fmt"

// ObstacleType tags a battlefield fortification.
type ObstacleType string

const (
	ObstacleGate      ObstacleType = "gate"
	ObstacleWall      ObstacleType = "wall"
	ObstacleTower     ObstacleType = "tower"
	ObstacleBarricade ObstacleType = "barricade"
	ObstacleSpikePit  ObstacleType = "spike_pit"
	ObstacleFireTrap  ObstacleType = "fire_trap"
)

const (
	// Minimum spacing between fortifications at placement time.
	fortificationSpacing = 32.0
	// Perpendicular distance from a sightline at which a LOS blocker
	// occludes it.
	losBlockDistance = 0.5
	// Units stepping this close to an armed trap set it off.
	trapTriggerRadius = 20.0
)

// obstacleSpec is one row of the static fortification table. Traps carry
// damage instead of hitpoints and are never destroyed, only triggered.
type obstacleSpec struct {
	maxHP          float64
	defense        float64
	destructible   bool
	blocksMovement bool
	blocksLOS      bool
	trapDamage     float64
	trapDamageType DamageType
	trapEffect     EffectType
}

var obstacleCatalog = map[ObstacleType]obstacleSpec{
	ObstacleGate:      {maxHP: 300, defense: 10, destructible: true, blocksMovement: true, blocksLOS: true},
	ObstacleWall:      {maxHP: 500, defense: 15, destructible: true, blocksMovement: true, blocksLOS: true},
	ObstacleTower:     {maxHP: 400, defense: 12, destructible: true, blocksLOS: true}, // garrison platform: sightlines stop, feet pass
	ObstacleBarricade: {maxHP: 150, defense: 5, destructible: true, blocksMovement: true},
	ObstacleSpikePit:  {trapDamage: 40, trapDamageType: DamagePiercing},
	ObstacleFireTrap:  {trapDamage: 25, trapDamageType: DamageFire, trapEffect: EffectBurning},
}

func mustObstacleSpec(t ObstacleType) obstacleSpec {
	spec, ok := obstacleCatalog[t]
	if !ok {
		panic(fmt.Sprintf("combat: unknown obstacle type %q", t))
	}
	return spec
}

// KnownObstacleType reports whether t exists in the fortification table.
func KnownObstacleType(t ObstacleType) bool {
	_, ok := obstacleCatalog[t]
	return ok
}

// TrapData is the live trigger state of a trap obstacle.
type TrapData struct {
	Damage     float64
	DamageType DamageType
	Triggered  bool
}

// Obstacle is a static battlefield fortification instance.
type Obstacle struct {
	ID             string
	Type           ObstacleType
	X, Y           float64
	HP             float64
	MaxHP          float64
	Defense        float64
	IsDestructible bool
	IsDestroyed    bool
	Trap           *TrapData // nil for non-traps
}

func (o *Obstacle) clone() *Obstacle {
	out := *o
	if o.Trap != nil {
		trap := *o.Trap
		out.Trap = &trap
	}
	return &out
}

// NewObstacle instantiates a fortification from the static table. Panics on
// unknown types.
func NewObstacle(id string, t ObstacleType, x, y float64) *Obstacle {
	spec := mustObstacleSpec(t)
	o := &Obstacle{
		ID:             id,
		Type:           t,
		X:              x,
		Y:              y,
		HP:             spec.maxHP,
		MaxHP:          spec.maxHP,
		Defense:        spec.defense,
		IsDestructible: spec.destructible,
	}
	if spec.trapDamage > 0 {
		o.Trap = &TrapData{Damage: spec.trapDamage, DamageType: spec.trapDamageType}
	}
	return o
}

// IsTrap reports whether the obstacle is a trigger-once trap.
func (o *Obstacle) IsTrap() bool {
	return o.Trap != nil
}

// BlocksLineOfSight reports whether the obstacle currently occludes
// sightlines. Destroyed fortifications block nothing.
func (o *Obstacle) BlocksLineOfSight() bool {
	if o.IsDestroyed {
		return false
	}
	return mustObstacleSpec(o.Type).blocksLOS
}

// BlocksMovement reports whether the obstacle currently stops ground
// movement. Towers block sightlines but not movement; traps block neither.
func (o *Obstacle) BlocksMovement() bool {
	if o.IsDestroyed {
		return false
	}
	return mustObstacleSpec(o.Type).blocksMovement
}

// CanPlaceFortification validates a placement position: inside the
// battlefield and at least the minimum spacing away from every existing
// fortification.
func CanPlaceFortification(x, y float64, existing []*Obstacle) bool {
	if x < 0 || x > BattlefieldWidth || y < 0 || y > BattlefieldHeight {
		return false
	}
	for _, o := range existing {
		if distance(x, y, o.X, o.Y) < fortificationSpacing {
			return false
		}
	}
	return true
}

// TrapResult is the outcome of a trap trigger attempt.
type TrapResult struct {
	Triggered  bool
	Damage     float64
	DamageType DamageType
	Applies    EffectType // burning payload for fire traps
}

// TriggerTrap fires a trap once. Non-traps and already-triggered traps
// return a zero result; triggering is idempotent per trap instance.
func TriggerTrap(o *Obstacle) TrapResult {
	if o == nil || o.Trap == nil || o.Trap.Triggered {
		return TrapResult{}
	}
	o.Trap.Triggered = true
	return TrapResult{
		Triggered:  true,
		Damage:     o.Trap.Damage,
		DamageType: o.Trap.DamageType,
		Applies:    mustObstacleSpec(o.Type).trapEffect,
	}
}

// DestroyFortification transitions an obstacle to destroyed when its hp has
// been reduced to zero. Indestructible, still-standing, or already-destroyed
// obstacles are left unchanged. Returns true when the transition happened.
func DestroyFortification(o *Obstacle) bool {
	if o == nil || o.IsDestroyed || !o.IsDestructible || o.HP > 0 {
		return false
	}
	o.IsDestroyed = true
	o.HP = 0
	return true
}
