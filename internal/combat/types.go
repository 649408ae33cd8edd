package combat

import "math"

// Battlefield dimensions, by convention. Positions are free-floating points;
// units are not navigated, only placed and advanced in straight lines.
const (
	BattlefieldWidth  = 1920.0
	BattlefieldHeight = 1080.0
)

// --- Phase ---

// Phase is the battle state machine position.
type Phase int

const (
	PhasePreparation Phase = iota
	PhaseActive
	PhaseVictory
	PhaseDefeat
	PhaseRetreat
)

func (p Phase) String() string {
	switch p {
	case PhasePreparation:
		return "preparation"
	case PhaseActive:
		return "active"
	case PhaseVictory:
		return "victory"
	case PhaseDefeat:
		return "defeat"
	case PhaseRetreat:
		return "retreat"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase is a final outcome. Terminal phases are
// one-way: once set they are never re-evaluated.
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseDefeat
}

// --- AI state ---

// AIState is a single combatant's behavioural mode.
type AIState int

const (
	AIStateIdle AIState = iota
	AIStateAdvancing
	AIStateEngaging
	AIStateRetreating
	AIStateFleeing
	AIStateStunned
	AIStateDead
)

func (s AIState) String() string {
	switch s {
	case AIStateIdle:
		return "idle"
	case AIStateAdvancing:
		return "advancing"
	case AIStateEngaging:
		return "engaging"
	case AIStateRetreating:
		return "retreating"
	case AIStateFleeing:
		return "fleeing"
	case AIStateStunned:
		return "stunned"
	case AIStateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// --- Team ---

// Team separates the raiding squad from the location's defenders.
type Team int

const (
	TeamRaiders Team = iota
	TeamDefenders
)

func (t Team) String() string {
	if t == TeamRaiders {
		return "raiders"
	}
	return "defenders"
}

// --- Stats ---

// Stats is the combat-relevant numeric block shared by every combatant.
// Values are kept as float64 for arithmetic but HP/Attack/Defense are
// integer-valued after catalog lookup and scaling.
type Stats struct {
	HP             float64
	MaxHP          float64
	Attack         float64
	Defense        float64
	Speed          float64 // px/s
	Range          float64 // attack reach, px
	AttackCooldown float64 // seconds between attacks
	Resistances    map[DamageType]float64
}

// Resistance returns the unit's resistance fraction for a damage type
// (0 = none, 1 = immune). Consumed by the status-effect application path.
func (s Stats) Resistance(dt DamageType) float64 {
	if s.Resistances == nil {
		return 0
	}
	return s.Resistances[dt]
}

func (s Stats) clone() Stats {
	out := s
	if s.Resistances != nil {
		out.Resistances = make(map[DamageType]float64, len(s.Resistances))
		for k, v := range s.Resistances {
			out.Resistances[k] = v
		}
	}
	return out
}

// --- Unit ---

// Unit is a combatant: a raider from the player squad or a spawned defender.
// Both share the same shape; defenders additionally carry an AI profile and
// an ability list.
type Unit struct {
	ID    string
	Type  UnitType
	Name  string
	Team  Team
	X, Y  float64
	Stats Stats

	AIState      AIState
	TargetID     string // back-reference, never ownership; "" means no target
	LastAttackAt float64
	IsDead       bool

	Level int

	// Defender-only fields. Zero-valued for raiders.
	Profile   AIProfile
	Abilities []Ability

	// Per-ability cooldown bookkeeping, keyed by ability ID.
	abilityReadyAt map[string]float64

	// Set once the orchestrator has logged and counted this unit's death.
	deathBooked bool
}

func (u *Unit) clone() *Unit {
	out := *u
	out.Stats = u.Stats.clone()
	if u.Abilities != nil {
		out.Abilities = append([]Ability(nil), u.Abilities...)
	}
	if u.abilityReadyAt != nil {
		out.abilityReadyAt = make(map[string]float64, len(u.abilityReadyAt))
		for k, v := range u.abilityReadyAt {
			out.abilityReadyAt[k] = v
		}
	}
	return &out
}

// ApplyDamage subtracts hp, flooring at zero. A unit at zero hp is dead and
// excluded from all targeting, AoE, and spawn computations.
func (u *Unit) ApplyDamage(amount float64) {
	if u.IsDead {
		return
	}
	u.Stats.HP -= amount
	if u.Stats.HP <= 0 {
		u.Stats.HP = 0
		u.IsDead = true
		u.AIState = AIStateDead
		u.TargetID = ""
	}
}

// --- ActiveStatusEffect ---

// ActiveStatusEffect is one live effect instance on one unit. Multiple
// instances may coexist per unit up to the effect's stack cap.
type ActiveStatusEffect struct {
	Effect    EffectType
	UnitID    string // reference, not ownership
	Remaining float64
	Strength  float64 // per-second magnitude or stat-modifier fraction
	AppliedAt float64 // battle seconds when applied
}

// --- BattleStats ---

// BattleStats accumulates running battle totals for the final result.
type BattleStats struct {
	TotalDamageDealt   float64
	TotalDamageTaken   float64
	EnemiesKilled      int
	ObstaclesDestroyed int
	Duration           float64
	Flawless           bool
}

// --- CombatState ---

// CombatState is the aggregate root of one battle. It is created once per
// raid attempt and advanced through pure transforms; no transform mutates a
// caller's state in place.
type CombatState struct {
	BattleID   string
	LocationID string
	Phase      Phase

	Squad     []*Unit // deployment order encodes formation priority
	Enemies   []*Unit
	Obstacles []*Obstacle

	CurrentWave int // 1-based; never exceeds TotalWaves once started
	TotalWaves  int

	BattleDuration float64

	ActiveEffects []ActiveStatusEffect
	Log           *BattleLog

	IsRetreating     bool
	RetreatCountdown float64

	Stats BattleStats

	// Carried from the location at initialization for result generation.
	Difficulty int
	Rewards    Rewards
	Unlocks    []string

	waves []WaveDefinition
}

// Clone deep-copies the state. Every tick transform clones first so the
// input state is never observed mid-mutation.
func (cs *CombatState) Clone() *CombatState {
	out := *cs
	out.Squad = cloneUnits(cs.Squad)
	out.Enemies = cloneUnits(cs.Enemies)
	out.Obstacles = cloneObstacles(cs.Obstacles)
	out.ActiveEffects = append([]ActiveStatusEffect(nil), cs.ActiveEffects...)
	out.Log = cs.Log.clone()
	out.Rewards = cs.Rewards.clone()
	out.Unlocks = append([]string(nil), cs.Unlocks...)
	out.waves = append([]WaveDefinition(nil), cs.waves...)
	return &out
}

func cloneUnits(in []*Unit) []*Unit {
	if in == nil {
		return nil
	}
	out := make([]*Unit, len(in))
	for i, u := range in {
		out[i] = u.clone()
	}
	return out
}

func cloneObstacles(in []*Obstacle) []*Obstacle {
	if in == nil {
		return nil
	}
	out := make([]*Obstacle, len(in))
	for i, o := range in {
		out[i] = o.clone()
	}
	return out
}

// Unit finds a combatant on either side by ID. Returns nil when absent.
func (cs *CombatState) Unit(id string) *Unit {
	if id == "" {
		return nil
	}
	for _, u := range cs.Squad {
		if u.ID == id {
			return u
		}
	}
	for _, u := range cs.Enemies {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// AliveSquad returns the living raiders.
func (cs *CombatState) AliveSquad() []*Unit {
	return aliveOf(cs.Squad)
}

// AliveEnemies returns the living defenders.
func (cs *CombatState) AliveEnemies() []*Unit {
	return aliveOf(cs.Enemies)
}

func aliveOf(units []*Unit) []*Unit {
	var out []*Unit
	for _, u := range units {
		if !u.IsDead {
			out = append(out, u)
		}
	}
	return out
}

func distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
