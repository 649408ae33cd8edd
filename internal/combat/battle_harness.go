package combat

import "strings"

// BattleSim is a headless raid harness used exclusively by tests. It wires
// an orchestrator with deterministic IDs and seeding, builds a location
// from options, and runs ticks without any caller-side game loop.
type BattleSim struct {
	Battle *Battle
	State  *CombatState
	Req    BattleRequirements

	Location Location
	Squad    []SquadMember

	seed      int64
	cfg       Config
	formation FormationType
	autoBegin bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // seed, config, formation, location shape
	simOptUnit                       // squad members, enemy groups, forts
)

// SimOption is a builder function applied to a BattleSim during
// construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*BattleSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(bs *BattleSim) { bs.seed = seed }}
}

// WithConfig overrides the engine configuration.
func WithConfig(cfg Config) SimOption {
	return SimOption{simOptInfra, func(bs *BattleSim) { bs.cfg = cfg }}
}

// WithFormation selects the squad deployment shape.
func WithFormation(f FormationType) SimOption {
	return SimOption{simOptInfra, func(bs *BattleSim) { bs.formation = f }}
}

// WithDifficulty sets the location difficulty.
func WithDifficulty(d int) SimOption {
	return SimOption{simOptInfra, func(bs *BattleSim) { bs.Location.Difficulty = d }}
}

// WithLocation replaces the whole location definition.
func WithLocation(loc Location) SimOption {
	return SimOption{simOptInfra, func(bs *BattleSim) { bs.Location = loc }}
}

// WithoutAutoBegin leaves the battle in PREPARATION after construction.
func WithoutAutoBegin() SimOption {
	return SimOption{simOptInfra, func(bs *BattleSim) { bs.autoBegin = false }}
}

// WithMember adds a raider with explicit stats.
func WithMember(id string, t UnitType, level int, hp, attack, defense, speed float64) SimOption {
	return SimOption{simOptUnit, func(bs *BattleSim) {
		bs.Squad = append(bs.Squad, SquadMember{
			ID: id, Type: t, Level: level,
			HP: hp, MaxHP: hp, Attack: attack, Defense: defense, Speed: speed,
		})
	}}
}

// WithCatalogMember adds a raider straight from the catalog base stats.
func WithCatalogMember(id string, t UnitType, level int) SimOption {
	return SimOption{simOptUnit, func(bs *BattleSim) {
		base := BaseStats(t)
		bs.Squad = append(bs.Squad, SquadMember{
			ID: id, Type: t, Level: level,
			HP: base.MaxHP, MaxHP: base.MaxHP, Attack: base.Attack, Defense: base.Defense, Speed: base.Speed,
		})
	}}
}

// WithEnemies adds an enemy manifest group to the location.
func WithEnemies(t UnitType, count, wave int) SimOption {
	return SimOption{simOptUnit, func(bs *BattleSim) {
		bs.Location.Enemies = append(bs.Location.Enemies, EnemyGroup{Type: t, Count: count, Wave: wave})
		if wave > bs.Location.Waves {
			bs.Location.Waves = wave
		}
	}}
}

// WithBossEnemies adds a boss-flagged group with a level modifier.
func WithBossEnemies(t UnitType, count, wave int, levelMod float64) SimOption {
	return SimOption{simOptUnit, func(bs *BattleSim) {
		bs.Location.Enemies = append(bs.Location.Enemies, EnemyGroup{Type: t, Count: count, Wave: wave, LevelModifier: levelMod, IsBoss: true})
		if wave > bs.Location.Waves {
			bs.Location.Waves = wave
		}
	}}
}

// WithFortifications appends fortification types to the location.
func WithFortifications(types ...ObstacleType) SimOption {
	return SimOption{simOptUnit, func(bs *BattleSim) {
		bs.Location.Fortifications = append(bs.Location.Fortifications, types...)
	}}
}

// NewBattleSim constructs and initializes a harness battle. The battle is
// begun (ACTIVE) unless WithoutAutoBegin was given; construction panics if
// requirements fail, since harness scenarios are meant to start.
func NewBattleSim(opts ...SimOption) *BattleSim {
	bs := &BattleSim{
		seed:      1,
		cfg:       DefaultConfig(),
		autoBegin: true,
		Location: Location{
			ID:         "sim-location",
			Name:       "Harness Grounds",
			Difficulty: 1,
			IsUnlocked: true,
		},
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(bs)
		}
	}
	for _, o := range opts {
		if o.kind == simOptUnit {
			o.fn(bs)
		}
	}

	bs.Battle = NewBattle(bs.cfg, &Sequence{}, bs.seed)
	state, req := bs.Battle.InitializeBattle(bs.Squad, bs.Location, bs.formation)
	bs.Req = req
	if state == nil {
		panic("combat: harness battle cannot start: " + strings.Join(req.Errors, "; "))
	}
	if bs.autoBegin {
		state = bs.Battle.Begin(state)
	}
	bs.State = state
	return bs
}

// RunTicks advances the battle n full combat rounds of dt seconds each,
// stopping early on a terminal phase.
func (bs *BattleSim) RunTicks(n int, dt float64) {
	for i := 0; i < n; i++ {
		if bs.State.Phase.Terminal() {
			return
		}
		bs.State = bs.Battle.Step(bs.State, dt)
	}
}

// RunUntilTerminal steps until the battle ends or maxTicks elapse. Returns
// the final phase.
func (bs *BattleSim) RunUntilTerminal(maxTicks int, dt float64) Phase {
	for i := 0; i < maxTicks && !bs.State.Phase.Terminal(); i++ {
		bs.State = bs.Battle.Step(bs.State, dt)
	}
	return bs.State.Phase
}

// Result generates the battle result for the current state.
func (bs *BattleSim) Result() BattleResult {
	return bs.Battle.GenerateBattleResult(bs.State)
}
