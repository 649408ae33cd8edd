package combat

import (
	"fmt"
	"math/rand"
	"time"
)

// Battle is the orchestrator for one or more raids: it owns the
// configuration, the damage calculator, the ID source, and the seeded
// randomness. All state transforms take and return CombatState values; the
// orchestrator itself holds no battle state.
type Battle struct {
	cfg  Config
	calc *DamageCalculator
	ids  IDSource
	rng  *rand.Rand
	now  func() time.Time
}

// NewBattle builds an orchestrator. The seed drives every random decision
// (spawn jitter, critical rolls) so identical inputs replay identically.
func NewBattle(cfg Config, ids IDSource, seed int64) *Battle {
	return &Battle{
		cfg:  cfg,
		calc: NewDamageCalculator(cfg),
		ids:  ids,
		rng:  rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
		now:  time.Now,
	}
}

// WithClock overrides the wall clock used for raid-cooldown checks. Tests
// use this; the simulation itself never reads it.
func (b *Battle) WithClock(now func() time.Time) *Battle {
	b.now = now
	return b
}

// Config returns the orchestrator's configuration.
func (b *Battle) Config() Config {
	return b.cfg
}

// InitializeBattle validates the squad against the location and, when the
// raid can start, builds a PREPARATION-phase CombatState: raiders positioned
// by formation on the left, wave 1 spawned and positioned on the right,
// fortifications placed between them; zero duration, no effects, empty log,
// retreat flags cleared. A nil state is returned when requirements fail.
func (b *Battle) InitializeBattle(squad []SquadMember, loc Location, formation FormationType) (*CombatState, BattleRequirements) {
	req := CheckBattleRequirements(squad, loc, b.cfg, b.now())
	if !req.CanStart {
		return nil, req
	}

	units := make([]*Unit, 0, len(squad))
	for _, m := range squad {
		units = append(units, memberToUnit(m, b.ids))
	}
	positionSquad(units, formation)

	waves := CreateWaveDefinitions(loc)
	state := &CombatState{
		BattleID:    b.ids.Next("battle"),
		LocationID:  loc.ID,
		Phase:       PhasePreparation,
		Squad:       units,
		TotalWaves:  loc.Waves,
		CurrentWave: 1,
		Log:         NewBattleLog(),
		Difficulty:  loc.Difficulty,
		Rewards:     loc.Rewards.clone(),
		Unlocks:     append([]string(nil), loc.Unlocks...),
		waves:       waves,
	}
	state.Enemies = SpawnWave(waves, 1, loc.Difficulty, b.ids, b.rng)
	state.Obstacles = b.placeFortifications(loc.Fortifications)
	return state, req
}

// Fortification line geometry: defenses stand in columns ahead of the
// defender spawn band.
const (
	fortLineX       = 1380.0
	fortColumnStepX = 80.0
	fortRowSpacingY = 140.0
	fortPerColumn   = 7
)

// placeFortifications lays the location's fortification list out in columns
// in front of the defenders, skipping any position the spacing rule
// rejects.
func (b *Battle) placeFortifications(types []ObstacleType) []*Obstacle {
	var out []*Obstacle
	rows := len(types)
	if rows > fortPerColumn {
		rows = fortPerColumn
	}
	for i, t := range types {
		col := i / fortPerColumn
		row := i % fortPerColumn
		x := fortLineX + float64(col)*fortColumnStepX
		y := deployCenterY + (float64(row)-float64(rows-1)/2)*fortRowSpacingY
		y = clamp(y, spawnBandMinY, spawnBandMaxY)
		if !CanPlaceFortification(x, y, out) {
			continue
		}
		out = append(out, NewObstacle(b.ids.Next("obstacle"), t, x, y))
	}
	return out
}

// Begin moves a prepared battle into the ACTIVE phase. Any other phase is
// returned unchanged.
func (b *Battle) Begin(state *CombatState) *CombatState {
	if state.Phase != PhasePreparation {
		return state
	}
	s := state.Clone()
	s.Phase = PhaseActive
	for _, u := range append(s.AliveSquad(), s.AliveEnemies()...) {
		u.AIState = AIStateAdvancing
	}
	s.Log.Add(s.BattleDuration, LogPhase, "battle started")
	return s
}

// SimulateBattleTick performs the fixed per-tick bookkeeping: accumulate
// duration, run down the retreat countdown, decay and prune status effects,
// then evaluate terminal conditions. The sequence never varies, so results
// are reproducible given identical (state, dt) inputs.
func (b *Battle) SimulateBattleTick(state *CombatState, dt float64) *CombatState {
	s := state.Clone()
	s.advanceClock(dt)
	b.evaluatePhase(s)
	return s
}

// advanceClock applies the time-keeping third of a tick in fixed order:
// duration, retreat countdown, effect decay.
func (cs *CombatState) advanceClock(dt float64) {
	cs.BattleDuration += dt
	if cs.IsRetreating && cs.RetreatCountdown > 0 {
		cs.RetreatCountdown -= dt
		if cs.RetreatCountdown < 0 {
			cs.RetreatCountdown = 0
		}
	}
	cs.ActiveEffects = TickEffects(cs.ActiveEffects, dt)
}

// evaluatePhase checks terminal conditions in fixed order: squad wiped,
// defenders cleared, retreat countdown expired. Terminal phases are one-way
// and never re-evaluated.
func (b *Battle) evaluatePhase(s *CombatState) {
	if s.Phase != PhaseActive && s.Phase != PhaseRetreat {
		return
	}
	switch {
	case len(s.AliveSquad()) == 0:
		s.Phase = PhaseDefeat
		s.Log.Add(s.BattleDuration, LogPhase, "squad wiped out, defeat")
	case len(s.AliveEnemies()) == 0 && s.CurrentWave >= s.TotalWaves:
		s.Phase = PhaseVictory
		s.Log.Add(s.BattleDuration, LogPhase, "all defenders destroyed, victory")
	case s.IsRetreating && s.RetreatCountdown <= 0:
		// A completed retreat is a loss outcome for reward purposes.
		s.Phase = PhaseDefeat
		s.Log.Add(s.BattleDuration, LogPhase, "retreat complete, battle lost")
	}
}

// InitiateRetreat starts the retreat countdown. Only meaningful from the
// ACTIVE phase with at least one living raider; anything else is returned
// unchanged.
func (b *Battle) InitiateRetreat(state *CombatState) *CombatState {
	if state.Phase != PhaseActive || len(state.AliveSquad()) == 0 || state.IsRetreating {
		return state
	}
	s := state.Clone()
	s.IsRetreating = true
	s.RetreatCountdown = b.cfg.RetreatCountdownSeconds
	s.Phase = PhaseRetreat
	for _, u := range s.AliveSquad() {
		u.AIState = AIStateRetreating
		u.TargetID = ""
	}
	s.Log.Add(s.BattleDuration, LogRetreat, fmt.Sprintf("retreat initiated, %.0fs to disengage", s.RetreatCountdown))
	return s
}

// BattleResult is the terminal output of one raid, consumed by the
// roster/inventory systems to apply permanent effects.
type BattleResult struct {
	BattleID   string         `json:"battle_id"`
	LocationID string         `json:"location_id"`
	Victory    bool           `json:"victory"`
	Survivors  []string       `json:"survivors"`
	Casualties []string       `json:"casualties"`
	XPGained   map[string]int `json:"xp_gained"`
	Rewards    Rewards        `json:"rewards"`
	Unlocks    []string       `json:"unlocks"`
	Stats      BattleStats    `json:"stats"`
}

// GenerateBattleResult distils a terminal state into the final result.
// Victory grants full XP and the location rewards; flawless victories
// (zero casualties) take the bonus multiplier. Defeat records casualties,
// grants survivors a token XP award, and carries no rewards.
func (b *Battle) GenerateBattleResult(state *CombatState) BattleResult {
	res := BattleResult{
		BattleID:   state.BattleID,
		LocationID: state.LocationID,
		Victory:    state.Phase == PhaseVictory,
		XPGained:   make(map[string]int),
		Stats:      state.Stats,
	}
	res.Stats.Duration = state.BattleDuration

	for _, u := range state.Squad {
		if u.IsDead {
			res.Casualties = append(res.Casualties, u.ID)
		} else {
			res.Survivors = append(res.Survivors, u.ID)
		}
	}

	if res.Victory {
		xp := b.cfg.VictoryXP * maxInt(1, state.Difficulty)
		for _, id := range res.Survivors {
			res.XPGained[id] = xp
		}
		res.Rewards = state.Rewards.clone()
		res.Unlocks = append([]string(nil), state.Unlocks...)
		res.Stats.Flawless = len(res.Casualties) == 0
		if res.Stats.Flawless {
			scaleRewards(&res.Rewards, b.cfg.FlawlessBonus)
		}
	} else {
		for _, id := range res.Survivors {
			res.XPGained[id] = b.cfg.DefeatXP
		}
	}
	return res
}

func scaleRewards(r *Rewards, factor float64) {
	for k, v := range r.Currencies {
		r.Currencies[k] = int(float64(v) * factor)
	}
	for k, v := range r.Resources {
		r.Resources[k] = int(float64(v) * factor)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
