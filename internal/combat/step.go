package combat

import (
	"fmt"
	"math"
)

// Movement/engagement tuning.
const (
	// Melee units stop and batter a movement-blocking obstacle once it is
	// this close and in their path.
	obstacleEngageRange = 48.0
	// Half-width of the lane a blocking obstacle must sit in to count as
	// "in the path".
	obstacleLaneWidth = 40.0
	// Defenders with CanFlee break below this hp fraction.
	fleeHPFrac = 0.25
)

// dotEffects are the damage-over-time effects applied each tick.
var dotEffects = []EffectType{EffectPoisoned, EffectBurning, EffectBleeding}

// Step advances one full combat round. In fixed order: time bookkeeping and
// effect decay, per-unit AI (movement, retargeting, attacks, abilities),
// damage over time, trap triggering, wave progression, terminal phase
// evaluation. The input state is never mutated; the returned clone is the
// new truth.
func (b *Battle) Step(state *CombatState, dt float64) *CombatState {
	s := state.Clone()
	s.advanceClock(dt)
	if s.Phase == PhaseActive || s.Phase == PhaseRetreat {
		b.actUnits(s, dt)
		b.applyDamageOverTime(s, dt)
		b.springTraps(s)
		b.advanceWaves(s)
	}
	b.evaluatePhase(s)
	return s
}

// actUnits runs every living combatant once, squad first then defenders,
// in slice order; the iteration order is part of determinism.
func (b *Battle) actUnits(s *CombatState, dt float64) {
	for _, u := range s.Squad {
		b.actUnit(s, u, dt)
	}
	for _, u := range s.Enemies {
		b.actUnit(s, u, dt)
	}
}

func (b *Battle) actUnit(s *CombatState, u *Unit, dt float64) {
	if u.IsDead {
		return
	}
	now := s.BattleDuration

	if ActionBlocked(b.cfg, s.ActiveEffects, u.ID) {
		u.AIState = AIStateStunned
		return
	}
	if u.AIState == AIStateStunned {
		u.AIState = AIStateAdvancing
	}

	if ForcedToFlee(b.cfg, s.ActiveEffects, u.ID) || b.wantsToFlee(u) {
		u.AIState = AIStateFleeing
		u.TargetID = ""
		b.fleeMove(s, u, dt)
		return
	}

	if s.IsRetreating && u.Team == TeamRaiders {
		u.AIState = AIStateRetreating
		b.withdrawMove(u, dt, s)
		return
	}

	foes := s.AliveEnemies()
	if u.Team == TeamDefenders {
		foes = s.AliveSquad()
	}
	if len(foes) == 0 {
		u.AIState = AIStateIdle
		return
	}

	current := s.Unit(u.TargetID)
	if current != nil && (current.Team == u.Team || current.IsDead) {
		current = nil
	}
	if ShouldRetarget(u, current, foes, u.Profile.Priority) {
		pri := u.Profile.Priority
		if pri == PriorityNone {
			pri = PriorityClosest
		}
		if next := SelectTarget(u, foes, pri); next != nil {
			u.TargetID = next.ID
		}
	}
	target := s.Unit(u.TargetID)
	if target == nil || target.IsDead {
		u.AIState = AIStateIdle
		return
	}

	if u.Profile.UsesAbilities && b.tryAbility(s, u, target, now) {
		return
	}

	if InRange(u, target) && HasLineOfSight(u.X, u.Y, target.X, target.Y, s.Obstacles) {
		u.AIState = AIStateEngaging
		if attackReady(u, now) {
			b.performAttack(s, u, target, now)
		}
		return
	}

	if ob := blockingObstacleAhead(u, target, s.Obstacles); ob != nil {
		u.AIState = AIStateEngaging
		if attackReady(u, now) {
			b.attackObstacle(s, u, ob, now)
		}
		return
	}

	u.AIState = AIStateAdvancing
	b.moveToward(s, u, target, dt)
}

func attackReady(u *Unit, now float64) bool {
	return u.LastAttackAt == 0 || now-u.LastAttackAt >= u.Stats.AttackCooldown
}

// wantsToFlee reports whether a defender's AI breaks at low hp.
func (b *Battle) wantsToFlee(u *Unit) bool {
	return u.Team == TeamDefenders && u.Profile.CanFlee && u.Stats.HP < u.Stats.MaxHP*fleeHPFrac
}

// fleeMove runs the unit directly away from its nearest living opponent.
func (b *Battle) fleeMove(s *CombatState, u *Unit, dt float64) {
	foes := s.AliveEnemies()
	if u.Team == TeamDefenders {
		foes = s.AliveSquad()
	}
	var nearest *Unit
	best := math.MaxFloat64
	for _, f := range foes {
		if d := distance(u.X, u.Y, f.X, f.Y); d < best {
			best = d
			nearest = f
		}
	}
	if nearest == nil {
		return
	}
	dx := u.X - nearest.X
	dy := u.Y - nearest.Y
	norm := math.Hypot(dx, dy)
	if norm < 1e-9 {
		dx, dy, norm = 1, 0, 1
	}
	step := EffectiveSpeed(b.cfg, s.ActiveEffects, u) * dt
	u.X = clamp(u.X+dx/norm*step, 0, BattlefieldWidth)
	u.Y = clamp(u.Y+dy/norm*step, 0, BattlefieldHeight)
}

// withdrawMove walks a retreating raider back toward the left field edge.
func (b *Battle) withdrawMove(u *Unit, dt float64, s *CombatState) {
	step := EffectiveSpeed(b.cfg, s.ActiveEffects, u) * dt
	u.X = clamp(u.X-step, 0, BattlefieldWidth)
}

// moveToward advances the unit in a straight line, stopping at attack
// range. Point entities, no pathfinding: blocking obstacles are handled by
// engaging them once they are in the lane.
func (b *Battle) moveToward(s *CombatState, u *Unit, target *Unit, dt float64) {
	dist := distance(u.X, u.Y, target.X, target.Y)
	travel := dist - u.Stats.Range
	if travel <= 0 {
		return
	}
	step := EffectiveSpeed(b.cfg, s.ActiveEffects, u) * dt
	dx := (target.X - u.X) / dist
	dy := (target.Y - u.Y) / dist
	if step >= travel {
		// Snap onto the range boundary so InRange holds next tick.
		u.X = target.X - dx*u.Stats.Range
		u.Y = target.Y - dy*u.Stats.Range
	} else {
		u.X = u.X + dx*step
		u.Y = u.Y + dy*step
	}
	u.X = clamp(u.X, 0, BattlefieldWidth)
	u.Y = clamp(u.Y, 0, BattlefieldHeight)
}

// blockingObstacleAhead returns a movement-blocking obstacle that sits in
// the unit's lane toward its target and close enough to engage, or nil.
func blockingObstacleAhead(u *Unit, target *Unit, obstacles []*Obstacle) *Obstacle {
	var best *Obstacle
	bestDist := obstacleEngageRange
	for _, o := range obstacles {
		if !o.BlocksMovement() {
			continue
		}
		d := distance(u.X, u.Y, o.X, o.Y)
		if d > bestDist {
			continue
		}
		// Must actually be between the unit and its target.
		if pointToSegmentDist(o.X, o.Y, u.X, u.Y, target.X, target.Y) > obstacleLaneWidth {
			continue
		}
		best = o
		bestDist = d
	}
	return best
}

// performAttack resolves one ordinary attack, books the damage, applies any
// on-hit effect, and logs the swing.
func (b *Battle) performAttack(s *CombatState, u, target *Unit, now float64) {
	damageType := DamagePhysical
	onHit := EffectNone
	if KnownUnitType(u.Type) {
		damageType = AttackDamageType(u.Type)
		onHit = OnHitEffect(u.Type)
	}

	crit := b.rng.Float64() < b.cfg.CriticalChance
	eff := EffectiveAttack(b.cfg, s.ActiveEffects, u)
	calc := b.calc.ComputeDamage(u, target, damageType, DamageOpts{IsCritical: crit, AttackOverride: eff})

	target.ApplyDamage(calc.FinalDamage)
	u.LastAttackAt = now
	b.bookDamage(s, u.Team, calc.FinalDamage)

	msg := fmt.Sprintf("%s hits %s for %.0f", unitLabel(u), unitLabel(target), calc.FinalDamage)
	if calc.IsCritical {
		msg += " (critical)"
	}
	s.Log.AddData(now, LogAttack, msg, map[string]float64{
		"damage":          calc.FinalDamage,
		"armor_reduction": calc.ArmorReduction,
		"type_multiplier": calc.TypeMultiplier,
	}, u.ID, target.ID)

	if !target.IsDead && onHit != EffectNone {
		before := len(s.ActiveEffects)
		s.ActiveEffects = ApplyEffect(b.cfg, s.ActiveEffects, target, onHit, now)
		if len(s.ActiveEffects) > before {
			s.Log.Add(now, LogEffect, fmt.Sprintf("%s is %s", unitLabel(target), onHit), target.ID)
		}
	}
	b.bookDeath(s, target, now)
}

// attackObstacle batters a fortification. Obstacle armor is flat defense;
// the minimum-damage floor still applies.
func (b *Battle) attackObstacle(s *CombatState, u *Unit, o *Obstacle, now float64) {
	eff := EffectiveAttack(b.cfg, s.ActiveEffects, u)
	dmg := math.Floor(eff - o.Defense)
	if dmg < b.cfg.MinimumDamage {
		dmg = b.cfg.MinimumDamage
	}
	o.HP -= dmg
	u.LastAttackAt = now
	s.Log.Add(now, LogObstacle, fmt.Sprintf("%s batters %s for %.0f", unitLabel(u), o.Type, dmg), u.ID)
	if DestroyFortification(o) {
		s.Stats.ObstaclesDestroyed++
		s.Log.Add(now, LogObstacle, fmt.Sprintf("%s destroyed", o.Type), u.ID)
	}
}

// tryAbility fires the first ready, applicable ability. Returns true when
// one was used; the unit's ordinary attack is skipped that tick.
func (b *Battle) tryAbility(s *CombatState, u, target *Unit, now float64) bool {
	for _, a := range u.Abilities {
		if !u.abilityReady(a, now) {
			continue
		}
		switch a.Kind {
		case AbilityHeal:
			if b.castHeal(s, u, a, now) {
				return true
			}
		case AbilityStrike:
			if b.castStrike(s, u, target, a, now) {
				return true
			}
		case AbilityRally:
			if b.castRally(s, u, a, now) {
				return true
			}
		}
	}
	return false
}

func (b *Battle) castHeal(s *CombatState, u *Unit, a Ability, now float64) bool {
	allies := s.AliveSquad()
	if u.Team == TeamDefenders {
		allies = s.AliveEnemies()
	}
	var worst *Unit
	worstFrac := 1.0
	for _, al := range allies {
		if al.ID == u.ID || distance(u.X, u.Y, al.X, al.Y) > a.Range {
			continue
		}
		frac := al.Stats.HP / al.Stats.MaxHP
		if frac < worstFrac {
			worstFrac = frac
			worst = al
		}
	}
	if worst == nil {
		return false
	}
	worst.Stats.HP = math.Min(worst.Stats.MaxHP, worst.Stats.HP+a.Power)
	u.markAbilityUsed(a, now)
	s.Log.Add(now, LogAbility, fmt.Sprintf("%s casts %s on %s", unitLabel(u), a.Name, unitLabel(worst)), u.ID, worst.ID)
	return true
}

func (b *Battle) castStrike(s *CombatState, u, target *Unit, a Ability, now float64) bool {
	if target == nil || target.IsDead {
		return false
	}
	if distance(u.X, u.Y, target.X, target.Y) > a.Range {
		return false
	}
	if !HasLineOfSight(u.X, u.Y, target.X, target.Y, s.Obstacles) {
		return false
	}

	victims := []*Unit{target}
	if a.Radius > 0 {
		foes := s.AliveSquad()
		if u.Team == TeamRaiders {
			foes = s.AliveEnemies()
		}
		for _, f := range foes {
			if f.ID != target.ID && distance(target.X, target.Y, f.X, f.Y) <= a.Radius {
				victims = append(victims, f)
			}
		}
	}

	for _, v := range victims {
		calc := b.calc.ComputeRawDamage(a.Power, v, a.DamageType)
		v.ApplyDamage(calc.FinalDamage)
		b.bookDamage(s, u.Team, calc.FinalDamage)
		if !v.IsDead && a.Applies != EffectNone {
			s.ActiveEffects = ApplyEffect(b.cfg, s.ActiveEffects, v, a.Applies, now)
		}
		b.bookDeath(s, v, now)
	}
	u.markAbilityUsed(a, now)
	s.Log.Add(now, LogAbility, fmt.Sprintf("%s casts %s, %d struck", unitLabel(u), a.Name, len(victims)), u.ID)
	return true
}

func (b *Battle) castRally(s *CombatState, u *Unit, a Ability, now float64) bool {
	allies := s.AliveSquad()
	if u.Team == TeamDefenders {
		allies = s.AliveEnemies()
	}
	buffed := 0
	for _, al := range allies {
		if distance(u.X, u.Y, al.X, al.Y) > a.Radius {
			continue
		}
		before := len(s.ActiveEffects)
		s.ActiveEffects = ApplyEffect(b.cfg, s.ActiveEffects, al, a.Applies, now)
		if len(s.ActiveEffects) > before {
			buffed++
		}
	}
	if buffed == 0 {
		return false
	}
	u.markAbilityUsed(a, now)
	s.Log.Add(now, LogAbility, fmt.Sprintf("%s rallies %d allies", unitLabel(u), buffed), u.ID)
	return true
}

// applyDamageOverTime charges every living unit for its POISONED, BURNING
// and BLEEDING stacks: maxHp * (pct/100) * dt * stacks per effect.
func (b *Battle) applyDamageOverTime(s *CombatState, dt float64) {
	for _, u := range append(append([]*Unit(nil), s.Squad...), s.Enemies...) {
		if u.IsDead {
			continue
		}
		for _, e := range dotEffects {
			stacks := StacksOf(s.ActiveEffects, u.ID, e)
			if stacks == 0 {
				continue
			}
			dmg := DamageFromEffect(b.cfg, e, u.Stats.MaxHP, dt, stacks)
			if dmg <= 0 {
				continue
			}
			u.ApplyDamage(dmg)
			b.bookDamage(s, opposing(u.Team), dmg)
			b.bookDeath(s, u, s.BattleDuration)
		}
	}
}

// springTraps fires any armed trap a raider has stepped onto. Each trap
// fires exactly once, against its first victim.
func (b *Battle) springTraps(s *CombatState) {
	for _, o := range s.Obstacles {
		if o.Trap == nil || o.Trap.Triggered {
			continue
		}
		for _, u := range s.AliveSquad() {
			if distance(u.X, u.Y, o.X, o.Y) > trapTriggerRadius {
				continue
			}
			res := TriggerTrap(o)
			if !res.Triggered {
				break
			}
			calc := b.calc.ComputeRawDamage(res.Damage, u, res.DamageType)
			u.ApplyDamage(calc.FinalDamage)
			b.bookDamage(s, TeamDefenders, calc.FinalDamage)
			s.Log.Add(s.BattleDuration, LogTrap, fmt.Sprintf("%s triggers %s for %.0f", unitLabel(u), o.Type, calc.FinalDamage), u.ID)
			if !u.IsDead && res.Applies != EffectNone {
				s.ActiveEffects = ApplyEffect(b.cfg, s.ActiveEffects, u, res.Applies, s.BattleDuration)
			}
			b.bookDeath(s, u, s.BattleDuration)
			break
		}
	}
}

// advanceWaves spawns the next wave once the current one is wiped.
func (b *Battle) advanceWaves(s *CombatState) {
	if !ShouldSpawnNextWave(s.Enemies, s.CurrentWave, s.TotalWaves) {
		return
	}
	next := s.CurrentWave + 1
	if GetNextWave(s.waves, s.CurrentWave) == nil {
		return
	}
	// The wave counter advances even when the manifest spawns nothing,
	// otherwise an empty wave would stall the battle forever.
	s.CurrentWave = next
	spawned := SpawnWave(s.waves, next, s.Difficulty, b.ids, b.rng)
	if len(spawned) == 0 {
		return
	}
	for _, e := range spawned {
		e.AIState = AIStateAdvancing
	}
	s.Enemies = append(s.Enemies, spawned...)
	s.Log.Add(s.BattleDuration, LogWave, fmt.Sprintf("wave %d/%d: %d defenders", next, s.TotalWaves, len(spawned)))
}

// bookDamage accumulates battle totals. Damage by raiders is "dealt",
// damage by defenders (or their traps) is "taken".
func (b *Battle) bookDamage(s *CombatState, by Team, amount float64) {
	if by == TeamRaiders {
		s.Stats.TotalDamageDealt += amount
	} else {
		s.Stats.TotalDamageTaken += amount
	}
}

// bookDeath logs a kill once, at the tick the unit died.
func (b *Battle) bookDeath(s *CombatState, u *Unit, now float64) {
	if !u.IsDead || u.deathBooked {
		return
	}
	u.deathBooked = true
	if u.Team == TeamDefenders {
		s.Stats.EnemiesKilled++
	}
	s.Log.Add(now, LogDeath, fmt.Sprintf("%s falls", unitLabel(u)), u.ID)
}

func opposing(t Team) Team {
	if t == TeamRaiders {
		return TeamDefenders
	}
	return TeamRaiders
}

func unitLabel(u *Unit) string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}
