package combat

// EffectType tags a status effect in the static effect table.
type EffectType string

const (
	EffectNone     EffectType = ""
	EffectPoisoned EffectType = "poisoned"
	EffectBurning  EffectType = "burning"
	EffectStunned  EffectType = "stunned"
	EffectFear     EffectType = "fear"
	EffectBleeding EffectType = "bleeding"
	EffectWeakened EffectType = "weakened"
	EffectSlowed   EffectType = "slowed"
	EffectBuffed   EffectType = "buffed"
)

// ApplyEffect appends a new ActiveStatusEffect instance for the unit unless
// the per-effect stack cap is already reached, in which case the application
// is silently dropped. Reapplication never refreshes an existing instance's
// duration; a successful apply is always a new stack.
//
// A unit with full resistance (>= 1.0) to the effect's damage carrier shrugs
// the application off entirely; partial resistance shortens the duration.
func ApplyEffect(cfg Config, effects []ActiveStatusEffect, unit *Unit, effect EffectType, now float64) []ActiveStatusEffect {
	if effect == EffectNone || unit == nil || unit.IsDead {
		return effects
	}
	def := cfg.EffectDefFor(effect)
	if StacksOf(effects, unit.ID, effect) >= def.MaxStacks {
		return effects
	}
	resist := unit.Stats.Resistance(effectCarrier(effect))
	if resist >= 1.0 {
		return effects
	}
	duration := def.Duration * (1.0 - resist)
	if duration <= 0 {
		return effects
	}
	return append(effects, ActiveStatusEffect{
		Effect:    effect,
		UnitID:    unit.ID,
		Remaining: duration,
		Strength:  effectStrength(def),
		AppliedAt: now,
	})
}

// effectCarrier maps an effect to the damage type that resists it.
func effectCarrier(e EffectType) DamageType {
	switch e {
	case EffectPoisoned:
		return DamagePoison
	case EffectBurning:
		return DamageFire
	default:
		return DamagePhysical
	}
}

// effectStrength records the magnitude a single instance contributes: the
// per-second DoT percentage for damage effects, or the stat-modifier
// fraction for the rest.
func effectStrength(def EffectDef) float64 {
	if def.DamagePerSecond > 0 {
		return def.DamagePerSecond
	}
	if def.AttackMod != 0 {
		return def.AttackMod
	}
	if def.SpeedMod != 0 {
		return def.SpeedMod
	}
	return def.StatMod
}

// TickEffects subtracts dt from every instance's remaining duration and
// drops expired entries. The input slice is not modified.
func TickEffects(effects []ActiveStatusEffect, dt float64) []ActiveStatusEffect {
	if len(effects) == 0 {
		return nil
	}
	out := make([]ActiveStatusEffect, 0, len(effects))
	for _, e := range effects {
		e.Remaining -= dt
		if e.Remaining > 0 {
			out = append(out, e)
		}
	}
	return out
}

// DamageFromEffect computes the cumulative damage a DoT effect deals over
// the given duration at the given stack count:
// maxHp * (damagePerSecond/100) * duration * stacks.
func DamageFromEffect(cfg Config, effect EffectType, maxHP, duration float64, stacks int) float64 {
	def := cfg.EffectDefFor(effect)
	if def.DamagePerSecond <= 0 {
		return 0
	}
	return maxHP * (def.DamagePerSecond / 100.0) * duration * float64(stacks)
}

// EffectsOn returns the live instances attached to a unit.
func EffectsOn(effects []ActiveStatusEffect, unitID string) []ActiveStatusEffect {
	var out []ActiveStatusEffect
	for _, e := range effects {
		if e.UnitID == unitID {
			out = append(out, e)
		}
	}
	return out
}

// StacksOf counts live instances of one effect on one unit.
func StacksOf(effects []ActiveStatusEffect, unitID string, effect EffectType) int {
	n := 0
	for _, e := range effects {
		if e.UnitID == unitID && e.Effect == effect {
			n++
		}
	}
	return n
}

// HasEffect reports whether at least one instance of the effect is live on
// the unit.
func HasEffect(effects []ActiveStatusEffect, unitID string, effect EffectType) bool {
	return StacksOf(effects, unitID, effect) > 0
}

// Stat-modifying effects are applied at point of use rather than written
// into base stats, so expiry never has to restore an original value.

// EffectiveAttack returns the unit's attack after WEAKENED and BUFFED
// modifiers.
func EffectiveAttack(cfg Config, effects []ActiveStatusEffect, u *Unit) float64 {
	mod := 1.0
	if n := StacksOf(effects, u.ID, EffectWeakened); n > 0 {
		mod += cfg.EffectDefFor(EffectWeakened).AttackMod * float64(n)
	}
	if n := StacksOf(effects, u.ID, EffectBuffed); n > 0 {
		mod += cfg.EffectDefFor(EffectBuffed).StatMod * float64(n)
	}
	if mod < 0 {
		mod = 0
	}
	return u.Stats.Attack * mod
}

// EffectiveSpeed returns the unit's movement speed after SLOWED and BUFFED
// modifiers.
func EffectiveSpeed(cfg Config, effects []ActiveStatusEffect, u *Unit) float64 {
	mod := 1.0
	if n := StacksOf(effects, u.ID, EffectSlowed); n > 0 {
		mod += cfg.EffectDefFor(EffectSlowed).SpeedMod * float64(n)
	}
	if n := StacksOf(effects, u.ID, EffectBuffed); n > 0 {
		mod += cfg.EffectDefFor(EffectBuffed).StatMod * float64(n)
	}
	if mod < 0 {
		mod = 0
	}
	return u.Stats.Speed * mod
}

// ActionBlocked reports whether the unit is prevented from acting (STUNNED)
// this tick.
func ActionBlocked(cfg Config, effects []ActiveStatusEffect, unitID string) bool {
	for _, e := range effects {
		if e.UnitID == unitID && cfg.EffectDefFor(e.Effect).PreventsAction {
			return true
		}
	}
	return false
}

// ForcedToFlee reports whether the unit is under a flee-forcing effect
// (FEAR) this tick.
func ForcedToFlee(cfg Config, effects []ActiveStatusEffect, unitID string) bool {
	for _, e := range effects {
		if e.UnitID == unitID && cfg.EffectDefFor(e.Effect).ForcesFlee {
			return true
		}
	}
	return false
}
