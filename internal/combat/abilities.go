package combat

// AbilityKind classifies what an ability does when it fires.
type AbilityKind int

const (
	AbilityStrike AbilityKind = iota // direct or splash damage at a target
	AbilityHeal                      // restores hp to the most wounded ally
	AbilityRally                     // buffs nearby allies
)

func (k AbilityKind) String() string {
	switch k {
	case AbilityStrike:
		return "strike"
	case AbilityHeal:
		return "heal"
	case AbilityRally:
		return "rally"
	default:
		return "unknown"
	}
}

// Ability is a catalog-defined special action. Only units whose AI profile
// sets UsesAbilities ever fire one.
type Ability struct {
	ID         string
	Name       string
	Kind       AbilityKind
	DamageType DamageType
	Power      float64
	Range      float64
	Radius     float64 // splash/aura radius; 0 = single target
	Cooldown   float64 // seconds
	Applies    EffectType
}

// abilityReady reports whether the ability is off cooldown at battle time
// now.
func (u *Unit) abilityReady(a Ability, now float64) bool {
	if u.abilityReadyAt == nil {
		return true
	}
	return now >= u.abilityReadyAt[a.ID]
}

// markAbilityUsed starts the ability's cooldown.
func (u *Unit) markAbilityUsed(a Ability, now float64) {
	if u.abilityReadyAt == nil {
		u.abilityReadyAt = make(map[string]float64)
	}
	u.abilityReadyAt[a.ID] = now + a.Cooldown
}
