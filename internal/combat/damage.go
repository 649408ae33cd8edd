package combat

import "math"

// DamageOpts carries the optional inputs to a damage computation.
type DamageOpts struct {
	IsCritical bool
	// IgnoreArmor forces zero armor reduction regardless of damage type.
	IgnoreArmor bool
	// AttackOverride substitutes the attacker's effective attack (after
	// status modifiers) for the raw stat. Zero means use the raw stat.
	AttackOverride float64
}

// DamageCalculation is the full audit trail of one damage computation, so
// callers, the battle log, and tests can verify every branch rather than
// just the scalar result.
type DamageCalculation struct {
	BaseDamage         float64
	ArmorReduction     float64
	AfterArmor         float64
	TypeMultiplier     float64
	CriticalMultiplier float64
	FinalDamage        float64
	DamageType         DamageType
	IsCritical         bool
}

// DamageCalculator resolves attacks against the configured damage-type
// table. It holds no battle state; one instance serves a whole battle.
type DamageCalculator struct {
	cfg Config
}

// NewDamageCalculator builds a calculator over an explicit configuration.
func NewDamageCalculator(cfg Config) *DamageCalculator {
	return &DamageCalculator{cfg: cfg}
}

// ComputeDamage resolves one hit from attacker to defender.
//
// Pipeline: attack → armor reduction by damage-type category → class
// multiplier (holy vs undead, dark vs the weak-willed) → critical
// multiplier → floor() → minimum-damage clamp. Every successful hit deals
// at least MinimumDamage, even against overwhelming defense.
func (dc *DamageCalculator) ComputeDamage(attacker, defender *Unit, damageType DamageType, opts DamageOpts) DamageCalculation {
	base := attacker.Stats.Attack
	if opts.AttackOverride > 0 {
		base = opts.AttackOverride
	}
	return dc.resolve(base, defender, damageType, opts)
}

// ComputeRawDamage resolves environmental damage (traps, splash) that has a
// flat base amount instead of an attacker stat.
func (dc *DamageCalculator) ComputeRawDamage(amount float64, defender *Unit, damageType DamageType) DamageCalculation {
	return dc.resolve(amount, defender, damageType, DamageOpts{})
}

func (dc *DamageCalculator) resolve(base float64, defender *Unit, damageType DamageType, opts DamageOpts) DamageCalculation {
	mod := dc.cfg.DamageTypes[damageType]
	var reduction float64
	switch {
	case opts.IgnoreArmor || mod.IgnoresArmor:
		reduction = 0
	case mod.ArmorPenetration > 0:
		reduction = defender.Stats.Defense * (1.0 - mod.ArmorPenetration)
	case mod.VsArmorFactor > 0:
		reduction = defender.Stats.Defense * mod.VsArmorFactor
	default:
		reduction = defender.Stats.Defense
	}
	afterArmor := base - reduction

	typeMul := 1.0
	switch {
	case damageType == DamageHoly && IsUndead(defender.Type):
		typeMul = dc.cfg.VsUndeadMultiplier
	case damageType == DamageDark && IsWeakWilled(defender.Type):
		typeMul = dc.cfg.VsPeasantsMultiplier
	}

	critMul := 1.0
	if opts.IsCritical {
		critMul = dc.cfg.CriticalMultiplier
	}

	final := math.Floor(afterArmor * typeMul * critMul)
	if final < dc.cfg.MinimumDamage {
		final = dc.cfg.MinimumDamage
	}

	return DamageCalculation{
		BaseDamage:         base,
		ArmorReduction:     reduction,
		AfterArmor:         afterArmor,
		TypeMultiplier:     typeMul,
		CriticalMultiplier: critMul,
		FinalDamage:        final,
		DamageType:         damageType,
		IsCritical:         opts.IsCritical,
	}
}

// ScaleStats applies difficulty and level scaling to a base stat block:
// factor = (1 + (difficulty-1) * 0.15) * levelModifier. HP, attack and
// defense scale and are floored to integers; speed and range are explicitly
// excluded from scaling.
func ScaleStats(base Stats, difficulty int, levelModifier float64) Stats {
	if levelModifier <= 0 {
		levelModifier = 1.0
	}
	factor := (1.0 + float64(difficulty-1)*0.15) * levelModifier

	out := base.clone()
	out.MaxHP = math.Floor(base.MaxHP * factor)
	out.HP = out.MaxHP
	out.Attack = math.Floor(base.Attack * factor)
	out.Defense = math.Floor(base.Defense * factor)
	return out
}
