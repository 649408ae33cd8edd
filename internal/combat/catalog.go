package combat

import "fmt"

// UnitType tags a combatant archetype. Raider types are the farm-grown
// undead; defender types garrison raid locations.
type UnitType string

const (
	// Raider (undead) types.
	UnitShambler UnitType = "shambler"
	UnitRunner   UnitType = "runner"
	UnitBrute    UnitType = "brute"
	UnitSpitter  UnitType = "spitter"
	UnitBloater  UnitType = "bloater"

	// Defender types.
	UnitPeasant     UnitType = "peasant"
	UnitMilitia     UnitType = "militia"
	UnitArcher      UnitType = "archer"
	UnitCrossbowman UnitType = "crossbowman"
	UnitKnight      UnitType = "knight"
	UnitPaladin     UnitType = "paladin"
	UnitPriest      UnitType = "priest"
	UnitMage        UnitType = "mage"
	UnitNecromancer UnitType = "necromancer"
	UnitGeneral     UnitType = "general"
)

// unitSpec is one row of the static unit catalog.
type unitSpec struct {
	name       string
	stats      Stats
	damageType DamageType
	onHit      EffectType // effect applied by ordinary attacks, EffectNone for most
	profile    AIProfile
	abilities  []Ability
	undead     bool
	weakWilled bool
	tank       bool
}

// unitCatalog is the static per-type base table. Ranges: melee reach is a
// small contact distance, missile ranges are in battlefield pixels.
var unitCatalog = map[UnitType]unitSpec{
	UnitShambler: {
		name:       "Shambler",
		stats:      Stats{MaxHP: 80, Attack: 12, Defense: 4, Speed: 40, Range: 2, AttackCooldown: 1.5, Resistances: map[DamageType]float64{DamagePoison: 1.0}},
		damageType: DamagePhysical,
		profile:    AIProfile{Aggression: 0.6, Priority: PriorityClosest},
		undead:     true,
	},
	UnitRunner: {
		name:       "Runner",
		stats:      Stats{MaxHP: 60, Attack: 10, Defense: 2, Speed: 95, Range: 2, AttackCooldown: 1.0, Resistances: map[DamageType]float64{DamagePoison: 1.0}},
		damageType: DamagePhysical,
		profile:    AIProfile{Aggression: 0.8, Priority: PrioritySupport}, // runs down healers
		undead:     true,
	},
	UnitBrute: {
		name:       "Brute",
		stats:      Stats{MaxHP: 250, Attack: 35, Defense: 20, Speed: 35, Range: 3, AttackCooldown: 2.0, Resistances: map[DamageType]float64{DamagePoison: 1.0}},
		damageType: DamageCrushing,
		profile:    AIProfile{Aggression: 0.9, Priority: PriorityHighestThreat},
		undead:     true,
		tank:       true,
	},
	UnitSpitter: {
		name:       "Spitter",
		stats:      Stats{MaxHP: 70, Attack: 14, Defense: 3, Speed: 45, Range: 300, AttackCooldown: 2.0, Resistances: map[DamageType]float64{DamagePoison: 1.0}},
		damageType: DamagePoison,
		onHit:      EffectPoisoned,
		profile:    AIProfile{Aggression: 0.5, Priority: PriorityRanged, PreferredRange: 260},
		undead:     true,
	},
	UnitBloater: {
		name:       "Bloater",
		stats:      Stats{MaxHP: 140, Attack: 18, Defense: 6, Speed: 30, Range: 2, AttackCooldown: 2.5, Resistances: map[DamageType]float64{DamagePoison: 1.0}},
		damageType: DamagePoison,
		onHit:      EffectPoisoned,
		profile:    AIProfile{Aggression: 0.7, Priority: PriorityWeakest},
		undead:     true,
	},

	UnitPeasant: {
		name:       "Peasant",
		stats:      Stats{MaxHP: 50, Attack: 8, Defense: 2, Speed: 50, Range: 2, AttackCooldown: 1.5},
		damageType: DamagePhysical,
		profile:    AIProfile{Aggression: 0.3, Priority: PriorityClosest, CanFlee: true},
		weakWilled: true,
	},
	UnitMilitia: {
		name:       "Militia",
		stats:      Stats{MaxHP: 80, Attack: 12, Defense: 6, Speed: 50, Range: 2, AttackCooldown: 1.5},
		damageType: DamagePhysical,
		profile:    AIProfile{Aggression: 0.5, Priority: PriorityClosest},
		weakWilled: true,
	},
	UnitArcher: {
		name:       "Archer",
		stats:      Stats{MaxHP: 55, Attack: 15, Defense: 3, Speed: 55, Range: 420, AttackCooldown: 2.0},
		damageType: DamagePiercing,
		profile:    AIProfile{Aggression: 0.4, Priority: PriorityWeakest, PreferredRange: 380, CanFlee: true},
	},
	UnitCrossbowman: {
		name:       "Crossbowman",
		stats:      Stats{MaxHP: 60, Attack: 20, Defense: 5, Speed: 45, Range: 380, AttackCooldown: 2.6},
		damageType: DamagePiercing,
		onHit:      EffectBleeding,
		profile:    AIProfile{Aggression: 0.4, Priority: PriorityLowestArmor, PreferredRange: 340},
	},
	UnitKnight: {
		name:       "Knight",
		stats:      Stats{MaxHP: 160, Attack: 22, Defense: 18, Speed: 45, Range: 3, AttackCooldown: 1.8},
		damageType: DamagePhysical,
		profile:    AIProfile{Aggression: 0.8, Priority: PriorityHighestThreat},
	},
	UnitPaladin: {
		name:       "Paladin",
		stats:      Stats{MaxHP: 180, Attack: 24, Defense: 20, Speed: 40, Range: 3, AttackCooldown: 2.0},
		damageType: DamageHoly,
		profile:    AIProfile{Aggression: 0.7, Priority: PriorityHighestThreat},
	},
	UnitPriest: {
		name:       "Priest",
		stats:      Stats{MaxHP: 70, Attack: 10, Defense: 4, Speed: 40, Range: 320, AttackCooldown: 2.2},
		damageType: DamageHoly,
		profile:    AIProfile{Aggression: 0.2, Priority: PriorityWeakest, PreferredRange: 300, CanFlee: true, UsesAbilities: true},
		abilities: []Ability{
			{ID: "holy_mend", Name: "Holy Mend", Kind: AbilityHeal, Power: 30, Range: 300, Cooldown: 8},
			{ID: "smite", Name: "Smite", Kind: AbilityStrike, DamageType: DamageHoly, Power: 20, Range: 320, Cooldown: 6},
		},
	},
	UnitMage: {
		name:       "Mage",
		stats:      Stats{MaxHP: 65, Attack: 26, Defense: 2, Speed: 40, Range: 360, AttackCooldown: 2.8},
		damageType: DamageFire,
		profile:    AIProfile{Aggression: 0.5, Priority: PriorityHighestThreat, PreferredRange: 330, UsesAbilities: true},
		abilities: []Ability{
			// Fireball splash is the BURNING "spread" mechanism: the effect
			// itself never propagates during its tick.
			{ID: "fireball", Name: "Fireball", Kind: AbilityStrike, DamageType: DamageFire, Power: 24, Range: 360, Radius: 60, Cooldown: 10, Applies: EffectBurning},
		},
	},
	UnitNecromancer: {
		name:       "Necromancer",
		stats:      Stats{MaxHP: 75, Attack: 20, Defense: 3, Speed: 38, Range: 340, AttackCooldown: 2.4},
		damageType: DamageDark,
		profile:    AIProfile{Aggression: 0.4, Priority: PriorityWeakest, PreferredRange: 310, UsesAbilities: true},
		abilities: []Ability{
			{ID: "enfeeble", Name: "Enfeeble", Kind: AbilityStrike, DamageType: DamageDark, Power: 12, Range: 340, Cooldown: 9, Applies: EffectWeakened},
		},
	},
	UnitGeneral: {
		name:       "General",
		stats:      Stats{MaxHP: 220, Attack: 30, Defense: 16, Speed: 42, Range: 3, AttackCooldown: 1.8},
		damageType: DamagePhysical,
		profile:    AIProfile{Aggression: 0.9, Priority: PriorityHighestThreat, UsesAbilities: true},
		abilities: []Ability{
			{ID: "rally", Name: "Rally", Kind: AbilityRally, Radius: 200, Cooldown: 15, Applies: EffectBuffed},
		},
	},
}

func mustSpec(t UnitType) unitSpec {
	spec, ok := unitCatalog[t]
	if !ok {
		// Unknown type is a caller contract breach, not a game condition.
		panic(fmt.Sprintf("combat: unknown unit type %q", t))
	}
	return spec
}

// BaseStats returns a copy of the catalog base stats for a unit type, with
// current HP set to max. Panics on unknown types.
func BaseStats(t UnitType) Stats {
	s := mustSpec(t).stats.clone()
	s.HP = s.MaxHP
	return s
}

// AIProfileFor returns the static targeting profile for a unit type.
func AIProfileFor(t UnitType) AIProfile {
	return mustSpec(t).profile
}

// AbilitiesFor returns the ability list for a unit type (nil for most).
func AbilitiesFor(t UnitType) []Ability {
	spec := mustSpec(t)
	if spec.abilities == nil {
		return nil
	}
	return append([]Ability(nil), spec.abilities...)
}

// AttackDamageType returns the damage type of the unit's ordinary attacks.
func AttackDamageType(t UnitType) DamageType {
	return mustSpec(t).damageType
}

// OnHitEffect returns the status effect a unit's ordinary attacks apply,
// or EffectNone.
func OnHitEffect(t UnitType) EffectType {
	return mustSpec(t).onHit
}

// DisplayName returns the human-readable name for a unit type.
func DisplayName(t UnitType) string {
	return mustSpec(t).name
}

// IsUndead reports whether a unit type takes the vs-undead holy multiplier.
func IsUndead(t UnitType) bool {
	return mustSpec(t).undead
}

// IsWeakWilled reports whether a unit type takes the vs-peasants dark
// multiplier.
func IsWeakWilled(t UnitType) bool {
	return mustSpec(t).weakWilled
}

// IsTank reports whether a unit type counts as a frontline tank for squad
// composition warnings.
func IsTank(t UnitType) bool {
	return mustSpec(t).tank
}

// KnownUnitType reports whether t exists in the catalog. Content loaders use
// this to reject bad manifests before the engine's fail-fast lookups run.
func KnownUnitType(t UnitType) bool {
	_, ok := unitCatalog[t]
	return ok
}

// supportScore ranks how valuable a unit is as a support target.
var supportScores = map[UnitType]float64{
	UnitPriest:      100,
	UnitMage:        80,
	UnitNecromancer: 80,
	UnitGeneral:     60,
}

// rangedScoreBase ranks dedicated missile troops; anything else scores by
// whether its reach exceeds melee contact distance.
var rangedScoreBase = map[UnitType]float64{
	UnitArcher:      100,
	UnitCrossbowman: 100,
	UnitMage:        80,
}

func supportScore(t UnitType) float64 {
	return supportScores[t]
}

func rangedScore(t UnitType, reach float64) float64 {
	if s, ok := rangedScoreBase[t]; ok {
		return s
	}
	if reach > 3 {
		return 50
	}
	return 0
}
