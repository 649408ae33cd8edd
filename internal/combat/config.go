package combat

// DamageType categorises an attack for armor interaction and class
// multipliers. The closed set below is the whole game.
type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamagePiercing DamageType = "piercing"
	DamageCrushing DamageType = "crushing"
	DamageFire     DamageType = "fire"
	DamagePoison   DamageType = "poison"
	DamageHoly     DamageType = "holy"
	DamageDark     DamageType = "dark"
)

// DamageTypeMod controls how a damage type interacts with defense.
// Exactly one of the three fields is meaningful per type; zero values mean
// full defense is subtracted.
type DamageTypeMod struct {
	IgnoresArmor     bool    `yaml:"ignores_armor"`
	ArmorPenetration float64 `yaml:"armor_penetration"` // fraction of defense bypassed
	VsArmorFactor    float64 `yaml:"vs_armor_factor"`   // defense multiplied by this factor
}

// EffectDef is one row of the static status-effect table.
type EffectDef struct {
	Duration        float64 `yaml:"duration"`           // seconds; 0 means the effect is undefined
	MaxStacks       int     `yaml:"max_stacks"`         // simultaneous instances per unit
	DamagePerSecond float64 `yaml:"damage_per_second"`  // percent of max hp per second
	AttackMod       float64 `yaml:"attack_mod"`         // fractional attack modifier
	SpeedMod        float64 `yaml:"speed_mod"`          // fractional speed modifier
	StatMod         float64 `yaml:"stat_mod"`           // fractional boost to attack and speed
	PreventsAction  bool    `yaml:"prevents_action"`
	ForcesFlee      bool    `yaml:"forces_flee"`
}

// Config carries every externally tuneable constant of the engine. It is
// passed explicitly into the orchestrator and calculator; nothing reads a
// global.
type Config struct {
	MinimumDamage           float64 `yaml:"minimum_damage"` // floor for every successful hit, >= 1
	CriticalMultiplier      float64 `yaml:"critical_multiplier"`
	CriticalChance          float64 `yaml:"critical_chance"` // per-attack roll probability
	VsUndeadMultiplier      float64 `yaml:"vs_undead_multiplier"`
	VsPeasantsMultiplier    float64 `yaml:"vs_peasants_multiplier"`
	RetreatCountdownSeconds float64 `yaml:"retreat_countdown_seconds"`
	MaxSquadSize            int     `yaml:"max_squad_size"`

	VictoryXP       int     `yaml:"victory_xp"`        // per surviving raider on victory
	DefeatXP        int     `yaml:"defeat_xp"`         // token award per survivor on defeat
	FlawlessBonus   float64 `yaml:"flawless_bonus"`    // reward multiplier for zero casualties
	HighDifficulty  int     `yaml:"high_difficulty"`   // warning threshold
	LowHPWarnFrac   float64 `yaml:"low_hp_warn_frac"`  // warn below this hp fraction
	LevelGapWarning int     `yaml:"level_gap_warning"` // avg level this far below recommended warns

	DamageTypes map[DamageType]DamageTypeMod `yaml:"damage_types"`
	Effects     map[EffectType]EffectDef     `yaml:"effects"`
}

// DefaultConfig returns the built-in tuning. YAML overrides decode on top of
// this, never into a zero Config.
func DefaultConfig() Config {
	return Config{
		MinimumDamage:           1,
		CriticalMultiplier:      2.0,
		CriticalChance:          0.08,
		VsUndeadMultiplier:      2.0,
		VsPeasantsMultiplier:    1.5,
		RetreatCountdownSeconds: 10,
		MaxSquadSize:            6,

		VictoryXP:       40,
		DefeatXP:        5,
		FlawlessBonus:   1.5,
		HighDifficulty:  7,
		LowHPWarnFrac:   0.30,
		LevelGapWarning: 2,

		DamageTypes: map[DamageType]DamageTypeMod{
			DamagePhysical: {},
			DamagePiercing: {ArmorPenetration: 0.5},
			DamageCrushing: {VsArmorFactor: 0.5},
			DamageFire:     {ArmorPenetration: 0.25},
			DamagePoison:   {ArmorPenetration: 0.3},
			DamageHoly:     {},
			DamageDark:     {IgnoresArmor: true},
		},

		Effects: map[EffectType]EffectDef{
			EffectPoisoned: {Duration: 10, MaxStacks: 3, DamagePerSecond: 2},
			EffectBurning:  {Duration: 5, MaxStacks: 1, DamagePerSecond: 5},
			EffectStunned:  {Duration: 2, MaxStacks: 1, PreventsAction: true},
			EffectFear:     {Duration: 4, MaxStacks: 1, ForcesFlee: true},
			EffectBleeding: {Duration: 8, MaxStacks: 5, DamagePerSecond: 1},
			EffectWeakened: {Duration: 6, MaxStacks: 1, AttackMod: -0.30},
			EffectSlowed:   {Duration: 5, MaxStacks: 1, SpeedMod: -0.50},
			EffectBuffed:   {Duration: 10, MaxStacks: 3, StatMod: 0.20},
		},
	}
}

// EffectDefFor looks up the static definition for an effect. Unknown effects
// are a programming error.
func (c Config) EffectDefFor(e EffectType) EffectDef {
	def, ok := c.Effects[e]
	if !ok {
		panic("combat: unknown status effect " + string(e))
	}
	return def
}
