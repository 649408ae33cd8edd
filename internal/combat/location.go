package combat

import "time"

// SpawnZone names a horizontal spawn band on the defender side.
type SpawnZone string

const (
	ZoneNone      SpawnZone = ""
	ZoneFrontline SpawnZone = "frontline"
	ZoneMidline   SpawnZone = "midline"
	ZoneBackline  SpawnZone = "backline"
)

// EnemyGroup is one entry of a location's enemy manifest: count units of one
// type assigned to one wave.
type EnemyGroup struct {
	Type          UnitType  `yaml:"type"`
	Count         int       `yaml:"count"`
	Wave          int       `yaml:"wave"`
	LevelModifier float64   `yaml:"level_modifier"` // 0 means 1.0; raised for bosses/elites
	IsBoss        bool      `yaml:"is_boss"`
	SpawnZone     SpawnZone `yaml:"spawn_zone"`
}

// Rewards is the loot granted for clearing a location.
type Rewards struct {
	Currencies map[string]int `yaml:"currencies"`
	Resources  map[string]int `yaml:"resources"`
}

func (r Rewards) clone() Rewards {
	out := Rewards{}
	if r.Currencies != nil {
		out.Currencies = make(map[string]int, len(r.Currencies))
		for k, v := range r.Currencies {
			out.Currencies[k] = v
		}
	}
	if r.Resources != nil {
		out.Resources = make(map[string]int, len(r.Resources))
		for k, v := range r.Resources {
			out.Resources[k] = v
		}
	}
	return out
}

// Location is a raid target definition, supplied by the world/content
// system.
type Location struct {
	ID                string         `yaml:"id"`
	Name              string         `yaml:"name"`
	Difficulty        int            `yaml:"difficulty"` // 1-10
	RecommendedLevel  int            `yaml:"recommended_level"`
	Waves             int            `yaml:"waves"`
	Enemies           []EnemyGroup   `yaml:"enemies"`
	Fortifications    []ObstacleType `yaml:"fortifications"`
	IsUnlocked        bool           `yaml:"is_unlocked"`
	NextRaidAvailable *time.Time     `yaml:"next_raid_available"`
	Rewards           Rewards        `yaml:"rewards"`
	Unlocks           []string       `yaml:"unlocks"`
}

// OnCooldown reports whether the location's raid cooldown is still running
// at the given time.
func (l Location) OnCooldown(now time.Time) bool {
	return l.NextRaidAvailable != nil && l.NextRaidAvailable.After(now)
}
