package combat

import (
	"math/rand"
)

// Defender spawn geometry. Defenders hold the right side of the field;
// raiders deploy on the left.
const (
	spawnBandMinX = 1600.0
	spawnBandMaxX = 1850.0
	spawnBandMinY = 50.0
	spawnBandMaxY = 1030.0
	spawnSpacingY = 90.0 // vertical gap between sequential spawns
)

// spawnZoneX maps named zones to fixed x offsets inside the defender band.
var spawnZoneX = map[SpawnZone]float64{
	ZoneFrontline: 1600,
	ZoneMidline:   1720,
	ZoneBackline:  1840,
}

// WaveDefinition is the derived, read-only composition of one wave, rebuilt
// once per location.
type WaveDefinition struct {
	Number       int
	Groups       []EnemyGroup
	TotalEnemies int
	IsBossWave   bool
}

// CreateWaveDefinitions groups a location's enemy manifest by wave number
// (1..Waves). Locations with zero waves or an empty manifest yield no
// definitions.
func CreateWaveDefinitions(loc Location) []WaveDefinition {
	if loc.Waves <= 0 || len(loc.Enemies) == 0 {
		return nil
	}
	defs := make([]WaveDefinition, 0, loc.Waves)
	for wave := 1; wave <= loc.Waves; wave++ {
		def := WaveDefinition{Number: wave}
		for _, g := range loc.Enemies {
			if g.Wave != wave {
				continue
			}
			def.Groups = append(def.Groups, g)
			def.TotalEnemies += g.Count
			if g.IsBoss {
				def.IsBossWave = true
			}
		}
		defs = append(defs, def)
	}
	return defs
}

// CalculateSpawnPosition places the index-th of total spawns for a wave.
// X comes from the named zone offset when one is given, otherwise it is
// jittered uniformly across the default defender band. Y spreads spawns
// evenly around the vertical center, with a single spawn dead center, and
// clamps to the playable band.
func CalculateSpawnPosition(index, total int, zone SpawnZone, rng *rand.Rand) (float64, float64) {
	var x float64
	if zx, ok := spawnZoneX[zone]; ok {
		x = zx
	} else {
		x = spawnBandMinX + rng.Float64()*(spawnBandMaxX-spawnBandMinX)
	}

	centerY := (spawnBandMinY + spawnBandMaxY) / 2
	y := centerY + (float64(index)-float64(total-1)/2)*spawnSpacingY
	return x, clamp(y, spawnBandMinY, spawnBandMaxY)
}

// SpawnWave instantiates every enemy of the given wave number: catalog base
// stats scaled by difficulty and the group's level modifier, unique IDs from
// the injected source, and sequential spawn positions. Unknown wave numbers
// yield an empty list.
func SpawnWave(defs []WaveDefinition, waveNumber, difficulty int, ids IDSource, rng *rand.Rand) []*Unit {
	def := GetNextWave(defs, waveNumber-1)
	if def == nil {
		return nil
	}

	var out []*Unit
	idx := 0
	for _, g := range def.Groups {
		for i := 0; i < g.Count; i++ {
			stats := ScaleStats(BaseStats(g.Type), difficulty, g.LevelModifier)
			x, y := CalculateSpawnPosition(idx, def.TotalEnemies, g.SpawnZone, rng)
			name := DisplayName(g.Type)
			if g.IsBoss {
				name = name + " (Boss)"
			}
			out = append(out, &Unit{
				ID:        ids.Next("enemy"),
				Type:      g.Type,
				Name:      name,
				Team:      TeamDefenders,
				X:         x,
				Y:         y,
				Stats:     stats,
				AIState:   AIStateIdle,
				Profile:   AIProfileFor(g.Type),
				Abilities: AbilitiesFor(g.Type),
			})
			idx++
		}
	}
	return out
}

// IsWaveComplete is true iff the enemy list is empty or every enemy is dead.
func IsWaveComplete(enemies []*Unit) bool {
	for _, e := range enemies {
		if !e.IsDead {
			return false
		}
	}
	return true
}

// ShouldSpawnNextWave gates wave progression: always true before the first
// spawn (currentWave == 0), never true once the final wave is out, otherwise
// true when the current wave has been wiped.
func ShouldSpawnNextWave(currentWaveEnemies []*Unit, currentWave, totalWaves int) bool {
	if currentWave == 0 {
		return true
	}
	if currentWave >= totalWaves {
		return false
	}
	return IsWaveComplete(currentWaveEnemies)
}

// GetNextWave returns the definition following currentWave, or nil when no
// further wave exists.
func GetNextWave(defs []WaveDefinition, currentWave int) *WaveDefinition {
	next := currentWave + 1
	for i := range defs {
		if defs[i].Number == next {
			return &defs[i]
		}
	}
	return nil
}

// GetWaveEnemies returns the manifest groups for a wave number, empty for
// out-of-range waves.
func GetWaveEnemies(loc Location, wave int) []EnemyGroup {
	var out []EnemyGroup
	for _, g := range loc.Enemies {
		if g.Wave == wave {
			out = append(out, g)
		}
	}
	return out
}
