package combat

import (
	"math/rand"
	"strings"
	"testing"
)

func testLocation() Location {
	return Location{
		ID:         "farmstead",
		Name:       "Abandoned Farmstead",
		Difficulty: 1,
		Waves:      2,
		IsUnlocked: true,
		Enemies: []EnemyGroup{
			{Type: UnitPeasant, Count: 3, Wave: 1},
			{Type: UnitMilitia, Count: 2, Wave: 1},
			{Type: UnitKnight, Count: 1, Wave: 2, IsBoss: true, LevelModifier: 1.5},
		},
	}
}

func TestCreateWaveDefinitions_GroupsByWave(t *testing.T) {
	defs := CreateWaveDefinitions(testLocation())

	if len(defs) != 2 {
		t.Fatalf("expected 2 wave definitions, got %d", len(defs))
	}
	if defs[0].Number != 1 || defs[0].TotalEnemies != 5 || defs[0].IsBossWave {
		t.Errorf("wave 1 wrong: %+v", defs[0])
	}
	if defs[1].Number != 2 || defs[1].TotalEnemies != 1 || !defs[1].IsBossWave {
		t.Errorf("wave 2 wrong: %+v", defs[1])
	}
}

func TestCreateWaveDefinitions_EmptyLocation(t *testing.T) {
	if defs := CreateWaveDefinitions(Location{Waves: 0}); defs != nil {
		t.Fatalf("zero waves must yield no definitions, got %+v", defs)
	}
	if defs := CreateWaveDefinitions(Location{Waves: 3}); defs != nil {
		t.Fatalf("an empty manifest must yield no definitions, got %+v", defs)
	}
}

func TestCalculateSpawnPosition_ZonesAndClamp(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- game only

	x, y := CalculateSpawnPosition(0, 1, ZoneFrontline, rng)
	if x != 1600 {
		t.Errorf("frontline zone x: expected 1600, got %v", x)
	}
	if y != 540 {
		t.Errorf("a single spawn sits at vertical center, got %v", y)
	}

	if x, _ = CalculateSpawnPosition(0, 1, ZoneBackline, rng); x != 1840 {
		t.Errorf("backline zone x: expected 1840, got %v", x)
	}

	// Unzoned spawns jitter inside the default band.
	for i := 0; i < 20; i++ {
		x, y = CalculateSpawnPosition(i, 20, "", rng)
		if x < 1600 || x > 1850 {
			t.Fatalf("spawn %d x %v outside the defender band", i, x)
		}
		if y < 50 || y > 1030 {
			t.Fatalf("spawn %d y %v outside the playable band", i, y)
		}
	}
}

func TestSpawnWave_InstantiatesAndScales(t *testing.T) {
	defs := CreateWaveDefinitions(testLocation())
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- game only

	units := SpawnWave(defs, 1, 3, &Sequence{}, rng)
	if len(units) != 5 {
		t.Fatalf("expected 5 wave-1 defenders, got %d", len(units))
	}
	for _, u := range units {
		if u.Team != TeamDefenders {
			t.Errorf("%s spawned on the wrong team", u.ID)
		}
		if u.Stats.HP != u.Stats.MaxHP {
			t.Errorf("%s not at full hp: %v/%v", u.ID, u.Stats.HP, u.Stats.MaxHP)
		}
	}
	// Difficulty 3: peasant 50 hp -> floor(50*1.3) = 65.
	if units[0].Type != UnitPeasant || units[0].Stats.MaxHP != 65 {
		t.Errorf("difficulty scaling not applied: %+v", units[0].Stats)
	}
}

func TestSpawnWave_BossNameAndModifier(t *testing.T) {
	defs := CreateWaveDefinitions(testLocation())
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- game only

	units := SpawnWave(defs, 2, 1, &Sequence{}, rng)
	if len(units) != 1 {
		t.Fatalf("expected 1 wave-2 defender, got %d", len(units))
	}
	boss := units[0]
	if !strings.HasSuffix(boss.Name, "(Boss)") {
		t.Errorf("boss should be flagged in its name, got %q", boss.Name)
	}
	// Knight 160 hp * 1.5 level modifier at difficulty 1.
	if boss.Stats.MaxHP != 240 {
		t.Errorf("level modifier not applied: got %v hp", boss.Stats.MaxHP)
	}
}

func TestSpawnWave_UnknownWaveEmpty(t *testing.T) {
	defs := CreateWaveDefinitions(testLocation())
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- game only

	if units := SpawnWave(defs, 9, 1, &Sequence{}, rng); units != nil {
		t.Fatalf("unknown wave numbers must spawn nothing, got %d units", len(units))
	}
}

func TestIsWaveComplete(t *testing.T) {
	if !IsWaveComplete(nil) {
		t.Error("an empty enemy list is a complete wave")
	}

	alive := unitAt("a", 0, 0)
	dead := unitAt("d", 0, 0)
	dead.ApplyDamage(1000)

	if IsWaveComplete([]*Unit{alive, dead}) {
		t.Error("a wave with survivors is not complete")
	}
	if !IsWaveComplete([]*Unit{dead}) {
		t.Error("a fully dead wave is complete")
	}
}

func TestShouldSpawnNextWave(t *testing.T) {
	dead := unitAt("d", 0, 0)
	dead.ApplyDamage(1000)
	alive := unitAt("a", 0, 0)

	if !ShouldSpawnNextWave(nil, 0, 3) {
		t.Error("the first wave always spawns")
	}
	if ShouldSpawnNextWave([]*Unit{alive}, 1, 3) {
		t.Error("no spawn while the current wave still stands")
	}
	if !ShouldSpawnNextWave([]*Unit{dead}, 1, 3) {
		t.Error("a wiped wave triggers the next one")
	}
	if ShouldSpawnNextWave([]*Unit{dead}, 3, 3) {
		t.Error("no spawn past the final wave")
	}
}

func TestGetNextWaveAndEnemies(t *testing.T) {
	loc := testLocation()
	defs := CreateWaveDefinitions(loc)

	if def := GetNextWave(defs, 1); def == nil || def.Number != 2 {
		t.Fatalf("expected wave 2 after wave 1, got %+v", def)
	}
	if def := GetNextWave(defs, 2); def != nil {
		t.Fatalf("no wave follows the last one, got %+v", def)
	}

	groups := GetWaveEnemies(loc, 1)
	if len(groups) != 2 {
		t.Fatalf("expected 2 wave-1 groups, got %d", len(groups))
	}
	if got := GetWaveEnemies(loc, 9); len(got) != 0 {
		t.Fatalf("out-of-range waves have no groups, got %+v", got)
	}
}
