package content

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/V1ctor2182/ZombieFarm-sub002/internal/combat"
)

func TestLoadLocation_FullDefinition(t *testing.T) {
	loc, err := LoadLocation(filepath.Join("testdata", "locations", "farmstead.yaml"))
	if err != nil {
		t.Fatalf("load farmstead: %v", err)
	}

	if loc.ID != "farmstead" || loc.Difficulty != 3 || loc.Waves != 2 {
		t.Fatalf("header fields wrong: %+v", loc)
	}
	if !loc.IsUnlocked {
		t.Error("farmstead ships unlocked")
	}
	if len(loc.Enemies) != 3 {
		t.Fatalf("expected 3 enemy groups, got %d", len(loc.Enemies))
	}
	boss := loc.Enemies[2]
	if boss.Type != combat.UnitKnight || !boss.IsBoss || boss.LevelModifier != 1.5 || boss.SpawnZone != combat.ZoneBackline {
		t.Fatalf("boss group wrong: %+v", boss)
	}
	if len(loc.Fortifications) != 2 || loc.Fortifications[0] != combat.ObstacleGate {
		t.Fatalf("fortifications wrong: %+v", loc.Fortifications)
	}
	if loc.Rewards.Currencies["gold"] != 100 || loc.Rewards.Resources["wood"] != 20 {
		t.Fatalf("rewards wrong: %+v", loc.Rewards)
	}
	if len(loc.Unlocks) != 1 || loc.Unlocks[0] != "mill" {
		t.Fatalf("unlocks wrong: %+v", loc.Unlocks)
	}
}

func TestLoadLocation_LoadedLocationStartsABattle(t *testing.T) {
	loc, err := LoadLocation(filepath.Join("testdata", "locations", "farmstead.yaml"))
	if err != nil {
		t.Fatalf("load farmstead: %v", err)
	}
	squad, err := LoadSquad(filepath.Join("testdata", "squad.yaml"))
	if err != nil {
		t.Fatalf("load squad: %v", err)
	}

	b := combat.NewBattle(combat.DefaultConfig(), &combat.Sequence{}, 1)
	state, req := b.InitializeBattle(squad, loc, combat.FormationLine)
	if state == nil {
		t.Fatalf("loaded content should start a battle: %+v", req.Errors)
	}
	if len(state.Enemies) != 5 {
		t.Fatalf("expected the 5 wave-1 defenders, got %d", len(state.Enemies))
	}
	if len(state.Obstacles) != 2 {
		t.Fatalf("expected both fortifications placed, got %d", len(state.Obstacles))
	}
}

func TestLoadLocations_SortedByID(t *testing.T) {
	locs, err := LoadLocations(filepath.Join("testdata", "locations"))
	if err != nil {
		t.Fatalf("load locations: %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(locs))
	}
	if locs[0].ID != "chapel" || locs[1].ID != "farmstead" {
		t.Fatalf("locations must sort by id: %s, %s", locs[0].ID, locs[1].ID)
	}
}

func TestLoadLocation_RejectsUnknownUnitType(t *testing.T) {
	_, err := LoadLocation(filepath.Join("testdata", "bad", "unknown-type.yaml"))
	if err == nil || !strings.Contains(err.Error(), "unknown enemy type") {
		t.Fatalf("expected an unknown-type error, got %v", err)
	}
}

func TestLoadLocation_RejectsOutOfRangeWave(t *testing.T) {
	_, err := LoadLocation(filepath.Join("testdata", "bad", "wave-range.yaml"))
	if err == nil || !strings.Contains(err.Error(), "wave") {
		t.Fatalf("expected a wave-range error, got %v", err)
	}
}

func TestLoadSquad(t *testing.T) {
	squad, err := LoadSquad(filepath.Join("testdata", "squad.yaml"))
	if err != nil {
		t.Fatalf("load squad: %v", err)
	}
	if len(squad) != 2 {
		t.Fatalf("expected 2 members, got %d", len(squad))
	}
	if squad[0].ID != "brute-1" || squad[0].Type != combat.UnitBrute || squad[0].Attack != 35 {
		t.Fatalf("first member wrong: %+v", squad[0])
	}
}

func TestLoadConfig_LayersOverDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CriticalChance != 0.2 || cfg.RetreatCountdownSeconds != 6 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// Untouched fields keep their defaults.
	if cfg.MinimumDamage != 1 || cfg.CriticalMultiplier != 2.0 {
		t.Fatalf("defaults lost under the override: %+v", cfg)
	}
	if len(cfg.Effects) == 0 || len(cfg.DamageTypes) == 0 {
		t.Fatal("the static tables must survive an override file")
	}
}

func TestLoadConfig_MissingFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("a missing override file is not an error: %v", err)
	}
	if cfg.MaxSquadSize != combat.DefaultConfig().MaxSquadSize {
		t.Fatalf("expected pure defaults, got %+v", cfg)
	}
}
