package combat

import "testing"

// dumpLogOnFailure prints the full battle log when a scenario assertion has
// already failed, so the run can be reconstructed from the test output.
func dumpLogOnFailure(t *testing.T, bs *BattleSim) {
	t.Helper()
	if !t.Failed() {
		return
	}
	for _, e := range bs.State.Log.Entries() {
		t.Log(e.String())
	}
}

func TestScenario_RaidersOverrunTheFarmstead(t *testing.T) {
	bs := NewBattleSim(
		WithSeed(7),
		WithCatalogMember("brute-1", UnitBrute, 5),
		WithCatalogMember("brute-2", UnitBrute, 5),
		WithCatalogMember("runner-1", UnitRunner, 4),
		WithEnemies(UnitMilitia, 2, 1),
	)
	defer dumpLogOnFailure(t, bs)

	phase := bs.RunUntilTerminal(2000, 0.2)
	if phase != PhaseVictory {
		t.Fatalf("two brutes and a runner should clear a pair of militia, got %v", phase)
	}

	res := bs.Result()
	if res.Stats.EnemiesKilled != 2 {
		t.Errorf("expected 2 kills, got %d", res.Stats.EnemiesKilled)
	}
	if res.Stats.TotalDamageDealt <= 0 {
		t.Error("a fought battle books damage dealt")
	}
	if len(bs.State.Log.Filter(LogDeath)) != 2 {
		t.Errorf("both militia deaths must be logged, got %d", len(bs.State.Log.Filter(LogDeath)))
	}
}

func TestScenario_SecondWaveSpawnsMidBattle(t *testing.T) {
	bs := NewBattleSim(
		WithSeed(3),
		WithCatalogMember("brute-1", UnitBrute, 5),
		WithCatalogMember("brute-2", UnitBrute, 5),
		WithCatalogMember("runner-1", UnitRunner, 4),
		WithEnemies(UnitMilitia, 2, 1),
		WithEnemies(UnitMilitia, 1, 2),
	)
	defer dumpLogOnFailure(t, bs)

	phase := bs.RunUntilTerminal(3000, 0.2)
	if phase != PhaseVictory {
		t.Fatalf("the raid should clear both waves, got %v", phase)
	}
	if bs.State.CurrentWave != 2 {
		t.Fatalf("the fight must have reached wave 2, got %d", bs.State.CurrentWave)
	}
	if got := len(bs.State.Log.Filter(LogWave)); got != 1 {
		t.Fatalf("exactly one reinforcement spawn expected, got %d", got)
	}
	if bs.State.Stats.EnemiesKilled != 3 {
		t.Fatalf("expected 3 kills across both waves, got %d", bs.State.Stats.EnemiesKilled)
	}
}

func TestScenario_LoneShamblerFallsToTheGarrison(t *testing.T) {
	bs := NewBattleSim(
		WithSeed(9),
		WithCatalogMember("sham-1", UnitShambler, 1),
		WithEnemies(UnitKnight, 2, 1),
		WithEnemies(UnitPaladin, 1, 1),
	)
	defer dumpLogOnFailure(t, bs)

	phase := bs.RunUntilTerminal(2000, 0.2)
	if phase != PhaseDefeat {
		t.Fatalf("a lone shambler cannot take two knights and a paladin, got %v", phase)
	}

	res := bs.Result()
	if res.Victory || len(res.Casualties) != 1 || len(res.Survivors) != 0 {
		t.Fatalf("expected a wipe, got %+v", res)
	}
	if len(res.XPGained) != 0 {
		t.Fatalf("no survivors means no xp, got %+v", res.XPGained)
	}
}

func TestScenario_BossWaveCarriesTheModifier(t *testing.T) {
	bs := NewBattleSim(
		WithCatalogMember("brute-1", UnitBrute, 5),
		WithBossEnemies(UnitGeneral, 1, 1, 1.5),
	)
	defer dumpLogOnFailure(t, bs)

	boss := bs.State.Enemies[0]
	// General 220 hp * 1.5 at difficulty 1.
	if boss.Stats.MaxHP != 330 {
		t.Fatalf("boss level modifier missing, hp %v", boss.Stats.MaxHP)
	}
	if boss.Name != "General (Boss)" {
		t.Fatalf("boss naming wrong: %q", boss.Name)
	}
}

func TestScenario_DeterministicReplay(t *testing.T) {
	run := func() (*BattleSim, Phase) {
		bs := NewBattleSim(
			WithSeed(42),
			WithCatalogMember("brute-1", UnitBrute, 5),
			WithCatalogMember("runner-1", UnitRunner, 4),
			WithEnemies(UnitMilitia, 2, 1),
			WithEnemies(UnitArcher, 1, 1),
		)
		return bs, bs.RunUntilTerminal(3000, 0.2)
	}

	first, firstPhase := run()
	second, secondPhase := run()

	if firstPhase != secondPhase {
		t.Fatalf("identical seeds must replay identically: %v vs %v", firstPhase, secondPhase)
	}
	if first.State.BattleDuration != second.State.BattleDuration {
		t.Fatalf("durations diverge: %v vs %v", first.State.BattleDuration, second.State.BattleDuration)
	}
	if first.State.Log.Len() != second.State.Log.Len() {
		t.Fatalf("logs diverge: %d vs %d entries", first.State.Log.Len(), second.State.Log.Len())
	}
	if first.State.Stats != second.State.Stats {
		t.Fatalf("stats diverge: %+v vs %+v", first.State.Stats, second.State.Stats)
	}
}
