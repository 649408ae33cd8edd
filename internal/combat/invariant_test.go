package combat

import (
	"fmt"
	"testing"
)

// checkStateInvariants asserts the properties that must hold after every
// tick of every battle, regardless of composition or seed.
func checkStateInvariants(t *testing.T, prev, cur *CombatState) {
	t.Helper()

	if cur.BattleDuration < prev.BattleDuration {
		t.Fatalf("duration ran backwards: %v -> %v", prev.BattleDuration, cur.BattleDuration)
	}
	if cur.RetreatCountdown < 0 {
		t.Fatalf("retreat countdown went negative: %v", cur.RetreatCountdown)
	}
	if cur.CurrentWave < 1 || cur.CurrentWave > cur.TotalWaves {
		t.Fatalf("wave counter out of range: %d/%d", cur.CurrentWave, cur.TotalWaves)
	}

	for _, u := range append(append([]*Unit(nil), cur.Squad...), cur.Enemies...) {
		if u.Stats.HP < 0 {
			t.Fatalf("%s has negative hp %v", u.ID, u.Stats.HP)
		}
		if u.Stats.HP > u.Stats.MaxHP {
			t.Fatalf("%s overhealed to %v/%v", u.ID, u.Stats.HP, u.Stats.MaxHP)
		}
		if u.IsDead && u.Stats.HP != 0 {
			t.Fatalf("%s is dead with %v hp left", u.ID, u.Stats.HP)
		}
		if u.X < 0 || u.X > BattlefieldWidth || u.Y < 0 || u.Y > BattlefieldHeight {
			t.Fatalf("%s left the battlefield at (%v,%v)", u.ID, u.X, u.Y)
		}
		if prevU := prev.Unit(u.ID); prevU != nil && prevU.IsDead && !u.IsDead {
			t.Fatalf("%s rose from the dead", u.ID)
		}
	}

	for _, e := range cur.ActiveEffects {
		if e.Remaining <= 0 {
			t.Fatalf("expired effect %s on %s survived pruning", e.Effect, e.UnitID)
		}
		if cur.Unit(e.UnitID) == nil {
			t.Fatalf("effect %s points at unknown unit %s", e.Effect, e.UnitID)
		}
	}

	if cur.Log.Len() < prev.Log.Len() {
		t.Fatalf("the battle log shrank: %d -> %d", prev.Log.Len(), cur.Log.Len())
	}
}

func TestInvariants_MixedRaidsAcrossSeeds(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			bs := NewBattleSim(
				WithSeed(seed),
				WithDifficulty(2),
				WithCatalogMember("brute-1", UnitBrute, 5),
				WithCatalogMember("sham-1", UnitShambler, 3),
				WithCatalogMember("runner-1", UnitRunner, 4),
				WithEnemies(UnitMilitia, 2, 1),
				WithEnemies(UnitPeasant, 2, 1),
				WithEnemies(UnitKnight, 1, 2),
				WithFortifications(ObstacleGate, ObstacleSpikePit),
			)

			for tick := 0; tick < 4000 && !bs.State.Phase.Terminal(); tick++ {
				prev := bs.State
				bs.State = bs.Battle.Step(bs.State, 0.2)
				checkStateInvariants(t, prev, bs.State)
			}

			if !bs.State.Phase.Terminal() {
				t.Fatalf("battle did not terminate within the tick budget, phase %v wave %d/%d",
					bs.State.Phase, bs.State.CurrentWave, bs.State.TotalWaves)
			}
		})
	}
}

func TestInvariants_RetreatAlwaysEndsTheBattle(t *testing.T) {
	bs := NewBattleSim(
		WithSeed(11),
		WithCatalogMember("brute-1", UnitBrute, 5),
		WithEnemies(UnitKnight, 3, 1),
	)
	bs.RunTicks(20, 0.2)
	if bs.State.Phase.Terminal() {
		t.Skip("battle ended before the retreat could be ordered")
	}

	bs.State = bs.Battle.InitiateRetreat(bs.State)
	phase := bs.RunUntilTerminal(200, 0.2)

	if phase != PhaseDefeat && phase != PhaseVictory {
		t.Fatalf("a retreat must resolve the battle, got %v", phase)
	}
}
