package combat

import (
	"math"
	"testing"
)

func plainUnit(id string) *Unit {
	return &Unit{ID: id, Type: UnitMilitia, Team: TeamDefenders, Stats: Stats{HP: 80, MaxHP: 80, Attack: 12, Speed: 50}}
}

func TestApplyEffect_StackCapSilentlyDrops(t *testing.T) {
	cfg := DefaultConfig()
	u := plainUnit("m1")

	var effects []ActiveStatusEffect
	for i := 0; i < 5; i++ {
		effects = ApplyEffect(cfg, effects, u, EffectPoisoned, float64(i))
	}

	if got := StacksOf(effects, u.ID, EffectPoisoned); got != 3 {
		t.Fatalf("poison caps at 3 stacks, got %d", got)
	}
}

func TestApplyEffect_NeverRefreshesDuration(t *testing.T) {
	cfg := DefaultConfig()
	u := plainUnit("m1")

	effects := ApplyEffect(cfg, nil, u, EffectPoisoned, 0)
	effects = TickEffects(effects, 4)
	effects = ApplyEffect(cfg, effects, u, EffectPoisoned, 4)

	if len(effects) != 2 {
		t.Fatalf("expected 2 independent instances, got %d", len(effects))
	}
	if effects[0].Remaining != 6 {
		t.Errorf("first instance must keep its own clock, got remaining %v", effects[0].Remaining)
	}
	if effects[1].Remaining != 10 {
		t.Errorf("second instance must start fresh, got remaining %v", effects[1].Remaining)
	}
}

func TestApplyEffect_FullResistanceIsImmunity(t *testing.T) {
	cfg := DefaultConfig()
	shambler := &Unit{ID: "z1", Type: UnitShambler, Team: TeamRaiders, Stats: BaseStats(UnitShambler)}

	effects := ApplyEffect(cfg, nil, shambler, EffectPoisoned, 0)
	if len(effects) != 0 {
		t.Fatalf("a poison-immune unit must shrug the effect off, got %d instances", len(effects))
	}
}

func TestApplyEffect_PartialResistanceShortensDuration(t *testing.T) {
	cfg := DefaultConfig()
	u := plainUnit("m1")
	u.Stats.Resistances = map[DamageType]float64{DamagePoison: 0.5}

	effects := ApplyEffect(cfg, nil, u, EffectPoisoned, 0)
	if len(effects) != 1 {
		t.Fatalf("partial resistance must not block application, got %d instances", len(effects))
	}
	if effects[0].Remaining != 5 {
		t.Fatalf("expected duration halved to 5, got %v", effects[0].Remaining)
	}
}

func TestApplyEffect_DeadUnitIgnored(t *testing.T) {
	cfg := DefaultConfig()
	u := plainUnit("m1")
	u.ApplyDamage(1000)

	if effects := ApplyEffect(cfg, nil, u, EffectBurning, 0); len(effects) != 0 {
		t.Fatalf("dead units take no effects, got %d instances", len(effects))
	}
}

func TestTickEffects_PrunesExpiredWithoutMutatingInput(t *testing.T) {
	in := []ActiveStatusEffect{
		{Effect: EffectBurning, UnitID: "a", Remaining: 1.0},
		{Effect: EffectPoisoned, UnitID: "a", Remaining: 3.0},
	}
	out := TickEffects(in, 1.0)

	if len(out) != 1 || out[0].Effect != EffectPoisoned {
		t.Fatalf("expected only the poison instance to survive, got %+v", out)
	}
	if out[0].Remaining != 2.0 {
		t.Fatalf("expected remaining 2.0, got %v", out[0].Remaining)
	}
	if in[0].Remaining != 1.0 || in[1].Remaining != 3.0 {
		t.Fatalf("input slice must not be modified: %+v", in)
	}
}

func TestDamageFromEffect_Formula(t *testing.T) {
	cfg := DefaultConfig()

	// 100 hp * 2%/s * 10s * 3 stacks = 60.
	if got := DamageFromEffect(cfg, EffectPoisoned, 100, 10, 3); got != 60 {
		t.Errorf("poison: expected 60, got %v", got)
	}
	// 100 hp * 5%/s * 5s * 1 stack = 25.
	if got := DamageFromEffect(cfg, EffectBurning, 100, 5, 1); got != 25 {
		t.Errorf("burning: expected 25, got %v", got)
	}
	// Non-damage effects contribute nothing.
	if got := DamageFromEffect(cfg, EffectWeakened, 100, 6, 1); got != 0 {
		t.Errorf("weakened: expected 0, got %v", got)
	}
}

func TestEffectiveAttack_Modifiers(t *testing.T) {
	cfg := DefaultConfig()
	u := plainUnit("m1")
	u.Stats.Attack = 100

	weak := []ActiveStatusEffect{{Effect: EffectWeakened, UnitID: u.ID, Remaining: 5}}
	if got := EffectiveAttack(cfg, weak, u); got != 70 {
		t.Errorf("weakened: expected 70, got %v", got)
	}

	buffed := []ActiveStatusEffect{
		{Effect: EffectBuffed, UnitID: u.ID, Remaining: 5},
		{Effect: EffectBuffed, UnitID: u.ID, Remaining: 5},
	}
	if got := EffectiveAttack(cfg, buffed, u); math.Abs(got-140) > 1e-9 {
		t.Errorf("two buff stacks: expected 140, got %v", got)
	}

	both := append(weak, ActiveStatusEffect{Effect: EffectBuffed, UnitID: u.ID, Remaining: 5})
	if got := EffectiveAttack(cfg, both, u); math.Abs(got-90) > 1e-9 {
		t.Errorf("weakened+buffed: expected 90, got %v", got)
	}
}

func TestEffectiveSpeed_Slowed(t *testing.T) {
	cfg := DefaultConfig()
	u := plainUnit("m1")

	slowed := []ActiveStatusEffect{{Effect: EffectSlowed, UnitID: u.ID, Remaining: 5}}
	if got := EffectiveSpeed(cfg, slowed, u); got != 25 {
		t.Fatalf("slowed: expected half speed 25, got %v", got)
	}
}

func TestActionBlockedAndForcedToFlee(t *testing.T) {
	cfg := DefaultConfig()

	stun := []ActiveStatusEffect{{Effect: EffectStunned, UnitID: "a", Remaining: 2}}
	if !ActionBlocked(cfg, stun, "a") {
		t.Error("stunned unit should be action-blocked")
	}
	if ActionBlocked(cfg, stun, "b") {
		t.Error("other units unaffected by a's stun")
	}

	fear := []ActiveStatusEffect{{Effect: EffectFear, UnitID: "a", Remaining: 4}}
	if !ForcedToFlee(cfg, fear, "a") {
		t.Error("feared unit should be forced to flee")
	}
	if ForcedToFlee(cfg, stun, "a") {
		t.Error("stun does not force fleeing")
	}
}
