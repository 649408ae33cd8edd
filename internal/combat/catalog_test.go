package combat

import "testing"

func TestBaseStats_ReturnsIndependentCopy(t *testing.T) {
	a := BaseStats(UnitShambler)
	a.Resistances[DamagePoison] = 0
	a.MaxHP = 1

	b := BaseStats(UnitShambler)
	if b.Resistances[DamagePoison] != 1.0 || b.MaxHP != 80 {
		t.Fatalf("catalog rows must not be mutable through BaseStats: %+v", b)
	}
}

func TestCatalog_ClassFlags(t *testing.T) {
	for _, raider := range []UnitType{UnitShambler, UnitRunner, UnitBrute, UnitSpitter, UnitBloater} {
		if !IsUndead(raider) {
			t.Errorf("%s should be undead", raider)
		}
	}
	if !IsWeakWilled(UnitPeasant) || !IsWeakWilled(UnitMilitia) {
		t.Error("peasants and militia are weak-willed")
	}
	if IsWeakWilled(UnitKnight) {
		t.Error("knights hold the line")
	}
	if !IsTank(UnitBrute) || IsTank(UnitShambler) {
		t.Error("only the brute tanks among raiders")
	}
}

func TestCatalog_OnHitEffects(t *testing.T) {
	if OnHitEffect(UnitSpitter) != EffectPoisoned {
		t.Error("spitter attacks poison")
	}
	if OnHitEffect(UnitCrossbowman) != EffectBleeding {
		t.Error("crossbow bolts cause bleeding")
	}
	if OnHitEffect(UnitMilitia) != EffectNone {
		t.Error("militia attacks carry no effect")
	}
}

func TestCatalog_UnknownTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an unknown unit type")
		}
	}()
	BaseStats(UnitType("dragon"))
}

func TestAbilitiesFor_CopyAndAbsence(t *testing.T) {
	priest := AbilitiesFor(UnitPriest)
	if len(priest) != 2 {
		t.Fatalf("priest carries holy mend and smite, got %d abilities", len(priest))
	}
	priest[0].Power = 9999
	if AbilitiesFor(UnitPriest)[0].Power == 9999 {
		t.Fatal("catalog ability rows must not be mutable through AbilitiesFor")
	}

	if AbilitiesFor(UnitMilitia) != nil {
		t.Error("militia have no abilities")
	}
}

func TestScores(t *testing.T) {
	if supportScore(UnitPriest) != 100 || supportScore(UnitGeneral) != 60 {
		t.Error("support scores changed")
	}
	if supportScore(UnitMilitia) != 0 {
		t.Error("non-support types score zero")
	}
	if rangedScore(UnitArcher, 420) != 100 {
		t.Error("archers are dedicated missile troops")
	}
	if rangedScore(UnitSpitter, 300) != 50 {
		t.Error("anything shooting past melee reach scores 50")
	}
	if rangedScore(UnitKnight, 3) != 0 {
		t.Error("melee reach scores nothing")
	}
}
