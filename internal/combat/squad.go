package combat

import (
	"fmt"
	"time"
)

// SquadMember is a raid-squad combatant as supplied by the farm/roster
// system. Only the farm knows how these stats were grown; the engine takes
// them as given.
type SquadMember struct {
	ID      string   `yaml:"id"`
	Type    UnitType `yaml:"type"`
	Name    string   `yaml:"name"`
	Level   int      `yaml:"level"`
	HP      float64  `yaml:"hp"`
	MaxHP   float64  `yaml:"max_hp"`
	Attack  float64  `yaml:"attack"`
	Defense float64  `yaml:"defense"`
	Speed   float64  `yaml:"speed"`
}

// Defaults for stats the roster system does not track.
const (
	defaultMemberRange    = 1.0
	defaultMemberCooldown = 1.5
)

// FormationType selects the squad's deployment shape on the left side of
// the battlefield.
type FormationType int

const (
	FormationLine FormationType = iota
	FormationStaggered
	FormationWedge
)

func (f FormationType) String() string {
	switch f {
	case FormationLine:
		return "line"
	case FormationStaggered:
		return "staggered"
	case FormationWedge:
		return "wedge"
	default:
		return "unknown"
	}
}

// SquadValidation is the result-value shape for squad checks: domain
// problems are reported, never thrown. Errors block battle start, warnings
// do not.
type SquadValidation struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// ValidateSquad checks squad composition against the configured bounds.
func ValidateSquad(squad []SquadMember, maxSize int, cfg Config) SquadValidation {
	v := SquadValidation{}

	if len(squad) == 0 {
		v.Errors = append(v.Errors, "squad is empty")
	}
	if len(squad) > maxSize {
		v.Errors = append(v.Errors, fmt.Sprintf("squad size %d exceeds maximum %d", len(squad), maxSize))
	}

	hasTank := false
	for _, m := range squad {
		if m.HP <= 0 {
			v.Errors = append(v.Errors, fmt.Sprintf("%s has no hit points left", memberLabel(m)))
		} else if m.MaxHP > 0 && m.HP < m.MaxHP*cfg.LowHPWarnFrac {
			v.Warnings = append(v.Warnings, fmt.Sprintf("%s is badly wounded (%.0f%% hp)", memberLabel(m), 100*m.HP/m.MaxHP))
		}
		if KnownUnitType(m.Type) && IsTank(m.Type) {
			hasTank = true
		}
	}
	if len(squad) > 0 && !hasTank {
		v.Warnings = append(v.Warnings, "no tank unit in squad")
	}

	v.Valid = len(v.Errors) == 0
	return v
}

func memberLabel(m SquadMember) string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// BattleRequirements is the combined squad-plus-location gate for starting
// a raid.
type BattleRequirements struct {
	CanStart bool
	Errors   []string
	Warnings []string
}

// CheckBattleRequirements validates the squad and the location together.
// Location lock state and raid cooldown are hard errors; difficulty and
// level mismatches only warn.
func CheckBattleRequirements(squad []SquadMember, loc Location, cfg Config, now time.Time) BattleRequirements {
	v := ValidateSquad(squad, cfg.MaxSquadSize, cfg)
	req := BattleRequirements{
		Errors:   v.Errors,
		Warnings: v.Warnings,
	}

	if !loc.IsUnlocked {
		req.Errors = append(req.Errors, fmt.Sprintf("location %s is not unlocked", loc.ID))
	}
	if loc.OnCooldown(now) {
		req.Errors = append(req.Errors, fmt.Sprintf("location %s is on raid cooldown until %s", loc.ID, loc.NextRaidAvailable.Format(time.RFC3339)))
	}

	avg := averageLevel(squad)
	if loc.Difficulty >= cfg.HighDifficulty {
		req.Warnings = append(req.Warnings, fmt.Sprintf("high difficulty location (%d)", loc.Difficulty))
	}
	if len(squad) > 0 {
		switch {
		case avg+float64(cfg.LevelGapWarning) < float64(loc.RecommendedLevel):
			req.Warnings = append(req.Warnings, fmt.Sprintf("squad average level %.1f is far below recommended %d", avg, loc.RecommendedLevel))
		case avg < float64(loc.RecommendedLevel):
			req.Warnings = append(req.Warnings, fmt.Sprintf("squad average level %.1f is below recommended %d", avg, loc.RecommendedLevel))
		}
	}

	req.CanStart = len(req.Errors) == 0
	return req
}

func averageLevel(squad []SquadMember) float64 {
	if len(squad) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range squad {
		sum += float64(m.Level)
	}
	return sum / float64(len(squad))
}

// memberToUnit converts a roster member into a battle combatant. Reach,
// cooldown and resistances come from the catalog when the type is known;
// otherwise the roster defaults apply.
func memberToUnit(m SquadMember, ids IDSource) *Unit {
	stats := Stats{
		HP:             m.HP,
		MaxHP:          m.MaxHP,
		Attack:         m.Attack,
		Defense:        m.Defense,
		Speed:          m.Speed,
		Range:          defaultMemberRange,
		AttackCooldown: defaultMemberCooldown,
	}
	profile := AIProfile{Priority: PriorityClosest}
	if KnownUnitType(m.Type) {
		base := BaseStats(m.Type)
		stats.Range = base.Range
		stats.AttackCooldown = base.AttackCooldown
		stats.Resistances = base.Resistances
		profile = AIProfileFor(m.Type)
	}

	id := m.ID
	if id == "" {
		id = ids.Next("raider")
	}
	name := m.Name
	if name == "" && KnownUnitType(m.Type) {
		name = DisplayName(m.Type)
	}
	return &Unit{
		ID:      id,
		Type:    m.Type,
		Name:    name,
		Team:    TeamRaiders,
		Stats:   stats,
		AIState: AIStateIdle,
		Level:   m.Level,
		Profile: profile,
	}
}

// Raider deployment geometry, mirroring the defender band on the left.
const (
	deployBaseX    = 120.0
	deployStaggerX = 60.0
	deployCenterY  = 540.0
	deploySpacingY = 90.0
	wedgeApexX     = 200.0
	wedgeStepX     = 60.0
	wedgeStepY     = 70.0
)

// positionSquad assigns deployment coordinates by formation. Deployment
// order encodes priority: earlier members take the forward slots.
func positionSquad(units []*Unit, formation FormationType) {
	switch formation {
	case FormationStaggered:
		for i, u := range units {
			u.X = deployBaseX
			if i%2 == 1 {
				u.X += deployStaggerX
			}
			u.Y = spreadY(i, len(units))
		}
	case FormationWedge:
		// Tanks take the apex; everyone else fans back alternately above
		// and below.
		ordered := make([]*Unit, 0, len(units))
		for _, u := range units {
			if KnownUnitType(u.Type) && IsTank(u.Type) {
				ordered = append(ordered, u)
			}
		}
		for _, u := range units {
			if !(KnownUnitType(u.Type) && IsTank(u.Type)) {
				ordered = append(ordered, u)
			}
		}
		for i, u := range ordered {
			step := (i + 1) / 2
			u.X = wedgeApexX - float64(step)*wedgeStepX
			if i == 0 {
				u.Y = deployCenterY
			} else if i%2 == 1 {
				u.Y = deployCenterY - float64(step)*wedgeStepY
			} else {
				u.Y = deployCenterY + float64(step)*wedgeStepY
			}
		}
	default: // FormationLine
		for i, u := range units {
			u.X = deployBaseX
			u.Y = spreadY(i, len(units))
		}
	}
	for _, u := range units {
		u.Y = clamp(u.Y, spawnBandMinY, spawnBandMaxY)
	}
}

// spreadY distributes n units evenly around the vertical center.
func spreadY(index, total int) float64 {
	return deployCenterY + (float64(index)-float64(total-1)/2)*deploySpacingY
}
