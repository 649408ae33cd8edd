package combat

import "fmt"

// LogType categorises a battle log entry.
type LogType string

const (
	LogPhase    LogType = "phase"
	LogSpawn    LogType = "spawn"
	LogAttack   LogType = "attack"
	LogAbility  LogType = "ability"
	LogEffect   LogType = "effect"
	LogTrap     LogType = "trap"
	LogObstacle LogType = "obstacle"
	LogDeath    LogType = "death"
	LogWave     LogType = "wave"
	LogRetreat  LogType = "retreat"
)

// LogEntry is one structured battle event, for presentation and replay by
// the UI layer.
type LogEntry struct {
	Timestamp float64            `json:"timestamp"` // battle seconds
	Type      LogType            `json:"type"`
	Message   string             `json:"message"`
	UnitIDs   []string           `json:"unit_ids,omitempty"`
	Data      map[string]float64 `json:"data,omitempty"`
}

// String formats the entry as a fixed-width log line.
//
//	[T=012.5] attack   Archer hits Brute for 7
func (e LogEntry) String() string {
	return fmt.Sprintf("[T=%05.1f] %-8s %s", e.Timestamp, e.Type, e.Message)
}

// BattleLog is the append-only event record of one battle. Entries are
// never removed or rewritten.
type BattleLog struct {
	entries []LogEntry
}

// NewBattleLog creates an empty log.
func NewBattleLog() *BattleLog {
	return &BattleLog{}
}

func (bl *BattleLog) clone() *BattleLog {
	if bl == nil {
		return nil
	}
	return &BattleLog{entries: append([]LogEntry(nil), bl.entries...)}
}

// Add appends an entry.
func (bl *BattleLog) Add(timestamp float64, t LogType, message string, unitIDs ...string) {
	bl.entries = append(bl.entries, LogEntry{
		Timestamp: timestamp,
		Type:      t,
		Message:   message,
		UnitIDs:   unitIDs,
	})
}

// AddData appends an entry with attached numeric data.
func (bl *BattleLog) AddData(timestamp float64, t LogType, message string, data map[string]float64, unitIDs ...string) {
	bl.entries = append(bl.entries, LogEntry{
		Timestamp: timestamp,
		Type:      t,
		Message:   message,
		UnitIDs:   unitIDs,
		Data:      data,
	})
}

// Entries returns all recorded entries.
func (bl *BattleLog) Entries() []LogEntry {
	if bl == nil {
		return nil
	}
	return bl.entries
}

// Filter returns entries of one type. Pass the zero value to match all.
func (bl *BattleLog) Filter(t LogType) []LogEntry {
	var out []LogEntry
	for _, e := range bl.Entries() {
		if t == "" || e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// FilterUnit returns entries mentioning the given unit.
func (bl *BattleLog) FilterUnit(unitID string) []LogEntry {
	var out []LogEntry
	for _, e := range bl.Entries() {
		for _, id := range e.UnitIDs {
			if id == unitID {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Len returns the entry count.
func (bl *BattleLog) Len() int {
	return len(bl.Entries())
}
