// Package content loads the external-collaborator inputs of the combat
// engine (location definitions, squad presets, and configuration
// overrides) from YAML files. The engine itself never touches the
// filesystem; everything enters through these loaders.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/V1ctor2182/ZombieFarm-sub002/internal/combat"
)

// LoadLocation reads and validates one location definition.
func LoadLocation(path string) (combat.Location, error) {
	var loc combat.Location
	data, err := os.ReadFile(path)
	if err != nil {
		return loc, fmt.Errorf("read location: %w", err)
	}
	if err := yaml.Unmarshal(data, &loc); err != nil {
		return loc, fmt.Errorf("parse location %s: %w", path, err)
	}
	if err := validateLocation(loc); err != nil {
		return loc, fmt.Errorf("location %s: %w", path, err)
	}
	return loc, nil
}

// LoadLocations reads every *.yaml location in a directory, sorted by ID.
func LoadLocations(dir string) ([]combat.Location, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	var out []combat.Location
	for _, p := range paths {
		loc, err := LoadLocation(p)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// validateLocation rejects manifests that would trip the engine's
// fail-fast catalog lookups at spawn time.
func validateLocation(loc combat.Location) error {
	if loc.ID == "" {
		return fmt.Errorf("missing id")
	}
	if loc.Difficulty < 1 || loc.Difficulty > 10 {
		return fmt.Errorf("difficulty %d out of range 1-10", loc.Difficulty)
	}
	for _, g := range loc.Enemies {
		if !combat.KnownUnitType(g.Type) {
			return fmt.Errorf("unknown enemy type %q", g.Type)
		}
		if g.Count <= 0 {
			return fmt.Errorf("enemy group %q has count %d", g.Type, g.Count)
		}
		if g.Wave < 1 || g.Wave > loc.Waves {
			return fmt.Errorf("enemy group %q assigned to wave %d of %d", g.Type, g.Wave, loc.Waves)
		}
	}
	for _, f := range loc.Fortifications {
		if !combat.KnownObstacleType(f) {
			return fmt.Errorf("unknown fortification type %q", f)
		}
	}
	return nil
}

// squadFile is the on-disk shape of a squad preset.
type squadFile struct {
	Members []combat.SquadMember `yaml:"members"`
}

// LoadSquad reads a squad preset file.
func LoadSquad(path string) ([]combat.SquadMember, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read squad: %w", err)
	}
	var f squadFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse squad %s: %w", path, err)
	}
	if len(f.Members) == 0 {
		return nil, fmt.Errorf("squad %s has no members", path)
	}
	return f.Members, nil
}

// LoadConfig layers a YAML override file on top of the engine defaults.
// Missing file is not an error: the defaults stand.
func LoadConfig(path string) (combat.Config, error) {
	cfg := combat.DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
