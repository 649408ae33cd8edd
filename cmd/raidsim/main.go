// Command raidsim runs headless raid simulations against a location file
// and prints a per-run and aggregate outcome report. With -watch it stays
// resident and reruns the batch whenever the content files change.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/V1ctor2182/ZombieFarm-sub002/internal/combat"
	"github.com/V1ctor2182/ZombieFarm-sub002/internal/content"
)

type batchOptions struct {
	runs      int
	ticks     int
	dt        float64
	seedBase  int64
	seedStep  int64
	location  string
	squad     string
	config    string
	formation combat.FormationType
}

type runStats struct {
	runIndex int
	seed     int64

	phase        combat.Phase
	durationSecs float64
	waveReached  int
	totalWaves   int

	survivors  int
	casualties int
	xpTotal    int
	rewards    combat.Rewards

	firstBloodAt float64
	retreated    bool

	stats  combat.BattleStats
	logLen int
}

func main() {
	var opts batchOptions
	var formationName string
	var watch bool

	flag.IntVar(&opts.runs, "runs", 5, "number of headless raid runs")
	flag.IntVar(&opts.ticks, "ticks", 6000, "maximum ticks per run")
	flag.Float64Var(&opts.dt, "dt", 0.1, "simulated seconds per tick")
	flag.Int64Var(&opts.seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&opts.seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&opts.location, "location", "content/locations/farmstead.yaml", "location definition file")
	flag.StringVar(&opts.squad, "squad", "content/squad.yaml", "raiding squad file")
	flag.StringVar(&opts.config, "config", "", "engine config overrides file (optional)")
	flag.StringVar(&formationName, "formation", "line", "deployment formation: line, staggered or wedge")
	flag.BoolVar(&watch, "watch", false, "rerun the batch when content files change")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if opts.runs <= 0 {
		logger.Fatal("-runs must be > 0", zap.Int("runs", opts.runs))
	}
	if opts.ticks <= 0 {
		logger.Fatal("-ticks must be > 0", zap.Int("ticks", opts.ticks))
	}
	if opts.dt <= 0 {
		logger.Fatal("-dt must be > 0", zap.Float64("dt", opts.dt))
	}
	opts.formation, err = parseFormation(formationName)
	if err != nil {
		logger.Fatal("bad -formation", zap.Error(err))
	}

	if err := runBatch(opts, logger); err != nil {
		logger.Fatal("batch failed", zap.Error(err))
	}
	if !watch {
		return
	}
	if err := watchAndRerun(opts, logger); err != nil {
		logger.Fatal("watch failed", zap.Error(err))
	}
}

func parseFormation(name string) (combat.FormationType, error) {
	switch strings.ToLower(name) {
	case "line":
		return combat.FormationLine, nil
	case "staggered":
		return combat.FormationStaggered, nil
	case "wedge":
		return combat.FormationWedge, nil
	}
	return combat.FormationLine, fmt.Errorf("unknown formation %q (supported: line, staggered, wedge)", name)
}

func runBatch(opts batchOptions, logger *zap.Logger) error {
	loc, err := content.LoadLocation(opts.location)
	if err != nil {
		return fmt.Errorf("load location: %w", err)
	}
	squad, err := content.LoadSquad(opts.squad)
	if err != nil {
		return fmt.Errorf("load squad: %w", err)
	}
	cfg := combat.DefaultConfig()
	if opts.config != "" {
		cfg, err = content.LoadConfig(opts.config)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	logger.Info("starting batch",
		zap.String("location", loc.Name),
		zap.Int("difficulty", loc.Difficulty),
		zap.Int("squad_size", len(squad)),
		zap.Int("runs", opts.runs),
	)

	fmt.Printf("=== Raid Simulation Report ===\n")
	fmt.Printf("location=%s difficulty=%d waves=%d squad=%d formation=%s\n",
		loc.ID, loc.Difficulty, loc.Waves, len(squad), opts.formation)
	fmt.Printf("runs=%d ticks=%d dt=%.2f seed_base=%d seed_step=%d\n\n",
		opts.runs, opts.ticks, opts.dt, opts.seedBase, opts.seedStep)

	all := make([]runStats, 0, opts.runs)
	for i := 0; i < opts.runs; i++ {
		seed := opts.seedBase + int64(i)*opts.seedStep
		stats, err := runOnce(i+1, seed, opts, cfg, squad, loc)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
	return nil
}

func runOnce(runIndex int, seed int64, opts batchOptions, cfg combat.Config, squad []combat.SquadMember, loc combat.Location) (runStats, error) {
	b := combat.NewBattle(cfg, &combat.Sequence{}, seed)

	state, req := b.InitializeBattle(squad, loc, opts.formation)
	if state == nil {
		return runStats{}, fmt.Errorf("battle refused: %s", strings.Join(req.Errors, "; "))
	}
	state = b.Begin(state)

	retreated := false
	for i := 0; i < opts.ticks && !state.Phase.Terminal(); i++ {
		state = b.Step(state, opts.dt)
	}
	// A run that never terminates inside the tick budget is pulled out so
	// the batch still produces a result row.
	if !state.Phase.Terminal() {
		state = b.InitiateRetreat(state)
		retreated = true
		for !state.Phase.Terminal() {
			state = b.Step(state, opts.dt)
		}
	}

	result := b.GenerateBattleResult(state)

	xpTotal := 0
	for _, xp := range result.XPGained {
		xpTotal += xp
	}

	return runStats{
		runIndex:     runIndex,
		seed:         seed,
		phase:        state.Phase,
		durationSecs: state.BattleDuration,
		waveReached:  state.CurrentWave,
		totalWaves:   state.TotalWaves,
		survivors:    len(result.Survivors),
		casualties:   len(result.Casualties),
		xpTotal:      xpTotal,
		rewards:      result.Rewards,
		firstBloodAt: firstTimestamp(state.Log, combat.LogDeath),
		retreated:    retreated,
		stats:        result.Stats,
		logLen:       state.Log.Len(),
	}, nil
}

func firstTimestamp(log *combat.BattleLog, t combat.LogType) float64 {
	for _, e := range log.Filter(t) {
		return e.Timestamp
	}
	return -1
}

func printRun(rs runStats) {
	outcome := rs.phase.String()
	if rs.retreated {
		outcome += " (forced retreat)"
	}
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome=%s duration=%.1fs wave=%d/%d first_blood=%.1fs\n",
		outcome, rs.durationSecs, rs.waveReached, rs.totalWaves, rs.firstBloodAt)
	fmt.Printf("squad: survivors=%d casualties=%d xp_total=%d\n",
		rs.survivors, rs.casualties, rs.xpTotal)
	fmt.Printf("damage: dealt=%.1f taken=%.1f kills=%d obstacles_destroyed=%d flawless=%t\n",
		rs.stats.TotalDamageDealt, rs.stats.TotalDamageTaken,
		rs.stats.EnemiesKilled, rs.stats.ObstaclesDestroyed, rs.stats.Flawless)
	fmt.Printf("rewards: %s log_entries=%d\n\n", formatRewards(rs.rewards), rs.logLen)
}

func formatRewards(r combat.Rewards) string {
	parts := make([]string, 0, len(r.Currencies)+len(r.Resources))
	for k, v := range r.Currencies {
		parts = append(parts, fmt.Sprintf("%s=%d", k, v))
	}
	for k, v := range r.Resources {
		parts = append(parts, fmt.Sprintf("%s=%d", k, v))
	}
	if len(parts) == 0 {
		return "none"
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func printAggregate(all []runStats) {
	wins := 0
	flawless := 0
	retreats := 0
	totalCasualties := 0
	totalKills := 0
	durations := make([]float64, 0, len(all))
	for _, rs := range all {
		if rs.phase == combat.PhaseVictory {
			wins++
		}
		if rs.stats.Flawless {
			flawless++
		}
		if rs.retreated {
			retreats++
		}
		totalCasualties += rs.casualties
		totalKills += rs.stats.EnemiesKilled
		durations = append(durations, rs.durationSecs)
	}
	sort.Float64s(durations)

	fmt.Printf("=== Aggregate (%d runs) ===\n", len(all))
	fmt.Printf("win_rate=%.0f%% flawless=%d forced_retreats=%d\n",
		100*float64(wins)/float64(len(all)), flawless, retreats)
	fmt.Printf("avg_casualties=%.1f avg_kills=%.1f\n",
		float64(totalCasualties)/float64(len(all)), float64(totalKills)/float64(len(all)))
	fmt.Printf("duration: min=%.1fs median=%.1fs max=%.1fs\n",
		durations[0], durations[len(durations)/2], durations[len(durations)-1])
}

// watchAndRerun blocks on fsnotify events for the content files and reruns
// the whole batch after each change. Editors often replace files instead of
// writing in place, so the paths are re-added after every event.
func watchAndRerun(opts batchOptions, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	paths := []string{opts.location, opts.squad}
	if opts.config != "" {
		paths = append(paths, opts.config)
	}
	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}
	logger.Info("watching content files", zap.Strings("paths", paths))

	// Debounce bursts of events from a single save.
	var rerunAt <-chan time.Time
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Info("content changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			for _, p := range paths {
				watcher.Add(p) //nolint:errcheck
			}
			rerunAt = time.After(250 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case <-rerunAt:
			rerunAt = nil
			if err := runBatch(opts, logger); err != nil {
				logger.Error("batch failed", zap.Error(err))
			}
		}
	}
}
