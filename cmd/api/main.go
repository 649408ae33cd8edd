// Command api exposes the raid engine over HTTP for the farm client and
// for balancing tools. It serves location listings, one-shot simulations,
// and a websocket that streams the battle log tick by tick.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/V1ctor2182/ZombieFarm-sub002/internal/combat"
	"github.com/V1ctor2182/ZombieFarm-sub002/internal/content"
)

const (
	simMaxTicks  = 20000
	simDefaultDT = 0.1
)

type server struct {
	logger    *zap.Logger
	cfg       combat.Config
	locations map[string]combat.Location
}

func main() {
	var addr string
	var contentDir string
	var configPath string

	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.StringVar(&contentDir, "content", "content/locations", "directory of location definition files")
	flag.StringVar(&configPath, "config", "", "engine config overrides file (optional)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	cfg := combat.DefaultConfig()
	if configPath != "" {
		cfg, err = content.LoadConfig(configPath)
		if err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}

	locs, err := content.LoadLocations(contentDir)
	if err != nil {
		logger.Fatal("load locations", zap.String("dir", contentDir), zap.Error(err))
	}
	byID := make(map[string]combat.Location, len(locs))
	for _, loc := range locs {
		byID[loc.ID] = loc
	}
	logger.Info("content loaded", zap.Int("locations", len(byID)))

	s := &server{logger: logger, cfg: cfg, locations: byID}

	r := mux.NewRouter()
	r.HandleFunc("/api/locations", s.handleListLocations).Methods(http.MethodGet)
	r.HandleFunc("/api/locations/{id}", s.handleGetLocation).Methods(http.MethodGet)
	r.HandleFunc("/api/validate", s.handleValidate).Methods(http.MethodPost)
	r.HandleFunc("/api/simulate", s.handleSimulate).Methods(http.MethodPost)
	r.HandleFunc("/ws/battle", s.handleBattleStream)

	logger.Info("listening", zap.String("addr", addr))
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// --- Request/response shapes ---

type locationSummary struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Difficulty       int      `json:"difficulty"`
	RecommendedLevel int      `json:"recommended_level"`
	Waves            int      `json:"waves"`
	EnemyGroups      int      `json:"enemy_groups"`
	Fortifications   []string `json:"fortifications,omitempty"`
	IsUnlocked       bool     `json:"is_unlocked"`
	Unlocks          []string `json:"unlocks,omitempty"`
}

func summarize(loc combat.Location) locationSummary {
	forts := make([]string, 0, len(loc.Fortifications))
	for _, f := range loc.Fortifications {
		forts = append(forts, string(f))
	}
	return locationSummary{
		ID:               loc.ID,
		Name:             loc.Name,
		Difficulty:       loc.Difficulty,
		RecommendedLevel: loc.RecommendedLevel,
		Waves:            loc.Waves,
		EnemyGroups:      len(loc.Enemies),
		Fortifications:   forts,
		IsUnlocked:       loc.IsUnlocked,
		Unlocks:          loc.Unlocks,
	}
}

type squadMemberRequest struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Name    string  `json:"name,omitempty"`
	Level   int     `json:"level"`
	HP      float64 `json:"hp"`
	MaxHP   float64 `json:"max_hp"`
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
	Speed   float64 `json:"speed"`
}

func (m squadMemberRequest) toMember() combat.SquadMember {
	return combat.SquadMember{
		ID:      m.ID,
		Type:    combat.UnitType(m.Type),
		Name:    m.Name,
		Level:   m.Level,
		HP:      m.HP,
		MaxHP:   m.MaxHP,
		Attack:  m.Attack,
		Defense: m.Defense,
		Speed:   m.Speed,
	}
}

type simulateRequest struct {
	LocationID string               `json:"location_id"`
	Squad      []squadMemberRequest `json:"squad"`
	Formation  string               `json:"formation,omitempty"`
	Seed       int64                `json:"seed,omitempty"`
	DT         float64              `json:"dt,omitempty"`
	MaxTicks   int                  `json:"max_ticks,omitempty"`
}

type simulateResponse struct {
	Outcome     string              `json:"outcome"`
	Duration    float64             `json:"duration_seconds"`
	WaveReached int                 `json:"wave_reached"`
	Result      combat.BattleResult `json:"result"`
	LogEntries  int                 `json:"log_entries"`
}

type errorResponse struct {
	Error    string   `json:"error"`
	Details  []string `json:"details,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// --- Handlers ---

func (s *server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	out := make([]locationSummary, 0, len(s.locations))
	for _, loc := range s.locations {
		out = append(out, summarize(loc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	s.writeJSON(w, http.StatusOK, out)
}

func (s *server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	loc, ok := s.locations[id]
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown location %q", id)})
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(loc))
}

type validateResponse struct {
	CanStart bool     `json:"can_start"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// handleValidate runs the battle requirement checks without starting a
// battle, so the client can grey out the raid button with reasons.
func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request body: " + err.Error()})
		return
	}
	loc, ok := s.locations[req.LocationID]
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown location %q", req.LocationID)})
		return
	}
	squad := make([]combat.SquadMember, 0, len(req.Squad))
	for _, m := range req.Squad {
		squad = append(squad, m.toMember())
	}
	reqs := combat.CheckBattleRequirements(squad, loc, s.cfg, time.Now())
	s.writeJSON(w, http.StatusOK, validateResponse{
		CanStart: reqs.CanStart,
		Errors:   reqs.Errors,
		Warnings: reqs.Warnings,
	})
}

func (s *server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request body: " + err.Error()})
		return
	}

	run, errResp := s.prepareRun(req)
	if errResp != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, *errResp)
		return
	}

	state := run.battle.Begin(run.state)
	for i := 0; i < run.maxTicks && !state.Phase.Terminal(); i++ {
		state = run.battle.Step(state, run.dt)
	}
	if !state.Phase.Terminal() {
		state = run.battle.InitiateRetreat(state)
		for !state.Phase.Terminal() {
			state = run.battle.Step(state, run.dt)
		}
	}
	result := run.battle.GenerateBattleResult(state)

	s.logger.Info("simulation finished",
		zap.String("location", req.LocationID),
		zap.String("outcome", state.Phase.String()),
		zap.Float64("duration", state.BattleDuration),
	)
	s.writeJSON(w, http.StatusOK, simulateResponse{
		Outcome:     state.Phase.String(),
		Duration:    state.BattleDuration,
		WaveReached: state.CurrentWave,
		Result:      result,
		LogEntries:  state.Log.Len(),
	})
}

// preparedRun carries an initialized battle ready to be stepped.
type preparedRun struct {
	battle   *combat.Battle
	state    *combat.CombatState
	dt       float64
	maxTicks int
}

func (s *server) prepareRun(req simulateRequest) (*preparedRun, *errorResponse) {
	loc, ok := s.locations[req.LocationID]
	if !ok {
		return nil, &errorResponse{Error: fmt.Sprintf("unknown location %q", req.LocationID)}
	}
	formation, err := parseFormation(req.Formation)
	if err != nil {
		return nil, &errorResponse{Error: err.Error()}
	}
	dt := req.DT
	if dt <= 0 {
		dt = simDefaultDT
	}
	maxTicks := req.MaxTicks
	if maxTicks <= 0 || maxTicks > simMaxTicks {
		maxTicks = simMaxTicks
	}

	squad := make([]combat.SquadMember, 0, len(req.Squad))
	for _, m := range req.Squad {
		squad = append(squad, m.toMember())
	}

	b := combat.NewBattle(s.cfg, combat.UUIDSource{}, req.Seed)
	state, reqs := b.InitializeBattle(squad, loc, formation)
	if state == nil {
		return nil, &errorResponse{
			Error:    "battle requirements not met",
			Details:  reqs.Errors,
			Warnings: reqs.Warnings,
		}
	}
	return &preparedRun{battle: b, state: state, dt: dt, maxTicks: maxTicks}, nil
}

func parseFormation(name string) (combat.FormationType, error) {
	switch strings.ToLower(name) {
	case "", "line":
		return combat.FormationLine, nil
	case "staggered":
		return combat.FormationStaggered, nil
	case "wedge":
		return combat.FormationWedge, nil
	}
	return combat.FormationLine, fmt.Errorf("unknown formation %q (supported: line, staggered, wedge)", name)
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

// --- Websocket battle stream ---

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsMsg struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// handleBattleStream runs one battle for a websocket client, forwarding new
// battle-log entries after every tick and the final result on termination.
// The client sends a single simulateRequest as its first message.
func (s *server) handleBattleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	var req simulateRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.wsError(conn, "bad request: "+err.Error())
		return
	}
	run, errResp := s.prepareRun(req)
	if errResp != nil {
		s.wsError(conn, errResp.Error)
		return
	}

	state := run.battle.Begin(run.state)
	sent := 0
	sent, err = s.flushLog(conn, state, sent)
	for i := 0; err == nil && i < run.maxTicks && !state.Phase.Terminal(); i++ {
		state = run.battle.Step(state, run.dt)
		sent, err = s.flushLog(conn, state, sent)
	}
	if err != nil {
		s.logger.Info("ws client gone", zap.Error(err))
		return
	}
	if !state.Phase.Terminal() {
		state = run.battle.InitiateRetreat(state)
		for !state.Phase.Terminal() {
			state = run.battle.Step(state, run.dt)
		}
		if _, err := s.flushLog(conn, state, sent); err != nil {
			return
		}
	}

	result := run.battle.GenerateBattleResult(state)
	if err := conn.WriteJSON(wsMsg{Type: "result", Data: result}); err != nil {
		s.logger.Info("ws client gone", zap.Error(err))
	}
}

// flushLog sends every log entry past the sent watermark and returns the
// new watermark.
func (s *server) flushLog(conn *websocket.Conn, state *combat.CombatState, sent int) (int, error) {
	entries := state.Log.Entries()
	for ; sent < len(entries); sent++ {
		if err := conn.WriteJSON(wsMsg{Type: "log", Data: entries[sent]}); err != nil {
			return sent, err
		}
	}
	return sent, nil
}

func (s *server) wsError(conn *websocket.Conn, msg string) {
	if err := conn.WriteJSON(wsMsg{Type: "error", Data: msg}); err != nil {
		s.logger.Debug("ws write", zap.Error(err))
	}
}
