package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// api is the HTTP surface over one session. Request-shape checks (field
// presence, numeric ranges, the substitution cap, budgets) live here;
// the session below assumes validated input.
type api struct {
	session  *Session
	validate *validator.Validate
	log      zerolog.Logger
}

func newAPI(session *Session, logger zerolog.Logger) *api {
	return &api{
		session:  session,
		validate: validator.New(),
		log:      logger,
	}
}

func (a *api) routes(router *mux.Router) {
	router.HandleFunc("/", a.serveHomepage).Methods("GET")

	v1 := router.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/health", a.healthCheck).Methods("GET")
	v1.HandleFunc("/stats", a.getStats).Methods("GET")
	v1.HandleFunc("/search", a.searchAPI).Methods("GET")

	v1.HandleFunc("/teams", a.getTeams).Methods("GET")
	v1.HandleFunc("/teams/{id}", a.getTeamByID).Methods("GET")
	v1.HandleFunc("/teams/{id}/players", a.getTeamPlayers).Methods("GET")
	v1.HandleFunc("/leagues", a.getLeagues).Methods("GET")
	v1.HandleFunc("/leagues/{id}/table", a.getLeagueTable).Methods("GET")
	v1.HandleFunc("/leagues/{id}/fixtures", a.getLeagueFixtures).Methods("GET")

	v1.HandleFunc("/career", a.getCareer).Methods("GET")
	v1.HandleFunc("/career/new", a.newCareer).Methods("POST")
	v1.HandleFunc("/career/advance", a.advanceWeek).Methods("POST")

	v1.HandleFunc("/squad", a.getSquad).Methods("GET")
	v1.HandleFunc("/tactics", a.getTactics).Methods("GET")
	v1.HandleFunc("/formations", a.getFormations).Methods("GET")
	v1.HandleFunc("/tactics/formation", a.setFormation).Methods("POST")
	v1.HandleFunc("/tactics/lineup", a.setLineup).Methods("POST")
	v1.HandleFunc("/tactics/pressure", a.setPressure).Methods("POST")

	v1.HandleFunc("/match", a.getMatch).Methods("GET")
	v1.HandleFunc("/match/start", a.startMatch).Methods("POST")
	v1.HandleFunc("/match/pause", a.pauseMatch).Methods("POST")
	v1.HandleFunc("/match/resume", a.resumeMatch).Methods("POST")
	v1.HandleFunc("/match/speed", a.setMatchSpeed).Methods("POST")
	v1.HandleFunc("/match/substitute", a.makeSubstitution).Methods("POST")
	v1.HandleFunc("/match/abandon", a.abandonMatch).Methods("POST")

	v1.HandleFunc("/transfers", a.getTransfers).Methods("GET")
	v1.HandleFunc("/transfers/offer", a.makeOffer).Methods("POST")
	v1.HandleFunc("/transfers/list", a.listPlayer).Methods("POST")
	v1.HandleFunc("/transfers/list/remove", a.unlistPlayer).Methods("POST")

	v1.HandleFunc("/youth/accept", a.acceptYouth).Methods("POST")

	v1.HandleFunc("/messages", a.getMessages).Methods("GET")
	v1.HandleFunc("/messages/{id:[0-9]+}/read", a.readMessage).Methods("POST")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps session sentinels onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ErrNoCareer), errors.Is(err, ErrUnknownTeam),
		errors.Is(err, ErrUnknownFixture), errors.Is(err, ErrUnknownPlayer),
		errors.Is(err, ErrNoMatch), errors.Is(err, ErrNotListed):
		status = http.StatusNotFound
	case errors.Is(err, ErrFixturePlayed), errors.Is(err, ErrMatchRunning),
		errors.Is(err, ErrAlreadyListed), errors.Is(err, ErrNoFixtureLeft):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (a *api) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	if err := a.validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func (a *api) healthCheck(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	career := "none"
	if state, err := a.session.Snapshot(); err == nil {
		career = state.Manager.ClubID
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"career":          career,
		"goroutine_count": runtime.NumGoroutine(),
		"memory_alloc":    memStats.Alloc,
		"timestamp":       time.Now(),
	})
}

func (a *api) getStats(w http.ResponseWriter, r *http.Request) {
	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	playerCount := 0
	for _, squad := range state.AllPlayers {
		playerCount += len(squad)
	}
	played := 0
	for _, fx := range state.Fixtures {
		if fx.Played {
			played++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"season":          state.Manager.Season,
		"week":            state.Manager.Week,
		"teams":           len(allTeams),
		"players":         playerCount,
		"fixtures":        len(state.Fixtures),
		"fixtures_played": played,
		"messages":        len(state.Messages),
		"timestamp":       time.Now(),
	})
}

func (a *api) getTeams(w http.ResponseWriter, r *http.Request) {
	league := r.URL.Query().Get("league")
	var list []Team
	for _, t := range allTeams {
		if league == "" || t.LeagueID == league {
			list = append(list, t)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"teams": list,
		"count": len(list),
	})
}

func (a *api) getTeamByID(w http.ResponseWriter, r *http.Request) {
	team := getTeam(mux.Vars(r)["id"])
	if team == nil {
		writeError(w, ErrUnknownTeam)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (a *api) getTeamPlayers(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if getTeam(id) == nil {
		writeError(w, ErrUnknownTeam)
		return
	}
	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	squad := state.AllPlayers[id]
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"team_id": id,
		"players": squad,
		"count":   len(squad),
	})
}

func (a *api) getLeagues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"leagues": leagues})
}

// tableEntry is one rendered row of the league table.
type tableEntry struct {
	Position int    `json:"position"`
	TeamID   string `json:"team_id"`
	Name     string `json:"name"`
	StandingRow
}

func (a *api) getLeagueTable(w http.ResponseWriter, r *http.Request) {
	leagueID := mux.Vars(r)["id"]
	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}

	var rows []tableEntry
	for _, t := range teamsByLeague(leagueID) {
		row, ok := state.Standings[t.ID]
		if !ok {
			row = &StandingRow{}
		}
		rows = append(rows, tableEntry{TeamID: t.ID, Name: t.Name, StandingRow: *row})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i], rows[j]
		if ri.Points != rj.Points {
			return ri.Points > rj.Points
		}
		gdI := ri.GoalsFor - ri.GoalsAgainst
		gdJ := rj.GoalsFor - rj.GoalsAgainst
		if gdI != gdJ {
			return gdI > gdJ
		}
		return ri.GoalsFor > rj.GoalsFor
	})
	for i := range rows {
		rows[i].Position = i + 1
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"league": leagueID,
		"table":  rows,
	})
}

func (a *api) getLeagueFixtures(w http.ResponseWriter, r *http.Request) {
	leagueID := mux.Vars(r)["id"]
	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	week := 0
	if wq := r.URL.Query().Get("week"); wq != "" {
		week, _ = strconv.Atoi(wq)
	}
	var list []Fixture
	for _, fx := range state.Fixtures {
		if fx.LeagueID == leagueID && (week == 0 || fx.Week == week) {
			list = append(list, fx)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"league":   leagueID,
		"fixtures": list,
		"count":    len(list),
	})
}

func (a *api) getCareer(w http.ResponseWriter, r *http.Request) {
	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"manager":       state.Manager,
		"club":          getTeam(state.Manager.ClubID),
		"pending_youth": state.PendingYouth,
	})
}

type newCareerRequest struct {
	ManagerName string `json:"manager_name" validate:"required,min=2,max=40"`
	ClubID      string `json:"club_id" validate:"required"`
}

func (a *api) newCareer(w http.ResponseWriter, r *http.Request) {
	var req newCareerRequest
	if !a.decode(w, r, &req) {
		return
	}
	overrides := loadOverrides(overridesPath)
	if err := a.session.NewGame(req.ManagerName, req.ClubID, overrides); err != nil {
		writeError(w, err)
		return
	}
	state, _ := a.session.Snapshot()
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"manager": state.Manager,
		"club":    getTeam(state.Manager.ClubID),
	})
}

func (a *api) advanceWeek(w http.ResponseWriter, r *http.Request) {
	if err := a.session.AdvanceWeek(); err != nil {
		writeError(w, err)
		return
	}
	state, _ := a.session.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"week":   state.Manager.Week,
		"season": state.Manager.Season,
	})
}

func (a *api) getSquad(w http.ResponseWriter, r *http.Request) {
	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	squad := state.AllPlayers[state.Manager.ClubID]
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"club_id": state.Manager.ClubID,
		"players": squad,
		"count":   len(squad),
	})
}

func (a *api) getTactics(w http.ResponseWriter, r *http.Request) {
	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state.Tactics)
}

func (a *api) getFormations(w http.ResponseWriter, r *http.Request) {
	var list []Formation
	for _, name := range formationNames() {
		list = append(list, formationTable[name])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"formations": list})
}

type setFormationRequest struct {
	Formation string `json:"formation" validate:"required"`
}

func (a *api) setFormation(w http.ResponseWriter, r *http.Request) {
	var req setFormationRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.session.SetFormation(req.Formation); err != nil {
		writeError(w, err)
		return
	}
	a.getTactics(w, r)
}

type setLineupRequest struct {
	Lineup      []string `json:"lineup" validate:"required,len=11,unique"`
	Substitutes []string `json:"substitutes" validate:"max=7,unique"`
	Captain     string   `json:"captain"`
}

func (a *api) setLineup(w http.ResponseWriter, r *http.Request) {
	var req setLineupRequest
	if !a.decode(w, r, &req) {
		return
	}
	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	owned := make(map[string]bool)
	for _, p := range state.AllPlayers[state.Manager.ClubID] {
		owned[p.ID] = true
	}
	seen := make(map[string]bool)
	for _, id := range append(append([]string{}, req.Lineup...), req.Substitutes...) {
		if !owned[id] {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "player " + id + " is not in your squad"})
			return
		}
		if seen[id] {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "player " + id + " appears twice"})
			return
		}
		seen[id] = true
	}
	if err := a.session.SetLineup(req.Lineup, req.Substitutes, req.Captain); err != nil {
		writeError(w, err)
		return
	}
	a.getTactics(w, r)
}

type setPressureRequest struct {
	Pressure string `json:"pressure" validate:"required,oneof=low medium high"`
}

func (a *api) setPressure(w http.ResponseWriter, r *http.Request) {
	var req setPressureRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.session.SetPressure(req.Pressure); err != nil {
		writeError(w, err)
		return
	}
	a.getTactics(w, r)
}

func (a *api) getMatch(w http.ResponseWriter, r *http.Request) {
	lm, err := a.session.LiveState()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lm)
}

type startMatchRequest struct {
	Speed string `json:"speed" validate:"omitempty,oneof=normal fast turbo"`
}

func (a *api) startMatch(w http.ResponseWriter, r *http.Request) {
	req := startMatchRequest{Speed: SpeedNormal}
	if r.ContentLength > 0 && !a.decode(w, r, &req) {
		return
	}
	lm, err := a.session.StartMatch(req.Speed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lm)
}

func (a *api) pauseMatch(w http.ResponseWriter, r *http.Request) {
	if err := a.session.PauseMatch(); err != nil {
		writeError(w, err)
		return
	}
	a.getMatch(w, r)
}

func (a *api) resumeMatch(w http.ResponseWriter, r *http.Request) {
	if err := a.session.ResumeMatch(); err != nil {
		writeError(w, err)
		return
	}
	a.getMatch(w, r)
}

type matchSpeedRequest struct {
	Speed string `json:"speed" validate:"required,oneof=normal fast turbo"`
}

func (a *api) setMatchSpeed(w http.ResponseWriter, r *http.Request) {
	var req matchSpeedRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.session.SetMatchSpeed(req.Speed); err != nil {
		writeError(w, err)
		return
	}
	a.getMatch(w, r)
}

type substitutionRequest struct {
	Out string `json:"out" validate:"required"`
	In  string `json:"in" validate:"required"`
}

func (a *api) makeSubstitution(w http.ResponseWriter, r *http.Request) {
	var req substitutionRequest
	if !a.decode(w, r, &req) {
		return
	}
	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	if state.Tactics.SubsUsed >= MaxSubsPerMatch {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "substitution limit reached"})
		return
	}
	if err := a.session.MakeSubstitution(req.Out, req.In); err != nil {
		writeError(w, err)
		return
	}
	a.getTactics(w, r)
}

func (a *api) abandonMatch(w http.ResponseWriter, r *http.Request) {
	if err := a.session.AbandonMatch(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "abandoned"})
}

func (a *api) getTransfers(w http.ResponseWriter, r *http.Request) {
	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state.Transfers)
}

type offerRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Amount   int    `json:"amount" validate:"required,gt=0"`
}

func (a *api) makeOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if !a.decode(w, r, &req) {
		return
	}
	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Amount > state.Manager.Budget {
		writeError(w, ErrOverBudget)
		return
	}
	offer, err := a.session.MakeOffer(req.PlayerID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

type listRequest struct {
	PlayerID    string `json:"player_id" validate:"required"`
	AskingPrice int    `json:"asking_price" validate:"gte=0"`
}

func (a *api) listPlayer(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.session.ListPlayer(req.PlayerID, req.AskingPrice); err != nil {
		writeError(w, err)
		return
	}
	a.getTransfers(w, r)
}

type unlistRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

func (a *api) unlistPlayer(w http.ResponseWriter, r *http.Request) {
	var req unlistRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.session.UnlistPlayer(req.PlayerID); err != nil {
		writeError(w, err)
		return
	}
	a.getTransfers(w, r)
}

func (a *api) acceptYouth(w http.ResponseWriter, r *http.Request) {
	p, err := a.session.AcceptYouth()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *api) getMessages(w http.ResponseWriter, r *http.Request) {
	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	unread := 0
	for _, m := range state.Messages {
		if !m.Read {
			unread++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": state.Messages,
		"unread":   unread,
	})
}

func (a *api) readMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid message id"})
		return
	}
	if err := a.session.ReadMessage(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
