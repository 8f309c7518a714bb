package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrNoCareer       = errors.New("no active career")
	ErrUnknownTeam    = errors.New("unknown team")
	ErrUnknownFixture = errors.New("unknown fixture")
	ErrFixturePlayed  = errors.New("fixture already played")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrMatchRunning   = errors.New("a match is already in progress")
	ErrNoMatch        = errors.New("no match in progress")
	ErrNoFixtureLeft  = errors.New("no unplayed fixture this week")
)

// Youth prospects arrive at the start of each season quarter.
var youthIntakeWeeks = map[int]bool{10: true, 20: true, 30: true}

// Session owns one career's state tree. Every mutation goes through its
// methods under the mutex; nothing else touches the tree.
type Session struct {
	mu    sync.RWMutex
	state *GameState
	rng   *rand.Rand
	log   zerolog.Logger
	store *SnapshotStore

	live   *LiveMatch
	runner *matchRunner

	nextMsgID int64
}

func NewSession(rng *rand.Rand, logger zerolog.Logger, store *SnapshotStore) *Session {
	return &Session{
		rng:   rng,
		log:   logger,
		store: store,
	}
}

// Restore installs a loaded snapshot. Called once at startup, before the
// HTTP surface is up.
func (s *Session) Restore(state *GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	for _, m := range state.Messages {
		if m.ID >= s.nextMsgID {
			s.nextMsgID = m.ID + 1
		}
	}
	s.log.Info().Str("club", state.Manager.ClubID).Int("week", state.Manager.Week).Msg("💾 career restored from snapshot")
}

// NewGame starts a career at clubID. Fixtures and standings cover the
// chosen club's league only; the rest of the world stays dormant until
// visited in a later career.
func (s *Session) NewGame(managerName, clubID string, overrides map[string]PlayerOverride) error {
	team := getTeam(clubID)
	if team == nil {
		return ErrUnknownTeam
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db := buildPlayerDatabase()
	applyOverrides(db, overrides)

	leagueTeams := teamsByLeague(team.LeagueID)
	standings := make(map[string]*StandingRow, len(leagueTeams))
	for _, t := range leagueTeams {
		standings[t.ID] = &StandingRow{}
	}

	s.state = &GameState{
		Manager: &Manager{
			Name:   managerName,
			ClubID: clubID,
			Budget: team.Budget,
			Week:   1,
			Season: 1,
		},
		Fixtures:       generateLeagueFixtures(s.rng, team.LeagueID, leagueTeams),
		Standings:      standings,
		AllPlayers:     db,
		Tactics:        defaultTactics(),
		DataSource:     "generated",
		PlayerLeagueID: team.LeagueID,
	}
	s.live = nil
	s.runner = nil

	lineup, subs := autoSelectLineup(db[clubID], getFormation(s.state.Tactics.Formation))
	s.state.Tactics.Lineup = lineup
	s.state.Tactics.Substitutes = subs

	s.addMessageLocked("The Board", "Welcome to "+team.Name,
		fmt.Sprintf("Welcome, %s. The board expects a strong season. Your transfer budget is %s.", managerName, formatMoney(team.Budget)),
		MsgInfo)

	s.log.Info().Str("manager", managerName).Str("club", clubID).Str("league", team.LeagueID).Msg("🏁 new career started")
	s.persistLocked()
	return nil
}

func (s *Session) hasCareer() bool {
	return s.state != nil && s.state.Manager != nil
}

// Snapshot returns a deep copy of the current state for read handlers.
func (s *Session) Snapshot() (*GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasCareer() {
		return nil, ErrNoCareer
	}
	return s.state.clone(), nil
}

// PlayMatch commits a final score. Legal only while the fixture is
// unplayed; a second commit is rejected rather than double-counted.
func (s *Session) PlayMatch(fixtureID string, homeGoals, awayGoals int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	if err := s.playMatchLocked(fixtureID, homeGoals, awayGoals); err != nil {
		return err
	}
	s.persistLocked()
	return nil
}

func (s *Session) playMatchLocked(fixtureID string, homeGoals, awayGoals int) error {
	var fx *Fixture
	for i := range s.state.Fixtures {
		if s.state.Fixtures[i].ID == fixtureID {
			fx = &s.state.Fixtures[i]
			break
		}
	}
	if fx == nil {
		return ErrUnknownFixture
	}
	if fx.Played {
		return ErrFixturePlayed
	}

	fx.Played = true
	fx.HomeGls = homeGoals
	fx.AwayGls = awayGoals

	s.applyResultLocked(fx.Home, homeGoals, awayGoals)
	s.applyResultLocked(fx.Away, awayGoals, homeGoals)

	m := s.state.Manager
	if fx.Home == m.ClubID || fx.Away == m.ClubID {
		ours, theirs := homeGoals, awayGoals
		if fx.Away == m.ClubID {
			ours, theirs = awayGoals, homeGoals
		}
		m.Matches++
		switch {
		case ours > theirs:
			m.Wins++
		case ours < theirs:
			m.Losses++
		default:
			m.Draws++
		}
	}

	s.log.Info().Str("fixture", fixtureID).Int("home", homeGoals).Int("away", awayGoals).Msg("⚽ result committed")
	return nil
}

func (s *Session) applyResultLocked(teamID string, scored, conceded int) {
	row, ok := s.state.Standings[teamID]
	if !ok {
		row = &StandingRow{}
		s.state.Standings[teamID] = row
	}
	row.Played++
	row.GoalsFor += scored
	row.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		row.Won++
		row.Points += 3
	case scored < conceded:
		row.Lost++
	default:
		row.Drawn++
		row.Points++
	}
}

// SimulateWeek resolves every other unplayed fixture in the manager's
// current week with the coarse reputation model. The user's own fixture is
// left for the live engine.
func (s *Session) SimulateWeek() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	s.simulateWeekLocked()
	s.persistLocked()
	return nil
}

func (s *Session) simulateWeekLocked() {
	m := s.state.Manager
	simulated := 0
	for i := range s.state.Fixtures {
		fx := &s.state.Fixtures[i]
		if fx.Week != m.Week || fx.Played {
			continue
		}
		if fx.Home == m.ClubID || fx.Away == m.ClubID {
			continue
		}
		hg, ag := s.resolveByStrengthLocked(fx.Home, fx.Away)
		if err := s.playMatchLocked(fx.ID, hg, ag); err != nil {
			s.log.Warn().Err(err).Str("fixture", fx.ID).Msg("week simulation skipped fixture")
			continue
		}
		simulated++
	}
	s.log.Info().Int("week", m.Week).Int("fixtures", simulated).Msg("📅 week simulated")
}

// resolveByStrengthLocked is the background scoring model: reputation plus
// a flat home bonus, expected goals split by strength share.
func (s *Session) resolveByStrengthLocked(homeID, awayID string) (int, int) {
	homeRep, awayRep := 60, 60
	if t := getTeam(homeID); t != nil {
		homeRep = t.Reputation
	}
	if t := getTeam(awayID); t != nil {
		awayRep = t.Reputation
	}
	homeStrength := float64(homeRep + HomeAdvantage)
	awayStrength := float64(awayRep)
	total := homeStrength + awayStrength

	homeExpected := 3.0 * homeStrength / total
	awayExpected := 2.5 * awayStrength / total

	hg := int(math.Floor(s.rng.Float64() * (homeExpected + 1.5)))
	ag := int(math.Floor(s.rng.Float64() * (awayExpected + 1.5)))
	return hg, ag
}

// NextWeek advances the calendar. Reaching the end of the schedule rolls
// the career into a fresh season with new fixtures and zeroed standings;
// youth intake weeks drop a prospect offer into the inbox.
func (s *Session) NextWeek() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	s.nextWeekLocked()
	s.persistLocked()
	return nil
}

func (s *Session) nextWeekLocked() {
	m := s.state.Manager
	m.Week++

	if m.Week > totalWeeks(s.state.PlayerLeagueID) {
		m.Season++
		m.Week = 1
		leagueTeams := teamsByLeague(s.state.PlayerLeagueID)
		s.state.Fixtures = generateLeagueFixtures(s.rng, s.state.PlayerLeagueID, leagueTeams)
		for _, t := range leagueTeams {
			s.state.Standings[t.ID] = &StandingRow{}
		}
		s.addMessageLocked("League Office", fmt.Sprintf("Season %d begins", m.Season),
			"A new season is underway. The fixture list has been published and the table reset.", MsgInfo)
		s.log.Info().Int("season", m.Season).Msg("🏆 season rolled over")
	}

	if youthIntakeWeeks[m.Week] && s.state.PendingYouth == nil {
		existing := make(map[string]bool)
		for _, squad := range s.state.AllPlayers {
			for _, p := range squad {
				existing[p.ID] = true
			}
		}
		prospect := generateYouthPlayer(s.rng, m.ClubID, existing)
		s.state.PendingYouth = prospect
		s.addMessageLocked("Youth Academy", "Academy prospect available",
			fmt.Sprintf("%s (%s, age %d, potential %d) is ready for promotion to the first team.",
				prospect.Name, prospect.Role, prospect.Age, prospect.Potential),
			MsgYouth)
	}
}

// AcceptYouth promotes the pending academy prospect onto the club roster.
func (s *Session) AcceptYouth() (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return nil, ErrNoCareer
	}
	p := s.state.PendingYouth
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	clubID := s.state.Manager.ClubID
	s.state.AllPlayers[clubID] = append(s.state.AllPlayers[clubID], p)
	s.state.PendingYouth = nil
	s.addMessageLocked("Youth Academy", p.Name+" joins the first team",
		fmt.Sprintf("%s has signed professional terms with the club.", p.Name), MsgSuccess)
	s.persistLocked()
	return p, nil
}

// SetFormation switches formation and re-runs lineup selection.
func (s *Session) SetFormation(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	if _, ok := formationTable[name]; !ok {
		return fmt.Errorf("unknown formation %q", name)
	}
	t := s.state.Tactics
	t.Formation = name
	lineup, subs := autoSelectLineup(s.state.AllPlayers[s.state.Manager.ClubID], getFormation(name))
	t.Lineup = lineup
	t.Substitutes = subs
	s.persistLocked()
	return nil
}

// SetLineup installs an explicit eleven. Composition rules (length,
// ownership, duplicates) are checked at the HTTP boundary.
func (s *Session) SetLineup(lineup, substitutes []string, captain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	t := s.state.Tactics
	t.Lineup = lineup
	t.Substitutes = substitutes
	if captain != "" {
		t.Captain = captain
	}
	s.persistLocked()
	return nil
}

func (s *Session) SetPressure(pressure string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	if _, ok := staminaBurn[pressure]; !ok {
		return fmt.Errorf("unknown pressure %q", pressure)
	}
	s.state.Tactics.Pressure = pressure
	s.persistLocked()
	return nil
}

// MakeSubstitution swaps outID for inID between lineup and bench and
// counts it against the per-match allowance. The allowance cap lives at
// the HTTP boundary with the other request checks.
func (s *Session) MakeSubstitution(outID, inID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	t := s.state.Tactics
	outIdx, inIdx := -1, -1
	for i, id := range t.Lineup {
		if id == outID {
			outIdx = i
			break
		}
	}
	for i, id := range t.Substitutes {
		if id == inID {
			inIdx = i
			break
		}
	}
	if outIdx < 0 || inIdx < 0 {
		return ErrUnknownPlayer
	}
	t.Lineup[outIdx], t.Substitutes[inIdx] = inID, outID
	t.SubsUsed++
	if s.live != nil {
		s.live.noteSubstitution(s.playerNameLocked(outID), s.playerNameLocked(inID))
	}
	s.persistLocked()
	return nil
}

// UpdateStamina applies per-player deltas, clamped into [0,100]. Unknown
// ids are ignored.
func (s *Session) UpdateStamina(teamID string, deltas map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	s.updateStaminaLocked(teamID, deltas)
	s.persistLocked()
	return nil
}

func (s *Session) updateStaminaLocked(teamID string, deltas map[string]float64) {
	for _, p := range s.state.AllPlayers[teamID] {
		if d, ok := deltas[p.ID]; ok {
			p.Stamina = clampStamina(p.Stamina + d)
		}
	}
}

// RecoverStamina rests the whole club roster between fixtures.
func (s *Session) RecoverStamina() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	s.recoverStaminaLocked()
	s.persistLocked()
	return nil
}

const restRecovery = 30

func (s *Session) recoverStaminaLocked() {
	for _, p := range s.state.AllPlayers[s.state.Manager.ClubID] {
		p.Stamina = clampStamina(p.Stamina + restRecovery)
	}
}

// TransferPlayer moves playerID between rosters and settles the fee
// against the manager's budget when the club is a party. A player missing
// from the source roster makes the whole transfer a no-op.
func (s *Session) TransferPlayer(fromTeam, toTeam, playerID string, price int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	if err := s.transferPlayerLocked(fromTeam, toTeam, playerID, price); err != nil {
		return err
	}
	s.persistLocked()
	return nil
}

func (s *Session) transferPlayerLocked(fromTeam, toTeam, playerID string, price int) error {
	src := s.state.AllPlayers[fromTeam]
	idx := -1
	for i, p := range src {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownPlayer
	}
	player := src[idx]
	s.state.AllPlayers[fromTeam] = append(src[:idx:idx], src[idx+1:]...)
	s.state.AllPlayers[toTeam] = append(s.state.AllPlayers[toTeam], player)

	m := s.state.Manager
	if toTeam == m.ClubID {
		m.Budget -= price
	} else if fromTeam == m.ClubID {
		m.Budget += price
	}

	// A sold or bought player leaves the tactical setup clean.
	t := s.state.Tactics
	t.Lineup = removeID(t.Lineup, playerID)
	t.Substitutes = removeID(t.Substitutes, playerID)
	if t.Captain == playerID {
		t.Captain = ""
	}

	s.log.Info().Str("player", playerID).Str("from", fromTeam).Str("to", toTeam).Int("price", price).Msg("🔁 transfer completed")
	return nil
}

func (s *Session) playerNameLocked(id string) string {
	for _, p := range s.state.AllPlayers[s.state.Manager.ClubID] {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// AddMessage appends to the inbox.
func (s *Session) AddMessage(sender, subject, body, msgType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	s.addMessageLocked(sender, subject, body, msgType)
	s.persistLocked()
	return nil
}

func (s *Session) addMessageLocked(sender, subject, body, msgType string) {
	s.state.Messages = append(s.state.Messages, &Message{
		ID:      s.nextMsgID,
		Sender:  sender,
		Subject: subject,
		Body:    body,
		Date:    time.Now(),
		Type:    msgType,
	})
	s.nextMsgID++
}

// ReadMessage flips the read flag. Unknown ids are a no-op.
func (s *Session) ReadMessage(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	for _, m := range s.state.Messages {
		if m.ID == id {
			m.Read = true
			break
		}
	}
	s.persistLocked()
	return nil
}

// nextUserFixtureLocked finds the club's unplayed fixture for the current
// week, if any.
func (s *Session) nextUserFixtureLocked() *Fixture {
	m := s.state.Manager
	for i := range s.state.Fixtures {
		fx := &s.state.Fixtures[i]
		if fx.Week == m.Week && !fx.Played && (fx.Home == m.ClubID || fx.Away == m.ClubID) {
			return fx
		}
	}
	return nil
}

// AdvanceWeek is the no-match path: resolve the whole week coarsely
// (including the club's own fixture), step the calendar, rest the squad.
func (s *Session) AdvanceWeek() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	if fx := s.nextUserFixtureLocked(); fx != nil {
		hg, ag := s.resolveByStrengthLocked(fx.Home, fx.Away)
		if err := s.playMatchLocked(fx.ID, hg, ag); err != nil {
			return err
		}
	}
	s.simulateWeekLocked()
	s.nextWeekLocked()
	s.recoverStaminaLocked()
	s.resolveListedSalesLocked()
	s.persistLocked()
	return nil
}

// persistLocked hands a serialized copy to the store without blocking the
// caller. Failures are logged by the store; there is no retry.
func (s *Session) persistLocked() {
	if s.store == nil || s.state == nil {
		return
	}
	s.store.SaveAsync(s.state.clone())
}

func clampStamina(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
