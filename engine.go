package main

import (
	"fmt"
	"math/rand"
)

// LiveMatch is the in-flight state of the one match the manager watches.
// It has no lock of its own; every touch happens under the session mutex.
type LiveMatch struct {
	FixtureID string       `json:"fixture_id"`
	HomeID    string       `json:"home_id"`
	AwayID    string       `json:"away_id"`
	Minute    int          `json:"minute"`
	Status    string       `json:"status"`
	HomeGoals int          `json:"home_goals"`
	AwayGoals int          `json:"away_goals"`
	Speed     string       `json:"speed"`
	Paused    bool         `json:"paused"`
	Stats     MatchStats   `json:"stats"`
	Events    []MatchEvent `json:"events"`

	userIsHome bool
	goals      map[string]int
}

func newLiveMatch(fx *Fixture, userIsHome bool, speed string) *LiveMatch {
	return &LiveMatch{
		FixtureID:  fx.ID,
		HomeID:     fx.Home,
		AwayID:     fx.Away,
		Status:     StatusReady,
		Speed:      speed,
		Stats:      MatchStats{HomePossession: 50, AwayPossession: 50},
		Events:     []MatchEvent{},
		userIsHome: userIsHome,
		goals:      make(map[string]int),
	}
}

func (lm *LiveMatch) addEvent(minute int, icon, text, side string) {
	lm.Events = append(lm.Events, MatchEvent{Minute: minute, Icon: icon, Text: text, Side: side})
}

func (lm *LiveMatch) noteSubstitution(outName, inName string) {
	lm.addEvent(lm.Minute, "🔄", fmt.Sprintf("%d' Substitution: %s replaces %s", lm.Minute, inName, outName), SideSub)
}

func (lm *LiveMatch) running() bool {
	return (lm.Status == StatusFirstHalf || lm.Status == StatusSecondHalf) && !lm.Paused
}

// kickOff and resumeSecondHalf are the two user-driven transitions; the
// ticker drives everything in between.
func (lm *LiveMatch) kickOff() {
	lm.Status = StatusFirstHalf
	lm.addEvent(0, "🏟️", "Kick-off!", SideSystem)
}

func (lm *LiveMatch) resumeSecondHalf() {
	lm.Status = StatusSecondHalf
	lm.Paused = false
	lm.addEvent(HalftimeMinute, "🏟️", "The second half is underway!", SideSystem)
}

// userLineupLocked resolves the tactics lineup to player records.
func (s *Session) userLineupLocked() []*Player {
	squad := s.state.AllPlayers[s.state.Manager.ClubID]
	byID := make(map[string]*Player, len(squad))
	for _, p := range squad {
		byID[p.ID] = p
	}
	var out []*Player
	for _, id := range s.state.Tactics.Lineup {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func avgStamina(players []*Player) float64 {
	if len(players) == 0 {
		return 100
	}
	var sum float64
	for _, p := range players {
		sum += p.Stamina
	}
	return sum / float64(len(players))
}

// tickMatchLocked advances the live match one simulated minute. Returns
// true when the match just reached full time.
func (s *Session) tickMatchLocked() bool {
	lm := s.live
	if lm == nil || !lm.running() {
		return false
	}
	lm.Minute++
	minute := lm.Minute

	lineup := s.userLineupLocked()
	chance := 0.12 * avgStamina(lineup) / 100
	if s.rng.Float64() < chance {
		s.generateMatchEventLocked(minute)
	}
	s.updatePossessionLocked(lineup)

	// Stamina moves on every other minute, matching the half-rate
	// wall-clock timer the pace presets derive from.
	if minute%2 == 0 {
		s.burnStaminaLocked(lineup)
	}

	switch {
	case lm.Status == StatusFirstHalf && minute >= HalftimeMinute:
		lm.Status = StatusHalftime
		lm.addEvent(HalftimeMinute, "⏸️", "Half-time.", SideSystem)
	case lm.Status == StatusSecondHalf && minute >= FullTimeMinute:
		lm.Status = StatusEnded
		lm.addEvent(FullTimeMinute, "🏁", "Full time!", SideSystem)
		return true
	}
	return false
}

func (s *Session) updatePossessionLocked(lineup []*Player) {
	lm := s.live
	factor := avgStamina(lineup) / 100
	base := 50 - factor*5
	if lm.userIsHome {
		base = 50 + factor*10
	}
	poss := base + s.rng.Float64()*10 - 5
	if poss < 35 {
		poss = 35
	}
	if poss > 65 {
		poss = 65
	}
	lm.Stats.HomePossession = roundf(poss)
	lm.Stats.AwayPossession = 100 - lm.Stats.HomePossession
}

func (s *Session) burnStaminaLocked(lineup []*Player) {
	rate := staminaBurn[s.state.Tactics.Pressure]
	if rate == 0 {
		rate = staminaBurn[PressureMedium]
	}
	for _, p := range lineup {
		p.Stamina = clampStamina(p.Stamina - rate*2)
	}
	byID := make(map[string]bool, len(lineup))
	for _, p := range lineup {
		byID[p.ID] = true
	}
	for _, id := range s.state.Tactics.Substitutes {
		for _, p := range s.state.AllPlayers[s.state.Manager.ClubID] {
			if p.ID == id && !byID[id] {
				p.Stamina = clampStamina(p.Stamina + 5)
			}
		}
	}
}

// pickPlayer draws an event protagonist, preferring attacking roles when
// asked. An empty pool falls back to a placeholder name.
func pickPlayer(rng *rand.Rand, pool []*Player, preferAttackers bool) (string, string) {
	if len(pool) == 0 {
		return "a player", ""
	}
	if preferAttackers && rng.Float64() < 0.7 {
		var attackers []*Player
		for _, p := range pool {
			if attackingRoles[p.Role] {
				attackers = append(attackers, p)
			}
		}
		if len(attackers) > 0 {
			p := attackers[rng.Intn(len(attackers))]
			return p.Name, p.ID
		}
	}
	p := pool[rng.Intn(len(pool))]
	return p.Name, p.ID
}

// generateMatchEventLocked rolls the event category buckets and applies
// the outcome. Bucket boundaries are cumulative over one uniform draw.
func (s *Session) generateMatchEventLocked(minute int) {
	lm := s.live
	roll := s.rng.Float64()
	isHome := s.rng.Float64() < 0.5
	side := SideAway
	if isHome {
		side = SideHome
	}

	eventTeamID := lm.AwayID
	if isHome {
		eventTeamID = lm.HomeID
	}
	team := getTeam(eventTeamID)
	shortName := eventTeamID
	if team != nil {
		shortName = team.ShortName
	}

	userSide := isHome == lm.userIsHome
	var pool []*Player
	if userSide {
		pool = s.userLineupLocked()
	} else {
		pool = s.state.AllPlayers[eventTeamID]
	}

	switch {
	case roll < 0.20: // goal attempt on target
		conversion := 0.45
		if userSide {
			conversion += avgStamina(s.userLineupLocked()) / 100 * 0.2
		}
		if isHome {
			lm.Stats.HomeShots++
			lm.Stats.HomeShotsOnTarget++
		} else {
			lm.Stats.AwayShots++
			lm.Stats.AwayShotsOnTarget++
		}
		if s.rng.Float64() < conversion {
			scorer, scorerID := pickPlayer(s.rng, pool, true)
			if isHome {
				lm.HomeGoals++
			} else {
				lm.AwayGoals++
			}
			if scorerID != "" {
				lm.goals[scorerID]++
			}
			lm.addEvent(minute, "⚽", fmt.Sprintf("%d' GOAL for %s! %s", minute, shortName, scorer), side)
		} else {
			if isHome {
				lm.Stats.AwaySaves++
			} else {
				lm.Stats.HomeSaves++
			}
			lm.addEvent(minute, "🧤", fmt.Sprintf("%d' Great save denies %s", minute, shortName), SideSave)
		}
	case roll < 0.45: // off target
		if isHome {
			lm.Stats.HomeShots++
		} else {
			lm.Stats.AwayShots++
		}
		if s.rng.Float64() < 0.3 {
			lm.addEvent(minute, "🥅", fmt.Sprintf("%d' Off the post! %s", minute, shortName), side)
		}
	case roll < 0.57: // corner
		if isHome {
			lm.Stats.HomeCorners++
		} else {
			lm.Stats.AwayCorners++
		}
		lm.addEvent(minute, "🚩", fmt.Sprintf("%d' Corner for %s", minute, shortName), side)
	case roll < 0.75: // foul
		if isHome {
			lm.Stats.HomeFouls++
		} else {
			lm.Stats.AwayFouls++
		}
		name, _ := pickPlayer(s.rng, pool, false)
		lm.addEvent(minute, "⚠️", fmt.Sprintf("%d' Foul by %s", minute, name), side)
	case roll < 0.85: // yellow card
		if isHome {
			lm.Stats.HomeYellows++
		} else {
			lm.Stats.AwayYellows++
		}
		name, _ := pickPlayer(s.rng, pool, false)
		lm.addEvent(minute, "🟨", fmt.Sprintf("%d' Yellow card for %s", minute, name), side)
	case roll < 0.88: // red card
		if isHome {
			lm.Stats.HomeReds++
		} else {
			lm.Stats.AwayReds++
		}
		name, _ := pickPlayer(s.rng, pool, false)
		lm.addEvent(minute, "🟥", fmt.Sprintf("%d' RED CARD! %s is sent off", minute, name), side)
	case roll < 0.90: // injury
		name, _ := pickPlayer(s.rng, pool, false)
		lm.addEvent(minute, "🏥", fmt.Sprintf("%d' %s is down injured", minute, name), side)
	}
	// remaining mass: quiet minute
}

// topScorerLocked names the match MVP for the full-time inbox note.
func (s *Session) topScorerLocked() string {
	lm := s.live
	best, bestGoals := "", 0
	for id, n := range lm.goals {
		if n > bestGoals {
			best, bestGoals = id, n
		}
	}
	if best == "" {
		return ""
	}
	for _, squad := range s.state.AllPlayers {
		for _, p := range squad {
			if p.ID == best {
				return p.Name
			}
		}
	}
	return ""
}
