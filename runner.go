package main

import (
	"fmt"
	"time"
)

// Wall-clock time per simulated minute.
var speedConfig = map[string]time.Duration{
	SpeedNormal: 600 * time.Millisecond,
	SpeedFast:   350 * time.Millisecond,
	SpeedTurbo:  150 * time.Millisecond,
}

// matchRunner is the goroutine pacing the live match. It never touches
// match state directly; every tick goes through the session.
type matchRunner struct {
	stop chan struct{}
}

func (s *Session) startRunnerLocked() {
	r := &matchRunner{stop: make(chan struct{})}
	s.runner = r
	go s.runMatch(r)
}

func (s *Session) runMatch(r *matchRunner) {
	for {
		interval := s.tickInterval()
		select {
		case <-r.stop:
			return
		case <-time.After(interval):
		}

		s.mu.Lock()
		if s.live == nil || s.runner != r {
			s.mu.Unlock()
			return
		}
		finished := s.tickMatchLocked()
		if finished {
			s.finishMatchLocked()
			s.runner = nil
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

func (s *Session) tickInterval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.live == nil {
		return speedConfig[SpeedNormal]
	}
	if d, ok := speedConfig[s.live.Speed]; ok {
		return d
	}
	return speedConfig[SpeedNormal]
}

// StartMatch opens the club's fixture for the current week and kicks off.
// One live match at a time.
func (s *Session) StartMatch(speed string) (*LiveMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return nil, ErrNoCareer
	}
	if s.live != nil {
		return nil, ErrMatchRunning
	}
	fx := s.nextUserFixtureLocked()
	if fx == nil {
		return nil, ErrNoFixtureLeft
	}
	if _, ok := speedConfig[speed]; !ok {
		speed = SpeedNormal
	}

	s.state.Tactics.SubsUsed = 0
	s.live = newLiveMatch(fx, fx.Home == s.state.Manager.ClubID, speed)
	s.live.kickOff()
	s.startRunnerLocked()

	s.log.Info().Str("fixture", fx.ID).Str("home", fx.Home).Str("away", fx.Away).Msg("🎮 match under way")
	return s.live.copy(), nil
}

func (s *Session) PauseMatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil {
		return ErrNoMatch
	}
	s.live.Paused = true
	return nil
}

// ResumeMatch continues play, including the half-time restart.
func (s *Session) ResumeMatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil {
		return ErrNoMatch
	}
	if s.live.Status == StatusHalftime {
		s.live.resumeSecondHalf()
	} else {
		s.live.Paused = false
	}
	return nil
}

func (s *Session) SetMatchSpeed(speed string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil {
		return ErrNoMatch
	}
	if _, ok := speedConfig[speed]; !ok {
		return fmt.Errorf("unknown speed %q", speed)
	}
	s.live.Speed = speed
	return nil
}

// AbandonMatch walks away mid-game. The league records it as a 0-3 loss
// committed through the ordinary result path; the rest of the week then
// wraps up as if the match had been played out.
func (s *Session) AbandonMatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil {
		return ErrNoMatch
	}
	if s.live.userIsHome {
		s.live.HomeGoals, s.live.AwayGoals = 0, 3
	} else {
		s.live.HomeGoals, s.live.AwayGoals = 3, 0
	}
	s.live.Status = StatusEnded
	s.live.addEvent(s.live.Minute, "🏳️", "Match abandoned.", SideSystem)
	s.finishMatchLocked()
	if s.runner != nil {
		close(s.runner.stop)
		s.runner = nil
	}
	s.log.Info().Msg("🏳️ match abandoned, forfeit recorded")
	return nil
}

// LiveState returns a copy of the in-flight match for the read API.
func (s *Session) LiveState() (*LiveMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.live == nil {
		return nil, ErrNoMatch
	}
	return s.live.copy(), nil
}

func (lm *LiveMatch) copy() *LiveMatch {
	cp := *lm
	cp.Events = append([]MatchEvent(nil), lm.Events...)
	cp.goals = nil
	return &cp
}

// finishMatchLocked runs the full-time sequence: commit the score, settle
// the rest of the league's week, advance the calendar, rest the squad.
func (s *Session) finishMatchLocked() {
	lm := s.live
	if err := s.playMatchLocked(lm.FixtureID, lm.HomeGoals, lm.AwayGoals); err != nil {
		s.log.Error().Err(err).Str("fixture", lm.FixtureID).Msg("full-time commit failed")
		s.live = nil
		return
	}

	ours, theirs := lm.HomeGoals, lm.AwayGoals
	if !lm.userIsHome {
		ours, theirs = theirs, ours
	}
	subject := fmt.Sprintf("Match report: %d-%d", ours, theirs)
	body := "A hard-fought draw."
	msgType := MsgInfo
	switch {
	case ours > theirs:
		body = "A deserved win. The dressing room is buzzing."
		msgType = MsgSuccess
	case ours < theirs:
		body = "A disappointing defeat. The squad needs to respond."
		msgType = MsgWarning
	}
	if mvp := s.topScorerLocked(); mvp != "" {
		body += " Standout performer: " + mvp + "."
	}
	s.addMessageLocked("Assistant Coach", subject, body, msgType)

	s.simulateWeekLocked()
	s.nextWeekLocked()
	s.recoverStaminaLocked()
	s.resolveListedSalesLocked()
	s.live = nil
	s.persistLocked()
	s.log.Info().Int("home", lm.HomeGoals).Int("away", lm.AwayGoals).Msg("🏁 full time, week wrapped up")
}
