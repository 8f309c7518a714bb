package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestMatch wires a live match without the wall-clock runner so tests
// drive the minutes themselves.
func openTestMatch(t *testing.T, s *Session) *LiveMatch {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	fx := s.nextUserFixtureLocked()
	require.NotNil(t, fx)
	s.state.Tactics.SubsUsed = 0
	s.live = newLiveMatch(fx, fx.Home == s.state.Manager.ClubID, SpeedNormal)
	s.live.kickOff()
	return s.live
}

func tickOnce(s *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickMatchLocked()
}

func TestEngineHalfTransitions(t *testing.T) {
	s := newTestCareer(t, 21)
	lm := openTestMatch(t, s)
	assert.Equal(t, StatusFirstHalf, lm.Status)

	for i := 0; i < HalftimeMinute; i++ {
		assert.False(t, tickOnce(s))
	}
	assert.Equal(t, StatusHalftime, lm.Status)
	assert.Equal(t, HalftimeMinute, lm.Minute)

	// the clock holds at the break until play resumes
	assert.False(t, tickOnce(s))
	assert.Equal(t, HalftimeMinute, lm.Minute)

	require.NoError(t, s.ResumeMatch())
	assert.Equal(t, StatusSecondHalf, lm.Status)

	finished := false
	for i := 0; i < FullTimeMinute && !finished; i++ {
		finished = tickOnce(s)
	}
	assert.True(t, finished)
	assert.Equal(t, StatusEnded, lm.Status)
	assert.Equal(t, FullTimeMinute, lm.Minute)
}

func TestEngineEventLogOrdered(t *testing.T) {
	s := newTestCareer(t, 22)
	lm := openTestMatch(t, s)

	for i := 0; i < HalftimeMinute; i++ {
		tickOnce(s)
	}

	require.NotEmpty(t, lm.Events)
	prev := -1
	for _, e := range lm.Events {
		assert.GreaterOrEqual(t, e.Minute, prev, "commentary never reordered")
		assert.LessOrEqual(t, e.Minute, FullTimeMinute)
		assert.NotEmpty(t, e.Text)
		prev = e.Minute
	}
}

func TestEngineDeterministicUnderSeed(t *testing.T) {
	runMatch := func() (*LiveMatch, int) {
		s := newTestCareer(t, 23)
		lm := openTestMatch(t, s)
		for i := 0; i < HalftimeMinute; i++ {
			tickOnce(s)
		}
		return lm, lm.HomeGoals + lm.AwayGoals
	}

	a, goalsA := runMatch()
	b, goalsB := runMatch()

	assert.Equal(t, goalsA, goalsB)
	require.Equal(t, len(a.Events), len(b.Events))
	for i := range a.Events {
		assert.Equal(t, a.Events[i], b.Events[i])
	}
	assert.Equal(t, a.Stats, b.Stats)
}

func TestEngineStaminaAndPossession(t *testing.T) {
	s := newTestCareer(t, 24)
	lm := openTestMatch(t, s)

	for i := 0; i < 10; i++ {
		tickOnce(s)
	}

	state, _ := s.Snapshot()
	byID := make(map[string]*Player)
	for _, p := range state.AllPlayers["boca"] {
		byID[p.ID] = p
	}
	// medium pressure: 0.8/min, burned every other minute
	for _, id := range state.Tactics.Lineup {
		assert.InDelta(t, 92.0, byID[id].Stamina, 0.001)
	}
	for _, id := range state.Tactics.Substitutes {
		assert.Equal(t, float64(100), byID[id].Stamina, "bench regen never exceeds full")
	}

	assert.GreaterOrEqual(t, lm.Stats.HomePossession, 35)
	assert.LessOrEqual(t, lm.Stats.HomePossession, 65)
	assert.Equal(t, 100, lm.Stats.HomePossession+lm.Stats.AwayPossession)
}

func TestFinishMatchWrapsUpWeek(t *testing.T) {
	s := newTestCareer(t, 25)
	lm := openTestMatch(t, s)
	fixtureID := lm.FixtureID

	for lm.Status != StatusHalftime {
		tickOnce(s)
	}
	require.NoError(t, s.ResumeMatch())
	for !tickOnce(s) {
	}

	s.mu.Lock()
	s.finishMatchLocked()
	s.mu.Unlock()

	state, _ := s.Snapshot()
	assert.Equal(t, 2, state.Manager.Week)
	assert.Equal(t, 1, state.Manager.Matches)
	for _, fx := range state.Fixtures {
		if fx.ID == fixtureID {
			assert.True(t, fx.Played)
		}
		if fx.Week == 1 {
			assert.True(t, fx.Played, "rest of the week simulated at full time")
		}
	}
	_, err := s.LiveState()
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestAbandonMatchForfeits(t *testing.T) {
	s := newTestCareer(t, 26)
	lm := openTestMatch(t, s)
	userIsHome := lm.userIsHome
	fixtureID := lm.FixtureID

	for i := 0; i < 10; i++ {
		tickOnce(s)
	}
	require.NoError(t, s.AbandonMatch())

	state, _ := s.Snapshot()
	for _, fx := range state.Fixtures {
		if fx.ID != fixtureID {
			continue
		}
		require.True(t, fx.Played)
		if userIsHome {
			assert.Equal(t, 0, fx.HomeGls)
			assert.Equal(t, 3, fx.AwayGls)
		} else {
			assert.Equal(t, 3, fx.HomeGls)
			assert.Equal(t, 0, fx.AwayGls)
		}
	}
	assert.Equal(t, 1, state.Manager.Losses)
	assert.Equal(t, 2, state.Manager.Week, "abandonment still wraps up the week")
}

func TestStartMatchGuards(t *testing.T) {
	s := newTestCareer(t, 27)

	lm, err := s.StartMatch(SpeedFast)
	require.NoError(t, err)
	require.NoError(t, s.PauseMatch())
	assert.Equal(t, SpeedFast, lm.Speed)

	_, err = s.StartMatch(SpeedNormal)
	assert.ErrorIs(t, err, ErrMatchRunning)

	require.NoError(t, s.SetMatchSpeed(SpeedTurbo))
	assert.Error(t, s.SetMatchSpeed("ludicrous"))

	require.NoError(t, s.AbandonMatch())
	_, err = s.LiveState()
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestPickPlayerFallback(t *testing.T) {
	s := newTestSession(t, 28)
	name, id := pickPlayer(s.rng, nil, true)
	assert.Equal(t, "a player", name)
	assert.Empty(t, id)
}
