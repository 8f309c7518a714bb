package main

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLeagueFixturesDoubleRoundRobin(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	teams := teamsByLeague("ARG")
	n := len(teams)
	require.Equal(t, 10, n)

	fixtures := generateLeagueFixtures(rng, "ARG", teams)
	assert.Len(t, fixtures, n*(n-1))

	// every ordered pairing appears exactly once
	pairings := make(map[string]int)
	for _, fx := range fixtures {
		pairings[fx.Home+"|"+fx.Away]++
		assert.NotEqual(t, fx.Home, fx.Away)
		assert.False(t, fx.Played)
		assert.Equal(t, "ARG", fx.LeagueID)
	}
	assert.Len(t, pairings, n*(n-1))
	for pairing, count := range pairings {
		assert.Equal(t, 1, count, "pairing %s scheduled %d times", pairing, count)
	}
}

func TestGenerateLeagueFixturesWeeks(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	teams := teamsByLeague("ENG")
	n := len(teams)

	fixtures := generateLeagueFixtures(rng, "ENG", teams)

	perWeek := make(map[int]int)
	teamWeeks := make(map[string]map[int]bool)
	for _, fx := range fixtures {
		assert.GreaterOrEqual(t, fx.Week, 1)
		assert.LessOrEqual(t, fx.Week, 2*(n-1))
		perWeek[fx.Week]++
		for _, id := range []string{fx.Home, fx.Away} {
			if teamWeeks[id] == nil {
				teamWeeks[id] = make(map[int]bool)
			}
			assert.False(t, teamWeeks[id][fx.Week], "%s plays twice in week %d", id, fx.Week)
			teamWeeks[id][fx.Week] = true
		}
	}
	for week, count := range perWeek {
		assert.Equal(t, n/2, count, "week %d has %d fixtures", week, count)
	}
}

func TestGenerateLeagueFixturesMirroredSecondLeg(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	teams := teamsByLeague("ESP")
	n := len(teams)

	fixtures := generateLeagueFixtures(rng, "ESP", teams)
	half := len(fixtures) / 2

	for i := 0; i < half; i++ {
		first := fixtures[i]
		second := fixtures[half+i]
		assert.Equal(t, first.Home, second.Away)
		assert.Equal(t, first.Away, second.Home)
		assert.Equal(t, first.Week+(n-1), second.Week)
	}
}

func TestFixtureIDsSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	fixtures := generateLeagueFixtures(rng, "ARG", teamsByLeague("ARG"))
	for i, fx := range fixtures {
		assert.Equal(t, fmt.Sprintf("ARG_f%d", i+1), fx.ID)
	}
}
