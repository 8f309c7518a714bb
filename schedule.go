package main

import (
	"fmt"
	"math/rand"
)

// generateLeagueFixtures builds a double round-robin for one league with
// the circle method. The team order is shuffled once up front so each
// career gets its own calendar; the second leg mirrors the first with home
// and away swapped, offset by a half season.
func generateLeagueFixtures(rng *rand.Rand, leagueID string, teams []Team) []Fixture {
	n := len(teams)
	if n < 2 {
		return nil
	}

	order := make([]string, n)
	for i, t := range teams {
		order[i] = t.ID
	}
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

	rounds := n - 1
	perRound := n / 2
	fixtures := make([]Fixture, 0, n*(n-1))
	next := 1

	add := func(week int, home, away string) {
		fixtures = append(fixtures, Fixture{
			ID:       fmt.Sprintf("%s_f%d", leagueID, next),
			LeagueID: leagueID,
			Week:     week,
			Home:     home,
			Away:     away,
		})
		next++
	}

	for round := 0; round < rounds; round++ {
		for match := 0; match < perRound; match++ {
			home := (round + match) % (n - 1)
			away := (n - 1 - match + round) % (n - 1)
			if match == 0 {
				away = n - 1
			}
			add(round+1, order[home], order[away])
		}
	}

	// Mirrored return leg
	firstLeg := len(fixtures)
	for i := 0; i < firstLeg; i++ {
		f := fixtures[i]
		add(f.Week+rounds, f.Away, f.Home)
	}
	return fixtures
}

func totalWeeks(leagueID string) int {
	n := len(teamsByLeague(leagueID))
	return 2 * (n - 1)
}
