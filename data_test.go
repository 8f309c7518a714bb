package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticTeamData(t *testing.T) {
	for _, l := range leagues {
		assert.Len(t, teamsByLeague(l.ID), 10, "league %s", l.ID)
	}

	boca := getTeam("boca")
	require.NotNil(t, boca)
	assert.Equal(t, "Boca Juniors", boca.Name)
	assert.Equal(t, "ARG", boca.LeagueID)

	river := getTeam("river")
	require.NotNil(t, river)
	assert.Equal(t, 90, river.Reputation)

	assert.Nil(t, getTeam("ajax"))
}

func TestBuildPlayerDatabase(t *testing.T) {
	db := buildPlayerDatabase()
	require.Len(t, db, len(allTeams))

	for teamID, squad := range db {
		require.Len(t, squad, len(squadRoles), "squad size for %s", teamID)

		keepers := 0
		for _, p := range squad {
			assert.Equal(t, roleToPosition[p.Role], p.Position)
			assert.Equal(t, float64(100), p.Stamina)
			assert.Greater(t, p.Overall, 0)
			assert.Greater(t, p.MarketValue, 0)
			if p.Position == PosGK {
				keepers++
				require.NotNil(t, p.GKStats)
				assert.Nil(t, p.Stats)
			} else {
				require.NotNil(t, p.Stats)
			}
		}
		assert.Equal(t, 2, keepers, "two keepers per squad")
	}

	// stronger clubs come out stronger on average
	avg := func(squad []*Player) float64 {
		sum := 0
		for _, p := range squad {
			sum += p.Overall
		}
		return float64(sum) / float64(len(squad))
	}
	assert.Greater(t, avg(db["realmadrid"]), avg(db["argentinos"]))
}

func TestBuildPlayerDatabaseStable(t *testing.T) {
	a := buildPlayerDatabase()
	b := buildPlayerDatabase()
	for teamID := range a {
		for i := range a[teamID] {
			assert.Equal(t, *a[teamID][i], *b[teamID][i])
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	db := buildPlayerDatabase()
	target := db["boca"][5]
	require.Equal(t, PosDEF, target.Position)

	overrides := map[string]PlayerOverride{
		target.ID: {
			Name: "Juan Roman",
			Age:  30,
			Role: RoleCAM,
			Stats: &OutfieldStats{
				Pace: 60, Shooting: 85, Passing: 95, Dribbling: 92, Defense: 40, Physical: 60,
			},
		},
		"ghost_1": {Name: "Nobody"},
	}
	applyOverrides(db, overrides)

	assert.Equal(t, "Juan Roman", target.Name)
	assert.Equal(t, 30, target.Age)
	assert.Equal(t, RoleCAM, target.Role)
	assert.Equal(t, PosMID, target.Position)
	assert.Equal(t, calculateOverall(target), target.Overall, "overall re-derived from patched stats")
}

func TestApplyOverridesPinnedOverall(t *testing.T) {
	db := buildPlayerDatabase()
	target := db["river"][0]

	applyOverrides(db, map[string]PlayerOverride{
		target.ID: {Overall: 97},
	})
	assert.Equal(t, 97, target.Overall)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$48.0M", formatMoney(48000000))
	assert.Equal(t, "$2.5M", formatMoney(2500000))
	assert.Equal(t, "$750K", formatMoney(750000))
	assert.Equal(t, "$900", formatMoney(900))
}
