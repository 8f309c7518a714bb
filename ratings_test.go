package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateOverallGoalkeeper(t *testing.T) {
	p := &Player{
		Position: PosGK,
		GKStats:  &KeeperStats{Diving: 80, Handling: 70, Kicking: 30, Reflexes: 90, Positioning: 60},
	}
	// kicking is not part of the keeper rating
	assert.Equal(t, 75, calculateOverall(p))
}

func TestCalculateOverallOutfield(t *testing.T) {
	stats := &OutfieldStats{Pace: 80, Shooting: 70, Passing: 60, Dribbling: 50, Defense: 90, Physical: 85}

	def := &Player{Position: PosDEF, Stats: stats}
	// .30*90+.25*85+.20*80+.15*60+.10*50 = 78.25
	assert.Equal(t, 78, calculateOverall(def))

	mid := &Player{Position: PosMID, Stats: stats}
	// .25*60+.25*50+.15*90+.15*70+.10*80+.10*85 = 68.0
	assert.Equal(t, 68, calculateOverall(mid))

	fwd := &Player{Position: PosFWD, Stats: stats}
	// .30*70+.25*80+.20*50+.15*60+.10*85 = 68.5
	assert.Equal(t, 69, calculateOverall(fwd))

	other := &Player{Position: "SWEEPER", Stats: stats}
	// unweighted mean = 435/6 = 72.5
	assert.Equal(t, 73, calculateOverall(other))
}

func TestOverallInRolePenalties(t *testing.T) {
	def := &Player{Position: PosDEF, Role: RoleCB, Overall: 80}

	assert.Equal(t, 80, overallInRole(def, RoleLB), "same family keeps the rating")
	assert.Equal(t, 68, overallInRole(def, RoleCM), "DEF in MID slot takes 0.85")
	assert.Equal(t, 52, overallInRole(def, RoleST), "DEF in FWD slot takes 0.65")
	assert.Equal(t, 24, overallInRole(def, RoleGK), "outfield in goal takes 0.3")

	gk := &Player{Position: PosGK, Role: RoleGK, Overall: 80}
	assert.Equal(t, 80, overallInRole(gk, RoleGK))
	assert.Equal(t, 32, overallInRole(gk, RoleST), "keeper outfield takes 0.4")

	mid := &Player{Position: PosMID, Role: RoleCM, Overall: 80}
	assert.Equal(t, 64, overallInRole(mid, RoleCB))
	assert.Equal(t, 64, overallInRole(mid, RoleST))

	fwd := &Player{Position: PosFWD, Role: RoleST, Overall: 80}
	assert.Equal(t, 48, overallInRole(fwd, RoleCB))
	assert.Equal(t, 60, overallInRole(fwd, RoleCM))
}

func TestGenerateYouthPlayer(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	existing := map[string]bool{"boca_y1": true}

	for i := 0; i < 50; i++ {
		p := generateYouthPlayer(rng, "boca", existing)
		require.NotNil(t, p)

		assert.NotEqual(t, "boca_y1", p.ID, "taken ids are skipped")
		assert.Contains(t, p.ID, "boca_y")
		assert.True(t, p.Youth)
		assert.GreaterOrEqual(t, p.Age, 16)
		assert.LessOrEqual(t, p.Age, 18)
		assert.GreaterOrEqual(t, p.Potential, 60)
		assert.LessOrEqual(t, p.Potential, 84)
		assert.Equal(t, float64(100), p.Stamina)
		assert.Equal(t, roleToPosition[p.Role], p.Position)

		if p.Position == PosGK {
			require.NotNil(t, p.GKStats)
			assert.Nil(t, p.Stats)
		} else {
			require.NotNil(t, p.Stats)
			assert.Nil(t, p.GKStats)
			for _, v := range []int{p.Stats.Pace, p.Stats.Shooting, p.Stats.Passing, p.Stats.Dribbling, p.Stats.Defense, p.Stats.Physical} {
				assert.GreaterOrEqual(t, v, 35)
				assert.LessOrEqual(t, v, 99)
			}
		}
		assert.Greater(t, p.MarketValue, 0)
	}
}

func TestClampStat(t *testing.T) {
	assert.Equal(t, 35, clampStat(10))
	assert.Equal(t, 99, clampStat(120))
	assert.Equal(t, 60, clampStat(60))
}
