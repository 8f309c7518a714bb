package main

import (
	"math/rand"
	"strconv"
)

// calculateOverall derives the single 0-99 skill number from a player's
// attribute vector. Goalkeepers average their four primary ratings
// (kicking is excluded); outfield players use position-weighted sums.
func calculateOverall(p *Player) int {
	if p.Position == PosGK && p.GKStats != nil {
		gk := p.GKStats
		return roundDiv(gk.Diving+gk.Handling+gk.Reflexes+gk.Positioning, 4)
	}
	if p.Stats == nil {
		return 60
	}
	s := p.Stats
	switch p.Position {
	case PosDEF:
		return roundf(float64(s.Defense)*0.30 + float64(s.Physical)*0.25 + float64(s.Pace)*0.20 + float64(s.Passing)*0.15 + float64(s.Dribbling)*0.10)
	case PosMID:
		return roundf(float64(s.Passing)*0.25 + float64(s.Dribbling)*0.25 + float64(s.Defense)*0.15 + float64(s.Shooting)*0.15 + float64(s.Pace)*0.10 + float64(s.Physical)*0.10)
	case PosFWD:
		return roundf(float64(s.Shooting)*0.30 + float64(s.Pace)*0.25 + float64(s.Dribbling)*0.20 + float64(s.Passing)*0.15 + float64(s.Physical)*0.10)
	default:
		return roundDiv(s.Pace+s.Shooting+s.Passing+s.Dribbling+s.Defense+s.Physical, 6)
	}
}

// Penalty multipliers for playing outside the natural position family.
var foreignFamilyPenalty = map[string]map[string]float64{
	PosDEF: {PosMID: 0.85, PosFWD: 0.65},
	PosMID: {PosDEF: 0.80, PosFWD: 0.80},
	PosFWD: {PosDEF: 0.60, PosMID: 0.75},
}

// overallInRole rates a player when asked to fill targetRole. The result
// is advisory for lineup scoring; the stored overall is never touched.
func overallInRole(p *Player, targetRole string) int {
	targetPosition, ok := roleToPosition[targetRole]
	if !ok {
		targetPosition = targetRole
	}
	switch {
	case p.Position == targetPosition:
		return p.Overall
	case p.Position == PosGK:
		return roundf(float64(p.Overall) * 0.4)
	case targetPosition == PosGK:
		return roundf(float64(p.Overall) * 0.3)
	}
	mult := 0.7
	if row, ok := foreignFamilyPenalty[p.Position]; ok {
		if m, ok := row[targetPosition]; ok {
			mult = m
		}
	}
	return roundf(float64(p.Overall) * mult)
}

// marketValueFor prices a player from overall and age. Peak-age players
// with high ratings are worth tens of millions, fringe players a few
// hundred thousand.
func marketValueFor(rng *rand.Rand, overall, age int) int {
	base := overall - 45
	if base < 5 {
		base = 5
	}
	value := base * base * 12000
	switch {
	case age <= 23:
		value = value * 130 / 100
	case age >= 31:
		value = value * 60 / 100
	}
	// +/- 15% spread so equal ratings don't price identically
	spread := value * (rng.Intn(31) - 15) / 100
	value += spread
	if value < 100000 {
		value = 100000
	}
	return value
}

var youthFirstNames = []string{
	"Matías", "Nicolás", "Agustín", "Facundo", "Lautaro", "Thiago", "Valentín",
	"Benjamín", "Joaquín", "Tomás", "Lucas", "Martín", "Santiago", "Franco",
	"Bruno", "Nahuel",
}

var youthLastNames = []string{
	"González", "Rodríguez", "Fernández", "López", "Martínez", "García",
	"Pérez", "Sánchez", "Romero", "Díaz", "Torres", "Álvarez", "Ruiz",
	"Hernández", "Medina", "Castro",
}

var allRoles = []string{RoleGK, RoleCB, RoleLB, RoleRB, RoleCDM, RoleCM, RoleCAM, RoleLW, RoleRW, RoleST}

// generateYouthPlayer produces an academy prospect for teamID with an id
// not present in existingIDs. Current ability trails potential by up to
// 15 points; attributes scatter +/-6 around current ability.
func generateYouthPlayer(rng *rand.Rand, teamID string, existingIDs map[string]bool) *Player {
	role := allRoles[rng.Intn(len(allRoles))]
	position := roleToPosition[role]

	idNum := 1
	id := youthID(teamID, idNum)
	for existingIDs[id] {
		idNum++
		id = youthID(teamID, idNum)
	}

	age := 16 + rng.Intn(3)
	potential := 60 + rng.Intn(25)
	current := potential - 15 + rng.Intn(10)
	if current < 50 {
		current = 50
	}

	v := func() int { return rng.Intn(12) - 6 }
	p := &Player{
		ID:          id,
		Name:        youthFirstNames[rng.Intn(len(youthFirstNames))] + " " + youthLastNames[rng.Intn(len(youthLastNames))],
		Age:         age,
		Nationality: "AR",
		Position:    position,
		Role:        role,
		Stamina:     100,
		Potential:   potential,
		Youth:       true,
	}
	if position == PosGK {
		p.GKStats = &KeeperStats{
			Diving:      clampStat(current + v()),
			Handling:    clampStat(current + v()),
			Kicking:     clampStat(current - 10 + v()),
			Reflexes:    clampStat(current + v()),
			Positioning: clampStat(current + v()),
		}
	} else {
		p.Stats = &OutfieldStats{
			Pace:      clampStat(current + v()),
			Shooting:  clampStat(current + v()),
			Passing:   clampStat(current + v()),
			Dribbling: clampStat(current + v()),
			Defense:   clampStat(current + v()),
			Physical:  clampStat(current + v()),
		}
	}
	p.Overall = calculateOverall(p)
	p.MarketValue = marketValueFor(rng, p.Overall, p.Age)
	return p
}

func youthID(teamID string, n int) string {
	return teamID + "_y" + strconv.Itoa(n)
}

func clampStat(v int) int {
	if v < 35 {
		return 35
	}
	if v > 99 {
		return 99
	}
	return v
}

func roundf(v float64) int {
	return int(v + 0.5)
}

func roundDiv(sum, n int) int {
	return roundf(float64(sum) / float64(n))
}
