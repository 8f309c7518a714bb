package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog/log"
)

type League struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var leagues = []League{
	{ID: "ARG", Name: "Liga Profesional"},
	{ID: "ESP", Name: "La Liga"},
	{ID: "ENG", Name: "Premier League"},
}

var argTeams = []Team{
	{ID: "river", Name: "River Plate", ShortName: "RIV", Color: "#E4002B", Budget: 50000000, Reputation: 90},
	{ID: "boca", Name: "Boca Juniors", ShortName: "BOC", Color: "#0033A0", Budget: 48000000, Reputation: 88},
	{ID: "racing", Name: "Racing Club", ShortName: "RAC", Color: "#75AADB", Budget: 30000000, Reputation: 78},
	{ID: "independiente", Name: "Independiente", ShortName: "IND", Color: "#E4002B", Budget: 28000000, Reputation: 76},
	{ID: "sanlorenzo", Name: "San Lorenzo", ShortName: "SLO", Color: "#0033A0", Budget: 25000000, Reputation: 74},
	{ID: "velez", Name: "Vélez Sarsfield", ShortName: "VEL", Color: "#0033A0", Budget: 22000000, Reputation: 72},
	{ID: "estudiantes", Name: "Estudiantes LP", ShortName: "ELP", Color: "#E4002B", Budget: 20000000, Reputation: 70},
	{ID: "talleres", Name: "Talleres", ShortName: "TAL", Color: "#0033A0", Budget: 18000000, Reputation: 68},
	{ID: "lanus", Name: "Lanús", ShortName: "LAN", Color: "#800020", Budget: 17000000, Reputation: 66},
	{ID: "argentinos", Name: "Argentinos Jrs", ShortName: "ARG", Color: "#E4002B", Budget: 15000000, Reputation: 65},
}

var espTeams = []Team{
	{ID: "realmadrid", Name: "Real Madrid", ShortName: "RMA", Color: "#FFFFFF", Budget: 850000000, Reputation: 99},
	{ID: "barcelona", Name: "FC Barcelona", ShortName: "FCB", Color: "#A50044", Budget: 650000000, Reputation: 96},
	{ID: "atletico", Name: "Atlético de Madrid", ShortName: "ATM", Color: "#CB3524", Budget: 400000000, Reputation: 90},
	{ID: "athletic", Name: "Athletic Club", ShortName: "ATH", Color: "#EE2523", Budget: 220000000, Reputation: 83},
	{ID: "seville", Name: "Sevilla FC", ShortName: "SEV", Color: "#D40000", Budget: 200000000, Reputation: 82},
	{ID: "realsociedad", Name: "Real Sociedad", ShortName: "RSO", Color: "#0067B1", Budget: 170000000, Reputation: 81},
	{ID: "betis", Name: "Real Betis", ShortName: "BET", Color: "#0BB363", Budget: 180000000, Reputation: 80},
	{ID: "villarreal", Name: "Villarreal CF", ShortName: "VIL", Color: "#F5E216", Budget: 160000000, Reputation: 80},
	{ID: "girona", Name: "Girona FC", ShortName: "GIR", Color: "#CE1126", Budget: 100000000, Reputation: 79},
	{ID: "valencia", Name: "Valencia CF", ShortName: "VAL", Color: "#000000", Budget: 120000000, Reputation: 78},
}

var engTeams = []Team{
	{ID: "mancity", Name: "Manchester City", ShortName: "MCI", Color: "#6CABDD", Budget: 950000000, Reputation: 98},
	{ID: "liverpool", Name: "Liverpool", ShortName: "LIV", Color: "#C8102E", Budget: 700000000, Reputation: 94},
	{ID: "arsenal", Name: "Arsenal", ShortName: "ARS", Color: "#EF0107", Budget: 600000000, Reputation: 92},
	{ID: "manutd", Name: "Manchester United", ShortName: "MUN", Color: "#DA291C", Budget: 650000000, Reputation: 91},
	{ID: "chelsea", Name: "Chelsea", ShortName: "CHE", Color: "#034694", Budget: 600000000, Reputation: 90},
	{ID: "tottenham", Name: "Tottenham", ShortName: "TOT", Color: "#132257", Budget: 400000000, Reputation: 88},
	{ID: "newcastle", Name: "Newcastle United", ShortName: "NEW", Color: "#241F20", Budget: 500000000, Reputation: 85},
	{ID: "astonvilla", Name: "Aston Villa", ShortName: "AVL", Color: "#95BFE5", Budget: 250000000, Reputation: 82},
	{ID: "westham", Name: "West Ham", ShortName: "WHU", Color: "#7A263A", Budget: 200000000, Reputation: 80},
	{ID: "brighton", Name: "Brighton", ShortName: "BHA", Color: "#0057B8", Budget: 180000000, Reputation: 79},
}

var allTeams []Team

var teamIndex map[string]*Team

func init() {
	tag := func(ts []Team, leagueID, leagueName string) {
		for i := range ts {
			ts[i].LeagueID = leagueID
			ts[i].LeagueName = leagueName
		}
	}
	tag(argTeams, "ARG", "Liga Profesional")
	tag(espTeams, "ESP", "La Liga")
	tag(engTeams, "ENG", "Premier League")

	allTeams = append(allTeams, argTeams...)
	allTeams = append(allTeams, espTeams...)
	allTeams = append(allTeams, engTeams...)

	teamIndex = make(map[string]*Team, len(allTeams))
	for i := range allTeams {
		teamIndex[allTeams[i].ID] = &allTeams[i]
	}
}

func getTeam(id string) *Team {
	return teamIndex[id]
}

func teamsByLeague(leagueID string) []Team {
	var out []Team
	for _, t := range allTeams {
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	return out
}

// Name pools keyed by league so squads read plausibly local.
var firstNamePool = map[string][]string{
	"ARG": {"Juan", "Lucas", "Matías", "Nicolás", "Gonzalo", "Franco", "Emiliano", "Sebastián", "Ramiro", "Ezequiel", "Cristian", "Leandro", "Maximiliano", "Ignacio", "Germán", "Rodrigo"},
	"ESP": {"Sergio", "Álvaro", "Iker", "Pablo", "Dani", "Marco", "Javi", "Raúl", "Adrián", "Iñaki", "Mikel", "Carlos", "Rubén", "Óscar", "Unai", "Marcos"},
	"ENG": {"Harry", "Jack", "James", "Mason", "Oliver", "Declan", "Callum", "Ben", "Kyle", "Reece", "Conor", "Luke", "Jordan", "Aaron", "Lewis", "Marcus"},
}

var lastNamePool = map[string][]string{
	"ARG": {"Fernández", "Gómez", "Rodríguez", "Pereyra", "Acuña", "Romero", "Paredes", "Molina", "Correa", "Álvarez", "Herrera", "Domínguez", "Quintana", "Villalba", "Sosa", "Ledesma"},
	"ESP": {"García", "Martínez", "López", "Hernández", "Torres", "Navas", "Moreno", "Llorente", "Gil", "Vázquez", "Ramos", "Alonso", "Merino", "Olmo", "Fornals", "Canales"},
	"ENG": {"Smith", "Walker", "Henderson", "Phillips", "Mount", "Grealish", "Saka", "Foden", "Rice", "Maddison", "Gallagher", "Bowen", "Watkins", "Trippier", "Stones", "Palmer"},
}

var nationalityByLeague = map[string]string{"ARG": "AR", "ESP": "ES", "ENG": "EN"}

// Realistic squad composition: 19 players per team
var squadRoles = []string{
	RoleGK, RoleGK,
	RoleCB, RoleCB, RoleCB,
	RoleLB, RoleLB,
	RoleRB, RoleRB,
	RoleCDM, RoleCDM,
	RoleCM, RoleCM, RoleCM,
	RoleCAM,
	RoleLW, RoleRW,
	RoleST, RoleST,
}

// generateSquad builds teamID's base roster. The rng is seeded per team by
// the caller so the same database comes out run after run.
func generateSquad(rng *rand.Rand, team *Team) []*Player {
	firsts := firstNamePool[team.LeagueID]
	lasts := lastNamePool[team.LeagueID]
	nat := nationalityByLeague[team.LeagueID]

	// Stronger clubs field stronger squads. Maps rep 50..99 onto a
	// -10..+9 shift of every stat roll.
	boost := (team.Reputation - 75) * 2 / 5

	players := make([]*Player, 0, len(squadRoles))
	for i, role := range squadRoles {
		p := &Player{
			ID:          fmt.Sprintf("%s_%d", team.ID, i+1),
			Name:        firsts[rng.Intn(len(firsts))] + " " + lasts[rng.Intn(len(lasts))],
			Age:         18 + rng.Intn(17),
			Nationality: nat,
			Position:    roleToPosition[role],
			Role:        role,
			Stamina:     100,
		}
		rollStats(rng, p, role, boost)
		p.Overall = calculateOverall(p)
		p.MarketValue = marketValueFor(rng, p.Overall, p.Age)
		players = append(players, p)
	}
	return players
}

// rollStats fills the attribute vector with per-role ranges shifted by the
// club-strength boost.
func rollStats(rng *rand.Rand, p *Player, role string, boost int) {
	roll := func(base, spread int) int {
		return clampStat(base + boost + rng.Intn(spread))
	}

	if role == RoleGK {
		p.GKStats = &KeeperStats{
			Diving:      roll(60, 30),
			Handling:    roll(60, 30),
			Kicking:     roll(40, 40),
			Reflexes:    roll(62, 30),
			Positioning: roll(60, 30),
		}
		return
	}

	s := &OutfieldStats{}
	switch role {
	case RoleCB:
		s.Pace = roll(40, 35)
		s.Shooting = roll(25, 30)
		s.Passing = roll(50, 35)
		s.Dribbling = roll(40, 30)
		s.Defense = roll(68, 28)
		s.Physical = roll(68, 28)
	case RoleLB, RoleRB:
		s.Pace = roll(62, 32)
		s.Shooting = roll(35, 35)
		s.Passing = roll(58, 34)
		s.Dribbling = roll(55, 32)
		s.Defense = roll(60, 32)
		s.Physical = roll(52, 34)
	case RoleCDM:
		s.Pace = roll(45, 35)
		s.Shooting = roll(42, 35)
		s.Passing = roll(66, 28)
		s.Dribbling = roll(55, 30)
		s.Defense = roll(66, 28)
		s.Physical = roll(60, 32)
	case RoleCM:
		s.Pace = roll(52, 34)
		s.Shooting = roll(52, 34)
		s.Passing = roll(68, 28)
		s.Dribbling = roll(62, 30)
		s.Defense = roll(50, 34)
		s.Physical = roll(52, 34)
	case RoleCAM:
		s.Pace = roll(60, 32)
		s.Shooting = roll(66, 28)
		s.Passing = roll(68, 28)
		s.Dribbling = roll(70, 26)
		s.Defense = roll(32, 32)
		s.Physical = roll(44, 34)
	case RoleLW, RoleRW:
		s.Pace = roll(70, 26)
		s.Shooting = roll(58, 34)
		s.Passing = roll(58, 34)
		s.Dribbling = roll(70, 26)
		s.Defense = roll(32, 32)
		s.Physical = roll(44, 34)
	case RoleST:
		s.Pace = roll(62, 32)
		s.Shooting = roll(72, 24)
		s.Passing = roll(50, 34)
		s.Dribbling = roll(60, 32)
		s.Defense = roll(24, 28)
		s.Physical = roll(62, 32)
	default:
		s.Pace = roll(50, 35)
		s.Shooting = roll(50, 35)
		s.Passing = roll(50, 35)
		s.Dribbling = roll(50, 35)
		s.Defense = roll(50, 35)
		s.Physical = roll(50, 35)
	}
	p.Stats = s
}

// baseSeed fixes the base database independent of the session seed.
const baseSeed = 20260801

// buildPlayerDatabase generates every club's roster from per-team seeds
// derived from the base seed, so one team's squad never depends on
// generation order elsewhere.
func buildPlayerDatabase() map[string][]*Player {
	db := make(map[string][]*Player, len(allTeams))
	for i := range allTeams {
		team := &allTeams[i]
		rng := rand.New(rand.NewSource(baseSeed ^ int64(hashID(team.ID))))
		db[team.ID] = generateSquad(rng, team)
	}
	return db
}

func hashID(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// PlayerOverride patches a generated player by id. Zero fields are left
// untouched; Overall pins the rating and skips re-derivation.
type PlayerOverride struct {
	Name    string         `json:"name,omitempty"`
	Age     int            `json:"age,omitempty"`
	Role    string         `json:"role,omitempty"`
	Stats   *OutfieldStats `json:"stats,omitempty"`
	GKStats *KeeperStats   `json:"gk_stats,omitempty"`
	Overall int            `json:"overall,omitempty"`
}

type overrideFile struct {
	Overrides map[string]PlayerOverride `json:"overrides"`
}

// loadOverrides reads the optional patch file next to the save. A missing
// file is normal; a broken one is logged and skipped.
func loadOverrides(path string) map[string]PlayerOverride {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var f overrideFile
	if err := json.Unmarshal(raw, &f); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("ignoring malformed player overrides")
		return nil
	}
	return f.Overrides
}

// applyOverrides patches players in place and re-derives overall unless the
// override pins one.
func applyOverrides(db map[string][]*Player, overrides map[string]PlayerOverride) {
	if len(overrides) == 0 {
		return
	}
	for _, squad := range db {
		for _, p := range squad {
			o, ok := overrides[p.ID]
			if !ok {
				continue
			}
			if o.Name != "" {
				p.Name = o.Name
			}
			if o.Age > 0 {
				p.Age = o.Age
			}
			if o.Role != "" {
				p.Role = o.Role
				p.Position = roleToPosition[o.Role]
			}
			if o.Stats != nil {
				p.Stats = o.Stats
				p.GKStats = nil
			}
			if o.GKStats != nil {
				p.GKStats = o.GKStats
				p.Stats = nil
			}
			if o.Overall > 0 {
				p.Overall = o.Overall
			} else {
				p.Overall = calculateOverall(p)
			}
		}
	}
}

func formatMoney(n int) string {
	switch {
	case n >= 1000000:
		return fmt.Sprintf("$%.1fM", float64(n)/1000000)
	case n >= 1000:
		return fmt.Sprintf("$%dK", n/1000)
	default:
		return fmt.Sprintf("$%d", n)
	}
}
