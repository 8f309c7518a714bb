package main

import (
	"net/http"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

type playerHit struct {
	Player *Player `json:"player"`
	TeamID string  `json:"team_id"`
	Rank   int     `json:"-"`
}

type teamHit struct {
	Team *Team `json:"team"`
	Rank int   `json:"-"`
}

const maxSearchResults = 20

// searchAPI fuzzy-matches players and teams by name. Substring matches
// rank ahead of looser fuzzy hits.
func (a *api) searchAPI(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "search query required"})
		return
	}

	state, err := a.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}

	var playerHits []playerHit
	for teamID, squad := range state.AllPlayers {
		for _, p := range squad {
			rank := matchRank(query, p.Name)
			if rank < 0 {
				continue
			}
			playerHits = append(playerHits, playerHit{Player: p, TeamID: teamID, Rank: rank})
		}
	}
	sort.SliceStable(playerHits, func(i, j int) bool { return playerHits[i].Rank < playerHits[j].Rank })
	if len(playerHits) > maxSearchResults {
		playerHits = playerHits[:maxSearchResults]
	}

	var teamHits []teamHit
	for i := range allTeams {
		t := &allTeams[i]
		rank := matchRank(query, t.Name)
		if short := matchRank(query, t.ShortName); rank < 0 || (short >= 0 && short < rank) {
			rank = short
		}
		if rank < 0 {
			continue
		}
		teamHits = append(teamHits, teamHit{Team: t, Rank: rank})
	}
	sort.SliceStable(teamHits, func(i, j int) bool { return teamHits[i].Rank < teamHits[j].Rank })

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"players": playerHits,
		"teams":   teamHits,
		"count":   len(playerHits) + len(teamHits),
	})
}

// matchRank scores a candidate against the query; lower is better, -1 is
// no match. Exact substrings beat fuzzy matches, which are ranked by
// Levenshtein distance.
func matchRank(query, candidate string) int {
	q := strings.ToLower(query)
	c := strings.ToLower(candidate)
	if strings.Contains(c, q) {
		return 0
	}
	if fuzzy.MatchNormalizedFold(q, c) {
		return 1 + fuzzy.LevenshteinDistance(q, c)
	}
	return -1
}
