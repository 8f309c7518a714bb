package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, seed int64) (*Session, *mux.Router) {
	t.Helper()
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	s := newTestSession(t, seed)
	router := mux.NewRouter()
	newAPI(s, logger).routes(router)
	return s, router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHomepageAndHealth(t *testing.T) {
	_, router := newTestServer(t, 51)

	rec := doJSON(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Gaffer")

	rec = doJSON(t, router, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "none", health["career"])
}

func TestNewCareerEndpoint(t *testing.T) {
	_, router := newTestServer(t, 52)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/career/new", map[string]string{
		"manager_name": "Marcelo Gallardo",
		"club_id":      "river",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/career", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Marcelo Gallardo")
}

func TestNewCareerValidation(t *testing.T) {
	_, router := newTestServer(t, 53)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/career/new", map[string]string{"club_id": "boca"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "manager name required")

	rec = doJSON(t, router, http.MethodPost, "/api/v1/career/new", map[string]string{
		"manager_name": "Someone",
		"club_id":      "ajax",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code, "unknown club")
}

func TestEndpointsRequireCareer(t *testing.T) {
	_, router := newTestServer(t, 54)

	for _, path := range []string{"/api/v1/squad", "/api/v1/tactics", "/api/v1/career", "/api/v1/messages"} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/career/advance", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeagueTableSorted(t *testing.T) {
	s, router := newTestServer(t, 55)
	require.NoError(t, s.NewGame("Test", "boca", nil))
	for i := 0; i < 5; i++ {
		require.NoError(t, s.AdvanceWeek())
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/leagues/ARG/table", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Table []tableEntry `json:"table"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Table, 10)
	for i := 1; i < len(resp.Table); i++ {
		assert.GreaterOrEqual(t, resp.Table[i-1].Points, resp.Table[i].Points)
		assert.Equal(t, i+1, resp.Table[i].Position)
		assert.Equal(t, 5, resp.Table[i].Played)
	}
}

func TestOfferValidationAndBudget(t *testing.T) {
	s, router := newTestServer(t, 56)
	require.NoError(t, s.NewGame("Test", "boca", nil))
	state, _ := s.Snapshot()
	target := state.AllPlayers["river"][2]

	rec := doJSON(t, router, http.MethodPost, "/api/v1/transfers/offer", map[string]interface{}{
		"player_id": target.ID,
		"amount":    -5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "negative amounts rejected at the boundary")

	rec = doJSON(t, router, http.MethodPost, "/api/v1/transfers/offer", map[string]interface{}{
		"player_id": target.ID,
		"amount":    state.Manager.Budget + 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "budget")
}

func TestSubstitutionCapEnforced(t *testing.T) {
	s, router := newTestServer(t, 57)
	require.NoError(t, s.NewGame("Test", "boca", nil))

	for i := 0; i < MaxSubsPerMatch; i++ {
		state, _ := s.Snapshot()
		rec := doJSON(t, router, http.MethodPost, "/api/v1/match/substitute", map[string]string{
			"out": state.Tactics.Lineup[i],
			"in":  state.Tactics.Substitutes[0],
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	state, _ := s.Snapshot()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/match/substitute", map[string]string{
		"out": state.Tactics.Lineup[6],
		"in":  state.Tactics.Substitutes[0],
	})
	assert.Equal(t, http.StatusConflict, rec.Code, "sixth substitution refused")
}

func TestSetLineupValidation(t *testing.T) {
	s, router := newTestServer(t, 58)
	require.NoError(t, s.NewGame("Test", "boca", nil))
	state, _ := s.Snapshot()

	lineup := append([]string{}, state.Tactics.Lineup...)

	// a river player in a boca lineup
	lineup[10] = state.AllPlayers["river"][0].ID
	rec := doJSON(t, router, http.MethodPost, "/api/v1/tactics/lineup", map[string]interface{}{
		"lineup": lineup,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not in your squad")

	rec = doJSON(t, router, http.MethodPost, "/api/v1/tactics/lineup", map[string]interface{}{
		"lineup": state.Tactics.Lineup[:10],
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "exactly eleven required")
}

func TestMatchEndpointsWithoutMatch(t *testing.T) {
	s, router := newTestServer(t, 59)
	require.NoError(t, s.NewGame("Test", "boca", nil))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/match", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/match/pause", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	s, router := newTestServer(t, 60)
	require.NoError(t, s.NewGame("Test", "boca", nil))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/search?q=boca", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Teams []teamHit `json:"teams"`
		Count int       `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Teams)
	assert.Equal(t, "boca", resp.Teams[0].Team.ID)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeamsEndpoints(t *testing.T) {
	s, router := newTestServer(t, 61)
	require.NoError(t, s.NewGame("Test", "boca", nil))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/teams?league=ESP", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Count)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/teams/boca/players", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var squad struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &squad))
	assert.Equal(t, len(squadRoles), squad.Count)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/leagues/ARG/fixtures?week=%d", 1), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fixtures struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fixtures))
	assert.Equal(t, 5, fixtures.Count)
}
