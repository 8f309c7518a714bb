package main

import "time"

// String constants used across the simulation
const (
	// Positions (families)
	PosGK  = "GK"
	PosDEF = "DEF"
	PosMID = "MID"
	PosFWD = "FWD"

	// Roles (fine-grained)
	RoleGK  = "GK"
	RoleCB  = "CB"
	RoleLB  = "LB"
	RoleRB  = "RB"
	RoleCDM = "CDM"
	RoleCM  = "CM"
	RoleCAM = "CAM"
	RoleLW  = "LW"
	RoleRW  = "RW"
	RoleST  = "ST"

	// Pressure levels
	PressureLow    = "low"
	PressureMedium = "medium"
	PressureHigh   = "high"

	// Match statuses
	StatusReady      = "READY"
	StatusFirstHalf  = "FIRST_HALF"
	StatusHalftime   = "HALFTIME"
	StatusSecondHalf = "SECOND_HALF"
	StatusEnded      = "ENDED"

	// Match speeds
	SpeedNormal = "normal"
	SpeedFast   = "fast"
	SpeedTurbo  = "turbo"

	// Event sides/kinds for the commentary feed
	SideHome   = "home"
	SideAway   = "away"
	SideSystem = "system"
	SideSave   = "save"
	SideSub    = "sub"

	// Message types
	MsgInfo    = "info"
	MsgSuccess = "success"
	MsgWarning = "warning"
	MsgYouth   = "youth"

	// Transfer offer statuses
	OfferPending   = "pending"
	OfferAccepted  = "accepted"
	OfferRejected  = "rejected"
	OfferCountered = "countered"

	// Game constants
	HalftimeMinute  = 45
	FullTimeMinute  = 90
	MaxSubstitutes  = 7
	MaxSubsPerMatch = 5
	LineupSize      = 11
	HomeAdvantage   = 10 // reputation bonus for the home side in week simulation
)

// roleToPosition maps a fine-grained role to its position family.
var roleToPosition = map[string]string{
	RoleGK:  PosGK,
	RoleCB:  PosDEF,
	RoleLB:  PosDEF,
	RoleRB:  PosDEF,
	RoleCDM: PosMID,
	RoleCM:  PosMID,
	RoleCAM: PosMID,
	RoleLW:  PosMID,
	RoleRW:  PosMID,
	RoleST:  PosFWD,
}

// attackingRoles prefer to end up on a scoresheet.
var attackingRoles = map[string]bool{
	RoleST:  true,
	RoleLW:  true,
	RoleRW:  true,
	RoleCAM: true,
}

// OutfieldStats is the six-attribute vector for non-goalkeepers (1-99).
type OutfieldStats struct {
	Pace      int `json:"pac"`
	Shooting  int `json:"sho"`
	Passing   int `json:"pas"`
	Dribbling int `json:"dri"`
	Defense   int `json:"def"`
	Physical  int `json:"phy"`
}

// KeeperStats is the five-attribute vector for goalkeepers (1-99).
type KeeperStats struct {
	Diving      int `json:"div"`
	Handling    int `json:"han"`
	Kicking     int `json:"kic"`
	Reflexes    int `json:"ref"`
	Positioning int `json:"pos"`
}

// Player carries exactly one of Stats or GKStats, matching Position.
type Player struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Age         int            `json:"age"`
	Nationality string         `json:"nationality"`
	Position    string         `json:"position"`
	Role        string         `json:"role"`
	Stats       *OutfieldStats `json:"stats,omitempty"`
	GKStats     *KeeperStats   `json:"gk_stats,omitempty"`
	Overall     int            `json:"overall"`
	Stamina     float64        `json:"stamina"`
	MarketValue int            `json:"market_value"`
	Potential   int            `json:"potential,omitempty"`
	Youth       bool           `json:"youth,omitempty"`
}

type Team struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ShortName  string `json:"short_name"`
	Color      string `json:"color"`
	Budget     int    `json:"budget"`
	Reputation int    `json:"reputation"`
	LeagueID   string `json:"league_id"`
	LeagueName string `json:"league_name"`
}

// Fixture is one scheduled match. Score fields are only meaningful once
// Played is true; committing a result twice is rejected by the session.
type Fixture struct {
	ID       string `json:"id"`
	LeagueID string `json:"league_id"`
	Week     int    `json:"week"`
	Home     string `json:"home"`
	Away     string `json:"away"`
	Played   bool   `json:"played"`
	HomeGls  int    `json:"hg"`
	AwayGls  int    `json:"ag"`
}

// StandingRow accumulates one team's league record.
type StandingRow struct {
	Played       int `json:"p"`
	Won          int `json:"w"`
	Drawn        int `json:"d"`
	Lost         int `json:"l"`
	GoalsFor     int `json:"gf"`
	GoalsAgainst int `json:"ga"`
	Points       int `json:"pts"`
}

type Tactics struct {
	Formation   string   `json:"formation"`
	Pressure    string   `json:"pressure"`
	Captain     string   `json:"captain,omitempty"`
	Lineup      []string `json:"lineup"`
	Substitutes []string `json:"substitutes"`
	SubsUsed    int      `json:"subs_used"`
}

// Manager is the career record. Created once per career, never reset.
type Manager struct {
	Name    string `json:"name"`
	ClubID  string `json:"club_id"`
	Budget  int    `json:"budget"`
	Week    int    `json:"week"`
	Season  int    `json:"season"`
	Matches int    `json:"matches"`
	Wins    int    `json:"wins"`
	Draws   int    `json:"draws"`
	Losses  int    `json:"losses"`
}

// Message is an inbox item. Append-only; only Read ever flips.
type Message struct {
	ID      int64     `json:"id"`
	Sender  string    `json:"sender"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Read    bool      `json:"read"`
	Date    time.Time `json:"date"`
	Type    string    `json:"type"`
}

type TransferOffer struct {
	ID           int64     `json:"id"`
	PlayerID     string    `json:"player_id"`
	PlayerTeamID string    `json:"player_team_id"`
	Amount       int       `json:"amount"`
	Status       string    `json:"status"`
	CounterOffer int       `json:"counter_offer,omitempty"`
	Date         time.Time `json:"date"`
}

type TransferListing struct {
	PlayerID    string `json:"player_id"`
	AskingPrice int    `json:"asking_price"`
}

type TransferState struct {
	OutgoingOffers []TransferOffer   `json:"outgoing_offers"`
	TransferList   []TransferListing `json:"transfer_list"`
}

// GameState is the whole season tree. It is mutated only through Session
// methods and persisted as one snapshot.
type GameState struct {
	Manager        *Manager                `json:"manager"`
	Fixtures       []Fixture               `json:"fixtures"`
	Standings      map[string]*StandingRow `json:"standings"`
	AllPlayers     map[string][]*Player    `json:"all_players"`
	Tactics        *Tactics                `json:"tactics"`
	DataSource     string                  `json:"data_source"`
	Messages       []*Message              `json:"messages"`
	Transfers      TransferState           `json:"transfers"`
	PlayerLeagueID string                  `json:"player_league_id"`
	PendingYouth   *Player                 `json:"pending_youth,omitempty"`
}

// clone deep-copies the state tree so readers and the snapshot writer
// never observe a half-applied mutation.
func (g *GameState) clone() *GameState {
	out := *g
	if g.Manager != nil {
		m := *g.Manager
		out.Manager = &m
	}
	out.Fixtures = append([]Fixture(nil), g.Fixtures...)
	out.Standings = make(map[string]*StandingRow, len(g.Standings))
	for id, row := range g.Standings {
		r := *row
		out.Standings[id] = &r
	}
	out.AllPlayers = make(map[string][]*Player, len(g.AllPlayers))
	for id, squad := range g.AllPlayers {
		cp := make([]*Player, len(squad))
		for i, p := range squad {
			cp[i] = p.clone()
		}
		out.AllPlayers[id] = cp
	}
	if g.Tactics != nil {
		t := *g.Tactics
		t.Lineup = append([]string(nil), g.Tactics.Lineup...)
		t.Substitutes = append([]string(nil), g.Tactics.Substitutes...)
		out.Tactics = &t
	}
	out.Messages = make([]*Message, len(g.Messages))
	for i, m := range g.Messages {
		cp := *m
		out.Messages[i] = &cp
	}
	out.Transfers.OutgoingOffers = append([]TransferOffer(nil), g.Transfers.OutgoingOffers...)
	out.Transfers.TransferList = append([]TransferListing(nil), g.Transfers.TransferList...)
	if g.PendingYouth != nil {
		out.PendingYouth = g.PendingYouth.clone()
	}
	return &out
}

func (p *Player) clone() *Player {
	cp := *p
	if p.Stats != nil {
		st := *p.Stats
		cp.Stats = &st
	}
	if p.GKStats != nil {
		st := *p.GKStats
		cp.GKStats = &st
	}
	return &cp
}

// MatchEvent is one row of the live commentary feed. The feed is
// append-only and never reordered.
type MatchEvent struct {
	Minute int    `json:"minute"`
	Icon   string `json:"icon"`
	Text   string `json:"text"`
	Side   string `json:"side"`
}

// MatchStats are the running counters for a live match.
type MatchStats struct {
	HomePossession    int `json:"home_possession"`
	AwayPossession    int `json:"away_possession"`
	HomeShots         int `json:"home_shots"`
	AwayShots         int `json:"away_shots"`
	HomeShotsOnTarget int `json:"home_shots_on_target"`
	AwayShotsOnTarget int `json:"away_shots_on_target"`
	HomeCorners       int `json:"home_corners"`
	AwayCorners       int `json:"away_corners"`
	HomeFouls         int `json:"home_fouls"`
	AwayFouls         int `json:"away_fouls"`
	HomeSaves         int `json:"home_saves"`
	AwaySaves         int `json:"away_saves"`
	HomeYellows       int `json:"home_yellows"`
	AwayYellows       int `json:"away_yellows"`
	HomeReds          int `json:"home_reds"`
	AwayReds          int `json:"away_reds"`
}
