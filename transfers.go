package main

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOwnPlayer     = errors.New("player already at your club")
	ErrNotOwnPlayer  = errors.New("player is not at your club")
	ErrAlreadyListed = errors.New("player already transfer listed")
	ErrNotListed     = errors.New("player is not transfer listed")
	ErrOverBudget    = errors.New("offer exceeds transfer budget")
)

// acceptanceChance maps offer/market-value ratio to the selling club's
// acceptance probability in percent.
func acceptanceChance(ratio float64) int {
	switch {
	case ratio >= 1.5:
		return 95
	case ratio >= 1.2:
		return 80
	case ratio >= 1.0:
		return 60
	case ratio >= 0.8:
		return 30
	case ratio >= 0.6:
		return 10
	default:
		return 5
	}
}

// MakeOffer bids for a player at another club. Acceptance is a single
// probability roll off the offer/value ratio; a rejection comes back with
// a counter price. Budget is checked by the handler before calling in.
func (s *Session) MakeOffer(playerID string, amount int) (*TransferOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return nil, ErrNoCareer
	}

	clubID := s.state.Manager.ClubID
	var player *Player
	var ownerID string
	for teamID, squad := range s.state.AllPlayers {
		for _, p := range squad {
			if p.ID == playerID {
				player, ownerID = p, teamID
				break
			}
		}
	}
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	if ownerID == clubID {
		return nil, ErrOwnPlayer
	}

	offer := TransferOffer{
		ID:           time.Now().UnixNano(),
		PlayerID:     playerID,
		PlayerTeamID: ownerID,
		Amount:       amount,
		Status:       OfferPending,
		Date:         time.Now(),
	}

	ratio := float64(amount) / float64(player.MarketValue)
	if s.rng.Intn(100) < acceptanceChance(ratio) {
		offer.Status = OfferAccepted
		if err := s.transferPlayerLocked(ownerID, clubID, playerID, amount); err != nil {
			return nil, err
		}
		owner := getTeam(ownerID)
		s.addMessageLocked(owner.Name, "Offer accepted: "+player.Name,
			fmt.Sprintf("%s have accepted your offer of %s for %s. The player joins immediately.",
				owner.Name, formatMoney(amount), player.Name),
			MsgSuccess)
	} else {
		counter := roundf(float64(player.MarketValue) * (1.1 + s.rng.Float64()*0.3))
		offer.Status = OfferCountered
		offer.CounterOffer = counter
		owner := getTeam(ownerID)
		s.addMessageLocked(owner.Name, "Offer rejected: "+player.Name,
			fmt.Sprintf("%s have turned down your offer of %s for %s. They would consider %s.",
				owner.Name, formatMoney(amount), player.Name, formatMoney(counter)),
			MsgWarning)
	}

	s.state.Transfers.OutgoingOffers = append(s.state.Transfers.OutgoingOffers, offer)
	s.log.Info().Str("player", playerID).Int("amount", amount).Str("status", offer.Status).Msg("💰 transfer offer resolved")
	s.persistLocked()
	return &offer, nil
}

// ListPlayer puts one of the club's own players on the transfer list.
func (s *Session) ListPlayer(playerID string, askingPrice int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	clubID := s.state.Manager.ClubID
	owned := false
	for _, p := range s.state.AllPlayers[clubID] {
		if p.ID == playerID {
			owned = true
			if askingPrice <= 0 {
				askingPrice = p.MarketValue
			}
			break
		}
	}
	if !owned {
		return ErrNotOwnPlayer
	}
	for _, l := range s.state.Transfers.TransferList {
		if l.PlayerID == playerID {
			return ErrAlreadyListed
		}
	}
	s.state.Transfers.TransferList = append(s.state.Transfers.TransferList, TransferListing{
		PlayerID:    playerID,
		AskingPrice: askingPrice,
	})
	s.persistLocked()
	return nil
}

func (s *Session) UnlistPlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return ErrNoCareer
	}
	list := s.state.Transfers.TransferList
	for i, l := range list {
		if l.PlayerID == playerID {
			s.state.Transfers.TransferList = append(list[:i:i], list[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return ErrNotListed
}

// ResolveListedSales gives each listed player a weekly chance of an AI
// club meeting the asking price. Also invoked as part of wrapping up a
// played week.
func (s *Session) ResolveListedSales() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCareer() {
		return
	}
	s.resolveListedSalesLocked()
	s.persistLocked()
}

func (s *Session) resolveListedSalesLocked() {
	clubID := s.state.Manager.ClubID
	remaining := s.state.Transfers.TransferList[:0]
	for _, listing := range s.state.Transfers.TransferList {
		var player *Player
		for _, p := range s.state.AllPlayers[clubID] {
			if p.ID == listing.PlayerID {
				player = p
				break
			}
		}
		if player == nil {
			continue
		}
		ratio := float64(player.MarketValue) / float64(listing.AskingPrice)
		if s.rng.Intn(100) >= acceptanceChance(ratio) {
			remaining = append(remaining, listing)
			continue
		}
		buyer := s.randomBuyerLocked(clubID)
		if buyer == "" {
			remaining = append(remaining, listing)
			continue
		}
		if err := s.transferPlayerLocked(clubID, buyer, player.ID, listing.AskingPrice); err != nil {
			remaining = append(remaining, listing)
			continue
		}
		s.addMessageLocked(getTeam(buyer).Name, "Player sold: "+player.Name,
			fmt.Sprintf("%s have met your asking price of %s for %s.",
				getTeam(buyer).Name, formatMoney(listing.AskingPrice), player.Name),
			MsgSuccess)
	}
	s.state.Transfers.TransferList = remaining
}

func (s *Session) randomBuyerLocked(excludeID string) string {
	candidates := make([]string, 0, len(allTeams))
	for _, t := range teamsByLeague(s.state.PlayerLeagueID) {
		if t.ID != excludeID {
			candidates = append(candidates, t.ID)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[s.rng.Intn(len(candidates))]
}
