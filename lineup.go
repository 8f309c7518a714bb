package main

// lineupScore ranks candidates for a slot. Stamina discounts tired legs so
// a fresh squad player can outrank an exhausted starter.
func lineupScore(p *Player) float64 {
	return float64(p.Overall) * p.Stamina / 100
}

// autoSelectLineup fills the formation's slots in declared order, best
// compatible candidate first. Slots no compatible player can cover take the
// best remaining player regardless of role, so a depleted squad still
// fields eleven. Ties keep roster order. Substitutes are the first
// MaxSubstitutes left over, again in roster order.
func autoSelectLineup(squad []*Player, formation Formation) (lineup, substitutes []string) {
	assigned := make(map[string]bool, LineupSize)
	lineup = make([]string, 0, LineupSize)

	pick := func(slotRole string, compatibleOnly bool) *Player {
		var best *Player
		var bestScore float64
		for _, p := range squad {
			if assigned[p.ID] {
				continue
			}
			if compatibleOnly && !canPlayRole(p.Role, slotRole) {
				continue
			}
			if s := lineupScore(p); best == nil || s > bestScore {
				best, bestScore = p, s
			}
		}
		return best
	}

	for _, slot := range formation.Slots {
		p := pick(slot.Role, true)
		if p == nil {
			p = pick(slot.Role, false)
		}
		if p == nil {
			break
		}
		assigned[p.ID] = true
		lineup = append(lineup, p.ID)
	}

	substitutes = make([]string, 0, MaxSubstitutes)
	for _, p := range squad {
		if len(substitutes) == MaxSubstitutes {
			break
		}
		if !assigned[p.ID] {
			substitutes = append(substitutes, p.ID)
		}
	}
	return lineup, substitutes
}
