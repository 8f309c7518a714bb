package main

// FormationSlot is one on-pitch position. Coordinates are percentages of
// the pitch, y=0 own goal, y=100 opposition goal.
type FormationSlot struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Role  string `json:"role"`
	Label string `json:"label"`
}

type Formation struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Slots       []FormationSlot `json:"slots"`
}

var formationTable = map[string]Formation{
	"4-4-2": {
		Name:        "4-4-2",
		Description: "Classic and balanced",
		Slots: []FormationSlot{
			{50, 5, RoleGK, "GK"},
			{20, 25, RoleLB, "LB"}, {40, 20, RoleCB, "CB"}, {60, 20, RoleCB, "CB"}, {80, 25, RoleRB, "RB"},
			{20, 50, RoleLW, "LM"}, {40, 45, RoleCM, "CM"}, {60, 45, RoleCM, "CM"}, {80, 50, RoleRW, "RM"},
			{35, 75, RoleST, "ST"}, {65, 75, RoleST, "ST"},
		},
	},
	"4-3-3": {
		Name:        "4-3-3",
		Description: "Attacking with wingers",
		Slots: []FormationSlot{
			{50, 5, RoleGK, "GK"},
			{20, 25, RoleLB, "LB"}, {40, 20, RoleCB, "CB"}, {60, 20, RoleCB, "CB"}, {80, 25, RoleRB, "RB"},
			{30, 45, RoleCM, "CM"}, {50, 40, RoleCDM, "CDM"}, {70, 45, RoleCM, "CM"},
			{20, 70, RoleLW, "LW"}, {50, 75, RoleST, "ST"}, {80, 70, RoleRW, "RW"},
		},
	},
	"3-5-2": {
		Name:        "3-5-2",
		Description: "Midfield control",
		Slots: []FormationSlot{
			{50, 5, RoleGK, "GK"},
			{30, 20, RoleCB, "CB"}, {50, 18, RoleCB, "CB"}, {70, 20, RoleCB, "CB"},
			{15, 45, RoleLB, "LWB"}, {35, 42, RoleCM, "CM"}, {50, 38, RoleCDM, "CDM"}, {65, 42, RoleCM, "CM"}, {85, 45, RoleRB, "RWB"},
			{35, 72, RoleST, "ST"}, {65, 72, RoleST, "ST"},
		},
	},
	"4-2-3-1": {
		Name:        "4-2-3-1",
		Description: "Modern with a playmaker",
		Slots: []FormationSlot{
			{50, 5, RoleGK, "GK"},
			{20, 25, RoleLB, "LB"}, {40, 20, RoleCB, "CB"}, {60, 20, RoleCB, "CB"}, {80, 25, RoleRB, "RB"},
			{35, 40, RoleCDM, "CDM"}, {65, 40, RoleCDM, "CDM"},
			{20, 58, RoleLW, "LM"}, {50, 55, RoleCAM, "CAM"}, {80, 58, RoleRW, "RM"},
			{50, 78, RoleST, "ST"},
		},
	},
	"5-3-2": {
		Name:        "5-3-2",
		Description: "Solid and defensive",
		Slots: []FormationSlot{
			{50, 5, RoleGK, "GK"},
			{10, 30, RoleLB, "LWB"}, {30, 22, RoleCB, "CB"}, {50, 20, RoleCB, "CB"}, {70, 22, RoleCB, "CB"}, {90, 30, RoleRB, "RWB"},
			{30, 48, RoleCM, "CM"}, {50, 45, RoleCM, "CM"}, {70, 48, RoleCM, "CM"},
			{35, 72, RoleST, "ST"}, {65, 72, RoleST, "ST"},
		},
	},
	"4-1-4-1": {
		Name:        "4-1-4-1",
		Description: "Balance and width",
		Slots: []FormationSlot{
			{50, 5, RoleGK, "GK"},
			{20, 25, RoleLB, "LB"}, {40, 20, RoleCB, "CB"}, {60, 20, RoleCB, "CB"}, {80, 25, RoleRB, "RB"},
			{50, 35, RoleCDM, "CDM"},
			{15, 55, RoleLW, "LM"}, {38, 52, RoleCM, "CM"}, {62, 52, RoleCM, "CM"}, {85, 55, RoleRW, "RM"},
			{50, 78, RoleST, "ST"},
		},
	},
}

func getFormation(name string) Formation {
	if f, ok := formationTable[name]; ok {
		return f
	}
	return formationTable["4-4-2"]
}

func formationNames() []string {
	return []string{"4-4-2", "4-3-3", "3-5-2", "4-2-3-1", "5-3-2", "4-1-4-1"}
}

// roleCompatibility lists the slot roles a player's natural role can cover
// without being considered out of position by the lineup resolver.
var roleCompatibility = map[string][]string{
	RoleGK:  {RoleGK},
	RoleCB:  {RoleCB},
	RoleLB:  {RoleLB, RoleRB, RoleLW},
	RoleRB:  {RoleRB, RoleLB, RoleRW},
	RoleCDM: {RoleCDM, RoleCM, RoleCB},
	RoleCM:  {RoleCM, RoleCDM, RoleCAM},
	RoleCAM: {RoleCAM, RoleCM, RoleLW, RoleRW},
	RoleLW:  {RoleLW, RoleRW, RoleCAM, RoleST},
	RoleRW:  {RoleRW, RoleLW, RoleCAM, RoleST},
	RoleST:  {RoleST, RoleLW, RoleRW, RoleCAM},
}

func canPlayRole(playerRole, slotRole string) bool {
	for _, r := range roleCompatibility[playerRole] {
		if r == slotRole {
			return true
		}
	}
	return false
}

// Stamina burned per simulated minute at each pressure setting.
var staminaBurn = map[string]float64{
	PressureLow:    0.5,
	PressureMedium: 0.8,
	PressureHigh:   1.2,
}

func defaultTactics() *Tactics {
	return &Tactics{
		Formation:   "4-4-2",
		Pressure:    PressureMedium,
		Lineup:      []string{},
		Substitutes: []string{},
	}
}
