package game

import "strings"

// Phase is a step of a game round. Values are ordered as they occur within
// a round, so comparing two phases of the same round is meaningful.
type Phase int

const (
	PhaseUnknown Phase = iota
	Lounge
	Exchange
	SetArtilleryAutoHitHexes
	DeployMinefields
	Initiative
	InitiativeReport
	Deployment
	Targeting
	TargetingReport
	PreMovement
	Movement
	MovementReport
	Offboard
	OffboardReport
	PreFiring
	Firing
	FiringReport
	Physical
	PhysicalReport
	End
	EndReport
	Victory
)

var phaseNames = map[Phase]string{
	PhaseUnknown:             "UNKNOWN",
	Lounge:                   "LOUNGE",
	Exchange:                 "EXCHANGE",
	SetArtilleryAutoHitHexes: "SET_ARTILLERY_AUTO_HIT_HEXES",
	DeployMinefields:         "DEPLOY_MINEFIELDS",
	Initiative:               "INITIATIVE",
	InitiativeReport:         "INITIATIVE_REPORT",
	Deployment:               "DEPLOYMENT",
	Targeting:                "TARGETING",
	TargetingReport:          "TARGETING_REPORT",
	PreMovement:              "PREMOVEMENT",
	Movement:                 "MOVEMENT",
	MovementReport:           "MOVEMENT_REPORT",
	Offboard:                 "OFFBOARD",
	OffboardReport:           "OFFBOARD_REPORT",
	PreFiring:                "PREFIRING",
	Firing:                   "FIRING",
	FiringReport:             "FIRING_REPORT",
	Physical:                 "PHYSICAL",
	PhysicalReport:           "PHYSICAL_REPORT",
	End:                      "END",
	EndReport:                "END_REPORT",
	Victory:                  "VICTORY",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return phaseNames[PhaseUnknown]
}

// ParsePhase maps a phase name back to its value.
func ParsePhase(s string) (Phase, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for p, name := range phaseNames {
		if name == s {
			return p, true
		}
	}
	return PhaseUnknown, false
}

// IsReport reports whether p only displays the reports of the phase before it.
func (p Phase) IsReport() bool {
	switch p {
	case InitiativeReport, TargetingReport, MovementReport, OffboardReport,
		FiringReport, PhysicalReport, EndReport:
		return true
	}
	return false
}

// HasTurns reports whether units act one at a time in p.
func (p Phase) HasTurns() bool {
	switch p {
	case Deployment, Targeting, PreMovement, Movement, Offboard, PreFiring, Firing, Physical, DeployMinefields, SetArtilleryAutoHitHexes:
		return true
	}
	return false
}
