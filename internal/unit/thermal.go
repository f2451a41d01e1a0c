package unit

import "strings"

// ShutdownCause is a bitset of the reasons a unit is shut down.
type ShutdownCause uint8

const (
	CauseHeat ShutdownCause = 1 << iota
	CauseManual
	CauseTaser
	CauseTSEMP
	CauseEMP
	CausePilotIncapacitated
)

// ExternalCauses are forced from outside the unit and block every restart
// while their countdown runs.
const ExternalCauses = CauseTaser | CauseTSEMP | CauseEMP

var causeNames = []struct {
	c    ShutdownCause
	name string
}{
	{CauseHeat, "heat"},
	{CauseManual, "manual"},
	{CauseTaser, "taser"},
	{CauseTSEMP, "tsemp"},
	{CauseEMP, "emp"},
	{CausePilotIncapacitated, "pilot"},
}

func (c ShutdownCause) String() string {
	if c == 0 {
		return "running"
	}
	var parts []string
	for _, cn := range causeNames {
		if c&cn.c != 0 {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Has reports whether every bit of x is set.
func (c ShutdownCause) Has(x ShutdownCause) bool {
	return c&x == x
}

// Thermal is the persistent heat and subsystem state of an entity.
type Thermal struct {
	Heat        int `json:"heat" yaml:"heat"`
	HeatBuildup int `json:"heatBuildup"`
	// MovementHeat is accrued during the movement phase and folded in at the end of the round.
	MovementHeat     int `json:"movementHeat"`
	HeatFromExternal int `json:"heatFromExternal" yaml:"heatFromExternal"`
	CoolFromExternal int `json:"coolFromExternal" yaml:"coolFromExternal"`

	Shutdown ShutdownCause `json:"shutdown" yaml:"shutdown"`

	TaserShutdownRounds     int `json:"taserShutdownRounds" yaml:"taserShutdownRounds"`
	TaserInterferenceRounds int `json:"taserInterferenceRounds" yaml:"taserInterferenceRounds"`
	TSEMPRounds             int `json:"tsempRounds" yaml:"tsempRounds"`
	EMPRounds               int `json:"empRounds" yaml:"empRounds"`
	// EMPInterferenceRounds is set by EMP interference fields and adds heat while it runs.
	EMPInterferenceRounds int `json:"empInterferenceRounds" yaml:"empInterferenceRounds"`

	ConsecutiveRHSUses int  `json:"consecutiveRhsUses"`
	RHSIncreased       bool `json:"rhsIncreased"`

	CoolantFailure    int  `json:"coolantFailure"`
	CoolingFlawActive bool `json:"coolingFlawActive"`
}

// IsShutdown reports whether any shutdown cause is set.
func (t *Thermal) IsShutdown() bool {
	return t.Shutdown != 0
}

// ShutDown sets cause.
func (t *Thermal) ShutDown(cause ShutdownCause) {
	t.Shutdown |= cause
}

// Clear removes cause.
func (t *Thermal) Clear(cause ShutdownCause) {
	t.Shutdown &^= cause
}

// ExternallyForced reports whether an external cause with a live countdown
// holds the unit down.
func (t *Thermal) ExternallyForced() bool {
	if t.Shutdown&CauseTaser != 0 && t.TaserShutdownRounds > 0 {
		return true
	}
	if t.Shutdown&CauseTSEMP != 0 && t.TSEMPRounds > 0 {
		return true
	}
	if t.Shutdown&CauseEMP != 0 && t.EMPRounds > 0 {
		return true
	}
	return false
}

// TickCountdowns decrements the external effect counters by one round. A
// shutdown cause whose counter reaches zero is cleared.
func (t *Thermal) TickCountdowns() {
	tick := func(n *int, cause ShutdownCause) {
		if *n <= 0 {
			return
		}
		*n--
		if *n == 0 && cause != 0 {
			t.Clear(cause)
		}
	}
	tick(&t.TaserShutdownRounds, CauseTaser)
	tick(&t.TaserInterferenceRounds, 0)
	tick(&t.TSEMPRounds, CauseTSEMP)
	tick(&t.EMPRounds, CauseEMP)
	tick(&t.EMPInterferenceRounds, 0)
}
