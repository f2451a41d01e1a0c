package heat

// Heat thresholds.
const (
	InfernoThreshold         = 10
	ShutdownThreshold        = 14
	AutoShutdown             = 30
	AutoShutdownExtended     = 50
	AmmoThreshold            = 19
	LifeSupportThreshold     = 15
	LifeSupportThresholdHigh = 25
	CrewRollThreshold        = 32
	CriticalThreshold        = 36
	CoolantFailureThreshold  = 5
	radicalHeatSinkAutoFail  = 5
)

// autoShutdown returns the heat at which shutdown is automatic.
func autoShutdown(extended bool) int {
	if extended {
		return AutoShutdownExtended
	}
	return AutoShutdown
}

// avoidTarget is the base 2d6 target to avoid shutdown, and to restart, at
// heat. It rises by 2 every 4 points above the shutdown threshold.
func avoidTarget(heat int) int {
	return 4 + ((heat-ShutdownThreshold)/4)*2
}

// infernoTarget is the target to avoid an inferno ammunition explosion.
func infernoTarget(heat int) int {
	t := 4
	for _, step := range []int{14, 19, 23, 28} {
		if heat >= step {
			t += 2
		}
	}
	return t
}

// ammoTarget is the base target to avoid an ammunition explosion at heat.
func ammoTarget(heat int, extended bool) int {
	t := 4
	steps := []int{23, 28}
	if extended {
		steps = append(steps, 35, 40, 45)
	}
	for _, step := range steps {
		if heat >= step {
			t += 2
		}
	}
	return t
}

// crewRollTarget is the extended scale target to avoid heat injury. Zero
// means no roll is needed.
func crewRollTarget(heat int) int {
	switch {
	case heat >= 47:
		return 12
	case heat >= 39:
		return 10
	case heat >= CrewRollThreshold:
		return 8
	}
	return 0
}

// criticalTarget is the extended scale target to avoid a heat critical hit.
// Zero means no roll is needed.
func criticalTarget(heat int) int {
	switch {
	case heat >= 44:
		return 10
	case heat >= CriticalThreshold:
		return 8
	}
	return 0
}

// coolantFailureTarget is the roll at or above which the coolant system
// loses a point of capacity. Zero means no check.
func coolantFailureTarget(heat int) int {
	switch {
	case heat >= 30:
		return 6
	case heat >= 25:
		return 7
	case heat >= 20:
		return 8
	case heat >= 15:
		return 9
	case heat >= 10:
		return 10
	case heat >= CoolantFailureThreshold:
		return 11
	}
	return 0
}

// rhsTargets are the activation targets by consecutive use.
var rhsTargets = [radicalHeatSinkAutoFail]int{3, 5, 7, 10, 11}

// rhsTarget returns the activation target after uses consecutive uses. ok
// is false when activation fails automatically.
func rhsTarget(uses int) (target int, ok bool) {
	if uses < 0 {
		uses = 0
	}
	if uses >= radicalHeatSinkAutoFail {
		return 0, false
	}
	return rhsTargets[uses], true
}
