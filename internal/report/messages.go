package report

// Message ids emitted by round resolution.
const (
	// Nothing is the "nothing happened" placeholder added when a working
	// phase skips its report phase.
	Nothing = 1205

	InitiativeHeader = 1000
	InitiativeRoll   = 1015
	InitiativeTie    = 1020
	RoundHeader      = 1025

	DeploymentHeader = 2000
	Deployed         = 2010
	UnloadedDeployed = 2015
	BuildingCollapse = 2020
	BasementRolled   = 2025
	CargoConflict    = 2030

	FiringHeader    = 3000
	MovementHeader  = 4000
	OffboardHeader  = 4100
	PhysicalHeader  = 4400
	TargetingHeader = 4500

	EngagementStarted    = 4510
	EngagementReinforced = 4515
	EngagementEnded      = 4520

	EndHeader        = 5005
	HeatSummary      = 5010
	RHSRoll          = 5015
	RHSFailed        = 5020
	RHSNextTarget    = 5021
	CoolantPodUsed   = 5025
	InfernoRoll      = 5030
	InfernoExplodes  = 5035
	StartupAuto      = 5040
	StartupRoll      = 5045
	ShutdownAuto     = 5050
	ShutdownRoll     = 5055
	AmmoRoll         = 5060
	AmmoExplodes     = 5065
	LifeSupportHit   = 5070
	CrewHeatRoll     = 5075
	HeatCriticalRoll = 5080
	CoolantFailure   = 5085
	ControlRoll      = 5090
	FlawedCooling    = 5095
	CountdownExpired = 5100
	MovementHeat     = 5105

	EMPInterference = 6020
	AreaExpired     = 6025

	VictoryHeader = 7000
)
