package unit

// Quirk is a design quirk that alters heat handling.
type Quirk string

const (
	QuirkCombatComputer  Quirk = "combat_computer"
	QuirkImprovedCooling Quirk = "improved_cooling"
	QuirkPoorCooling     Quirk = "poor_cooling"
	QuirkFlawedCooling   Quirk = "flawed_cooling"
)

// MountType identifies critical equipment whose failure the heat engine
// has to locate on the unit.
type MountType string

const (
	MountRadicalHeatSink MountType = "radical_heat_sink"
	MountCoolantPod      MountType = "coolant_pod"
	MountLifeSupport     MountType = "life_support"
)

// Mount is one piece of critical equipment at a location.
type Mount struct {
	Type      MountType `json:"type" yaml:"type"`
	Location  string    `json:"location" yaml:"location"`
	Destroyed bool      `json:"destroyed"`
}

// PodMode selects when a coolant pod is expended.
type PodMode int

const (
	// PodOff never fires the pod.
	PodOff PodMode = iota
	// PodDump fires as soon as any heat is left after normal sinking.
	PodDump
	// PodSafe fires when the unit would otherwise end the round in the shutdown band.
	PodSafe
	// PodEfficient fires only when the full pod bonus would be used.
	PodEfficient
)

// System is an activatable signature or countermeasure system.
type System struct {
	Equipped bool `json:"equipped" yaml:"equipped"`
	Active   bool `json:"active" yaml:"active"`
}

// On reports whether the system is fitted and switched on.
func (s System) On() bool {
	return s.Equipped && s.Active
}

// Capacitor is a weapon capacitor. A charged capacitor generates heat each
// round and again when discharged.
type Capacitor struct {
	Charged    bool `json:"charged" yaml:"charged"`
	Discharged bool `json:"discharged"`
}

// Vibroblade is a melee weapon that generates heat while active.
type Vibroblade struct {
	Heat   int  `json:"heat" yaml:"heat"`
	Active bool `json:"active" yaml:"active"`
}

// Equipment is the heat-relevant loadout of an entity.
type Equipment struct {
	HeatSinks       int  `json:"heatSinks" yaml:"heatSinks"`
	DoubleHeatSinks bool `json:"doubleHeatSinks" yaml:"doubleHeatSinks"`
	LaserHeatSinks  bool `json:"laserHeatSinks" yaml:"laserHeatSinks"`

	HasRadicalHeatSink bool `json:"hasRadicalHeatSink" yaml:"hasRadicalHeatSink"`
	// RadicalActivated is the player's request to use the radical heat sink this round.
	RadicalActivated bool `json:"radicalActivated"`

	HasCoolantPod bool    `json:"hasCoolantPod" yaml:"hasCoolantPod"`
	CoolantPod    PodMode `json:"coolantPod" yaml:"coolantPod"`
	PodUsed       bool    `json:"podUsed"`

	Stealth       System `json:"stealth" yaml:"stealth"`
	VoidSignature System `json:"voidSignature" yaml:"voidSignature"`
	NullSignature System `json:"nullSignature" yaml:"nullSignature"`
	Chameleon     System `json:"chameleon" yaml:"chameleon"`
	ECMSuite      System `json:"ecmSuite" yaml:"ecmSuite"`

	Capacitors  []Capacitor  `json:"capacitors" yaml:"capacitors"`
	Vibroblades []Vibroblade `json:"vibroblades" yaml:"vibroblades"`

	LifeSupportDamaged bool `json:"lifeSupportDamaged" yaml:"lifeSupportDamaged"`
	InfernoAmmo        bool `json:"infernoAmmo" yaml:"infernoAmmo"`
	ExplosiveAmmo      bool `json:"explosiveAmmo" yaml:"explosiveAmmo"`

	Mounts []Mount `json:"mounts" yaml:"mounts"`
}

// FindMount returns the first intact mount of the given type.
func (eq *Equipment) FindMount(t MountType) *Mount {
	for i := range eq.Mounts {
		if eq.Mounts[i].Type == t && !eq.Mounts[i].Destroyed {
			return &eq.Mounts[i]
		}
	}
	return nil
}

// RadicalHeatSinkUsable reports whether the radical heat sink is fitted and intact.
func (eq *Equipment) RadicalHeatSinkUsable() bool {
	return eq.HasRadicalHeatSink && eq.FindMount(MountRadicalHeatSink) != nil
}

// MountOf returns the first mount of the given type, destroyed or not.
func (eq *Equipment) MountOf(t MountType) *Mount {
	for i := range eq.Mounts {
		if eq.Mounts[i].Type == t {
			return &eq.Mounts[i]
		}
	}
	return nil
}
