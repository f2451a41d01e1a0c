package unit

import "strings"

// Category is the closed set of unit variants. Logic that branches on the
// kind of unit asks a capability query instead of inspecting the category
// directly.
type Category int

const (
	Mek Category = iota
	ProtoMek
	Vehicle
	VTOL
	Infantry
	BattleArmor
	Fighter
	SmallCraft
	LargeCraft
	BuildingEntity
)

var categoryNames = map[Category]string{
	Mek:            "mek",
	ProtoMek:       "protomek",
	Vehicle:        "vehicle",
	VTOL:           "vtol",
	Infantry:       "infantry",
	BattleArmor:    "battlearmor",
	Fighter:        "fighter",
	SmallCraft:     "smallcraft",
	LargeCraft:     "largecraft",
	BuildingEntity: "building",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

// ParseCategory maps a category name back to its value.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range categoryNames {
		if name == s {
			return c, true
		}
	}
	return 0, false
}

// TracksHeat reports whether the variant runs the heat pipeline.
func (c Category) TracksHeat() bool {
	switch c {
	case Mek, Fighter, SmallCraft, LargeCraft:
		return true
	}
	return false
}

// IsAero reports whether the variant is an aerospace unit.
func (c Category) IsAero() bool {
	switch c {
	case Fighter, SmallCraft, LargeCraft:
		return true
	}
	return false
}

// IsAirborneCapable reports whether the variant deploys with an altitude
// rather than a ground elevation.
func (c Category) IsAirborneCapable() bool {
	return c.IsAero()
}

// IsLargeCraft reports whether the variant is capital scale.
func (c Category) IsLargeCraft() bool {
	return c == LargeCraft
}

// IsInfantryClass reports whether the variant can join infantry engagements.
func (c Category) IsInfantryClass() bool {
	return c == Infantry || c == BattleArmor
}

// IsBuilding reports whether the entity itself is building terrain.
func (c Category) IsBuilding() bool {
	return c == BuildingEntity
}

// IsSurface reports whether the variant moves at ground elevation.
func (c Category) IsSurface() bool {
	return !c.IsAero()
}

// SupportsVectorMovement reports whether the variant uses movement vectors
// under the advanced aerospace movement rules.
func (c Category) SupportsVectorMovement() bool {
	return c.IsAero()
}

// CanAssaultDrop reports whether the variant may deploy by assault drop.
func (c Category) CanAssaultDrop() bool {
	switch c {
	case Mek, ProtoMek, Infantry, BattleArmor:
		return true
	}
	return false
}
