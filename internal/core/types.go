// Package core defines the grid, unit and planning value types shared by the
// navigator, the assignment solver and the host simulation.
package core

import "strings"

// UnitKind classifies unit capabilities.
type UnitKind int

const (
	Worker  UnitKind = iota // Harvests, builds and repairs
	Knight                  // Melee soldier
	Ranger                  // Ranged soldier
	Mage                    // Area soldier
	Healer                  // Support soldier
	Factory                 // Production structure
	Rocket                  // Transport structure with a garrison
)

var unitKindNames = [...]string{"Worker", "Knight", "Ranger", "Mage", "Healer", "Factory", "Rocket"}

func (k UnitKind) String() string {
	if k < 0 || int(k) >= len(unitKindNames) {
		return "Unknown"
	}
	return unitKindNames[k]
}

// ParseUnitKind resolves a case-insensitive kind name.
func ParseUnitKind(s string) (UnitKind, bool) {
	for i, name := range unitKindNames {
		if strings.EqualFold(name, s) {
			return UnitKind(i), true
		}
	}
	return 0, false
}

// IsStructure reports whether the kind is immobile.
func (k UnitKind) IsStructure() bool {
	return k == Factory || k == Rocket
}

// IsSoldier reports whether the kind fights.
func (k UnitKind) IsSoldier() bool {
	switch k {
	case Knight, Ranger, Mage, Healer:
		return true
	default:
		return false
	}
}

// DefaultCooldown returns the movement heat a kind gains per move.
func DefaultCooldown(k UnitKind) int {
	switch k {
	case Worker, Healer:
		return 20
	case Knight:
		return 15
	case Ranger, Mage:
		return 20
	default:
		return 0
	}
}

// CanBoard checks if a unit kind may ride a transport.
func CanBoard(k UnitKind) bool {
	return k == Worker || k.IsSoldier()
}
