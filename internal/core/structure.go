package core

// Structure is a friendly factory or rocket.
type Structure struct {
	ID        UnitID
	Kind      UnitKind
	Pos       Cell
	Health    int
	MaxHealth int
	Built     bool   // Blueprints are not built
	Capacity  int    // Garrison seats (rockets only)
	Garrison  []Unit // Units already aboard
}

// Damaged returns true for built structures below full health.
func (s *Structure) Damaged() bool {
	return s.Built && s.Health < s.MaxHealth
}

// OpenSeats returns the number of free garrison seats.
func (s *Structure) OpenSeats() int {
	n := s.Capacity - len(s.Garrison)
	if n < 0 {
		return 0
	}
	return n
}

// HasWorkerAboard reports whether a worker rides in the garrison.
func (s *Structure) HasWorkerAboard() bool {
	for _, u := range s.Garrison {
		if u.Kind == Worker {
			return true
		}
	}
	return false
}

// Deposit is a karbonite-bearing cell.
type Deposit struct {
	Pos    Cell
	Amount int
}
