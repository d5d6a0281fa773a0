package algo

import (
	"sort"

	"github.com/elektrokombinacija/tacnav/internal/core"
)

// reservationKey is a (cell, tick) pair.
type reservationKey struct {
	Cell core.Cell
	Tick int
}

// ReservationTable records which unit holds each future (cell, tick).
// At most one unit owns a key at a time.
type ReservationTable struct {
	owners map[reservationKey]core.UnitID
}

// NewReservationTable creates an empty table.
func NewReservationTable() *ReservationTable {
	return &ReservationTable{owners: make(map[reservationKey]core.UnitID)}
}

// Reserve claims (c, tick) for id. It fails if another unit holds it.
func (r *ReservationTable) Reserve(id core.UnitID, c core.Cell, tick int) bool {
	k := reservationKey{c, tick}
	if owner, ok := r.owners[k]; ok && owner != id {
		return false
	}
	r.owners[k] = id
	return true
}

// Release frees (c, tick) if id holds it.
func (r *ReservationTable) Release(id core.UnitID, c core.Cell, tick int) {
	k := reservationKey{c, tick}
	if owner, ok := r.owners[k]; ok && owner == id {
		delete(r.owners, k)
	}
}

// IsReserved reports whether any unit holds (c, tick).
func (r *ReservationTable) IsReserved(c core.Cell, tick int) bool {
	_, ok := r.owners[reservationKey{c, tick}]
	return ok
}

// Owner returns the unit holding (c, tick).
func (r *ReservationTable) Owner(c core.Cell, tick int) (core.UnitID, bool) {
	id, ok := r.owners[reservationKey{c, tick}]
	return id, ok
}

// BlockedFor reports whether (c, tick) is held by a unit other than id.
func (r *ReservationTable) BlockedFor(id core.UnitID, c core.Cell, tick int) bool {
	owner, ok := r.owners[reservationKey{c, tick}]
	return ok && owner != id
}

// ReserveRoute claims every state of a route. On conflict nothing is kept
// and false is returned.
func (r *ReservationTable) ReserveRoute(id core.UnitID, route core.Route) bool {
	for i, s := range route {
		if !r.Reserve(id, s.Cell, s.Tick) {
			for _, p := range route[:i] {
				r.Release(id, p.Cell, p.Tick)
			}
			return false
		}
	}
	return true
}

// ReleaseRoute frees every state of a route held by id.
func (r *ReservationTable) ReleaseRoute(id core.UnitID, route core.Route) {
	for _, s := range route {
		r.Release(id, s.Cell, s.Tick)
	}
}

// ReleaseBefore drops every reservation with a tick earlier than tick.
func (r *ReservationTable) ReleaseBefore(tick int) int {
	n := 0
	for k := range r.owners {
		if k.Tick < tick {
			delete(r.owners, k)
			n++
		}
	}
	return n
}

// Len returns the number of held keys.
func (r *ReservationTable) Len() int { return len(r.owners) }

// Snapshot copies the held keys, keyed by owner.
func (r *ReservationTable) Snapshot() map[core.UnitID][]core.TimedCell {
	out := make(map[core.UnitID][]core.TimedCell)
	for k, id := range r.owners {
		out[id] = append(out[id], core.TimedCell{Cell: k.Cell, Tick: k.Tick})
	}
	for _, cells := range out {
		sort.Slice(cells, func(i, j int) bool {
			if cells[i].Tick != cells[j].Tick {
				return cells[i].Tick < cells[j].Tick
			}
			return cells[i].Cell.Less(cells[j].Cell)
		})
	}
	return out
}
