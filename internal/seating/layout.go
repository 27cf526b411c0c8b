package seating

import (
	"sort"
	"strconv"
	"strings"
)

// layout is an immutable index over one table/seat graph.
type layout struct {
	tables     []*Table
	seats      map[string]*Seat
	tableOf    map[string]*Table
	adjacency  map[string]map[string]struct{}
	guests     map[string]*Guest
	lockedSeat map[string]string // guest ID -> locked seat ID
}

func newLayout(tables []Table, guests []Guest) *layout {
	l := &layout{
		tables:     make([]*Table, 0, len(tables)),
		seats:      make(map[string]*Seat),
		tableOf:    make(map[string]*Table),
		adjacency:  make(map[string]map[string]struct{}),
		guests:     make(map[string]*Guest, len(guests)),
		lockedSeat: make(map[string]string),
	}
	for _, src := range cloneTables(tables) {
		table := src
		sortSeats(table.Seats)
		l.tables = append(l.tables, &table)
	}
	sortTables(l.tables)

	for _, table := range l.tables {
		for i := range table.Seats {
			seat := &table.Seats[i]
			seat.TableID = table.ID
			l.seats[seat.ID] = seat
			l.tableOf[seat.ID] = table
		}
	}
	// Adjacency is made symmetric and restricted to seats of the same table.
	for _, seat := range l.seats {
		for _, neighbour := range seat.Adjacent {
			other, ok := l.seats[neighbour]
			if !ok || other.ID == seat.ID || other.TableID != seat.TableID {
				continue
			}
			l.link(seat.ID, other.ID)
			l.link(other.ID, seat.ID)
		}
	}

	for i := range guests {
		g := guests[i]
		if g.ID == "" {
			continue
		}
		if _, exists := l.guests[g.ID]; exists {
			continue
		}
		l.guests[g.ID] = &g
	}
	for _, seat := range l.seats {
		if !seat.Locked || seat.GuestID == "" {
			continue
		}
		l.lockedSeat[seat.GuestID] = seat.ID
		if _, known := l.guests[seat.GuestID]; !known {
			// Locked occupants outside the roster still need an identity for ordering.
			l.guests[seat.GuestID] = &Guest{ID: seat.GuestID}
		}
	}
	return l
}

func (l *layout) link(a, b string) {
	if l.adjacency[a] == nil {
		l.adjacency[a] = make(map[string]struct{})
	}
	l.adjacency[a][b] = struct{}{}
}

// neighbours returns the adjacent seats of seatID ordered by seat number.
func (l *layout) neighbours(seatID string) []*Seat {
	set := l.adjacency[seatID]
	out := make([]*Seat, 0, len(set))
	for id := range set {
		out = append(out, l.seats[id])
	}
	sort.Slice(out, func(i, j int) bool { return seatLess(out[i], out[j]) })
	return out
}

func (l *layout) adjacent(a, b string) bool {
	if a == "" || b == "" || a == b {
		return false
	}
	_, ok := l.adjacency[a][b]
	return ok
}

func (l *layout) guest(id string) *Guest {
	if g, ok := l.guests[id]; ok {
		return g
	}
	return &Guest{ID: id}
}

func (l *layout) eligible(g *Guest, seat *Seat) bool {
	return seat != nil && !seat.Locked && seat.Mode.Accepts(g.Population())
}

func (l *layout) locked(guestID string) bool {
	_, ok := l.lockedSeat[guestID]
	return ok
}

func cloneTables(tables []Table) []Table {
	out := make([]Table, len(tables))
	for i, table := range tables {
		out[i] = table
		out[i].Seats = make([]Seat, len(table.Seats))
		for j, seat := range table.Seats {
			seat.Adjacent = append([]string(nil), seat.Adjacent...)
			out[i].Seats[j] = seat
		}
	}
	return out
}

func sortTables(tables []*Table) {
	sort.SliceStable(tables, func(i, j int) bool {
		a, b := tables[i], tables[j]
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return identityLess(a.ID, b.ID)
	})
}

func sortSeats(seats []Seat) {
	sort.SliceStable(seats, func(i, j int) bool { return seatLess(&seats[i], &seats[j]) })
}

func seatLess(a, b *Seat) bool {
	if a.Number != b.Number {
		return a.Number < b.Number
	}
	return identityLess(a.ID, b.ID)
}

// identityLess orders integer IDs numerically ahead of every other ID, which are compared
// lexically. Equal numbers fall back to the raw text so "7" and "07" still order.
func identityLess(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// board is the mutable occupancy view used by the placement and optimisation passes.
type board struct {
	l        *layout
	occupant map[string]string // seat ID -> guest ID, locked seats included
	seatOf   map[string]string // guest ID -> seat ID
}

func newBoard(l *layout, assignment Assignment) *board {
	b := &board{
		l:        l,
		occupant: make(map[string]string, len(l.seats)),
		seatOf:   make(map[string]string, len(l.seats)),
	}
	for guestID, seatID := range l.lockedSeat {
		b.occupant[seatID] = guestID
		b.seatOf[guestID] = seatID
	}
	for seatID, guestID := range assignment {
		seat, ok := l.seats[seatID]
		if !ok || seat.Locked || guestID == "" {
			continue
		}
		b.occupant[seatID] = guestID
		b.seatOf[guestID] = seatID
	}
	return b
}

func (b *board) place(guestID, seatID string) {
	if prev, ok := b.seatOf[guestID]; ok {
		delete(b.occupant, prev)
	}
	b.occupant[seatID] = guestID
	b.seatOf[guestID] = seatID
}

// swap exchanges the occupants of two seats; either may be empty.
func (b *board) swap(seatA, seatB string) {
	ga, gb := b.occupant[seatA], b.occupant[seatB]
	delete(b.occupant, seatA)
	delete(b.occupant, seatB)
	if ga != "" {
		b.occupant[seatB] = ga
		b.seatOf[ga] = seatB
	}
	if gb != "" {
		b.occupant[seatA] = gb
		b.seatOf[gb] = seatA
	}
}

func (b *board) adjacentGuests(a, c string) bool {
	return b.l.adjacent(b.seatOf[a], b.seatOf[c])
}

func (b *board) assignment() Assignment {
	out := make(Assignment, len(b.occupant))
	for seatID, guestID := range b.occupant {
		if b.l.seats[seatID].Locked {
			continue
		}
		out[seatID] = guestID
	}
	return out
}
