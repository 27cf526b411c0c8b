package seating

import (
	"errors"
	"sort"
)

var (
	ErrSeatNotFound     = errors.New("seat not found")
	ErrSeatEmpty        = errors.New("seat has no occupant")
	ErrSeatLocked       = errors.New("seat is locked")
	ErrSeatIncompatible = errors.New("seat mode does not accept guest")
	ErrConflictingRules = errors.New("guest pair is registered as both sit-together and sit-away")
	ErrInvalidPair      = errors.New("proximity pair must name two distinct guests")
)

// SwapCandidate is one possible exchange partner for a source seat.
type SwapCandidate struct {
	SeatID      string
	SeatNumber  int
	TableID     string
	TableNumber int
	GuestID     string
	// Violations is the full violation list the arrangement would have after the swap.
	Violations []Violation
	// Delta is the change in violation count relative to the current arrangement.
	Delta int
}

// SwapCandidates partitions candidates into perfect (no resulting violation) and
// imperfect swaps, each ordered by resulting violation count.
type SwapCandidates struct {
	SourceSeatID  string
	SourceGuestID string
	Baseline      int
	Perfect       []SwapCandidate
	Imperfect     []SwapCandidate
}

// FindSwapCandidates evaluates exchanging the occupant of sourceSeatID with the occupant of
// every other unlocked, occupied, mode-compatible seat. Nothing is applied.
func FindSwapCandidates(tables []Table, sourceSeatID string, rules ProximityRules, guests []Guest) (SwapCandidates, error) {
	l := newLayout(tables, guests)
	source, ok := l.seats[sourceSeatID]
	if !ok {
		return SwapCandidates{}, ErrSeatNotFound
	}
	if source.Locked {
		return SwapCandidates{}, ErrSeatLocked
	}
	if source.GuestID == "" {
		return SwapCandidates{}, ErrSeatEmpty
	}

	seatOf := make(map[string]*Seat, len(l.seats))
	for _, table := range l.tables {
		for i := range table.Seats {
			if id := table.Seats[i].GuestID; id != "" {
				seatOf[id] = &table.Seats[i]
			}
		}
	}
	baseline := len(detect(l, seatOf, rules))
	sourceGuest := l.guest(source.GuestID)

	result := SwapCandidates{SourceSeatID: source.ID, SourceGuestID: source.GuestID, Baseline: baseline}
	var all []SwapCandidate
	for _, table := range l.tables {
		for i := range table.Seats {
			target := &table.Seats[i]
			if target.ID == source.ID || target.Locked || target.GuestID == "" {
				continue
			}
			targetGuest := l.guest(target.GuestID)
			if !target.Mode.Accepts(sourceGuest.Population()) || !source.Mode.Accepts(targetGuest.Population()) {
				continue
			}

			seatOf[sourceGuest.ID], seatOf[targetGuest.ID] = target, source
			violations := detect(l, seatOf, rules)
			seatOf[sourceGuest.ID], seatOf[targetGuest.ID] = source, target

			all = append(all, SwapCandidate{
				SeatID:      target.ID,
				SeatNumber:  target.Number,
				TableID:     table.ID,
				TableNumber: table.Number,
				GuestID:     target.GuestID,
				Violations:  violations,
				Delta:       len(violations) - baseline,
			})
		}
	}

	// Tables and seats are already in canonical order, so a stable sort keeps that as the tie-break.
	sort.SliceStable(all, func(i, j int) bool {
		return len(all[i].Violations) < len(all[j].Violations)
	})
	for _, c := range all {
		if len(c.Violations) == 0 {
			result.Perfect = append(result.Perfect, c)
			continue
		}
		result.Imperfect = append(result.Imperfect, c)
	}
	return result, nil
}

// ValidateRules rejects rule sets where a pair is both sit-together and sit-away, or where
// a pair names the same guest twice.
func ValidateRules(rules ProximityRules) error {
	together := make(map[Pair]struct{}, len(rules.SitTogether))
	for _, raw := range rules.SitTogether {
		p := NewPair(raw.A, raw.B)
		if p.A == "" || p.A == p.B {
			return ErrInvalidPair
		}
		together[p] = struct{}{}
	}
	for _, raw := range rules.SitAway {
		p := NewPair(raw.A, raw.B)
		if p.A == "" || p.A == p.B {
			return ErrInvalidPair
		}
		if _, clash := together[p]; clash {
			return ErrConflictingRules
		}
	}
	return nil
}

// CanExchange checks the two-seat invariants for a manual swap: both seats exist, neither
// is locked, and each occupant (if any) is accepted by the other seat's mode.
func CanExchange(tables []Table, seatA, seatB string, guests []Guest) error {
	l := newLayout(tables, guests)
	a, okA := l.seats[seatA]
	b, okB := l.seats[seatB]
	if !okA || !okB {
		return ErrSeatNotFound
	}
	if a.Locked || b.Locked {
		return ErrSeatLocked
	}
	if a.GuestID == "" && b.GuestID == "" {
		return ErrSeatEmpty
	}
	if a.GuestID != "" && !b.Mode.Accepts(l.guest(a.GuestID).Population()) {
		return ErrSeatIncompatible
	}
	if b.GuestID != "" && !a.Mode.Accepts(l.guest(b.GuestID).Population()) {
		return ErrSeatIncompatible
	}
	return nil
}
