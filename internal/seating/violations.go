package seating

import "fmt"

// DetectViolations scans an arrangement (seats carrying their GuestID) and reports every
// sit-together pair that is not adjacent and every sit-away pair that is. guests is only
// used to render names in reasons and may be nil.
func DetectViolations(tables []Table, rules ProximityRules, guests []Guest) []Violation {
	l := newLayout(tables, guests)
	seatOf := make(map[string]*Seat)
	for _, table := range l.tables {
		for i := range table.Seats {
			seat := &table.Seats[i]
			if seat.GuestID != "" {
				seatOf[seat.GuestID] = seat
			}
		}
	}
	return detect(l, seatOf, rules)
}

func detect(l *layout, seatOf map[string]*Seat, rules ProximityRules) []Violation {
	var violations []Violation

	for _, pair := range uniquePairs(rules.SitTogether) {
		seatA, seatB := seatOf[pair.A], seatOf[pair.B]
		if seatA != nil && seatB != nil && l.adjacent(seatA.ID, seatB.ID) {
			continue
		}
		violations = append(violations, l.togetherViolation(pair, seatA, seatB))
	}

	for _, pair := range uniquePairs(rules.SitAway) {
		seatA, seatB := seatOf[pair.A], seatOf[pair.B]
		if seatA == nil || seatB == nil || !l.adjacent(seatA.ID, seatB.ID) {
			continue
		}
		table := l.tableOf[seatA.ID]
		violations = append(violations, Violation{
			Kind:    ViolationSitAwayBreached,
			GuestA:  pair.A,
			GuestB:  pair.B,
			TableID: table.ID,
			SeatIDs: []string{seatA.ID, seatB.ID},
			Reason: fmt.Sprintf("%s and %s should sit apart but are adjacent at table %s",
				l.guest(pair.A).DisplayName(), l.guest(pair.B).DisplayName(), tableLabel(table)),
		})
	}
	return violations
}

func (l *layout) togetherViolation(pair Pair, seatA, seatB *Seat) Violation {
	nameA, nameB := l.guest(pair.A).DisplayName(), l.guest(pair.B).DisplayName()
	v := Violation{Kind: ViolationSitTogetherUnmet, GuestA: pair.A, GuestB: pair.B}
	for _, seat := range []*Seat{seatA, seatB} {
		if seat == nil {
			continue
		}
		if v.TableID == "" {
			v.TableID = seat.TableID
		}
		v.SeatIDs = append(v.SeatIDs, seat.ID)
	}

	switch {
	case seatA == nil && seatB == nil:
		v.Reason = fmt.Sprintf("%s and %s should sit together but neither is seated", nameA, nameB)
	case seatA == nil:
		v.Reason = fmt.Sprintf("%s and %s should sit together but %s is not seated", nameA, nameB, nameA)
	case seatB == nil:
		v.Reason = fmt.Sprintf("%s and %s should sit together but %s is not seated", nameA, nameB, nameB)
	case seatA.TableID != seatB.TableID:
		v.Reason = fmt.Sprintf("%s and %s should sit together but are at tables %s and %s",
			nameA, nameB, tableLabel(l.tableOf[seatA.ID]), tableLabel(l.tableOf[seatB.ID]))
	default:
		v.Reason = fmt.Sprintf("%s and %s should sit together but are not adjacent at table %s",
			nameA, nameB, tableLabel(l.tableOf[seatA.ID]))
	}
	return v
}

func tableLabel(t *Table) string {
	if t == nil {
		return "?"
	}
	if t.Number > 0 {
		return fmt.Sprintf("%d", t.Number)
	}
	return t.ID
}

// uniquePairs normalises pairs and drops self-pairs and duplicates, keeping input order.
func uniquePairs(pairs []Pair) []Pair {
	seen := make(map[Pair]struct{}, len(pairs))
	out := make([]Pair, 0, len(pairs))
	for _, raw := range pairs {
		p := NewPair(raw.A, raw.B)
		if p.A == "" || p.A == p.B {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// ApplyAssignment returns a copy of tables with unlocked seats cleared and then filled
// from assignment. Locked seats keep their occupant.
func ApplyAssignment(tables []Table, assignment Assignment) []Table {
	out := cloneTables(tables)
	for i := range out {
		for j := range out[i].Seats {
			seat := &out[i].Seats[j]
			if seat.Locked {
				continue
			}
			seat.GuestID = assignment[seat.ID]
		}
	}
	return out
}
