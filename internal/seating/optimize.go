package seating

import "sort"

// orientedRule is a proximity pair split into the anchor (higher priority) and the mover.
type orientedRule struct {
	anchor *Guest
	mover  *Guest
}

// orientRules resolves anchor/mover for every usable pair and orders the rules so that
// higher-priority anchors are handled first.
func orientRules(l *layout, pairs []Pair, cmp Comparator) []orientedRule {
	seen := make(map[Pair]struct{}, len(pairs))
	rules := make([]orientedRule, 0, len(pairs))
	for _, raw := range pairs {
		pair := NewPair(raw.A, raw.B)
		if pair.A == "" || pair.A == pair.B {
			continue
		}
		if _, dup := seen[pair]; dup {
			continue
		}
		seen[pair] = struct{}{}
		a, okA := l.guests[pair.A]
		b, okB := l.guests[pair.B]
		if !okA || !okB {
			continue
		}
		if cmp(b, a) < 0 {
			a, b = b, a
		}
		rules = append(rules, orientedRule{anchor: a, mover: b})
	}
	sort.SliceStable(rules, func(i, j int) bool {
		if c := cmp(rules[i].anchor, rules[j].anchor); c != 0 {
			return c < 0
		}
		return cmp(rules[i].mover, rules[j].mover) < 0
	})
	return rules
}

// fixedAndMoving picks which guest stays put: the anchor, unless only the mover is locked.
func (r orientedRule) fixedAndMoving(l *layout) (fixed, moving *Guest) {
	if l.locked(r.mover.ID) {
		return r.mover, r.anchor
	}
	return r.anchor, r.mover
}

// optimizeSitTogether tries to bring every sit-together pair next to each other by moving
// the mover into an empty seat beside the anchor, or by swapping it with a neighbour of the
// anchor. When neither works and both guests are unlocked, the anchor takes an empty seat
// beside the mover. It returns the updated assignment and the number of relocations applied.
func optimizeSitTogether(l *layout, assignment Assignment, pairs []Pair, cmp Comparator) (Assignment, int) {
	b := newBoard(l, assignment)
	together := newPairIndex(pairs)
	moves := 0

	for _, rule := range orientRules(l, pairs, cmp) {
		if l.locked(rule.anchor.ID) && l.locked(rule.mover.ID) {
			continue
		}
		fixed, moving := rule.fixedAndMoving(l)
		fixedSeat, okFixed := b.seatOf[fixed.ID]
		movingSeat, okMoving := b.seatOf[moving.ID]
		if !okFixed || !okMoving {
			continue
		}
		if l.adjacent(fixedSeat, movingSeat) {
			continue
		}
		if relocateBeside(b, fixedSeat, moving) || swapBeside(b, together, fixedSeat, movingSeat, moving) {
			moves++
			continue
		}
		if bothUnlocked(l, rule) && relocateAnchorBeside(b, together, movingSeat, fixed) {
			moves++
		}
	}
	return b.assignment(), moves
}

func bothUnlocked(l *layout, r orientedRule) bool {
	return !l.locked(r.anchor.ID) && !l.locked(r.mover.ID)
}

func relocateBeside(b *board, fixedSeat string, moving *Guest) bool {
	for _, seat := range b.l.neighbours(fixedSeat) {
		if _, taken := b.occupant[seat.ID]; taken {
			continue
		}
		if !b.l.eligible(moving, seat) {
			continue
		}
		b.place(moving.ID, seat.ID)
		return true
	}
	return false
}

// relocateAnchorBeside moves the fixed guest into an empty seat beside the mover, skipping
// seats that would separate it from a partner it already sits beside.
func relocateAnchorBeside(b *board, together pairIndex, movingSeat string, fixed *Guest) bool {
	for _, seat := range b.l.neighbours(movingSeat) {
		if _, taken := b.occupant[seat.ID]; taken {
			continue
		}
		if !b.l.eligible(fixed, seat) || breaksTogether(b, together, fixed.ID, seat.ID) {
			continue
		}
		b.place(fixed.ID, seat.ID)
		return true
	}
	return false
}

func swapBeside(b *board, together pairIndex, fixedSeat, movingSeat string, moving *Guest) bool {
	origin := b.l.seats[movingSeat]
	for _, seat := range b.l.neighbours(fixedSeat) {
		occupantID, taken := b.occupant[seat.ID]
		if !taken || seat.Locked || occupantID == moving.ID {
			continue
		}
		occupant := b.l.guest(occupantID)
		if !b.l.eligible(moving, seat) || !b.l.eligible(occupant, origin) {
			continue
		}
		if breaksTogether(b, together, occupantID, movingSeat) {
			continue
		}
		b.swap(seat.ID, movingSeat)
		return true
	}
	return false
}

// breaksTogether reports whether moving guestID to target would separate it from a
// sit-together partner it currently sits beside.
func breaksTogether(b *board, together pairIndex, guestID, target string) bool {
	current := b.seatOf[guestID]
	for _, partner := range together.partners(guestID) {
		partnerSeat, ok := b.seatOf[partner]
		if !ok || !b.l.adjacent(current, partnerSeat) {
			continue
		}
		if !b.l.adjacent(target, partnerSeat) {
			return true
		}
	}
	return false
}

// optimizeSitAway separates adjacent sit-away pairs by relocating the movable guest to a
// seat of the same table that is not beside the fixed guest. Empty seats are preferred
// over swaps, and destinations that keep other proximity rules intact are preferred over
// those that do not. When the mover has no destination and both guests are unlocked, the
// anchor is relocated instead. It returns the updated assignment and the number of relocations.
func optimizeSitAway(l *layout, assignment Assignment, proximity ProximityRules, cmp Comparator) (Assignment, int) {
	b := newBoard(l, assignment)
	together := newPairIndex(proximity.SitTogether)
	away := newPairIndex(proximity.SitAway)
	moves := 0

	for _, rule := range orientRules(l, proximity.SitAway, cmp) {
		if l.locked(rule.anchor.ID) && l.locked(rule.mover.ID) {
			continue
		}
		fixed, moving := rule.fixedAndMoving(l)
		fixedSeat, okFixed := b.seatOf[fixed.ID]
		movingSeat, okMoving := b.seatOf[moving.ID]
		if !okFixed || !okMoving || !l.adjacent(fixedSeat, movingSeat) {
			continue
		}
		if relocateAway(b, together, away, fixedSeat, movingSeat, moving) ||
			(bothUnlocked(l, rule) && relocateAway(b, together, away, movingSeat, fixedSeat, fixed)) {
			moves++
		}
	}
	return b.assignment(), moves
}

type awayDestination struct {
	seat  *Seat
	clean bool
}

func relocateAway(b *board, together, away pairIndex, fixedSeat, movingSeat string, moving *Guest) bool {
	table := b.l.tableOf[movingSeat]
	origin := b.l.seats[movingSeat]

	var empties, swaps []awayDestination
	for i := range table.Seats {
		seat := b.l.seats[table.Seats[i].ID]
		if seat.ID == movingSeat || seat.ID == fixedSeat || seat.Locked {
			continue
		}
		if b.l.adjacent(seat.ID, fixedSeat) || !b.l.eligible(moving, seat) {
			continue
		}
		occupantID, taken := b.occupant[seat.ID]
		if taken && !b.l.eligible(b.l.guest(occupantID), origin) {
			continue
		}
		dest := awayDestination{seat: seat, clean: exchangeIsClean(b, together, away, movingSeat, seat.ID)}
		if taken {
			swaps = append(swaps, dest)
			continue
		}
		empties = append(empties, dest)
	}

	for _, wantClean := range []bool{true, false} {
		for _, group := range [][]awayDestination{empties, swaps} {
			for _, dest := range group {
				if wantClean && !dest.clean {
					continue
				}
				b.swap(movingSeat, dest.seat.ID)
				return true
			}
		}
	}
	return false
}

// exchangeIsClean simulates swapping the occupants of seats a and c and reports whether
// the exchange keeps every satisfied rule of the affected guests satisfied.
func exchangeIsClean(b *board, together, away pairIndex, a, c string) bool {
	affected := make([]string, 0, 2)
	for _, seatID := range []string{a, c} {
		if g, ok := b.occupant[seatID]; ok {
			affected = append(affected, g)
		}
	}
	before := ruleScore(b, together, away, affected)
	b.swap(a, c)
	after := ruleScore(b, together, away, affected)
	b.swap(a, c)
	return after.satisfied(before)
}

type ruleState struct {
	togetherMet map[Pair]bool
	awayMet     map[Pair]bool
}

func ruleScore(b *board, together, away pairIndex, guests []string) ruleState {
	state := ruleState{togetherMet: map[Pair]bool{}, awayMet: map[Pair]bool{}}
	for _, g := range guests {
		for _, partner := range together.partners(g) {
			state.togetherMet[NewPair(g, partner)] = b.adjacentGuests(g, partner)
		}
		for _, partner := range away.partners(g) {
			state.awayMet[NewPair(g, partner)] = !b.adjacentGuests(g, partner)
		}
	}
	return state
}

// satisfied reports whether no rule met in before is unmet in s, ignoring the pair that
// is being repaired (it is unmet before by construction).
func (s ruleState) satisfied(before ruleState) bool {
	for pair, met := range before.togetherMet {
		if met && !s.togetherMet[pair] {
			return false
		}
	}
	for pair, met := range before.awayMet {
		if met && !s.awayMet[pair] {
			return false
		}
	}
	return true
}
