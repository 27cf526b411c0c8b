package seating

import "sort"

// placementPools tracks which prioritised candidates are still unassigned.
type placementPools struct {
	pools GuestPools
	used  map[string]bool
}

func (p *placementPools) list(pop Population) []*Guest {
	if pop == PopulationInternal {
		return p.pools.Internal
	}
	return p.pools.External
}

func (p *placementPools) remaining(pop Population) bool {
	for _, g := range p.list(pop) {
		if !p.used[g.ID] {
			return true
		}
	}
	return false
}

// placeInitial is the greedy pass: tables by number, unlocked seats by number, one
// candidate per seat. Seats without an eligible candidate stay empty.
func placeInitial(l *layout, pools GuestPools, rules TableRules, proximity ProximityRules) Assignment {
	assignment := make(Assignment)
	state := &placementPools{pools: pools, used: make(map[string]bool)}
	away := newPairIndex(proximity.SitAway)

	for _, table := range l.tables {
		var seats []*Seat
		for i := range table.Seats {
			if !table.Seats[i].Locked {
				seats = append(seats, &table.Seats[i])
			}
		}
		distribution := newTableDistribution(rules, len(seats))

		for _, seat := range seats {
			var chosen *Guest
			switch seat.Mode {
			case SeatModeInternalOnly:
				chosen = state.pick(l, away, state.list(PopulationInternal), seat)
			case SeatModeExternalOnly:
				chosen = state.pick(l, away, state.list(PopulationExternal), seat)
			default:
				chosen = distribution.choose(l, away, state, seat)
			}
			if chosen == nil {
				continue
			}
			assignment[seat.ID] = chosen.ID
			state.used[chosen.ID] = true
			distribution.record(chosen.Population())
		}
	}
	return assignment
}

// pick returns the first unassigned eligible candidate of list, skipping forward past
// candidates that would sit next to a locked sit-away partner. When every candidate
// conflicts the first one is placed anyway.
func (p *placementPools) pick(l *layout, away pairIndex, list []*Guest, seat *Seat) *Guest {
	var first *Guest
	for _, g := range list {
		if p.used[g.ID] || !seat.Mode.Accepts(g.Population()) {
			continue
		}
		if first == nil {
			first = g
		}
		if !conflictsWithLockedNeighbour(l, away, g.ID, seat.ID) {
			return g
		}
	}
	return first
}

func conflictsWithLockedNeighbour(l *layout, away pairIndex, guestID, seatID string) bool {
	for _, neighbour := range l.neighbours(seatID) {
		if !neighbour.Locked || neighbour.GuestID == "" {
			continue
		}
		if away.has(guestID, neighbour.GuestID) {
			return true
		}
	}
	return false
}

type distributionMode int

const (
	distributionNone distributionMode = iota
	distributionSpacing
	distributionRatio
)

// tableDistribution carries the per-table pattern state of the active table rule.
type tableDistribution struct {
	mode distributionMode

	spacing    int
	startsWith Population
	position   int

	internalTarget int
	externalTarget int
	internalPlaced int
	externalPlaced int
}

func newTableDistribution(rules TableRules, unlockedSeats int) *tableDistribution {
	d := &tableDistribution{mode: distributionNone}
	switch {
	case rules.spacingActive():
		d.mode = distributionSpacing
		d.spacing = rules.Spacing.Spacing
		if d.spacing < 1 {
			d.spacing = 1
		}
		d.startsWith = PopulationExternal
		if rules.Spacing.StartWithInternal {
			d.startsWith = PopulationInternal
		}
	case rules.ratioActive():
		d.mode = distributionRatio
		total := rules.Ratio.Internal + rules.Ratio.External
		d.internalTarget = unlockedSeats * rules.Ratio.Internal / total
		d.externalTarget = unlockedSeats - d.internalTarget
	}
	return d
}

func (d *tableDistribution) record(pop Population) {
	if pop == PopulationInternal {
		d.internalPlaced++
		return
	}
	d.externalPlaced++
}

func (d *tableDistribution) choose(l *layout, away pairIndex, p *placementPools, seat *Seat) *Guest {
	switch d.mode {
	case distributionSpacing:
		if p.remaining(PopulationInternal) && p.remaining(PopulationExternal) {
			if g := p.pick(l, away, p.list(d.patternAt(d.position)), seat); g != nil {
				d.position++
				return g
			}
		}
		// One population ran dry: the pattern is off for the rest of this table.
		d.mode = distributionNone
	case distributionRatio:
		for _, pop := range d.ratioPreference() {
			if g := p.pick(l, away, p.list(pop), seat); g != nil {
				return g
			}
		}
	}
	return p.pick(l, away, p.pools.Combined, seat)
}

// patternAt returns the population wanted at a pattern position. A cycle is one internal
// guest and spacing external guests, starting with the configured population.
func (d *tableDistribution) patternAt(position int) Population {
	cycle := d.spacing + 1
	offset := position % cycle
	if d.startsWith == PopulationInternal {
		if offset == 0 {
			return PopulationInternal
		}
		return PopulationExternal
	}
	if offset == d.spacing {
		return PopulationInternal
	}
	return PopulationExternal
}

// ratioPreference lists the populations still below target, least filled first.
func (d *tableDistribution) ratioPreference() []Population {
	internalOpen := d.internalPlaced < d.internalTarget
	externalOpen := d.externalPlaced < d.externalTarget
	switch {
	case internalOpen && externalOpen:
		// Compare fill fractions without division: placed/target.
		if d.externalPlaced*d.internalTarget < d.internalPlaced*d.externalTarget {
			return []Population{PopulationExternal, PopulationInternal}
		}
		return []Population{PopulationInternal, PopulationExternal}
	case internalOpen:
		return []Population{PopulationInternal}
	case externalOpen:
		return []Population{PopulationExternal}
	default:
		return nil
	}
}

// pairIndex answers "is {a,b} a rule pair" and lists partners per guest.
type pairIndex map[string]map[string]struct{}

func newPairIndex(pairs []Pair) pairIndex {
	idx := make(pairIndex)
	for _, p := range pairs {
		if p.A == "" || p.B == "" || p.A == p.B {
			continue
		}
		idx.add(p.A, p.B)
		idx.add(p.B, p.A)
	}
	return idx
}

func (idx pairIndex) add(a, b string) {
	if idx[a] == nil {
		idx[a] = make(map[string]struct{})
	}
	idx[a][b] = struct{}{}
}

func (idx pairIndex) has(a, b string) bool {
	_, ok := idx[a][b]
	return ok
}

func (idx pairIndex) partners(guestID string) []string {
	set := idx[guestID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
