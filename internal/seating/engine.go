// Package seating assigns guests to table seats under seat modes, table distribution
// rules and pairwise proximity rules, and reports the rules a finished arrangement breaks.
//
// A run is a deterministic three-phase heuristic: greedy placement, a sit-together repair
// pass and a sit-away repair pass. Locked seats are read-only in every phase. The package
// performs no I/O and is not safe for concurrent runs against shared input slices.
package seating

// Request is the full input of one engine run.
type Request struct {
	Tables     []Table
	Internal   []Guest
	External   []Guest
	SortRules  []SortRule
	TableRules TableRules
	Proximity  ProximityRules
}

// Stats summarises what a run did.
type Stats struct {
	SeatsConsidered int
	SeatsFilled     int
	SeatsEmpty      int
	UnplacedGuests  int
	TogetherMoves   int
	AwayMoves       int
}

// Result carries the assignment for unlocked seats, the arrangement it produces and the
// violations detected against that final arrangement.
type Result struct {
	Assignment Assignment
	Tables     []Table
	Violations []Violation
	Stats      Stats
}

// Run executes place, sit-together and sit-away in that order. Unlocked seats are treated
// as cleared, so identical input always yields an identical Assignment.
func Run(req Request) Result {
	roster := make([]Guest, 0, len(req.Internal)+len(req.External))
	for _, g := range req.Internal {
		g.Internal = true
		roster = append(roster, g)
	}
	for _, g := range req.External {
		g.Internal = false
		roster = append(roster, g)
	}

	l := newLayout(req.Tables, roster)
	pools := buildPools(req.Internal, req.External, req.Proximity, req.SortRules, l.lockedSeat)
	cmp := NewComparator(req.SortRules)

	assignment := placeInitial(l, pools, req.TableRules, req.Proximity)
	assignment, togetherMoves := optimizeSitTogether(l, assignment, req.Proximity.SitTogether, cmp)
	assignment, awayMoves := optimizeSitAway(l, assignment, req.Proximity, cmp)

	tables := ApplyAssignment(req.Tables, assignment)
	stats := Stats{TogetherMoves: togetherMoves, AwayMoves: awayMoves}
	for _, seat := range l.seats {
		if seat.Locked {
			continue
		}
		stats.SeatsConsidered++
		if _, ok := assignment[seat.ID]; ok {
			stats.SeatsFilled++
		}
	}
	stats.SeatsEmpty = stats.SeatsConsidered - stats.SeatsFilled
	stats.UnplacedGuests = len(pools.Internal) + len(pools.External) - stats.SeatsFilled

	return Result{
		Assignment: assignment,
		Tables:     tables,
		Violations: DetectViolations(tables, req.Proximity, roster),
		Stats:      stats,
	}
}
