package seating

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// banquet is a mixed scenario with two tables, restricted seats, locks and both rule kinds.
func banquet() Request {
	t1 := ringTable("t1", 1, 6)
	t2 := ringTable("t2", 2, 6)
	t1.Seats[0].Mode = SeatModeInternalOnly
	t2.Seats[3].Mode = SeatModeExternalOnly
	lockSeat(&t1, 2, "host")
	lockSeat(&t2, 0, "i3")

	var internal, external []Guest
	internal = append(internal, Guest{ID: "host", Name: "Host", Ranking: 1, Internal: true})
	for i := 0; i < 5; i++ {
		internal = append(internal, internalGuest(fmt.Sprintf("i%d", i), 10+i))
	}
	for i := 0; i < 6; i++ {
		g := externalGuest(fmt.Sprintf("e%d", i), 20-i)
		g.Country = []string{"NO", "SE", "DK"}[i%3]
		external = append(external, g)
	}

	return Request{
		Tables:   []Table{t2, t1},
		Internal: internal,
		External: external,
		SortRules: []SortRule{
			{Field: SortFieldRanking, Direction: SortAscending},
			{Field: SortFieldCountry, Direction: SortDescending},
		},
		TableRules: TableRules{Ratio: RatioRule{Enabled: true, Internal: 1, External: 2}},
		Proximity: ProximityRules{
			SitTogether: []Pair{NewPair("host", "e0"), NewPair("i1", "e5")},
			SitAway:     []Pair{NewPair("host", "e1"), NewPair("i3", "i4")},
		},
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first := Run(banquet())
	for i := 0; i < 5; i++ {
		again := Run(banquet())
		assert.Equal(t, first.Assignment, again.Assignment)
		assert.Equal(t, first.Violations, again.Violations)
	}
}

func TestRunIgnoresPreviousUnlockedOccupants(t *testing.T) {
	clean := Run(banquet())

	dirty := banquet()
	dirty.Tables[0].Seats[1].GuestID = "e3"
	dirty.Tables[1].Seats[4].GuestID = "ghost"

	assert.Equal(t, clean.Assignment, Run(dirty).Assignment)
}

func TestRunHonoursLocksModesAndUniqueness(t *testing.T) {
	req := banquet()
	result := Run(req)

	population := map[string]Population{}
	for _, g := range req.Internal {
		population[g.ID] = PopulationInternal
	}
	for _, g := range req.External {
		population[g.ID] = PopulationExternal
	}

	seen := map[string]string{}
	for _, table := range result.Tables {
		for _, seat := range table.Seats {
			if seat.GuestID == "" {
				continue
			}
			prev, dup := seen[seat.GuestID]
			require.False(t, dup, "guest %s on %s and %s", seat.GuestID, prev, seat.ID)
			seen[seat.GuestID] = seat.ID
			assert.True(t, seat.Mode.Accepts(population[seat.GuestID]), "seat %s holds %s", seat.ID, seat.GuestID)
		}
	}
	assert.Equal(t, "t1-s2", seen["host"])
	assert.Equal(t, "t2-s0", seen["i3"])
	for seatID := range result.Assignment {
		assert.NotContains(t, []string{"t1-s2", "t2-s0"}, seatID)
	}
}

func TestRunStats(t *testing.T) {
	req := banquet()
	result := Run(req)

	assert.Equal(t, 10, result.Stats.SeatsConsidered)
	assert.Equal(t, len(result.Assignment), result.Stats.SeatsFilled)
	assert.Equal(t, result.Stats.SeatsConsidered-result.Stats.SeatsFilled, result.Stats.SeatsEmpty)
	// Ten movable guests for ten unlocked seats.
	assert.Equal(t, 10, result.Stats.SeatsFilled)
	assert.Zero(t, result.Stats.UnplacedGuests)
}

func TestRunWithoutRulesHasNoViolations(t *testing.T) {
	req := banquet()
	req.Proximity = ProximityRules{}

	result := Run(req)

	assert.Empty(t, result.Violations)
	assert.Zero(t, result.Stats.TogetherMoves)
	assert.Zero(t, result.Stats.AwayMoves)
}

func TestRunViolationsMatchDetector(t *testing.T) {
	req := banquet()
	result := Run(req)

	roster := append(append([]Guest{}, req.Internal...), req.External...)
	assert.Equal(t, DetectViolations(result.Tables, req.Proximity, roster), result.Violations)
}

func TestRunWithMoreGuestsThanSeats(t *testing.T) {
	table := ringTable("t1", 1, 2)
	guests := []Guest{internalGuest("a", 3), internalGuest("b", 2), internalGuest("c", 1)}

	result := Run(Request{Tables: []Table{table}, Internal: guests, SortRules: byRanking()})

	assert.Equal(t, []string{"c", "b"}, seatedAt(result.Tables, "t1"))
	assert.Equal(t, 1, result.Stats.UnplacedGuests)
}

func TestRunWithNoTables(t *testing.T) {
	result := Run(Request{Internal: []Guest{internalGuest("a", 1)}})

	assert.Empty(t, result.Assignment)
	assert.Empty(t, result.Tables)
	assert.Equal(t, 1, result.Stats.UnplacedGuests)
}
