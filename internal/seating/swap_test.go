package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swapFixture() []Table {
	table := ringTable("t1", 1, 4)
	seatGuests(&table, "a", "b", "c", "d")
	return []Table{table}
}

func candidateSeats(candidates []SwapCandidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.SeatID)
	}
	return out
}

func TestFindSwapCandidatesPartitionsByResultingViolations(t *testing.T) {
	rules := ProximityRules{SitAway: []Pair{NewPair("a", "b")}}

	result, err := FindSwapCandidates(swapFixture(), "t1-s1", rules, nil)
	require.NoError(t, err)

	assert.Equal(t, "b", result.SourceGuestID)
	assert.Equal(t, 1, result.Baseline)
	assert.Equal(t, []string{"t1-s2"}, candidateSeats(result.Perfect))
	assert.Equal(t, -1, result.Perfect[0].Delta)
	assert.Equal(t, "c", result.Perfect[0].GuestID)
	assert.Equal(t, []string{"t1-s0", "t1-s3"}, candidateSeats(result.Imperfect))
	assert.Zero(t, result.Imperfect[0].Delta)
	require.Len(t, result.Imperfect[0].Violations, 1)
}

func TestFindSwapCandidatesSkipsLockedAndIncompatibleSeats(t *testing.T) {
	tables := swapFixture()
	tables[0].Seats[0].Locked = true
	tables[0].Seats[3].Mode = SeatModeInternalOnly
	guests := []Guest{externalGuest("b", 1), internalGuest("c", 2), internalGuest("d", 3)}

	result, err := FindSwapCandidates(tables, "t1-s1", ProximityRules{}, guests)
	require.NoError(t, err)

	assert.Equal(t, []string{"t1-s2"}, candidateSeats(result.Perfect))
	assert.Empty(t, result.Imperfect)
}

func TestFindSwapCandidatesDoesNotMutateInput(t *testing.T) {
	tables := swapFixture()
	_, err := FindSwapCandidates(tables, "t1-s0", ProximityRules{SitAway: []Pair{NewPair("a", "b")}}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d"}, seatedAt(tables, "t1"))
}

func TestFindSwapCandidatesErrors(t *testing.T) {
	tables := swapFixture()
	tables[0].Seats[2].Locked = true
	tables[0].Seats[3].GuestID = ""

	_, err := FindSwapCandidates(tables, "missing", ProximityRules{}, nil)
	assert.ErrorIs(t, err, ErrSeatNotFound)

	_, err = FindSwapCandidates(tables, "t1-s2", ProximityRules{}, nil)
	assert.ErrorIs(t, err, ErrSeatLocked)

	_, err = FindSwapCandidates(tables, "t1-s3", ProximityRules{}, nil)
	assert.ErrorIs(t, err, ErrSeatEmpty)
}

func TestValidateRules(t *testing.T) {
	assert.NoError(t, ValidateRules(ProximityRules{
		SitTogether: []Pair{{A: "a", B: "b"}},
		SitAway:     []Pair{{A: "a", B: "c"}},
	}))
	assert.ErrorIs(t, ValidateRules(ProximityRules{
		SitTogether: []Pair{{A: "b", B: "a"}},
		SitAway:     []Pair{{A: "a", B: "b"}},
	}), ErrConflictingRules)
	assert.ErrorIs(t, ValidateRules(ProximityRules{SitAway: []Pair{{A: "a", B: "a"}}}), ErrInvalidPair)
	assert.ErrorIs(t, ValidateRules(ProximityRules{SitTogether: []Pair{{A: "", B: "a"}}}), ErrInvalidPair)
}

func TestCanExchange(t *testing.T) {
	tables := swapFixture()
	tables[0].Seats[0].Locked = true
	tables[0].Seats[2].Mode = SeatModeExternalOnly
	tables[0].Seats[3].GuestID = ""
	guests := []Guest{internalGuest("b", 1), externalGuest("c", 2)}

	assert.NoError(t, CanExchange(tables, "t1-s2", "t1-s3", guests))
	assert.ErrorIs(t, CanExchange(tables, "t1-s1", "nope", guests), ErrSeatNotFound)
	assert.ErrorIs(t, CanExchange(tables, "t1-s0", "t1-s1", guests), ErrSeatLocked)
	assert.ErrorIs(t, CanExchange(tables, "t1-s1", "t1-s2", guests), ErrSeatIncompatible)
}
