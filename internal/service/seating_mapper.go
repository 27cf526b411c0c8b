package service

import (
	"sort"

	"github.com/noah-isme/seatplan-api/internal/dto"
	"github.com/noah-isme/seatplan-api/internal/models"
	"github.com/noah-isme/seatplan-api/internal/seating"
)

// toEngineTables groups seat rows under their tables. Seats whose table is unknown get a
// table of their own so two locked rows from different tables can still be compared.
func toEngineTables(tables []models.SeatingTable, seats []models.Seat) []seating.Table {
	out := make([]seating.Table, 0, len(tables))
	index := make(map[string]int, len(tables))
	for _, t := range tables {
		index[t.ID] = len(out)
		out = append(out, seating.Table{ID: t.ID, Number: t.Number})
	}
	for _, s := range seats {
		i, ok := index[s.TableID]
		if !ok {
			i = len(out)
			index[s.TableID] = i
			out = append(out, seating.Table{ID: s.TableID})
		}
		out[i].Seats = append(out[i].Seats, toEngineSeat(s))
	}
	return out
}

func toEngineSeat(s models.Seat) seating.Seat {
	seat := seating.Seat{
		ID:       s.ID,
		TableID:  s.TableID,
		Number:   s.Number,
		Mode:     seating.ParseSeatMode(s.Mode),
		Locked:   s.Locked,
		Adjacent: append([]string(nil), s.Adjacent...),
	}
	if s.GuestID != nil {
		seat.GuestID = *s.GuestID
	}
	return seat
}

func toEngineGuests(guests []models.Guest) []seating.Guest {
	out := make([]seating.Guest, 0, len(guests))
	for _, g := range guests {
		out = append(out, seating.Guest{
			ID:           g.ID,
			Name:         g.Name,
			Country:      g.Country,
			Organization: g.Organization,
			Ranking:      g.Ranking,
			Internal:     g.Internal,
			Deleted:      g.DeletedAt != nil,
		})
	}
	return out
}

func splitPopulations(guests []seating.Guest) (internal, external []seating.Guest) {
	for _, g := range guests {
		if g.Deleted {
			continue
		}
		if g.Internal {
			internal = append(internal, g)
		} else {
			external = append(external, g)
		}
	}
	return internal, external
}

func toEngineRules(rules []models.ProximityRule) seating.ProximityRules {
	var out seating.ProximityRules
	for _, r := range rules {
		switch r.Kind {
		case models.ProximitySitTogether:
			out.SitTogether = append(out.SitTogether, seating.Pair{A: r.GuestA, B: r.GuestB})
		case models.ProximitySitAway:
			out.SitAway = append(out.SitAway, seating.Pair{A: r.GuestA, B: r.GuestB})
		}
	}
	return out
}

func toEngineTableRules(session *models.SeatingSession, override *dto.TableRulesRequest) seating.TableRules {
	if override != nil {
		return seating.TableRules{
			Ratio: seating.RatioRule{
				Enabled:  override.Ratio.Enabled,
				Internal: override.Ratio.Internal,
				External: override.Ratio.External,
			},
			Spacing: seating.SpacingRule{
				Enabled:           override.Spacing.Enabled,
				Spacing:           override.Spacing.Spacing,
				StartWithInternal: override.Spacing.StartWithInternal,
			},
		}
	}
	return seating.TableRules{
		Ratio: seating.RatioRule{
			Enabled:  session.RatioEnabled,
			Internal: session.RatioInternal,
			External: session.RatioExternal,
		},
		Spacing: seating.SpacingRule{
			Enabled:           session.SpacingEnabled,
			Spacing:           session.Spacing,
			StartWithInternal: session.SpacingStartInternal,
		},
	}
}

func toViolationResponses(violations []seating.Violation) []dto.ViolationResponse {
	out := make([]dto.ViolationResponse, 0, len(violations))
	for _, v := range violations {
		out = append(out, dto.ViolationResponse{
			Kind:    string(v.Kind),
			GuestA:  v.GuestA,
			GuestB:  v.GuestB,
			TableID: v.TableID,
			SeatIDs: v.SeatIDs,
			Reason:  v.Reason,
		})
	}
	return out
}

func toSwapCandidateResponses(candidates []seating.SwapCandidate, limit int) ([]dto.SwapCandidateResponse, bool) {
	truncated := false
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
		truncated = true
	}
	out := make([]dto.SwapCandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, dto.SwapCandidateResponse{
			SeatID:      c.SeatID,
			SeatNumber:  c.SeatNumber,
			TableID:     c.TableID,
			TableNumber: c.TableNumber,
			GuestID:     c.GuestID,
			Delta:       c.Delta,
			Violations:  toViolationResponses(c.Violations),
		})
	}
	return out, truncated
}

// toSeatAssignments lists the assignment in table then seat order.
func toSeatAssignments(tables []seating.Table, assignment seating.Assignment) []dto.SeatAssignment {
	ordered := make([]seating.Table, len(tables))
	copy(ordered, tables)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	out := make([]dto.SeatAssignment, 0, len(assignment))
	for _, table := range ordered {
		seats := make([]seating.Seat, len(table.Seats))
		copy(seats, table.Seats)
		sort.SliceStable(seats, func(i, j int) bool { return seats[i].Number < seats[j].Number })
		for _, seat := range seats {
			guestID, ok := assignment[seat.ID]
			if !ok {
				continue
			}
			out = append(out, dto.SeatAssignment{SeatID: seat.ID, TableID: table.ID, GuestID: guestID})
		}
	}
	return out
}

func toRunStats(stats seating.Stats, durationMs int64) dto.SeatingRunStats {
	return dto.SeatingRunStats{
		SeatsConsidered: stats.SeatsConsidered,
		SeatsFilled:     stats.SeatsFilled,
		SeatsEmpty:      stats.SeatsEmpty,
		UnplacedGuests:  stats.UnplacedGuests,
		TogetherMoves:   stats.TogetherMoves,
		AwayMoves:       stats.AwayMoves,
		DurationMs:      durationMs,
	}
}
