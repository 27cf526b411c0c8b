package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/noah-isme/seatplan-api/internal/seating"
)

type seatJSON struct {
	ID      string `json:"id"`
	Number  int    `json:"number"`
	Mode    string `json:"mode"`
	Locked  bool   `json:"locked"`
	GuestID string `json:"guestId,omitempty"`
}

type tableJSON struct {
	ID     string     `json:"id"`
	Number int        `json:"number"`
	Seats  []seatJSON `json:"seats"`
}

type violationJSON struct {
	Kind    string   `json:"kind"`
	GuestA  string   `json:"guestA"`
	GuestB  string   `json:"guestB"`
	TableID string   `json:"tableId,omitempty"`
	SeatIDs []string `json:"seatIds,omitempty"`
	Reason  string   `json:"reason"`
}

type statsJSON struct {
	SeatsConsidered int `json:"seatsConsidered"`
	SeatsFilled     int `json:"seatsFilled"`
	SeatsEmpty      int `json:"seatsEmpty"`
	UnplacedGuests  int `json:"unplacedGuests"`
	TogetherMoves   int `json:"togetherMoves"`
	AwayMoves       int `json:"awayMoves"`
}

type arrangementJSON struct {
	Scenario   string          `json:"scenario,omitempty"`
	Tables     []tableJSON     `json:"tables"`
	Violations []violationJSON `json:"violations"`
	Stats      *statsJSON      `json:"stats,omitempty"`
}

type candidateJSON struct {
	SeatID      string          `json:"seatId"`
	SeatNumber  int             `json:"seatNumber"`
	TableID     string          `json:"tableId"`
	TableNumber int             `json:"tableNumber"`
	GuestID     string          `json:"guestId"`
	Delta       int             `json:"delta"`
	Violations  []violationJSON `json:"violations"`
}

type swapsJSON struct {
	SourceSeatID  string          `json:"sourceSeatId"`
	SourceGuestID string          `json:"sourceGuestId"`
	Baseline      int             `json:"baseline"`
	Perfect       []candidateJSON `json:"perfect"`
	Imperfect     []candidateJSON `json:"imperfect"`
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toTablesJSON(tables []seating.Table) []tableJSON {
	out := make([]tableJSON, 0, len(tables))
	for _, t := range orderedTables(tables) {
		tj := tableJSON{ID: t.ID, Number: t.Number, Seats: make([]seatJSON, 0, len(t.Seats))}
		for _, s := range t.Seats {
			tj.Seats = append(tj.Seats, seatJSON{ID: s.ID, Number: s.Number, Mode: string(s.Mode), Locked: s.Locked, GuestID: s.GuestID})
		}
		out = append(out, tj)
	}
	return out
}

func toViolationsJSON(violations []seating.Violation) []violationJSON {
	out := make([]violationJSON, 0, len(violations))
	for _, v := range violations {
		out = append(out, violationJSON{
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

func toCandidatesJSON(candidates []seating.SwapCandidate) []candidateJSON {
	out := make([]candidateJSON, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, candidateJSON{
			SeatID:      c.SeatID,
			SeatNumber:  c.SeatNumber,
			TableID:     c.TableID,
			TableNumber: c.TableNumber,
			GuestID:     c.GuestID,
			Delta:       c.Delta,
			Violations:  toViolationsJSON(c.Violations),
		})
	}
	return out
}

// orderedTables returns tables and their seats sorted by number without touching the input.
func orderedTables(tables []seating.Table) []seating.Table {
	out := make([]seating.Table, len(tables))
	for i, t := range tables {
		out[i] = t
		out[i].Seats = append([]seating.Seat(nil), t.Seats...)
		sort.SliceStable(out[i].Seats, func(a, b int) bool { return out[i].Seats[a].Number < out[i].Seats[b].Number })
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Number < out[b].Number })
	return out
}

func renderArrangement(w io.Writer, title string, tables []seating.Table, roster []seating.Guest) {
	guests := make(map[string]seating.Guest, len(roster))
	for _, g := range roster {
		guests[g.ID] = g
	}
	if title != "" {
		fmt.Fprintln(w, styleTitle.Render(title))
	}
	for _, t := range orderedTables(tables) {
		fmt.Fprintln(w, styleTable.Render(fmt.Sprintf("Table %d", t.Number)))
		for _, s := range t.Seats {
			line := fmt.Sprintf("  %3d  ", s.Number)
			if s.GuestID == "" {
				line += styleDim.Render("(empty)")
			} else {
				g, ok := guests[s.GuestID]
				if !ok {
					g = seating.Guest{ID: s.GuestID}
				}
				line += fmt.Sprintf("%s [%s]", g.DisplayName(), g.Population())
			}
			var tags []string
			if s.GuestID != "" && guests[s.GuestID].IsVIP() {
				tags = append(tags, styleWarning.Render("vip"))
			}
			if s.Mode != seating.SeatModeDefault {
				tags = append(tags, string(s.Mode))
			}
			if s.Locked {
				tags = append(tags, styleLocked.Render("locked"))
			}
			if len(tags) > 0 {
				line += "  " + strings.Join(tags, " ")
			}
			fmt.Fprintln(w, line)
		}
	}
}

func renderViolations(w io.Writer, violations []seating.Violation) {
	if len(violations) == 0 {
		fmt.Fprintln(w, styleSuccess.Render("No violations"))
		return
	}
	fmt.Fprintln(w, styleWarning.Render(fmt.Sprintf("%d violation(s)", len(violations))))
	for _, v := range violations {
		fmt.Fprintf(w, "  ! %s\n", v.Reason)
	}
}

func renderStats(w io.Writer, s seating.Stats) {
	fmt.Fprintln(w, styleDim.Render(fmt.Sprintf(
		"seats %d/%d filled, %d empty, %d unplaced, %d together moves, %d away moves",
		s.SeatsFilled, s.SeatsConsidered, s.SeatsEmpty, s.UnplacedGuests, s.TogetherMoves, s.AwayMoves,
	)))
}

func renderCandidates(w io.Writer, label string, candidates []seating.SwapCandidate) {
	fmt.Fprintln(w, styleTable.Render(fmt.Sprintf("%s (%d)", label, len(candidates))))
	for _, c := range candidates {
		fmt.Fprintf(w, "  table %d seat %d  %s  %d violation(s), delta %+d\n",
			c.TableNumber, c.SeatNumber, c.GuestID, len(c.Violations), c.Delta)
	}
}
