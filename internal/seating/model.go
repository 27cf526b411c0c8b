package seating

import "strings"

// Population distinguishes the two guest groups that seat modes and table rules discriminate between.
type Population string

const (
	PopulationInternal Population = "internal"
	PopulationExternal Population = "external"
)

// SeatMode restricts which population may occupy a seat.
type SeatMode string

const (
	SeatModeDefault      SeatMode = "default"
	SeatModeInternalOnly SeatMode = "internal_only"
	SeatModeExternalOnly SeatMode = "external_only"
)

// ParseSeatMode normalises a stored seat mode, falling back to SeatModeDefault.
func ParseSeatMode(raw string) SeatMode {
	switch SeatMode(strings.ToLower(strings.TrimSpace(raw))) {
	case SeatModeInternalOnly:
		return SeatModeInternalOnly
	case SeatModeExternalOnly:
		return SeatModeExternalOnly
	default:
		return SeatModeDefault
	}
}

// Accepts reports whether a guest of the population may sit on a seat with this mode.
func (m SeatMode) Accepts(p Population) bool {
	switch m {
	case SeatModeInternalOnly:
		return p == PopulationInternal
	case SeatModeExternalOnly:
		return p == PopulationExternal
	default:
		return true
	}
}

// VIPRankingThreshold is the highest ranking still considered VIP.
const VIPRankingThreshold = 4

// Guest is a read-only roster entry. Lower Ranking means more senior.
type Guest struct {
	ID           string
	Name         string
	Country      string
	Organization string
	Ranking      int
	Internal     bool
	Deleted      bool
}

// Population returns the guest's population.
func (g Guest) Population() Population {
	if g.Internal {
		return PopulationInternal
	}
	return PopulationExternal
}

// IsVIP reports whether the guest ranks within the VIP band.
func (g Guest) IsVIP() bool {
	return g.Ranking > 0 && g.Ranking <= VIPRankingThreshold
}

// DisplayName returns the guest name, or the ID when no name is known.
func (g Guest) DisplayName() string {
	if strings.TrimSpace(g.Name) == "" {
		return g.ID
	}
	return g.Name
}

// Seat is a single position at a table. Adjacent lists the physically neighbouring seat IDs.
type Seat struct {
	ID       string
	TableID  string
	Number   int
	Mode     SeatMode
	Locked   bool
	GuestID  string
	Adjacent []string
}

// Occupied reports whether a guest sits on the seat.
func (s Seat) Occupied() bool {
	return s.GuestID != ""
}

// Table groups seats under a display number.
type Table struct {
	ID     string
	Number int
	Seats  []Seat
}

// Pair is an unordered guest pair stored with A <= B.
type Pair struct {
	A string
	B string
}

// NewPair normalises the pair ordering.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Has reports whether the guest belongs to the pair.
func (p Pair) Has(guestID string) bool {
	return p.A == guestID || p.B == guestID
}

// Other returns the partner of guestID within the pair.
func (p Pair) Other(guestID string) string {
	if p.A == guestID {
		return p.B
	}
	return p.A
}

// ProximityRules holds the pairwise sit-together and sit-away constraints.
type ProximityRules struct {
	SitTogether []Pair
	SitAway     []Pair
}

// Empty reports whether no proximity rule is configured.
func (r ProximityRules) Empty() bool {
	return len(r.SitTogether) == 0 && len(r.SitAway) == 0
}

// RatioRule targets an internal:external mix per table.
type RatioRule struct {
	Enabled  bool
	Internal int
	External int
}

// SpacingRule interleaves one internal guest with Spacing external guests.
type SpacingRule struct {
	Enabled           bool
	Spacing           int
	StartWithInternal bool
}

// TableRules is the table-level distribution policy. When both rules are enabled the
// spacing rule is honoured.
type TableRules struct {
	Ratio   RatioRule
	Spacing SpacingRule
}

func (r TableRules) ratioActive() bool {
	return r.Ratio.Enabled && r.Ratio.Internal >= 0 && r.Ratio.External >= 0 && r.Ratio.Internal+r.Ratio.External > 0
}

func (r TableRules) spacingActive() bool {
	return r.Spacing.Enabled
}

// Assignment maps seat IDs to guest IDs for unlocked seats.
type Assignment map[string]string

// Clone returns an independent copy.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for seatID, guestID := range a {
		out[seatID] = guestID
	}
	return out
}

// SeatOf returns the seat holding guestID.
func (a Assignment) SeatOf(guestID string) (string, bool) {
	for seatID, id := range a {
		if id == guestID {
			return seatID, true
		}
	}
	return "", false
}

// ViolationKind tags a violation record.
type ViolationKind string

const (
	ViolationSitTogetherUnmet ViolationKind = "sit_together_unmet"
	ViolationSitAwayBreached  ViolationKind = "sit_away_breached"
)

// Violation reports one proximity rule that the arrangement breaks.
type Violation struct {
	Kind    ViolationKind
	GuestA  string
	GuestB  string
	TableID string
	SeatIDs []string
	Reason  string
}
