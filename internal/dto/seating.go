package dto

import "time"

// SortRuleRequest is one entry of the ordered guest sort list.
type SortRuleRequest struct {
	Field     string `json:"field" validate:"required,oneof=name country organization ranking"`
	Direction string `json:"direction" validate:"omitempty,oneof=asc desc"`
}

// RatioRuleRequest overrides the session ratio rule.
type RatioRuleRequest struct {
	Enabled  bool `json:"enabled"`
	Internal int  `json:"internal" validate:"min=0,max=100"`
	External int  `json:"external" validate:"min=0,max=100"`
}

// SpacingRuleRequest overrides the session spacing rule.
type SpacingRuleRequest struct {
	Enabled           bool `json:"enabled"`
	Spacing           int  `json:"spacing" validate:"min=0,max=50"`
	StartWithInternal bool `json:"startWithInternal"`
}

// TableRulesRequest replaces the persisted table rules for one run when present.
type TableRulesRequest struct {
	Ratio   RatioRuleRequest   `json:"ratio"`
	Spacing SpacingRuleRequest `json:"spacing"`
}

// GenerateSeatingRequest instructs the engine to build a proposal for a session.
type GenerateSeatingRequest struct {
	SortRules  []SortRuleRequest  `json:"sortRules" validate:"omitempty,max=4,dive"`
	TableRules *TableRulesRequest `json:"tableRules"`
	// ClearUnlocked defaults to true. When false, guests already sitting on unlocked seats
	// stay where they are and only empty seats are filled.
	ClearUnlocked *bool `json:"clearUnlocked"`
}

// SeatAssignment is one seat/guest pair of a proposal.
type SeatAssignment struct {
	SeatID  string `json:"seatId"`
	TableID string `json:"tableId"`
	GuestID string `json:"guestId"`
}

// ViolationResponse is a proximity rule the arrangement breaks.
type ViolationResponse struct {
	Kind    string   `json:"kind"`
	GuestA  string   `json:"guestA"`
	GuestB  string   `json:"guestB"`
	TableID string   `json:"tableId,omitempty"`
	SeatIDs []string `json:"seatIds,omitempty"`
	Reason  string   `json:"reason"`
}

// SeatingRunStats summarises what the engine did.
type SeatingRunStats struct {
	SeatsConsidered int   `json:"seatsConsidered"`
	SeatsFilled     int   `json:"seatsFilled"`
	SeatsEmpty      int   `json:"seatsEmpty"`
	UnplacedGuests  int   `json:"unplacedGuests"`
	TogetherMoves   int   `json:"togetherMoves"`
	AwayMoves       int   `json:"awayMoves"`
	DurationMs      int64 `json:"durationMs"`
}

// SeatingProposalResponse returns a generated, not yet applied, arrangement.
type SeatingProposalResponse struct {
	ProposalID  string              `json:"proposalId"`
	SessionID   string              `json:"sessionId"`
	Assignments []SeatAssignment    `json:"assignments"`
	Violations  []ViolationResponse `json:"violations"`
	Stats       SeatingRunStats     `json:"stats"`
	ExpiresAt   time.Time           `json:"expiresAt"`
}

// ApplySeatingResponse reports the arrangement after a proposal is written.
type ApplySeatingResponse struct {
	ProposalID    string              `json:"proposalId"`
	SessionID     string              `json:"sessionId"`
	SeatsAssigned int                 `json:"seatsAssigned"`
	Violations    []ViolationResponse `json:"violations"`
	AppliedAt     time.Time           `json:"appliedAt"`
}

// ViolationReport lists violations of the persisted arrangement.
type ViolationReport struct {
	SessionID   string              `json:"sessionId"`
	Count       int                 `json:"count"`
	Violations  []ViolationResponse `json:"violations"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

// SwapCandidateResponse is one possible exchange partner.
type SwapCandidateResponse struct {
	SeatID      string              `json:"seatId"`
	SeatNumber  int                 `json:"seatNumber"`
	TableID     string              `json:"tableId"`
	TableNumber int                 `json:"tableNumber"`
	GuestID     string              `json:"guestId"`
	Delta       int                 `json:"delta"`
	Violations  []ViolationResponse `json:"violations"`
}

// SwapCandidatesResponse partitions candidates by whether the swap leaves zero violations.
type SwapCandidatesResponse struct {
	SessionID     string                  `json:"sessionId"`
	SourceSeatID  string                  `json:"sourceSeatId"`
	SourceGuestID string                  `json:"sourceGuestId"`
	Baseline      int                     `json:"baseline"`
	Perfect       []SwapCandidateResponse `json:"perfect"`
	Imperfect     []SwapCandidateResponse `json:"imperfect"`
	Truncated     bool                    `json:"truncated"`
}

// SwapSeatsRequest exchanges the occupants of two seats.
type SwapSeatsRequest struct {
	SeatA string `json:"seatA" validate:"required,nefield=SeatB"`
	SeatB string `json:"seatB" validate:"required"`
}

// SwapSeatsResponse reports the arrangement after a swap.
type SwapSeatsResponse struct {
	SessionID  string              `json:"sessionId"`
	SeatA      string              `json:"seatA"`
	SeatB      string              `json:"seatB"`
	Violations []ViolationResponse `json:"violations"`
}

// ExportSeatingQuery selects the export format.
type ExportSeatingQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
