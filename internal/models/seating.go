package models

import (
	"time"

	"github.com/lib/pq"
)

// SeatingSession is one event whose guests are arranged across tables.
type SeatingSession struct {
	ID                   string    `db:"id" json:"id"`
	Name                 string    `db:"name" json:"name"`
	EventDate            time.Time `db:"event_date" json:"eventDate"`
	RatioEnabled         bool      `db:"ratio_enabled" json:"ratioEnabled"`
	RatioInternal        int       `db:"ratio_internal" json:"ratioInternal"`
	RatioExternal        int       `db:"ratio_external" json:"ratioExternal"`
	SpacingEnabled       bool      `db:"spacing_enabled" json:"spacingEnabled"`
	Spacing              int       `db:"spacing" json:"spacing"`
	SpacingStartInternal bool      `db:"spacing_start_internal" json:"spacingStartInternal"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time `db:"updated_at" json:"updatedAt"`
}

// SeatingTable is a physical table within a session.
type SeatingTable struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"sessionId"`
	Number    int       `db:"number" json:"number"`
	Label     *string   `db:"label" json:"label,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Seat modes as stored in seats.mode.
const (
	SeatModeDefault      = "default"
	SeatModeInternalOnly = "internal_only"
	SeatModeExternalOnly = "external_only"
)

// Seat is a persisted seat row. Adjacent holds neighbouring seat IDs as a text[] column.
type Seat struct {
	ID        string         `db:"id" json:"id"`
	TableID   string         `db:"table_id" json:"tableId"`
	Number    int            `db:"number" json:"number"`
	Mode      string         `db:"mode" json:"mode"`
	Locked    bool           `db:"locked" json:"locked"`
	GuestID   *string        `db:"guest_id" json:"guestId,omitempty"`
	Adjacent  pq.StringArray `db:"adjacent" json:"adjacent"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// Guest is an attendee of a session. Soft-deleted guests carry DeletedAt.
type Guest struct {
	ID           string     `db:"id" json:"id"`
	SessionID    string     `db:"session_id" json:"sessionId"`
	Name         string     `db:"name" json:"name"`
	Country      string     `db:"country" json:"country"`
	Organization string     `db:"organization" json:"organization"`
	Ranking      int        `db:"ranking" json:"ranking"`
	Internal     bool       `db:"internal" json:"internal"`
	DeletedAt    *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// ProximityRuleKind discriminates proximity rule rows.
type ProximityRuleKind string

const (
	ProximitySitTogether ProximityRuleKind = "sit_together"
	ProximitySitAway     ProximityRuleKind = "sit_away"
)

// ProximityRule is a pairwise constraint between two guests of a session.
type ProximityRule struct {
	ID        string            `db:"id" json:"id"`
	SessionID string            `db:"session_id" json:"sessionId"`
	Kind      ProximityRuleKind `db:"kind" json:"kind"`
	GuestA    string            `db:"guest_a" json:"guestA"`
	GuestB    string            `db:"guest_b" json:"guestB"`
	CreatedAt time.Time         `db:"created_at" json:"createdAt"`
}
