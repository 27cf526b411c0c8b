package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/noah-isme/seatplan-api/internal/seating"
)

// Scenario is an offline seating problem read from a TOML file.
type Scenario struct {
	Name     string          `toml:"name"`
	Sort     []scenarioSort  `toml:"sort"`
	Ratio    scenarioRatio   `toml:"ratio"`
	Spacing  scenarioSpacing `toml:"spacing"`
	Tables   []scenarioTable `toml:"tables"`
	Guests   []scenarioGuest `toml:"guests"`
	Together [][]string      `toml:"together"`
	Away     [][]string      `toml:"away"`
}

type scenarioSort struct {
	Field     string `toml:"field"`
	Direction string `toml:"direction"`
}

type scenarioRatio struct {
	Enabled  bool `toml:"enabled"`
	Internal int  `toml:"internal"`
	External int  `toml:"external"`
}

type scenarioSpacing struct {
	Enabled           bool `toml:"enabled"`
	Spacing           int  `toml:"spacing"`
	StartWithInternal bool `toml:"start_with_internal"`
}

// scenarioTable either lists its seats or sets Size for a round table whose seats
// <id>-s<n> are numbered 1..Size and adjacent in a ring. Seats entries then override the
// generated seat with the same number.
type scenarioTable struct {
	ID     string         `toml:"id"`
	Number int            `toml:"number"`
	Size   int            `toml:"size"`
	Seats  []scenarioSeat `toml:"seats"`
}

type scenarioSeat struct {
	ID       string   `toml:"id"`
	Number   int      `toml:"number"`
	Mode     string   `toml:"mode"`
	Locked   bool     `toml:"locked"`
	Guest    string   `toml:"guest"`
	Adjacent []string `toml:"adjacent"`
}

type scenarioGuest struct {
	ID           string `toml:"id"`
	Name         string `toml:"name"`
	Country      string `toml:"country"`
	Organization string `toml:"organization"`
	Ranking      int    `toml:"ranking"`
	Internal     bool   `toml:"internal"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

// ParseScenario decodes TOML scenario content.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := toml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if len(sc.Tables) == 0 {
		return nil, fmt.Errorf("scenario has no tables")
	}
	seen := map[string]struct{}{}
	for i, t := range sc.Tables {
		if t.ID == "" {
			return nil, fmt.Errorf("table %d has no id", i+1)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("duplicate table id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	for _, pair := range append(append([][]string{}, sc.Together...), sc.Away...) {
		if len(pair) != 2 {
			return nil, fmt.Errorf("proximity pair %v must name exactly two guests", pair)
		}
	}
	if err := seating.ValidateRules(sc.proximity()); err != nil {
		return nil, err
	}
	for _, s := range sc.Sort {
		if _, err := seating.ParseSortRule(s.Field, s.Direction); err != nil {
			return nil, err
		}
	}
	return &sc, nil
}

func (sc *Scenario) proximity() seating.ProximityRules {
	var rules seating.ProximityRules
	for _, p := range sc.Together {
		rules.SitTogether = append(rules.SitTogether, seating.Pair{A: p[0], B: p[1]})
	}
	for _, p := range sc.Away {
		rules.SitAway = append(rules.SitAway, seating.Pair{A: p[0], B: p[1]})
	}
	return rules
}

// Layout returns the table graph with pre-assigned guests in place.
func (sc *Scenario) Layout() []seating.Table {
	tables := make([]seating.Table, 0, len(sc.Tables))
	for _, t := range sc.Tables {
		tables = append(tables, t.build())
	}
	return tables
}

func (t scenarioTable) build() seating.Table {
	table := seating.Table{ID: t.ID, Number: t.Number}
	byNumber := map[int]int{}
	for n := 1; n <= t.Size; n++ {
		prev := (n+t.Size-2)%t.Size + 1
		next := n%t.Size + 1
		var adjacent []string
		if t.Size > 1 {
			adjacent = []string{ringSeatID(t.ID, prev), ringSeatID(t.ID, next)}
		}
		byNumber[n] = len(table.Seats)
		table.Seats = append(table.Seats, seating.Seat{
			ID:       ringSeatID(t.ID, n),
			TableID:  t.ID,
			Number:   n,
			Mode:     seating.SeatModeDefault,
			Adjacent: adjacent,
		})
	}
	for _, s := range t.Seats {
		if i, ok := byNumber[s.Number]; ok {
			seat := &table.Seats[i]
			seat.Mode = seating.ParseSeatMode(s.Mode)
			seat.Locked = s.Locked
			seat.GuestID = s.Guest
			if len(s.Adjacent) > 0 {
				seat.Adjacent = s.Adjacent
			}
			continue
		}
		id := s.ID
		if id == "" {
			id = ringSeatID(t.ID, s.Number)
		}
		table.Seats = append(table.Seats, seating.Seat{
			ID:       id,
			TableID:  t.ID,
			Number:   s.Number,
			Mode:     seating.ParseSeatMode(s.Mode),
			Locked:   s.Locked,
			GuestID:  s.Guest,
			Adjacent: s.Adjacent,
		})
	}
	sort.SliceStable(table.Seats, func(i, j int) bool { return table.Seats[i].Number < table.Seats[j].Number })
	return table
}

func ringSeatID(tableID string, n int) string {
	return fmt.Sprintf("%s-s%d", tableID, n)
}

// Roster returns every guest of the scenario.
func (sc *Scenario) Roster() []seating.Guest {
	out := make([]seating.Guest, 0, len(sc.Guests))
	for _, g := range sc.Guests {
		out = append(out, seating.Guest{
			ID:           g.ID,
			Name:         g.Name,
			Country:      g.Country,
			Organization: g.Organization,
			Ranking:      g.Ranking,
			Internal:     g.Internal,
		})
	}
	return out
}

// Request builds the engine input for a fresh run.
func (sc *Scenario) Request() seating.Request {
	req := seating.Request{
		Tables:    sc.Layout(),
		Proximity: sc.proximity(),
		TableRules: seating.TableRules{
			Ratio:   seating.RatioRule{Enabled: sc.Ratio.Enabled, Internal: sc.Ratio.Internal, External: sc.Ratio.External},
			Spacing: seating.SpacingRule{Enabled: sc.Spacing.Enabled, Spacing: sc.Spacing.Spacing, StartWithInternal: sc.Spacing.StartWithInternal},
		},
	}
	for _, s := range sc.Sort {
		rule, _ := seating.ParseSortRule(s.Field, s.Direction)
		req.SortRules = append(req.SortRules, rule)
	}
	for _, g := range sc.Roster() {
		if g.Internal {
			req.Internal = append(req.Internal, g)
		} else {
			req.External = append(req.External, g)
		}
	}
	return req
}
