package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/seatplan-api/internal/seating"
	appErrors "github.com/noah-isme/seatplan-api/pkg/errors"
	"github.com/noah-isme/seatplan-api/pkg/export"
)

// Export formats supported by the seating chart export.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ChartExport is a rendered seating chart ready to stream.
type ChartExport struct {
	Filename    string
	ContentType string
	Body        []byte
}

var chartHeaders = []string{"Table", "Seat", "Mode", "Locked", "Guest", "Organization", "Population"}

// Export renders the persisted arrangement of a session with its violation list.
func (s *SeatingService) Export(ctx context.Context, sessionID, format string) (*ChartExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	var renderer chartRenderer
	var contentType string
	switch format {
	case ExportFormatCSV:
		renderer, contentType = s.csv, "text/csv"
	case ExportFormatPDF:
		renderer, contentType = s.pdf, "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	state, err := s.loadArrangement(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	data := buildChart(state)
	body, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render seating chart")
	}
	s.logger.Info("seating chart exported",
		zap.String("session_id", sessionID),
		zap.String("format", format),
		zap.Int("rows", len(data.Rows)),
	)

	return &ChartExport{
		Filename:    fmt.Sprintf("seating-%s.%s", sessionID, format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func buildChart(state *arrangement) export.Dataset {
	guests := make(map[string]seating.Guest, len(state.guests))
	for _, g := range state.guests {
		guests[g.ID] = g
	}
	labels := make(map[string]string, len(state.tables))
	for _, t := range state.tables {
		if t.Label != nil && strings.TrimSpace(*t.Label) != "" {
			labels[t.ID] = *t.Label
		}
	}

	tables := make([]seating.Table, len(state.layout))
	copy(tables, state.layout)
	sort.SliceStable(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })

	rows := make([][]string, 0)
	for _, table := range tables {
		name := strconv.Itoa(table.Number)
		if label, ok := labels[table.ID]; ok {
			name = fmt.Sprintf("%d (%s)", table.Number, label)
		}
		seats := make([]seating.Seat, len(table.Seats))
		copy(seats, table.Seats)
		sort.SliceStable(seats, func(i, j int) bool { return seats[i].Number < seats[j].Number })
		for _, seat := range seats {
			row := []string{name, strconv.Itoa(seat.Number), string(seat.Mode), strconv.FormatBool(seat.Locked)}
			if seat.GuestID != "" {
				g, ok := guests[seat.GuestID]
				if !ok {
					g = seating.Guest{ID: seat.GuestID}
				}
				row = append(row, g.DisplayName(), g.Organization, string(g.Population()))
			}
			rows = append(rows, row)
		}
	}

	violations := state.violations()
	notes := make([]string, 0, len(violations))
	for _, v := range violations {
		notes = append(notes, v.Reason)
	}

	return export.Dataset{
		Title:   fmt.Sprintf("Seating chart: %s", state.session.Name),
		Headers: chartHeaders,
		Rows:    rows,
		Notes:   notes,
	}
}
