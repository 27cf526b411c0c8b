package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/seatplan-api/internal/dto"
	"github.com/noah-isme/seatplan-api/internal/service"
	appErrors "github.com/noah-isme/seatplan-api/pkg/errors"
	"github.com/noah-isme/seatplan-api/pkg/response"
)

type seatingService interface {
	Generate(ctx context.Context, sessionID string, req dto.GenerateSeatingRequest) (*dto.SeatingProposalResponse, error)
	Apply(ctx context.Context, proposalID, actorID string) (*dto.ApplySeatingResponse, error)
	Violations(ctx context.Context, sessionID string) (*dto.ViolationReport, error)
	SwapCandidates(ctx context.Context, sessionID, seatID string) (*dto.SwapCandidatesResponse, error)
	Swap(ctx context.Context, sessionID string, req dto.SwapSeatsRequest, actorID string) (*dto.SwapSeatsResponse, error)
	Export(ctx context.Context, sessionID, format string) (*service.ChartExport, error)
}

// SeatingHandler exposes seat assignment endpoints.
type SeatingHandler struct {
	service seatingService
}

// NewSeatingHandler constructs the handler.
func NewSeatingHandler(svc *service.SeatingService) *SeatingHandler {
	return &SeatingHandler{service: svc}
}

// Generate godoc
// @Summary Generate a seating proposal
// @Description Runs placement, sit-together and sit-away passes over the session layout. The proposal is not persisted until applied.
// @Tags Seating
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param payload body dto.GenerateSeatingRequest false "Sort and table rules"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /sessions/{sessionId}/seating/generate [post]
func (h *SeatingHandler) Generate(c *gin.Context) {
	var req dto.GenerateSeatingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), c.Param("sessionId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, map[string]interface{}{"mode": "preview"})
}

// Apply godoc
// @Summary Apply a seating proposal
// @Tags Seating
// @Produce json
// @Param proposalId path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /seating/proposals/{proposalId}/apply [post]
func (h *SeatingHandler) Apply(c *gin.Context) {
	result, err := h.service.Apply(c.Request.Context(), c.Param("proposalId"), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Violations godoc
// @Summary List proximity rule violations of the current arrangement
// @Tags Seating
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{sessionId}/seating/violations [get]
func (h *SeatingHandler) Violations(c *gin.Context) {
	report, err := h.service.Violations(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, map[string]interface{}{"count": report.Count})
}

// SwapCandidates godoc
// @Summary List swap partners for a seat
// @Description Perfect candidates leave no violation; imperfect ones are ordered by resulting violation count.
// @Tags Seating
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param seatId path string true "Seat ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions/{sessionId}/seating/seats/{seatId}/swaps [get]
func (h *SeatingHandler) SwapCandidates(c *gin.Context) {
	result, err := h.service.SwapCandidates(c.Request.Context(), c.Param("sessionId"), c.Param("seatId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Swap godoc
// @Summary Exchange the occupants of two seats
// @Tags Seating
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param payload body dto.SwapSeatsRequest true "Seats to swap"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /sessions/{sessionId}/seating/swap [post]
func (h *SeatingHandler) Swap(c *gin.Context) {
	var req dto.SwapSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid swap payload"))
		return
	}
	result, err := h.service.Swap(c.Request.Context(), c.Param("sessionId"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Export godoc
// @Summary Export the seating chart
// @Tags Seating
// @Produce text/csv
// @Produce application/pdf
// @Param sessionId path string true "Session ID"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Router /sessions/{sessionId}/seating/export [get]
func (h *SeatingHandler) Export(c *gin.Context) {
	var query dto.ExportSeatingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	chart, err := h.service.Export(c.Request.Context(), c.Param("sessionId"), query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(chart.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, chart.ContentType, chart.Body)
}
