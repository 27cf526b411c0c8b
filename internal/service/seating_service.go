package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/seatplan-api/internal/dto"
	"github.com/noah-isme/seatplan-api/internal/events"
	"github.com/noah-isme/seatplan-api/internal/models"
	"github.com/noah-isme/seatplan-api/internal/repository"
	"github.com/noah-isme/seatplan-api/internal/seating"
	"github.com/noah-isme/seatplan-api/pkg/database"
	appErrors "github.com/noah-isme/seatplan-api/pkg/errors"
	"github.com/noah-isme/seatplan-api/pkg/export"
)

type seatingSessionReader interface {
	FindByID(ctx context.Context, id string) (*models.SeatingSession, error)
}

type seatStore interface {
	ListTables(ctx context.Context, sessionID string) ([]models.SeatingTable, error)
	ListSeats(ctx context.Context, sessionID string) ([]models.Seat, error)
	LockSeats(ctx context.Context, exec sqlx.ExtContext, sessionID string, seatIDs []string) ([]models.Seat, error)
	LockedOccupied(ctx context.Context, exec sqlx.ExtContext, sessionID string) ([]models.Seat, error)
	ClearUnlocked(ctx context.Context, exec sqlx.ExtContext, sessionID string) (int64, error)
	Assign(ctx context.Context, exec sqlx.ExtContext, assignment map[string]string) error
	Swap(ctx context.Context, exec sqlx.ExtContext, seatA, seatB string) error
}

type guestReader interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Guest, error)
}

type proximityRuleReader interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.ProximityRule, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type chartRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// SeatingConfig governs proposal lifetime and swap listing limits.
type SeatingConfig struct {
	ProposalTTL time.Duration
	SwapLimit   int
}

// SeatingService generates, applies and inspects seat arrangements of a session.
type SeatingService struct {
	sessions  seatingSessionReader
	seats     seatStore
	guests    guestReader
	rules     proximityRuleReader
	tx        txProvider
	cache     *CacheService
	metrics   *MetricsService
	publisher events.Publisher
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SeatingConfig
	store     *proposalStore
	runs      *runGuard
	csv       chartRenderer
	pdf       chartRenderer
	now       func() time.Time
}

// NewSeatingService wires seating dependencies.
func NewSeatingService(
	sessions seatingSessionReader,
	seats seatStore,
	guests guestReader,
	rules proximityRuleReader,
	tx txProvider,
	cacheSvc *CacheService,
	metrics *MetricsService,
	publisher events.Publisher,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg SeatingConfig,
) *SeatingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	if cfg.SwapLimit <= 0 {
		cfg.SwapLimit = 50
	}
	return &SeatingService{
		sessions:  sessions,
		seats:     seats,
		guests:    guests,
		rules:     rules,
		tx:        tx,
		cache:     cacheSvc,
		metrics:   metrics,
		publisher: publisher,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		store:     newProposalStore(cfg.ProposalTTL),
		runs:      newRunGuard(),
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// arrangement is the persisted state of a session as the engine sees it.
type arrangement struct {
	session *models.SeatingSession
	tables  []models.SeatingTable
	layout  []seating.Table
	guests  []seating.Guest
	rules   seating.ProximityRules
}

func (a *arrangement) violations() []seating.Violation {
	return seating.DetectViolations(a.layout, a.rules, a.guests)
}

func (s *SeatingService) loadArrangement(ctx context.Context, sessionID string) (*arrangement, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDBQuery("seating_load", time.Since(start)) }()

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "seating session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seating session")
	}
	tables, err := s.seats.ListTables(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tables")
	}
	seats, err := s.seats.ListSeats(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seats")
	}
	guests, err := s.guests.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guests")
	}
	rules, err := s.rules.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proximity rules")
	}

	proximity := toEngineRules(rules)
	if err := seating.ValidateRules(proximity); err != nil {
		return nil, ruleError(err)
	}

	return &arrangement{
		session: session,
		tables:  tables,
		layout:  toEngineTables(tables, seats),
		guests:  toEngineGuests(guests),
		rules:   proximity,
	}, nil
}

// Generate runs the engine against the persisted layout and stores the result as a proposal.
func (s *SeatingService) Generate(ctx context.Context, sessionID string, req dto.GenerateSeatingRequest) (*dto.SeatingProposalResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid seating generation payload")
	}
	sortRules := make([]seating.SortRule, 0, len(req.SortRules))
	for _, raw := range req.SortRules {
		rule, err := seating.ParseSortRule(raw.Field, raw.Direction)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		sortRules = append(sortRules, rule)
	}

	if !s.runs.acquire(sessionID) {
		s.metrics.ObserveSeatingRun(RunOutcomeRejected, 0, 0, 0)
		return nil, appErrors.ErrRunInProgress
	}
	defer s.runs.release(sessionID)

	state, err := s.loadArrangement(ctx, sessionID)
	if err != nil {
		if appErrors.FromError(err).Status >= 500 {
			s.metrics.ObserveSeatingRun(RunOutcomeFailed, 0, 0, 0)
		} else {
			s.metrics.ObserveSeatingRun(RunOutcomeRejected, 0, 0, 0)
		}
		return nil, err
	}

	clearUnlocked := req.ClearUnlocked == nil || *req.ClearUnlocked
	layout, kept := holdOccupants(state.layout, state.guests, clearUnlocked)
	internal, external := splitPopulations(state.guests)

	start := time.Now()
	result := seating.Run(seating.Request{
		Tables:     layout,
		Internal:   internal,
		External:   external,
		SortRules:  sortRules,
		TableRules: toEngineTableRules(state.session, req.TableRules),
		Proximity:  state.rules,
	})
	duration := time.Since(start)

	assignment := result.Assignment.Clone()
	for seatID, guestID := range kept {
		assignment[seatID] = guestID
	}
	stats := result.Stats
	stats.SeatsConsidered += len(kept)
	stats.SeatsFilled += len(kept)

	now := s.now()
	proposal := seatingProposal{
		ProposalID:  uuid.NewString(),
		SessionID:   sessionID,
		Assignment:  assignment,
		Violations:  result.Violations,
		Stats:       toRunStats(stats, duration.Milliseconds()),
		RequestedAt: now,
	}
	s.store.Save(proposal)

	s.metrics.ObserveSeatingRun(RunOutcomeSuccess, duration, stats.SeatsFilled, len(result.Violations))
	s.logger.Info("seating run completed",
		zap.String("session_id", sessionID),
		zap.String("proposal_id", proposal.ProposalID),
		zap.Int("seats_filled", stats.SeatsFilled),
		zap.Int("unplaced_guests", stats.UnplacedGuests),
		zap.Int("violations", len(result.Violations)),
		zap.Duration("duration", duration),
	)

	return &dto.SeatingProposalResponse{
		ProposalID:  proposal.ProposalID,
		SessionID:   sessionID,
		Assignments: toSeatAssignments(result.Tables, assignment),
		Violations:  toViolationResponses(result.Violations),
		Stats:       proposal.Stats,
		ExpiresAt:   now.Add(s.cfg.ProposalTTL),
	}, nil
}

// holdOccupants marks occupied unlocked seats as locked when existing placements must be
// kept, and returns those placements. Occupants no longer on the active roster are dropped.
func holdOccupants(tables []seating.Table, guests []seating.Guest, clearUnlocked bool) ([]seating.Table, seating.Assignment) {
	kept := seating.Assignment{}
	if clearUnlocked {
		return tables, kept
	}
	active := make(map[string]struct{}, len(guests))
	for _, g := range guests {
		if !g.Deleted {
			active[g.ID] = struct{}{}
		}
	}
	out := make([]seating.Table, len(tables))
	for i, table := range tables {
		out[i] = table
		out[i].Seats = make([]seating.Seat, len(table.Seats))
		copy(out[i].Seats, table.Seats)
		for j := range out[i].Seats {
			seat := &out[i].Seats[j]
			if seat.Locked || seat.GuestID == "" {
				continue
			}
			if _, ok := active[seat.GuestID]; !ok {
				continue
			}
			seat.Locked = true
			kept[seat.ID] = seat.GuestID
		}
	}
	return out, kept
}

// checkLockedGuests rejects an assignment that places a guest who has since been locked
// onto another seat.
func checkLockedGuests(locked []models.Seat, assignment map[string]string) error {
	proposed := make(map[string]string, len(assignment))
	for seatID, guestID := range assignment {
		proposed[guestID] = seatID
	}
	for _, seat := range locked {
		if seat.GuestID == nil {
			continue
		}
		if seatID, ok := proposed[*seat.GuestID]; ok {
			return fmt.Errorf("guest %s locked on seat %s, proposed for %s: %w", *seat.GuestID, seat.ID, seatID, repository.ErrSeatChanged)
		}
	}
	return nil
}

// Apply writes a proposal onto the session's unlocked seats in one transaction.
func (s *SeatingService) Apply(ctx context.Context, proposalID, actorID string) (*dto.ApplySeatingResponse, error) {
	proposal, ok := s.store.Get(proposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	err := database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		locked, err := s.seats.LockedOccupied(ctx, tx, proposal.SessionID)
		if err != nil {
			return err
		}
		if err := checkLockedGuests(locked, proposal.Assignment); err != nil {
			return err
		}
		if _, err := s.seats.ClearUnlocked(ctx, tx, proposal.SessionID); err != nil {
			return err
		}
		return s.seats.Assign(ctx, tx, proposal.Assignment)
	})
	if err != nil {
		if errors.Is(err, repository.ErrSeatChanged) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "seats changed since the proposal was generated")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply seating proposal")
	}
	s.store.Delete(proposalID)
	s.invalidate(ctx, proposal.SessionID)

	appliedAt := s.now()
	violations, err := s.refreshViolations(ctx, proposal.SessionID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.TypeArrangementCommitted,
		SessionID: proposal.SessionID,
		ActorID:   actorID,
		Payload: map[string]any{
			"proposalId":    proposal.ProposalID,
			"seatsAssigned": len(proposal.Assignment),
			"violations":    len(violations),
		},
	})
	s.logger.Info("seating proposal applied",
		zap.String("session_id", proposal.SessionID),
		zap.String("proposal_id", proposalID),
		zap.String("actor_id", actorID),
		zap.Int("seats_assigned", len(proposal.Assignment)),
	)

	return &dto.ApplySeatingResponse{
		ProposalID:    proposalID,
		SessionID:     proposal.SessionID,
		SeatsAssigned: len(proposal.Assignment),
		Violations:    violations,
		AppliedAt:     appliedAt,
	}, nil
}

// Violations reports the rules the persisted arrangement breaks.
func (s *SeatingService) Violations(ctx context.Context, sessionID string) (*dto.ViolationReport, error) {
	key := violationsKey(sessionID)
	var cached dto.ViolationReport
	if s.cache.Lookup(ctx, key, &cached) {
		return &cached, nil
	}

	state, err := s.loadArrangement(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	report := s.buildReport(sessionID, state.violations())
	s.cache.Store(ctx, key, report)
	return report, nil
}

func (s *SeatingService) buildReport(sessionID string, violations []seating.Violation) *dto.ViolationReport {
	return &dto.ViolationReport{
		SessionID:   sessionID,
		Count:       len(violations),
		Violations:  toViolationResponses(violations),
		GeneratedAt: s.now(),
	}
}

// refreshViolations recomputes the report after a write and primes the cache with it.
func (s *SeatingService) refreshViolations(ctx context.Context, sessionID string) ([]dto.ViolationResponse, error) {
	state, err := s.loadArrangement(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	report := s.buildReport(sessionID, state.violations())
	s.cache.Store(ctx, violationsKey(sessionID), report)
	return report.Violations, nil
}

// SwapCandidates lists seats whose occupant could be exchanged with the occupant of seatID.
func (s *SeatingService) SwapCandidates(ctx context.Context, sessionID, seatID string) (*dto.SwapCandidatesResponse, error) {
	key := swapsKey(sessionID, seatID)
	var cached dto.SwapCandidatesResponse
	if s.cache.Lookup(ctx, key, &cached) {
		return &cached, nil
	}

	state, err := s.loadArrangement(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	candidates, err := seating.FindSwapCandidates(state.layout, seatID, state.rules, state.guests)
	if err != nil {
		return nil, seatError(err, seatID)
	}

	perfect, perfectCut := toSwapCandidateResponses(candidates.Perfect, s.cfg.SwapLimit)
	imperfect, imperfectCut := toSwapCandidateResponses(candidates.Imperfect, s.cfg.SwapLimit)
	resp := &dto.SwapCandidatesResponse{
		SessionID:     sessionID,
		SourceSeatID:  candidates.SourceSeatID,
		SourceGuestID: candidates.SourceGuestID,
		Baseline:      candidates.Baseline,
		Perfect:       perfect,
		Imperfect:     imperfect,
		Truncated:     perfectCut || imperfectCut,
	}
	s.cache.Store(ctx, key, resp)
	return resp, nil
}

// Swap exchanges the occupants of two seats. Either both seats change or neither does.
func (s *SeatingService) Swap(ctx context.Context, sessionID string, req dto.SwapSeatsRequest, actorID string) (*dto.SwapSeatsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid swap payload")
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	guests, err := s.guests.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guests")
	}
	roster := toEngineGuests(guests)

	err = database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		rows, err := s.seats.LockSeats(ctx, tx, sessionID, []string{req.SeatA, req.SeatB})
		if err != nil {
			return err
		}
		if err := seating.CanExchange(toEngineTables(nil, rows), req.SeatA, req.SeatB, roster); err != nil {
			return err
		}
		return s.seats.Swap(ctx, tx, req.SeatA, req.SeatB)
	})
	if err != nil {
		if errors.Is(err, repository.ErrSeatChanged) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "seats changed during the swap")
		}
		return nil, seatError(err, req.SeatA+"/"+req.SeatB)
	}
	s.metrics.RecordSwap()
	s.invalidate(ctx, sessionID)

	violations, err := s.refreshViolations(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:      events.TypeSeatsSwapped,
		SessionID: sessionID,
		ActorID:   actorID,
		Payload: map[string]any{
			"seatA":      req.SeatA,
			"seatB":      req.SeatB,
			"violations": len(violations),
		},
	})

	return &dto.SwapSeatsResponse{
		SessionID:  sessionID,
		SeatA:      req.SeatA,
		SeatB:      req.SeatB,
		Violations: violations,
	}, nil
}

func (s *SeatingService) invalidate(ctx context.Context, sessionID string) {
	_ = s.cache.DropSession(ctx, sessionID)
}

func (s *SeatingService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("seating event not published",
			zap.String("type", event.Type),
			zap.String("session_id", event.SessionID),
			zap.Error(err),
		)
	}
}

func ruleError(err error) error {
	switch {
	case errors.Is(err, seating.ErrConflictingRules):
		return appErrors.Wrap(err, appErrors.ErrRuleConflict.Code, appErrors.ErrRuleConflict.Status, appErrors.ErrRuleConflict.Message)
	case errors.Is(err, seating.ErrInvalidPair):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "proximity rule must name two distinct guests")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate proximity rules")
	}
}

func seatError(err error, seatRef string) error {
	switch {
	case errors.Is(err, seating.ErrSeatNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("seat %s not found", seatRef))
	case errors.Is(err, seating.ErrSeatLocked):
		return appErrors.Clone(appErrors.ErrSeatLocked, fmt.Sprintf("seat %s is locked", seatRef))
	case errors.Is(err, seating.ErrSeatIncompatible):
		return appErrors.Clone(appErrors.ErrSeatIncompatible, "seat mode does not accept the exchanged guest")
	case errors.Is(err, seating.ErrSeatEmpty):
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("seat %s has no occupant", seatRef))
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to swap seats")
	}
}

type seatingProposal struct {
	ProposalID  string
	SessionID   string
	Assignment  seating.Assignment
	Violations  []seating.Violation
	Stats       dto.SeatingRunStats
	RequestedAt time.Time
}

type proposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]seatingProposal
}

func newProposalStore(ttl time.Duration) *proposalStore {
	return &proposalStore{
		ttl:   ttl,
		items: make(map[string]seatingProposal),
	}
}

func (s *proposalStore) Save(proposal seatingProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ProposalID] = proposal
}

func (s *proposalStore) Get(id string) (seatingProposal, bool) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return seatingProposal{}, false
	}
	if time.Since(proposal.RequestedAt) > s.ttl {
		s.Delete(id)
		return seatingProposal{}, false
	}
	return proposal, true
}

func (s *proposalStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// runGuard allows one engine run per session at a time.
type runGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newRunGuard() *runGuard {
	return &runGuard{active: make(map[string]struct{})}
}

func (g *runGuard) acquire(sessionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[sessionID]; busy {
		return false
	}
	g.active[sessionID] = struct{}{}
	return true
}

func (g *runGuard) release(sessionID string) {
	g.mu.Lock()
	delete(g.active, sessionID)
	g.mu.Unlock()
}
