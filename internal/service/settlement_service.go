package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/calculator"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/metrics"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/money"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/storage"
	"github.com/smile1346/travel-card-phase2-splitspending/pkg/api"
	"github.com/smile1346/travel-card-phase2-splitspending/pkg/api/apiconnect"
)

var _ apiconnect.SettlementServiceHandler = (*SettlementService)(nil)

// SettlementService implements the Connect SettlementService.
type SettlementService struct {
	store   storage.Store
	metrics *metrics.Metrics
	now     func() time.Time

	// mu serializes recalculation and status transitions.
	mu sync.Mutex
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store storage.Store, m *metrics.Metrics) *SettlementService {
	return &SettlementService{store: store, metrics: m, now: time.Now}
}

// CalculateSettlements recomputes the trip's pending transfers. Completed
// settlements count as already paid; previously pending ones are cancelled.
func (s *SettlementService) CalculateSettlements(ctx context.Context, req *connect.Request[api.CalculateSettlementsRequest]) (*connect.Response[api.CalculateSettlementsResponse], error) {
	tripID := strings.TrimSpace(req.Msg.TripID)
	if tripID == "" {
		return nil, fail("CalculateSettlements", fmt.Errorf("%w: trip_id required", models.ErrInvalidInput))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	splits, existing, err := s.store.TripSnapshot(ctx, tripID)
	if err != nil {
		return nil, fail("CalculateSettlements", err, "trip_id", tripID)
	}

	start := time.Now()
	proposed, err := calculator.SettleWithPayments(tripID, splits, existing)
	if err != nil {
		s.metrics.CalculationFailed(errorKind(err))
		return nil, fail("CalculateSettlements", err, "trip_id", tripID)
	}
	s.metrics.SettlementsComputed(len(proposed), time.Since(start))

	stored, err := s.store.ReplacePendingSettlements(ctx, tripID, proposed, s.now())
	if err != nil {
		return nil, fail("CalculateSettlements", err, "trip_id", tripID)
	}

	slog.Info("Settlements calculated",
		"trip_id", tripID,
		"splits", len(splits),
		"transfers", len(stored),
	)
	return connect.NewResponse(&api.CalculateSettlementsResponse{
		Settlements: toAPISettlements(stored),
	}), nil
}

// ListSettlements returns the trip's settlements, optionally filtered by status.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	if req.Msg.TripID == "" {
		return nil, fail("ListSettlements", fmt.Errorf("%w: trip_id required", models.ErrInvalidInput))
	}
	var status models.SettlementStatus
	if req.Msg.Status != "" {
		status = models.SettlementStatus(strings.ToUpper(req.Msg.Status))
		switch status {
		case models.SettlementStatusPending, models.SettlementStatusCompleted, models.SettlementStatusCancelled:
		default:
			return nil, fail("ListSettlements", fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, req.Msg.Status))
		}
	}

	all, err := s.store.ListSettlementsByTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("ListSettlements", err, "trip_id", req.Msg.TripID)
	}
	out := make([]models.Settlement, 0, len(all))
	for _, st := range all {
		if status == "" || st.Status == status {
			out = append(out, st)
		}
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: toAPISettlements(out)}), nil
}

// CompleteSettlement marks a pending settlement as paid.
func (s *SettlementService) CompleteSettlement(ctx context.Context, req *connect.Request[api.CompleteSettlementRequest]) (*connect.Response[api.CompleteSettlementResponse], error) {
	st, err := s.transition(ctx, req.Msg.SettlementID, (*models.Settlement).Complete)
	if err != nil {
		return nil, fail("CompleteSettlement", err, "settlement_id", req.Msg.SettlementID)
	}
	slog.Info("Settlement completed", "settlement_id", st.ID, "trip_id", st.TripID, "amount", st.Amount)
	out := toAPISettlement(*st)
	return connect.NewResponse(&api.CompleteSettlementResponse{Settlement: &out}), nil
}

// CancelSettlement cancels a pending settlement.
func (s *SettlementService) CancelSettlement(ctx context.Context, req *connect.Request[api.CancelSettlementRequest]) (*connect.Response[api.CancelSettlementResponse], error) {
	st, err := s.transition(ctx, req.Msg.SettlementID, (*models.Settlement).Cancel)
	if err != nil {
		return nil, fail("CancelSettlement", err, "settlement_id", req.Msg.SettlementID)
	}
	slog.Info("Settlement cancelled", "settlement_id", st.ID, "trip_id", st.TripID)
	out := toAPISettlement(*st)
	return connect.NewResponse(&api.CancelSettlementResponse{Settlement: &out}), nil
}

// transition loads a settlement, applies move and persists the result.
func (s *SettlementService) transition(ctx context.Context, id string, move func(*models.Settlement, time.Time) error) (*models.Settlement, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: settlement_id required", models.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.store.GetSettlement(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := move(st, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSettlementStatus(ctx, st.ID, st.Status, st.SettledAt); err != nil {
		return nil, err
	}
	return st, nil
}

// GetBalances reports every member's paid, owed and net amounts for a trip.
func (s *SettlementService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	if req.Msg.TripID == "" {
		return nil, fail("GetBalances", fmt.Errorf("%w: trip_id required", models.ErrInvalidInput))
	}

	splits, settlements, err := s.store.TripSnapshot(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("GetBalances", err, "trip_id", req.Msg.TripID)
	}

	balances, err := calculator.CalculateBalances(splits, settlements)
	if err != nil {
		return nil, fail("GetBalances", err, "trip_id", req.Msg.TripID)
	}

	var currency string
	if len(splits) > 0 {
		// CalculateBalances has already checked every split uses this code.
		currency, _ = money.NormalizeCurrency(splits[0].Currency)
	}
	return connect.NewResponse(&api.GetBalancesResponse{
		Currency: currency,
		Balances: toAPIBalances(balances),
	}), nil
}
