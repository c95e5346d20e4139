package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/calculator"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/metrics"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/middleware"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/money"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/storage"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/tripclient"
	"github.com/smile1346/travel-card-phase2-splitspending/pkg/api"
	"github.com/smile1346/travel-card-phase2-splitspending/pkg/api/apiconnect"
)

var _ apiconnect.SplitServiceHandler = (*SplitService)(nil)

// SplitService implements the Connect SplitService
type SplitService struct {
	store   storage.Store
	trips   tripclient.TripChecker
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewSplitService creates a new SplitService. A nil trips checker accepts
// every trip; nil metrics record nothing.
func NewSplitService(store storage.Store, trips tripclient.TripChecker, m *metrics.Metrics) *SplitService {
	if trips == nil {
		trips = tripclient.AllowAll{}
	}
	return &SplitService{store: store, trips: trips, metrics: m, now: time.Now}
}

// splitParams are the shared inputs of create, update and preview.
type splitParams struct {
	total        decimal.Decimal
	currency     string
	splitType    string
	participants []api.ParticipantInput
}

// calculate validates the common inputs and computes shares.
func (s *SplitService) calculate(p splitParams) (string, models.SplitType, []models.ParticipantShare, error) {
	splitType, ok := models.ParseSplitType(p.splitType)
	if !ok {
		err := fmt.Errorf("%w: unknown split type %q", models.ErrInvalidInput, p.splitType)
		s.metrics.CalculationFailed(errorKind(err))
		return "", "", nil, err
	}
	currency, err := money.NormalizeCurrency(p.currency)
	if err != nil {
		s.metrics.CalculationFailed(errorKind(err))
		return "", "", nil, err
	}

	shares, err := calculator.CalculateShares(p.total, currency, splitType, toInputs(p.participants))
	if err != nil {
		s.metrics.CalculationFailed(errorKind(err))
		return "", "", nil, err
	}
	s.metrics.SharesCalculated(string(splitType))
	return currency, splitType, shares, nil
}

// checkTrip asks the trip service whether tripID exists.
func (s *SplitService) checkTrip(ctx context.Context, tripID string) error {
	exists, err := s.trips.TripExists(ctx, tripID)
	if err != nil {
		return connect.NewError(connect.CodeUnavailable, fmt.Errorf("trip validation failed: %w", err))
	}
	if !exists {
		return fmt.Errorf("%w: trip not found: %s", models.ErrInvalidInput, tripID)
	}
	return nil
}

// payerName returns the supplied name, or the authenticated member's name
// when the payer is the caller and no name was given.
func payerName(ctx context.Context, payerID, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if payerID == middleware.GetMemberID(ctx) {
		return middleware.GetMemberName(ctx)
	}
	return ""
}

// PreviewShares computes shares without persisting anything.
func (s *SplitService) PreviewShares(ctx context.Context, req *connect.Request[api.PreviewSharesRequest]) (*connect.Response[api.PreviewSharesResponse], error) {
	_, _, shares, err := s.calculate(splitParams{
		total:        req.Msg.TotalAmount,
		currency:     req.Msg.Currency,
		splitType:    req.Msg.SplitType,
		participants: req.Msg.Participants,
	})
	if err != nil {
		return nil, fail("PreviewShares", err)
	}
	return connect.NewResponse(&api.PreviewSharesResponse{
		Participants: toAPIShares(shares),
	}), nil
}

// CreateSplit validates the trip, computes shares and stores the split.
func (s *SplitService) CreateSplit(ctx context.Context, req *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error) {
	msg := req.Msg
	tripID := strings.TrimSpace(msg.TripID)
	if tripID == "" {
		return nil, fail("CreateSplit", fmt.Errorf("%w: trip_id required", models.ErrInvalidInput))
	}
	payerID := strings.TrimSpace(msg.PayerID)
	if payerID == "" {
		return nil, fail("CreateSplit", fmt.Errorf("%w: payer_id required", models.ErrInvalidInput), "trip_id", tripID)
	}

	currency, splitType, shares, err := s.calculate(splitParams{
		total:        msg.TotalAmount,
		currency:     msg.Currency,
		splitType:    msg.SplitType,
		participants: msg.Participants,
	})
	if err != nil {
		return nil, fail("CreateSplit", err, "trip_id", tripID)
	}
	if err := s.checkTrip(ctx, tripID); err != nil {
		return nil, fail("CreateSplit", err, "trip_id", tripID)
	}

	split := &models.Split{
		TransactionID: msg.TransactionID,
		TripID:        tripID,
		TotalAmount:   msg.TotalAmount,
		Currency:      currency,
		SplitType:     splitType,
		PayerID:       payerID,
		PayerName:     payerName(ctx, payerID, msg.PayerName),
		Participants:  shares,
		Tags:          tagsFromNames(msg.Tags),
	}
	if err := s.store.CreateSplit(ctx, split); err != nil {
		return nil, fail("CreateSplit", err, "trip_id", tripID)
	}

	slog.Info("Split created",
		"split_id", split.ID,
		"trip_id", tripID,
		"split_type", splitType,
		"participants", len(shares),
		"member_id", middleware.GetMemberID(ctx),
	)
	return connect.NewResponse(&api.CreateSplitResponse{Split: toAPISplit(split)}), nil
}

// GetSplit retrieves a split by ID from storage.
func (s *SplitService) GetSplit(ctx context.Context, req *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error) {
	if req.Msg.SplitID == "" {
		return nil, fail("GetSplit", fmt.Errorf("%w: split_id required", models.ErrInvalidInput))
	}
	split, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		return nil, fail("GetSplit", err, "split_id", req.Msg.SplitID)
	}
	return connect.NewResponse(&api.GetSplitResponse{Split: toAPISplit(split)}), nil
}

// ListSplitsByTrip retrieves all splits of a trip in creation order.
func (s *SplitService) ListSplitsByTrip(ctx context.Context, req *connect.Request[api.ListSplitsByTripRequest]) (*connect.Response[api.ListSplitsByTripResponse], error) {
	if req.Msg.TripID == "" {
		return nil, fail("ListSplitsByTrip", fmt.Errorf("%w: trip_id required", models.ErrInvalidInput))
	}
	splits, err := s.store.ListSplitsByTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("ListSplitsByTrip", err, "trip_id", req.Msg.TripID)
	}

	out := make([]api.Split, len(splits))
	for i := range splits {
		out[i] = *toAPISplit(&splits[i])
	}
	return connect.NewResponse(&api.ListSplitsByTripResponse{Splits: out}), nil
}

// UpdateSplit recomputes the whole participant list of an existing split.
// A member whose share amount is unchanged keeps their paid status.
func (s *SplitService) UpdateSplit(ctx context.Context, req *connect.Request[api.UpdateSplitRequest]) (*connect.Response[api.UpdateSplitResponse], error) {
	msg := req.Msg
	if msg.SplitID == "" {
		return nil, fail("UpdateSplit", fmt.Errorf("%w: split_id required", models.ErrInvalidInput))
	}
	payerID := strings.TrimSpace(msg.PayerID)
	if payerID == "" {
		return nil, fail("UpdateSplit", fmt.Errorf("%w: payer_id required", models.ErrInvalidInput), "split_id", msg.SplitID)
	}

	existing, err := s.store.GetSplit(ctx, msg.SplitID)
	if err != nil {
		return nil, fail("UpdateSplit", err, "split_id", msg.SplitID)
	}

	currency, splitType, shares, err := s.calculate(splitParams{
		total:        msg.TotalAmount,
		currency:     msg.Currency,
		splitType:    msg.SplitType,
		participants: msg.Participants,
	})
	if err != nil {
		return nil, fail("UpdateSplit", err, "split_id", msg.SplitID)
	}
	carryPaidStatus(existing.Participants, shares)

	existing.TransactionID = msg.TransactionID
	existing.TotalAmount = msg.TotalAmount
	existing.Currency = currency
	existing.SplitType = splitType
	existing.PayerID = payerID
	existing.PayerName = payerName(ctx, payerID, msg.PayerName)
	existing.Participants = shares
	existing.Tags = tagsFromNames(msg.Tags)

	if err := s.store.UpdateSplit(ctx, existing); err != nil {
		return nil, fail("UpdateSplit", err, "split_id", msg.SplitID)
	}

	slog.Info("Split updated", "split_id", existing.ID, "trip_id", existing.TripID, "split_type", splitType)
	return connect.NewResponse(&api.UpdateSplitResponse{Split: toAPISplit(existing)}), nil
}

// carryPaidStatus copies IDs and paid flags from old shares to new shares of
// the same member when the amount did not change.
func carryPaidStatus(old, updated []models.ParticipantShare) {
	byMember := make(map[string]models.ParticipantShare, len(old))
	for _, p := range old {
		byMember[p.MemberID] = p
	}
	for i := range updated {
		prev, ok := byMember[updated[i].MemberID]
		if !ok || !prev.ShareAmount.Equal(updated[i].ShareAmount) {
			continue
		}
		updated[i].ID = prev.ID
		updated[i].IsPaid = prev.IsPaid
		updated[i].PaidAt = prev.PaidAt
	}
}

// DeleteSplit deletes a split.
func (s *SplitService) DeleteSplit(ctx context.Context, req *connect.Request[api.DeleteSplitRequest]) (*connect.Response[api.DeleteSplitResponse], error) {
	if req.Msg.SplitID == "" {
		return nil, fail("DeleteSplit", fmt.Errorf("%w: split_id required", models.ErrInvalidInput))
	}
	if err := s.store.DeleteSplit(ctx, req.Msg.SplitID); err != nil {
		return nil, fail("DeleteSplit", err, "split_id", req.Msg.SplitID)
	}
	slog.Info("Split deleted", "split_id", req.Msg.SplitID)
	return connect.NewResponse(&api.DeleteSplitResponse{}), nil
}

// MarkParticipantPaid records that a participant has paid their share.
func (s *SplitService) MarkParticipantPaid(ctx context.Context, req *connect.Request[api.MarkParticipantPaidRequest]) (*connect.Response[api.MarkParticipantPaidResponse], error) {
	if req.Msg.ParticipantID == "" {
		return nil, fail("MarkParticipantPaid", fmt.Errorf("%w: participant_id required", models.ErrInvalidInput))
	}
	share, err := s.store.MarkParticipantPaid(ctx, req.Msg.ParticipantID, s.now())
	if err != nil {
		return nil, fail("MarkParticipantPaid", err, "participant_id", req.Msg.ParticipantID)
	}
	out := toAPIShare(*share)
	return connect.NewResponse(&api.MarkParticipantPaidResponse{Participant: &out}), nil
}

// ListTags returns every known tag.
func (s *SplitService) ListTags(ctx context.Context, req *connect.Request[api.ListTagsRequest]) (*connect.Response[api.ListTagsResponse], error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fail("ListTags", err)
	}
	return connect.NewResponse(&api.ListTagsResponse{Tags: toAPITags(tags)}), nil
}
