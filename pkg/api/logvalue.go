package api

import "log/slog"

// Request messages implement slog.LogValuer so RPC logs carry the IDs they
// address. Amounts and participant details are left out.

func (r *PreviewSharesRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("split_type", r.SplitType),
		slog.String("currency", r.Currency),
		slog.Int("participants", len(r.Participants)),
	)
}

func (r *CreateSplitRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("trip_id", r.TripID),
		slog.String("payer_id", r.PayerID),
		slog.String("split_type", r.SplitType),
		slog.Int("participants", len(r.Participants)),
	)
}

func (r *GetSplitRequest) LogValue() slog.Value {
	return slog.GroupValue(slog.String("split_id", r.SplitID))
}

func (r *ListSplitsByTripRequest) LogValue() slog.Value {
	return slog.GroupValue(slog.String("trip_id", r.TripID))
}

func (r *UpdateSplitRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("split_id", r.SplitID),
		slog.String("payer_id", r.PayerID),
		slog.String("split_type", r.SplitType),
		slog.Int("participants", len(r.Participants)),
	)
}

func (r *DeleteSplitRequest) LogValue() slog.Value {
	return slog.GroupValue(slog.String("split_id", r.SplitID))
}

func (r *MarkParticipantPaidRequest) LogValue() slog.Value {
	return slog.GroupValue(slog.String("participant_id", r.ParticipantID))
}

func (r *CalculateSettlementsRequest) LogValue() slog.Value {
	return slog.GroupValue(slog.String("trip_id", r.TripID))
}

func (r *ListSettlementsRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("trip_id", r.TripID),
		slog.String("status", r.Status),
	)
}

func (r *CompleteSettlementRequest) LogValue() slog.Value {
	return slog.GroupValue(slog.String("settlement_id", r.SettlementID))
}

func (r *CancelSettlementRequest) LogValue() slog.Value {
	return slog.GroupValue(slog.String("settlement_id", r.SettlementID))
}

func (r *GetBalancesRequest) LogValue() slog.Value {
	return slog.GroupValue(slog.String("trip_id", r.TripID))
}
