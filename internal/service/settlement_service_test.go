package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/smile1346/travel-card-phase2-splitspending/pkg/api"
)

// seedTrip records one split where alice pays 50 for bob (30) and carol (20).
func seedTrip(t *testing.T, env *testEnv, tripID string) {
	t.Helper()
	createSplit(t, env, &api.CreateSplitRequest{
		TripID:      tripID,
		TotalAmount: dec("50"),
		Currency:    "USD",
		SplitType:   "FIXED_AMOUNT",
		PayerID:     "alice",
		PayerName:   "Alice",
		Participants: []api.ParticipantInput{
			{MemberID: "bob", MemberName: "Bob", ShareAmount: decPtr("30")},
			{MemberID: "carol", MemberName: "Carol", ShareAmount: decPtr("20")},
		},
	})
}

func calculate(t *testing.T, env *testEnv, tripID string) []api.Settlement {
	t.Helper()
	resp, err := env.settlements.CalculateSettlements(context.Background(), connect.NewRequest(&api.CalculateSettlementsRequest{TripID: tripID}))
	if err != nil {
		t.Fatalf("CalculateSettlements failed: %v", err)
	}
	return resp.Msg.Settlements
}

func TestCalculateSettlements(t *testing.T) {
	env := setupTestServer(t, nil)
	seedTrip(t, env, "trip-1")

	settlements := calculate(t, env, "trip-1")
	if len(settlements) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(settlements))
	}

	want := []struct{ from, to, amount string }{
		{"bob", "alice", "30"},
		{"carol", "alice", "20"},
	}
	for i, w := range want {
		s := settlements[i]
		if s.FromMemberID != w.from || s.ToMemberID != w.to || !s.Amount.Equal(dec(w.amount)) {
			t.Errorf("settlement %d: expected %s->%s %s, got %s->%s %s", i, w.from, w.to, w.amount, s.FromMemberID, s.ToMemberID, s.Amount)
		}
		if s.ID == "" || s.Status != "PENDING" || s.Currency != "USD" || s.TripID != "trip-1" {
			t.Errorf("settlement %d: unexpected fields %+v", i, s)
		}
	}
	if settlements[0].FromMemberName != "Bob" || settlements[0].ToMemberName != "Alice" {
		t.Errorf("names not carried: %+v", settlements[0])
	}
}

func TestCalculateSettlements_EmptyTrip(t *testing.T) {
	env := setupTestServer(t, nil)

	if settlements := calculate(t, env, "trip-empty"); len(settlements) != 0 {
		t.Errorf("expected no settlements, got %d", len(settlements))
	}

	_, err := env.settlements.CalculateSettlements(context.Background(), connect.NewRequest(&api.CalculateSettlementsRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestCalculateSettlements_MixedCurrencies(t *testing.T) {
	env := setupTestServer(t, nil)
	seedTrip(t, env, "trip-1")
	createSplit(t, env, &api.CreateSplitRequest{
		TripID:       "trip-1",
		TotalAmount:  dec("10"),
		Currency:     "EUR",
		SplitType:    "EQUAL",
		PayerID:      "bob",
		Participants: equalMembers("alice", "bob"),
	})

	_, err := env.settlements.CalculateSettlements(context.Background(), connect.NewRequest(&api.CalculateSettlementsRequest{TripID: "trip-1"}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = env.settlements.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{TripID: "trip-1"}))
	assertCode(t, err, connect.CodeFailedPrecondition)
}

func TestSettlementLifecycle(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()
	seedTrip(t, env, "trip-1")

	first := calculate(t, env, "trip-1")
	bobToAlice := first[0]

	completed, err := env.settlements.CompleteSettlement(ctx, connect.NewRequest(&api.CompleteSettlementRequest{SettlementID: bobToAlice.ID}))
	if err != nil {
		t.Fatalf("CompleteSettlement failed: %v", err)
	}
	if completed.Msg.Settlement.Status != "COMPLETED" || completed.Msg.Settlement.SettledAt == nil {
		t.Errorf("settlement not completed: %+v", completed.Msg.Settlement)
	}

	// Completing or cancelling again is an illegal transition.
	_, err = env.settlements.CompleteSettlement(ctx, connect.NewRequest(&api.CompleteSettlementRequest{SettlementID: bobToAlice.ID}))
	assertCode(t, err, connect.CodeFailedPrecondition)
	_, err = env.settlements.CancelSettlement(ctx, connect.NewRequest(&api.CancelSettlementRequest{SettlementID: bobToAlice.ID}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	// Recalculation only proposes what is still owed.
	second := calculate(t, env, "trip-1")
	if len(second) != 1 || second[0].FromMemberID != "carol" || !second[0].Amount.Equal(dec("20")) {
		t.Fatalf("expected only carol->alice 20, got %+v", second)
	}

	all, err := env.settlements.ListSettlements(ctx, connect.NewRequest(&api.ListSettlementsRequest{TripID: "trip-1"}))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	counts := map[string]int{}
	for _, s := range all.Msg.Settlements {
		counts[s.Status]++
	}
	if counts["COMPLETED"] != 1 || counts["CANCELLED"] != 1 || counts["PENDING"] != 1 {
		t.Errorf("unexpected status counts: %v", counts)
	}

	pending, err := env.settlements.ListSettlements(ctx, connect.NewRequest(&api.ListSettlementsRequest{TripID: "trip-1", Status: "pending"}))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(pending.Msg.Settlements) != 1 || pending.Msg.Settlements[0].ID != second[0].ID {
		t.Errorf("status filter returned %+v", pending.Msg.Settlements)
	}

	cancelled, err := env.settlements.CancelSettlement(ctx, connect.NewRequest(&api.CancelSettlementRequest{SettlementID: second[0].ID}))
	if err != nil {
		t.Fatalf("CancelSettlement failed: %v", err)
	}
	if cancelled.Msg.Settlement.Status != "CANCELLED" {
		t.Errorf("settlement not cancelled: %+v", cancelled.Msg.Settlement)
	}
}

func TestSettlementTransitions_NotFound(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	_, err := env.settlements.CompleteSettlement(ctx, connect.NewRequest(&api.CompleteSettlementRequest{SettlementID: "nonexistent"}))
	assertCode(t, err, connect.CodeNotFound)
	_, err = env.settlements.CancelSettlement(ctx, connect.NewRequest(&api.CancelSettlementRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestListSettlements_InvalidStatus(t *testing.T) {
	env := setupTestServer(t, nil)

	_, err := env.settlements.ListSettlements(context.Background(), connect.NewRequest(&api.ListSettlementsRequest{TripID: "trip-1", Status: "PAID"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestGetBalances(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()
	seedTrip(t, env, "trip-1")

	settlements := calculate(t, env, "trip-1")
	if _, err := env.settlements.CompleteSettlement(ctx, connect.NewRequest(&api.CompleteSettlementRequest{SettlementID: settlements[0].ID})); err != nil {
		t.Fatalf("CompleteSettlement failed: %v", err)
	}

	resp, err := env.settlements.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{TripID: "trip-1"}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if resp.Msg.Currency != "USD" {
		t.Errorf("expected USD, got %q", resp.Msg.Currency)
	}

	want := map[string]string{"alice": "20", "bob": "0", "carol": "-20"}
	if len(resp.Msg.Balances) != len(want) {
		t.Fatalf("expected %d balances, got %d", len(want), len(resp.Msg.Balances))
	}
	for _, b := range resp.Msg.Balances {
		if !b.Net.Equal(dec(want[b.MemberID])) {
			t.Errorf("%s: expected net %s, got %s", b.MemberID, want[b.MemberID], b.Net)
		}
	}
	if resp.Msg.Balances[0].MemberID != "alice" {
		t.Errorf("balances not sorted by member: %+v", resp.Msg.Balances)
	}
}
