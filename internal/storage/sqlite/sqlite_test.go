package sqlite

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/tagcolor"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	store, err := New(dbPath,
		WithClock(func() time.Time { return testNow }),
		WithTagPicker(tagcolor.NewPicker(rand.NewPCG(7, 7))),
	)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleSplit(tripID string) *models.Split {
	return &models.Split{
		TransactionID: "txn-1",
		TripID:        tripID,
		TotalAmount:   d("100.00"),
		Currency:      "USD",
		SplitType:     models.SplitTypeEqual,
		PayerID:       "alice",
		PayerName:     "Alice",
		Participants: []models.ParticipantShare{
			{MemberID: "carol", MemberName: "Carol", ShareAmount: d("33.34"), SharePercentage: d("33.34")},
			{MemberID: "alice", MemberName: "Alice", ShareAmount: d("33.33"), SharePercentage: d("33.33")},
			{MemberID: "bob", MemberName: "Bob", ShareAmount: d("33.33"), SharePercentage: d("33.33")},
		},
		Tags: []models.Tag{{Name: "food"}, {Name: "dinner", Color: "#000000"}, {Name: "food"}},
	}
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateSplit assigns IDs and timestamps", func(t *testing.T) {
		split := sampleSplit("trip-a")
		if err := store.CreateSplit(ctx, split); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}
		if split.ID == "" {
			t.Error("Expected split ID to be generated")
		}
		for i, p := range split.Participants {
			if p.ID == "" {
				t.Errorf("participant %d has no ID", i)
			}
		}
		if !split.CreatedAt.Equal(testNow) || !split.UpdatedAt.Equal(testNow) {
			t.Errorf("timestamps = %v/%v, want %v", split.CreatedAt, split.UpdatedAt, testNow)
		}
		if len(split.Tags) != 2 {
			t.Fatalf("Expected 2 distinct tags, got %d", len(split.Tags))
		}
		if split.Tags[1].Color != "#000000" {
			t.Errorf("supplied colour not kept: %s", split.Tags[1].Color)
		}
		if split.Tags[0].Color == "" {
			t.Error("Expected a palette colour for a new tag")
		}
	})

	t.Run("GetSplit round-trips amounts and participant order", func(t *testing.T) {
		original := sampleSplit("trip-b")
		if err := store.CreateSplit(ctx, original); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}

		got, err := store.GetSplit(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetSplit failed: %v", err)
		}
		if !got.TotalAmount.Equal(original.TotalAmount) {
			t.Errorf("TotalAmount mismatch: got %s, want %s", got.TotalAmount, original.TotalAmount)
		}
		if got.SplitType != models.SplitTypeEqual || got.Currency != "USD" || got.PayerName != "Alice" {
			t.Errorf("unexpected fields: %+v", got)
		}
		if len(got.Participants) != 3 {
			t.Fatalf("Participants count mismatch: got %d, want 3", len(got.Participants))
		}
		for i, p := range got.Participants {
			want := original.Participants[i]
			if p.MemberID != want.MemberID || !p.ShareAmount.Equal(want.ShareAmount) || !p.SharePercentage.Equal(want.SharePercentage) {
				t.Errorf("participant %d = %+v, want %+v", i, p, want)
			}
			if p.IsPaid || p.PaidAt != nil {
				t.Errorf("participant %d should be unpaid", i)
			}
		}
		if len(got.Tags) != 2 {
			t.Errorf("Expected 2 tags, got %d", len(got.Tags))
		}
	})

	t.Run("GetSplit returns ErrNotFound for nonexistent split", func(t *testing.T) {
		_, err := store.GetSplit(ctx, "nonexistent-id")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListSplitsByTrip keeps creation order", func(t *testing.T) {
		first, second := sampleSplit("trip-c"), sampleSplit("trip-c")
		second.TransactionID = "txn-2"
		for _, s := range []*models.Split{first, second} {
			if err := store.CreateSplit(ctx, s); err != nil {
				t.Fatalf("CreateSplit failed: %v", err)
			}
		}

		splits, err := store.ListSplitsByTrip(ctx, "trip-c")
		if err != nil {
			t.Fatalf("ListSplitsByTrip failed: %v", err)
		}
		if len(splits) != 2 {
			t.Fatalf("Expected 2 splits, got %d", len(splits))
		}
		if splits[0].ID != first.ID || splits[1].ID != second.ID {
			t.Error("splits not in creation order")
		}
		if len(splits[1].Participants) != 3 {
			t.Errorf("Expected participants loaded, got %d", len(splits[1].Participants))
		}

		empty, err := store.ListSplitsByTrip(ctx, "no-such-trip")
		if err != nil {
			t.Fatalf("ListSplitsByTrip failed: %v", err)
		}
		if empty == nil || len(empty) != 0 {
			t.Errorf("Expected empty non-nil list, got %v", empty)
		}
	})

	t.Run("UpdateSplit replaces participants", func(t *testing.T) {
		split := sampleSplit("trip-d")
		if err := store.CreateSplit(ctx, split); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}

		split.TotalAmount = d("50")
		split.SplitType = models.SplitTypeFixedAmount
		split.Participants = []models.ParticipantShare{
			{MemberID: "bob", MemberName: "Bob", ShareAmount: d("50"), SharePercentage: d("100")},
		}
		split.Tags = []models.Tag{{Name: "taxi"}}
		if err := store.UpdateSplit(ctx, split); err != nil {
			t.Fatalf("UpdateSplit failed: %v", err)
		}

		got, err := store.GetSplit(ctx, split.ID)
		if err != nil {
			t.Fatalf("GetSplit failed: %v", err)
		}
		if !got.TotalAmount.Equal(d("50")) || got.SplitType != models.SplitTypeFixedAmount {
			t.Errorf("split not updated: %+v", got)
		}
		if len(got.Participants) != 1 || got.Participants[0].MemberID != "bob" {
			t.Errorf("participants not replaced: %+v", got.Participants)
		}
		if len(got.Tags) != 1 || got.Tags[0].Name != "taxi" {
			t.Errorf("tags not replaced: %+v", got.Tags)
		}
	})

	t.Run("UpdateSplit and DeleteSplit return ErrNotFound", func(t *testing.T) {
		missing := sampleSplit("trip-x")
		missing.ID = "missing"
		if err := store.UpdateSplit(ctx, missing); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("UpdateSplit error = %v, want ErrNotFound", err)
		}
		if err := store.DeleteSplit(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("DeleteSplit error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteSplit removes the split", func(t *testing.T) {
		split := sampleSplit("trip-e")
		if err := store.CreateSplit(ctx, split); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}
		if err := store.DeleteSplit(ctx, split.ID); err != nil {
			t.Fatalf("DeleteSplit failed: %v", err)
		}
		if _, err := store.GetSplit(ctx, split.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if _, err := store.MarkParticipantPaid(ctx, split.Participants[0].ID, testNow); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("participants should cascade, got %v", err)
		}
	})

	t.Run("MarkParticipantPaid only once", func(t *testing.T) {
		split := sampleSplit("trip-f")
		if err := store.CreateSplit(ctx, split); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}
		pid := split.Participants[1].ID

		share, err := store.MarkParticipantPaid(ctx, pid, testNow.Add(time.Hour))
		if err != nil {
			t.Fatalf("MarkParticipantPaid failed: %v", err)
		}
		if !share.IsPaid || share.PaidAt == nil || !share.PaidAt.Equal(testNow.Add(time.Hour)) {
			t.Errorf("share not marked paid: %+v", share)
		}

		if _, err := store.MarkParticipantPaid(ctx, pid, testNow); !errors.Is(err, models.ErrInvalidState) {
			t.Errorf("second MarkParticipantPaid error = %v, want ErrInvalidState", err)
		}
		if _, err := store.MarkParticipantPaid(ctx, "missing", testNow); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("MarkParticipantPaid(missing) error = %v, want ErrNotFound", err)
		}

		got, err := store.GetSplit(ctx, split.ID)
		if err != nil {
			t.Fatalf("GetSplit failed: %v", err)
		}
		if !got.Participants[1].IsPaid || got.Participants[0].IsPaid {
			t.Error("paid flag stored on the wrong participant")
		}
	})

	t.Run("ListTags returns tags by name", func(t *testing.T) {
		tags, err := store.ListTags(ctx)
		if err != nil {
			t.Fatalf("ListTags failed: %v", err)
		}
		if len(tags) < 3 {
			t.Fatalf("Expected at least 3 tags, got %d", len(tags))
		}
		for i := 1; i < len(tags); i++ {
			if tags[i-1].Name > tags[i].Name {
				t.Errorf("tags not sorted: %s before %s", tags[i-1].Name, tags[i].Name)
			}
		}
	})
}

func TestSQLiteStoreSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batch := []models.Settlement{
		{FromMemberID: "bob", FromMemberName: "Bob", ToMemberID: "alice", ToMemberName: "Alice", Amount: d("30.00"), Currency: "USD", Status: models.SettlementStatusPending},
		{FromMemberID: "carol", FromMemberName: "Carol", ToMemberID: "alice", ToMemberName: "Alice", Amount: d("20.00"), Currency: "USD", Status: models.SettlementStatusPending},
	}

	stored, err := store.ReplacePendingSettlements(ctx, "trip-1", batch, testNow)
	if err != nil {
		t.Fatalf("ReplacePendingSettlements failed: %v", err)
	}
	if len(stored) != 2 || stored[0].ID == "" || stored[0].TripID != "trip-1" || !stored[0].CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected stored batch: %+v", stored)
	}

	t.Run("GetSettlement round-trips", func(t *testing.T) {
		got, err := store.GetSettlement(ctx, stored[0].ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if !got.Amount.Equal(d("30")) || got.Status != models.SettlementStatusPending || got.SettledAt != nil {
			t.Errorf("unexpected settlement: %+v", got)
		}
		if _, err := store.GetSettlement(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateSettlementStatus persists the transition", func(t *testing.T) {
		at := testNow.Add(time.Minute)
		if err := store.UpdateSettlementStatus(ctx, stored[0].ID, models.SettlementStatusCompleted, &at); err != nil {
			t.Fatalf("UpdateSettlementStatus failed: %v", err)
		}
		got, _ := store.GetSettlement(ctx, stored[0].ID)
		if got.Status != models.SettlementStatusCompleted || got.SettledAt == nil || !got.SettledAt.Equal(at) {
			t.Errorf("status not persisted: %+v", got)
		}
		if err := store.UpdateSettlementStatus(ctx, "missing", models.SettlementStatusCompleted, &at); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ReplacePendingSettlements cancels only pending", func(t *testing.T) {
		later := testNow.Add(time.Hour)
		next := []models.Settlement{
			{FromMemberID: "carol", ToMemberID: "alice", Amount: d("20.00"), Currency: "USD"},
		}
		if _, err := store.ReplacePendingSettlements(ctx, "trip-1", next, later); err != nil {
			t.Fatalf("ReplacePendingSettlements failed: %v", err)
		}

		all, err := store.ListSettlementsByTrip(ctx, "trip-1")
		if err != nil {
			t.Fatalf("ListSettlementsByTrip failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("Expected 3 settlements, got %d", len(all))
		}
		counts := map[models.SettlementStatus]int{}
		for _, s := range all {
			counts[s.Status]++
		}
		want := map[models.SettlementStatus]int{
			models.SettlementStatusCompleted: 1,
			models.SettlementStatusCancelled: 1,
			models.SettlementStatusPending:   1,
		}
		for status, n := range want {
			if counts[status] != n {
				t.Errorf("%s count = %d, want %d", status, counts[status], n)
			}
		}

		cancelled, _ := store.GetSettlement(ctx, stored[1].ID)
		if cancelled.SettledAt == nil || !cancelled.SettledAt.Equal(later) {
			t.Errorf("cancelled settlement SettledAt = %v, want %v", cancelled.SettledAt, later)
		}
	})

	t.Run("other trips are untouched", func(t *testing.T) {
		other, err := store.ListSettlementsByTrip(ctx, "trip-2")
		if err != nil {
			t.Fatalf("ListSettlementsByTrip failed: %v", err)
		}
		if len(other) != 0 {
			t.Errorf("Expected no settlements, got %d", len(other))
		}
	})
}

func TestTripSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	split := sampleSplit("trip-1")
	if err := store.CreateSplit(ctx, split); err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}
	if err := store.CreateSplit(ctx, sampleSplit("trip-2")); err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}
	batch := []models.Settlement{
		{FromMemberID: "bob", ToMemberID: "alice", Amount: d("33.33"), Currency: "USD"},
	}
	if _, err := store.ReplacePendingSettlements(ctx, "trip-1", batch, testNow); err != nil {
		t.Fatalf("ReplacePendingSettlements failed: %v", err)
	}

	splits, settlements, err := store.TripSnapshot(ctx, "trip-1")
	if err != nil {
		t.Fatalf("TripSnapshot failed: %v", err)
	}
	if len(splits) != 1 || splits[0].ID != split.ID {
		t.Fatalf("Expected split %s, got %+v", split.ID, splits)
	}
	if len(splits[0].Participants) != 3 || len(splits[0].Tags) != 2 {
		t.Errorf("split details not loaded: %d participants, %d tags", len(splits[0].Participants), len(splits[0].Tags))
	}
	if len(settlements) != 1 || settlements[0].FromMemberID != "bob" {
		t.Errorf("unexpected settlements: %+v", settlements)
	}

	splits, settlements, err = store.TripSnapshot(ctx, "trip-empty")
	if err != nil {
		t.Fatalf("TripSnapshot failed: %v", err)
	}
	if len(splits) != 0 || len(settlements) != 0 {
		t.Errorf("Expected empty snapshot, got %d splits and %d settlements", len(splits), len(settlements))
	}
}

func TestTripSnapshotDuringUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	split := &models.Split{
		TripID:      "trip-1",
		TotalAmount: d("100.00"),
		Currency:    "USD",
		SplitType:   models.SplitTypeEqual,
		PayerID:     "alice",
		Participants: []models.ParticipantShare{
			{MemberID: "alice", ShareAmount: d("50.00")},
			{MemberID: "bob", ShareAmount: d("50.00")},
		},
	}
	if err := store.CreateSplit(ctx, split); err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	stop := make(chan struct{})
	updateErr := make(chan error, 1)
	go func() {
		defer close(updateErr)
		versions := []struct{ total, share string }{{"200.00", "100.00"}, {"100.00", "50.00"}}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			v := versions[i%2]
			next := *split
			next.TotalAmount = d(v.total)
			next.Participants = []models.ParticipantShare{
				{MemberID: "alice", ShareAmount: d(v.share)},
				{MemberID: "bob", ShareAmount: d(v.share)},
			}
			next.Tags = nil
			if err := store.UpdateSplit(ctx, &next); err != nil {
				updateErr <- err
				return
			}
		}
	}()

	for i := 0; i < 300; i++ {
		splits, _, err := store.TripSnapshot(ctx, "trip-1")
		if err != nil {
			close(stop)
			t.Fatalf("TripSnapshot failed: %v", err)
		}
		listed, err := store.ListSplitsByTrip(ctx, "trip-1")
		if err != nil {
			close(stop)
			t.Fatalf("ListSplitsByTrip failed: %v", err)
		}
		for _, s := range append(splits, listed...) {
			if !s.TotalAmount.Equal(s.ShareTotal()) {
				t.Errorf("read %d mixed versions: total=%s shares=%s", i, s.TotalAmount, s.ShareTotal())
			}
		}
	}
	close(stop)
	if err := <-updateErr; err != nil {
		t.Fatalf("UpdateSplit failed: %v", err)
	}
}
