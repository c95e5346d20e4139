package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSettlementComplete(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Settlement{ID: "s1", Status: SettlementStatusPending, Amount: decimal.NewFromInt(30)}

	if err := s.Complete(now); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if s.Status != SettlementStatusCompleted {
		t.Errorf("Status = %s, want %s", s.Status, SettlementStatusCompleted)
	}
	if s.SettledAt == nil || !s.SettledAt.Equal(now) {
		t.Errorf("SettledAt = %v, want %v", s.SettledAt, now)
	}

	err := s.Complete(now.Add(time.Hour))
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Complete error = %v, want ErrInvalidState", err)
	}
	if !s.SettledAt.Equal(now) {
		t.Error("failed transition must not touch SettledAt")
	}
}

func TestSettlementTerminalStates(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		status SettlementStatus
		op     func(*Settlement) error
	}{
		{"cancel completed", SettlementStatusCompleted, func(s *Settlement) error { return s.Cancel(now) }},
		{"complete cancelled", SettlementStatusCancelled, func(s *Settlement) error { return s.Complete(now) }},
		{"cancel cancelled", SettlementStatusCancelled, func(s *Settlement) error { return s.Cancel(now) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settlement{ID: "s", Status: tt.status}
			if err := tt.op(s); !errors.Is(err, ErrInvalidState) {
				t.Errorf("error = %v, want ErrInvalidState", err)
			}
			if s.Status != tt.status {
				t.Errorf("Status changed to %s", s.Status)
			}
		})
	}
}

func TestSettlementCancel(t *testing.T) {
	s := &Settlement{ID: "s", Status: SettlementStatusPending}
	if err := s.Cancel(time.Now()); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if s.Status != SettlementStatusCancelled || !s.Status.Terminal() {
		t.Errorf("Status = %s, want terminal CANCELLED", s.Status)
	}
}

func TestParseSplitType(t *testing.T) {
	tests := []struct {
		in   string
		want SplitType
		ok   bool
	}{
		{"EQUAL", SplitTypeEqual, true},
		{"percentage", SplitTypePercentage, true},
		{"FixedAmount", SplitTypeFixedAmount, true},
		{"FIXED_AMOUNT", SplitTypeFixedAmount, true},
		{"by_shares", SplitTypeByShares, true},
		{"adjustment", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSplitType(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseSplitType(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSplitShareTotal(t *testing.T) {
	s := &Split{Participants: []ParticipantShare{
		{MemberID: "a", ShareAmount: decimal.RequireFromString("33.34")},
		{MemberID: "b", ShareAmount: decimal.RequireFromString("33.33")},
		{MemberID: "c", ShareAmount: decimal.RequireFromString("33.33")},
	}}
	if got := s.ShareTotal(); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("ShareTotal = %s, want 100", got)
	}
}
