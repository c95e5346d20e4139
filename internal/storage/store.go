// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
)

// Store defines the persistence operations used by the split and settlement
// services. Missing rows are reported with models.ErrNotFound.
type Store interface {
	// CreateSplit persists a new split with its participants and tags.
	// IDs and timestamps are assigned by the store and written back to split.
	// Tags are matched by name; unknown names are created.
	CreateSplit(ctx context.Context, split *models.Split) error

	// GetSplit retrieves a split by ID, participants in their original order.
	GetSplit(ctx context.Context, splitID string) (*models.Split, error)

	// ListSplitsByTrip returns every split of a trip in creation order.
	ListSplitsByTrip(ctx context.Context, tripID string) ([]models.Split, error)

	// TripSnapshot reads a trip's splits and settlements in one read
	// transaction, so a concurrent write is seen either entirely or not at all.
	TripSnapshot(ctx context.Context, tripID string) ([]models.Split, []models.Settlement, error)

	// UpdateSplit overwrites a split and replaces its participant list and
	// tags in one transaction.
	UpdateSplit(ctx context.Context, split *models.Split) error

	// DeleteSplit removes a split together with its participants.
	DeleteSplit(ctx context.Context, splitID string) error

	// MarkParticipantPaid flags one participant share as paid at the given
	// time and returns the updated share. A share that is already paid
	// fails with models.ErrInvalidState.
	MarkParticipantPaid(ctx context.Context, participantID string, at time.Time) (*models.ParticipantShare, error)

	// ReplacePendingSettlements cancels the trip's pending settlements and
	// inserts the given batch, atomically. The stored batch is returned
	// with IDs and CreatedAt assigned.
	ReplacePendingSettlements(ctx context.Context, tripID string, settlements []models.Settlement, now time.Time) ([]models.Settlement, error)

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByTrip returns every settlement of a trip, oldest first.
	ListSettlementsByTrip(ctx context.Context, tripID string) ([]models.Settlement, error)

	// UpdateSettlementStatus persists a status transition.
	UpdateSettlementStatus(ctx context.Context, settlementID string, status models.SettlementStatus, settledAt *time.Time) error

	// ListTags returns all known tags ordered by name.
	ListTags(ctx context.Context) ([]models.Tag, error)

	// Close releases any resources held by the store.
	Close() error
}
