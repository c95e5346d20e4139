package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
)

// TripSnapshot reads a trip's splits, their participants and tags, and its
// settlements inside one read-only transaction.
func (s *SQLiteStore) TripSnapshot(ctx context.Context, tripID string) ([]models.Split, []models.Settlement, error) {
	var (
		splits      []models.Split
		settlements []models.Settlement
	)
	err := s.readTx(ctx, func(tx *sql.Tx) error {
		var err error
		if splits, err = listSplits(ctx, tx, tripID); err != nil {
			return err
		}
		settlements, err = listSettlements(ctx, tx, tripID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return splits, settlements, nil
}

// readTx runs fn in a read-only transaction.
func (s *SQLiteStore) readTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit read transaction: %w", err)
	}
	return nil
}
