package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
)

const settlementColumns = `id, trip_id, from_member_id, from_member_name, to_member_id, to_member_name, amount, currency, status, created_at, settled_at`

// ReplacePendingSettlements cancels the trip's pending settlements and stores
// a new batch in one transaction.
func (s *SQLiteStore) ReplacePendingSettlements(ctx context.Context, tripID string, settlements []models.Settlement, now time.Time) ([]models.Settlement, error) {
	now = now.UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE settlements SET status = ?, settled_at = ? WHERE trip_id = ? AND status = ?",
		string(models.SettlementStatusCancelled), now.Unix(), tripID, string(models.SettlementStatusPending),
	); err != nil {
		return nil, fmt.Errorf("failed to cancel pending settlements: %w", err)
	}

	out := make([]models.Settlement, len(settlements))
	for i, st := range settlements {
		if st.ID == "" {
			st.ID = uuid.New().String()
		}
		st.TripID = tripID
		st.CreatedAt = now
		if st.Status == "" {
			st.Status = models.SettlementStatusPending
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO settlements (`+settlementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			st.ID, st.TripID, st.FromMemberID, st.FromMemberName, st.ToMemberID, st.ToMemberName,
			st.Amount, st.Currency, string(st.Status), st.CreatedAt.Unix(), nullableUnix(st.SettledAt),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert settlement: %w", err)
		}
		out[i] = st
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return out, nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	st, err := scanSettlement(s.db.QueryRowContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE id = ?`, settlementID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: settlement %s", models.ErrNotFound, settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return st, nil
}

// ListSettlementsByTrip retrieves all settlements of a trip, oldest first.
func (s *SQLiteStore) ListSettlementsByTrip(ctx context.Context, tripID string) ([]models.Settlement, error) {
	return listSettlements(ctx, s.db, tripID)
}

func listSettlements(ctx context.Context, q querier, tripID string) ([]models.Settlement, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE trip_id = ? ORDER BY created_at, rowid`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by trip: %w", err)
	}
	defer rows.Close()

	settlements := []models.Settlement{}
	for rows.Next() {
		st, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// UpdateSettlementStatus persists a settlement's new status.
func (s *SQLiteStore) UpdateSettlementStatus(ctx context.Context, settlementID string, status models.SettlementStatus, settledAt *time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET status = ?, settled_at = ? WHERE id = ?",
		string(status), nullableUnix(settledAt), settlementID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement: %w", err)
	}
	return requireAffected(res, "settlement", settlementID)
}

func scanSettlement(row scanner) (*models.Settlement, error) {
	st := &models.Settlement{}
	var status string
	var createdAt int64
	var settledAt sql.NullInt64
	if err := row.Scan(&st.ID, &st.TripID, &st.FromMemberID, &st.FromMemberName, &st.ToMemberID,
		&st.ToMemberName, &st.Amount, &st.Currency, &status, &createdAt, &settledAt); err != nil {
		return nil, err
	}
	st.Status = models.SettlementStatus(status)
	st.CreatedAt = fromUnix(createdAt)
	st.SettledAt = timePtr(settledAt)
	return st, nil
}
