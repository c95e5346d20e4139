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

const splitColumns = `id, transaction_id, trip_id, total_amount, currency, split_type, payer_id, payer_name, created_at, updated_at`

const participantColumns = `id, member_id, member_name, share_amount, share_percentage, is_paid, paid_at`

// querier is the subset of *sql.DB and *sql.Tx used by the row helpers.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateSplit persists a new split with its participants and tags.
func (s *SQLiteStore) CreateSplit(ctx context.Context, split *models.Split) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	now := s.timestamp()
	if split.CreatedAt.IsZero() {
		split.CreatedAt = now
	}
	split.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO splits (`+splitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		split.ID, split.TransactionID, split.TripID, split.TotalAmount, split.Currency,
		string(split.SplitType), split.PayerID, split.PayerName,
		split.CreatedAt.Unix(), split.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	if err := insertParticipants(ctx, tx, split); err != nil {
		return err
	}
	tags, err := s.attachTags(ctx, tx, split.ID, split.Tags)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	split.Tags = tags
	return nil
}

// GetSplit retrieves a split by ID, including participants and tags.
func (s *SQLiteStore) GetSplit(ctx context.Context, splitID string) (*models.Split, error) {
	split, err := scanSplit(s.db.QueryRowContext(ctx,
		`SELECT `+splitColumns+` FROM splits WHERE id = ?`, splitID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: split %s", models.ErrNotFound, splitID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}

	if err := loadSplitDetails(ctx, s.db, split); err != nil {
		return nil, err
	}
	return split, nil
}

// ListSplitsByTrip retrieves every split of a trip in creation order.
func (s *SQLiteStore) ListSplitsByTrip(ctx context.Context, tripID string) ([]models.Split, error) {
	var splits []models.Split
	err := s.readTx(ctx, func(tx *sql.Tx) error {
		var err error
		splits, err = listSplits(ctx, tx, tripID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return splits, nil
}

// listSplits loads a trip's splits with their participants and tags.
func listSplits(ctx context.Context, q querier, tripID string) ([]models.Split, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+splitColumns+` FROM splits WHERE trip_id = ? ORDER BY created_at, rowid`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits by trip: %w", err)
	}

	splits := []models.Split{}
	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, *split)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	// A connection runs one statement at a time; finish this one first.
	rows.Close()

	for i := range splits {
		if err := loadSplitDetails(ctx, q, &splits[i]); err != nil {
			return nil, err
		}
	}
	return splits, nil
}

// UpdateSplit overwrites a split and replaces its participants and tags.
func (s *SQLiteStore) UpdateSplit(ctx context.Context, split *models.Split) error {
	split.UpdatedAt = s.timestamp()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE splits SET transaction_id = ?, trip_id = ?, total_amount = ?, currency = ?, split_type = ?,
		 payer_id = ?, payer_name = ?, updated_at = ? WHERE id = ?`,
		split.TransactionID, split.TripID, split.TotalAmount, split.Currency, string(split.SplitType),
		split.PayerID, split.PayerName, split.UpdatedAt.Unix(), split.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update split: %w", err)
	}
	if err := requireAffected(res, "split", split.ID); err != nil {
		return err
	}

	var createdAt int64
	if err := tx.QueryRowContext(ctx, "SELECT created_at FROM splits WHERE id = ?", split.ID).Scan(&createdAt); err != nil {
		return fmt.Errorf("failed to read split: %w", err)
	}
	split.CreatedAt = fromUnix(createdAt)

	if _, err := tx.ExecContext(ctx, "DELETE FROM split_participants WHERE split_id = ?", split.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, split); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM split_tags WHERE split_id = ?", split.ID); err != nil {
		return fmt.Errorf("failed to clear split tags: %w", err)
	}
	tags, err := s.attachTags(ctx, tx, split.ID, split.Tags)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	split.Tags = tags
	return nil
}

// DeleteSplit removes a split; participants and tag links cascade.
func (s *SQLiteStore) DeleteSplit(ctx context.Context, splitID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM splits WHERE id = ?", splitID)
	if err != nil {
		return fmt.Errorf("failed to delete split: %w", err)
	}
	return requireAffected(res, "split", splitID)
}

// MarkParticipantPaid flags a participant share as paid.
func (s *SQLiteStore) MarkParticipantPaid(ctx context.Context, participantID string, at time.Time) (*models.ParticipantShare, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	share, err := scanParticipant(tx.QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM split_participants WHERE id = ?`, participantID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: participant %s", models.ErrNotFound, participantID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if share.IsPaid {
		return nil, fmt.Errorf("%w: participant %s is already paid", models.ErrInvalidState, participantID)
	}

	paidAt := at.UTC().Truncate(time.Second)
	if _, err := tx.ExecContext(ctx,
		"UPDATE split_participants SET is_paid = 1, paid_at = ? WHERE id = ?",
		paidAt.Unix(), participantID,
	); err != nil {
		return nil, fmt.Errorf("failed to mark participant paid: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	share.IsPaid = true
	share.PaidAt = &paidAt
	return share, nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, split *models.Split) error {
	for i := range split.Participants {
		p := &split.Participants[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO split_participants (id, split_id, position, member_id, member_name, share_amount, share_percentage, is_paid, paid_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, split.ID, i, p.MemberID, p.MemberName, p.ShareAmount, p.SharePercentage,
			p.IsPaid, nullableUnix(p.PaidAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}

// loadSplitDetails fills in participants and tags of a split.
func loadSplitDetails(ctx context.Context, q querier, split *models.Split) error {
	rows, err := q.QueryContext(ctx,
		`SELECT `+participantColumns+` FROM split_participants WHERE split_id = ? ORDER BY position`,
		split.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	split.Participants = []models.ParticipantShare{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		split.Participants = append(split.Participants, *p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate participants: %w", err)
	}
	rows.Close()

	tags, err := tagsForSplit(ctx, q, split.ID)
	if err != nil {
		return err
	}
	split.Tags = tags
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSplit(row scanner) (*models.Split, error) {
	split := &models.Split{}
	var splitType string
	var createdAt, updatedAt int64
	if err := row.Scan(&split.ID, &split.TransactionID, &split.TripID, &split.TotalAmount,
		&split.Currency, &splitType, &split.PayerID, &split.PayerName, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	split.SplitType = models.SplitType(splitType)
	split.CreatedAt = fromUnix(createdAt)
	split.UpdatedAt = fromUnix(updatedAt)
	return split, nil
}

func scanParticipant(row scanner) (*models.ParticipantShare, error) {
	p := &models.ParticipantShare{}
	var paidAt sql.NullInt64
	if err := row.Scan(&p.ID, &p.MemberID, &p.MemberName, &p.ShareAmount, &p.SharePercentage,
		&p.IsPaid, &paidAt); err != nil {
		return nil, err
	}
	p.PaidAt = timePtr(paidAt)
	return p, nil
}

// requireAffected maps an update or delete that matched no row to ErrNotFound.
func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", models.ErrNotFound, kind, id)
	}
	return nil
}
