package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
)

// ListTags returns every tag ordered by name.
func (s *SQLiteStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, color, description FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()
	return scanTags(rows)
}

// attachTags links tags to a split by name, creating unknown tags with a
// palette colour. It returns the stored tags in input order without duplicates.
func (s *SQLiteStore) attachTags(ctx context.Context, tx *sql.Tx, splitID string, tags []models.Tag) ([]models.Tag, error) {
	out := []models.Tag{}
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		name := strings.TrimSpace(t.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		stored := models.Tag{}
		err := tx.QueryRowContext(ctx,
			"SELECT id, name, color, description FROM tags WHERE name = ?", name,
		).Scan(&stored.ID, &stored.Name, &stored.Color, &stored.Description)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			stored = models.Tag{
				ID:          uuid.New().String(),
				Name:        name,
				Color:       t.Color,
				Description: t.Description,
			}
			if stored.Color == "" {
				stored.Color = s.colors.Next()
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO tags (id, name, color, description) VALUES (?, ?, ?, ?)",
				stored.ID, stored.Name, stored.Color, stored.Description,
			); err != nil {
				return nil, fmt.Errorf("failed to insert tag: %w", err)
			}
		case err != nil:
			return nil, fmt.Errorf("failed to get tag: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO split_tags (split_id, tag_id) VALUES (?, ?)",
			splitID, stored.ID,
		); err != nil {
			return nil, fmt.Errorf("failed to link tag: %w", err)
		}
		out = append(out, stored)
	}
	return out, nil
}

func tagsForSplit(ctx context.Context, q querier, splitID string) ([]models.Tag, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT t.id, t.name, t.color, t.description
		 FROM tags t JOIN split_tags st ON st.tag_id = t.id
		 WHERE st.split_id = ? ORDER BY t.name`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get split tags: %w", err)
	}
	defer rows.Close()
	return scanTags(rows)
}

func scanTags(rows *sql.Rows) ([]models.Tag, error) {
	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Description); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}
