package sqlite

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/mermadic/mermadic/models"
)

// newShareID returns a random 16-hex-character share token.
func newShareID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (s *SQLiteStore) CreateChart(ctx context.Context, userID int64, title, content string, public bool) (models.Chart, error) {
	shareID, err := newShareID()
	if err != nil {
		return models.Chart{}, err
	}

	query := `INSERT INTO charts (user_id, title, content, public, share_id) VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query, userID, title, content, public, shareID)
	if err != nil {
		return models.Chart{}, mapErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Chart{}, fmt.Errorf("failed to get inserted chart id: %w", err)
	}

	return s.GetChartByID(ctx, id)
}

func (s *SQLiteStore) GetChartByID(ctx context.Context, id int64) (models.Chart, error) {
	query := `SELECT id, user_id, title, content, public, share_id, created_at, updated_at
		FROM charts WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)
	return scanChart(row)
}

func (s *SQLiteStore) GetChartByShareID(ctx context.Context, shareID string) (models.Chart, error) {
	query := `SELECT id, user_id, title, content, public, share_id, created_at, updated_at
		FROM charts WHERE share_id = ?`
	row := s.db.QueryRowContext(ctx, query, shareID)
	return scanChart(row)
}

func (s *SQLiteStore) GetChartsByUser(ctx context.Context, userID int64) ([]models.Chart, error) {
	query := `SELECT id, user_id, title, content, public, share_id, created_at, updated_at
		FROM charts WHERE user_id = ? ORDER BY updated_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	charts := []models.Chart{}
	for rows.Next() {
		chart, err := scanChart(rows)
		if err != nil {
			return nil, err
		}
		charts = append(charts, chart)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return charts, nil
}

// UpdateChart replaces the mutable fields and refreshes updated_at. The
// returned count is 0 when no chart has the given id; authorization is the
// caller's concern.
func (s *SQLiteStore) UpdateChart(ctx context.Context, id int64, title, content string, public bool) (int64, error) {
	query := `UPDATE charts SET title = ?, content = ?, public = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, title, content, public, id)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) DeleteChart(ctx context.Context, id int64) (int64, error) {
	query := `DELETE FROM charts WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}

func scanChart(row rowScanner) (models.Chart, error) {
	var c models.Chart
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Content, &c.Public, &c.ShareID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Chart{}, mapErr(err)
	}
	return c, nil
}
