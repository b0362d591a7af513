package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mermadic/mermadic/models"
)

func (s *SQLiteStore) CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	query := `INSERT INTO users (username, email, password, auth_type) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query, username, email, passwordHash, models.AuthTypeLocal)
	if err != nil {
		return models.User{}, mapErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get inserted user id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

func (s *SQLiteStore) CreateGoogleUser(ctx context.Context, username, email, googleID, profilePicture string) (models.User, error) {
	query := `INSERT INTO users (username, email, google_id, profile_picture, auth_type) VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query, username, email, googleID, nullable(profilePicture), models.AuthTypeGoogle)
	if err != nil {
		return models.User{}, mapErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get inserted user id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID deliberately does not select the password column; callers
// holding only a user id never need the hash.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	query := `SELECT id, username, email, google_id, profile_picture, auth_type, created_at
		FROM users WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)
	return scanUserNoPassword(row)
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	query := `SELECT id, username, email, password, google_id, profile_picture, auth_type, created_at
		FROM users WHERE username = ?`
	row := s.db.QueryRowContext(ctx, query, username)
	return scanUser(row)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT id, username, email, password, google_id, profile_picture, auth_type, created_at
		FROM users WHERE email = ?`
	row := s.db.QueryRowContext(ctx, query, email)
	return scanUser(row)
}

func (s *SQLiteStore) GetUserByGoogleID(ctx context.Context, googleID string) (models.User, error) {
	query := `SELECT id, username, email, password, google_id, profile_picture, auth_type, created_at
		FROM users WHERE google_id = ?`
	row := s.db.QueryRowContext(ctx, query, googleID)
	return scanUser(row)
}

// LinkGoogleAccount attaches a Google identity to an existing local account
// and re-reads the updated row. Not transactional; the merge is idempotent.
func (s *SQLiteStore) LinkGoogleAccount(ctx context.Context, userID int64, googleID, profilePicture string) (models.User, error) {
	query := `UPDATE users SET google_id = ?, profile_picture = ?, auth_type = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, googleID, nullable(profilePicture), models.AuthTypeGoogle, userID)
	if err != nil {
		return models.User{}, mapErr(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return models.User{}, mapErr(sql.ErrNoRows)
	}

	return s.GetUserByID(ctx, userID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		u        models.User
		password sql.NullString
		googleID sql.NullString
		picture  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &password, &googleID, &picture, &u.AuthType, &u.CreatedAt)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	u.PasswordHash = password.String
	u.GoogleID = googleID.String
	u.ProfilePicture = picture.String
	return u, nil
}

func scanUserNoPassword(row rowScanner) (models.User, error) {
	var (
		u        models.User
		googleID sql.NullString
		picture  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &googleID, &picture, &u.AuthType, &u.CreatedAt)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	u.GoogleID = googleID.String
	u.ProfilePicture = picture.String
	return u, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
