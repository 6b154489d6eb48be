package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agencia-viajes/internal/domain"
)

// SessionRepository implements domain.SessionRepository for PostgreSQL.
// Expiry is enforced in the queries; expired rows are swept by the cleanup
// task through DeleteExpired.
type SessionRepository struct {
	db                  *sql.DB
	createStmt          *sql.Stmt
	getByTokenStmt      *sql.Stmt
	updateCSRFTokenStmt *sql.Stmt
	deleteStmt          *sql.Stmt
	deleteExpiredStmt   *sql.Stmt
	countActiveStmt     *sql.Stmt
}

// NewSessionRepository creates a new SessionRepository with prepared statements.
// Returns an error if statement preparation fails.
func NewSessionRepository(db *sql.DB) (*SessionRepository, error) {
	repo := &SessionRepository{db: db}

	var err error
	repo.createStmt, err = db.Prepare(`
		INSERT INTO sessions (token, user_id, username, usertype, csrf_token, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare create statement: %w", err)
	}

	repo.getByTokenStmt, err = db.Prepare(`
		SELECT id, token, user_id, username, usertype, csrf_token, expires_at, created_at
		FROM sessions
		WHERE token = $1 AND expires_at > $2
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare getByToken statement: %w", err)
	}

	repo.updateCSRFTokenStmt, err = db.Prepare(`
		UPDATE sessions SET csrf_token = $1 WHERE token = $2
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare updateCSRFToken statement: %w", err)
	}

	repo.deleteStmt, err = db.Prepare(`DELETE FROM sessions WHERE token = $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	repo.deleteExpiredStmt, err = db.Prepare(`DELETE FROM sessions WHERE expires_at <= $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare deleteExpired statement: %w", err)
	}

	repo.countActiveStmt, err = db.Prepare(`SELECT COUNT(*) FROM sessions WHERE expires_at > $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare countActive statement: %w", err)
	}

	return repo, nil
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	userID := sql.NullInt64{Int64: session.UserID, Valid: session.UserID != 0}
	username := sql.NullString{String: session.Username, Valid: session.Username != ""}
	role := sql.NullString{String: session.Role, Valid: session.Role != ""}

	err := r.createStmt.QueryRowContext(ctx,
		session.Token,
		userID,
		username,
		role,
		session.CSRFToken,
		session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	session := &domain.Session{}
	var (
		userID   sql.NullInt64
		username sql.NullString
		role     sql.NullString
	)

	err := r.getByTokenStmt.QueryRowContext(ctx, token, time.Now()).Scan(
		&session.ID,
		&session.Token,
		&userID,
		&username,
		&role,
		&session.CSRFToken,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}

	session.UserID = userID.Int64
	session.Username = username.String
	session.Role = role.String
	return session, nil
}

// UpdateCSRFToken updates the CSRF token for a session.
// Used to issue a token on the login form and to rotate it.
func (r *SessionRepository) UpdateCSRFToken(ctx context.Context, csrfToken, sessionToken string) error {
	_, err := r.updateCSRFTokenStmt.ExecContext(ctx, csrfToken, sessionToken)
	if err != nil {
		return fmt.Errorf("failed to update csrf token: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.deleteStmt.ExecContext(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.deleteExpiredStmt.ExecContext(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return count, nil
}

// CountActive returns the number of unexpired sessions. Not part of
// domain.SessionRepository; feeds the sessions gauge.
func (r *SessionRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.countActiveStmt.QueryRowContext(ctx, time.Now()).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return count, nil
}
