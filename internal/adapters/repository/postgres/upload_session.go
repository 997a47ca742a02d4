package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"upload-gate/internal/core/domain"
	"upload-gate/internal/core/port"
)

// SQLQuerier is satisfied by both *sql.DB and *sql.Tx
type SQLQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlUploadSessionRepository struct {
	db SQLQuerier
}

// NewSQLUploadSessionRepository creates a new sqlUploadSessionRepository
func NewSQLUploadSessionRepository(db SQLQuerier) port.UploadSessionRepository {
	return &sqlUploadSessionRepository{db: db}
}

const sessionColumns = `token, category, owner_context, object_key, allowed_extensions, max_size_bytes,
		state, issued_at, expires_at, verified_at, final_location, version, created_at, updated_at`

// Create persists a new session in its initial state
func (s *sqlUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	query := `
		INSERT INTO upload_session (
			token, category, owner_context, object_key, allowed_extensions,
			max_size_bytes, state, issued_at, expires_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	ownerJSON, err := json.Marshal(session.OwnerContext)
	if err != nil {
		return fmt.Errorf("could not encode owner context: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		query,
		session.Token,
		session.Category,
		ownerJSON,
		session.ObjectKey,
		pq.Array(session.AllowedExtensions),
		session.MaxSizeBytes,
		session.State,
		session.IssuedAt,
		session.ExpiresAt,
		session.Version,
	)
	if err != nil {
		return err
	}
	return nil
}

func (s *sqlUploadSessionRepository) FindByToken(ctx context.Context, token string) (*domain.UploadSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM upload_session
		WHERE token = $1`

	return s.scanOne(s.db.QueryRowContext(ctx, query, token))
}

func (s *sqlUploadSessionRepository) FindByObjectKey(ctx context.Context, objectKey string) (*domain.UploadSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM upload_session
		WHERE object_key = $1`

	return s.scanOne(s.db.QueryRowContext(ctx, query, objectKey))
}

func (s *sqlUploadSessionRepository) FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM upload_session
		WHERE state IN ('pending', 'expired') AND expires_at < $1`

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.UploadSession
	for rows.Next() {
		session, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// TransitionState performs the optimistic compare-and-set all lifecycle
// transitions go through. Zero rows affected means another actor moved the
// session first.
func (s *sqlUploadSessionRepository) TransitionState(ctx context.Context, token string, from, to domain.UploadState, expectedVersion int64) error {
	query := `
		UPDATE upload_session
		SET state = $1, version = version + 1, updated_at = now()
		WHERE token = $2 AND state = $3 AND version = $4`

	result, err := s.db.ExecContext(ctx, query, to, token, from, expectedVersion)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrVersionConflict
	}

	return nil
}

// MarkVerified is the PENDING -> VERIFIED transition, recording the verification time
func (s *sqlUploadSessionRepository) MarkVerified(ctx context.Context, token string, expectedVersion int64, verifiedAt time.Time) error {
	query := `
		UPDATE upload_session
		SET state = 'verified', verified_at = $1, version = version + 1, updated_at = now()
		WHERE token = $2 AND state = 'pending' AND version = $3`

	result, err := s.db.ExecContext(ctx, query, verifiedAt, token, expectedVersion)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrVersionConflict
	}

	return nil
}

// SetFinalLocation records where the promoted object ended up
func (s *sqlUploadSessionRepository) SetFinalLocation(ctx context.Context, token string, location string) error {
	query := `
		UPDATE upload_session
		SET final_location = $1, updated_at = now()
		WHERE token = $2 AND state = 'verified'`

	result, err := s.db.ExecContext(ctx, query, location, token)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *sqlUploadSessionRepository) scanOne(row *sql.Row) (*domain.UploadSession, error) {
	session, err := s.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *sqlUploadSessionRepository) scan(row rowScanner) (*domain.UploadSession, error) {
	var db dbUploadSession
	err := row.Scan(
		&db.Token,
		&db.Category,
		&db.OwnerContext,
		&db.ObjectKey,
		pq.Array(&db.AllowedExtensions),
		&db.MaxSizeBytes,
		&db.State,
		&db.IssuedAt,
		&db.ExpiresAt,
		&db.VerifiedAt,
		&db.FinalLocation,
		&db.Version,
		&db.CreatedAt,
		&db.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return db.ToDomain()
}

type dbUploadSession struct {
	Token             string
	Category          string
	OwnerContext      []byte
	ObjectKey         string
	AllowedExtensions []string
	MaxSizeBytes      int64
	State             string
	IssuedAt          time.Time
	ExpiresAt         time.Time
	VerifiedAt        sql.NullTime
	FinalLocation     sql.NullString
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ToDomain converts db obj to domain
func (s *dbUploadSession) ToDomain() (*domain.UploadSession, error) {
	var owner domain.OwnerContext
	if len(s.OwnerContext) > 0 {
		if err := json.Unmarshal(s.OwnerContext, &owner); err != nil {
			return nil, fmt.Errorf("could not decode owner context: %w", err)
		}
	}

	session := &domain.UploadSession{
		Token:             s.Token,
		Category:          s.Category,
		OwnerContext:      owner,
		ObjectKey:         s.ObjectKey,
		AllowedExtensions: s.AllowedExtensions,
		MaxSizeBytes:      s.MaxSizeBytes,
		State:             domain.UploadState(s.State),
		IssuedAt:          s.IssuedAt,
		ExpiresAt:         s.ExpiresAt,
		Version:           s.Version,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.VerifiedAt.Valid {
		session.VerifiedAt = &s.VerifiedAt.Time
	}
	if s.FinalLocation.Valid {
		session.FinalLocation = &s.FinalLocation.String
	}
	return session, nil
}
