package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/userdir/internal/database"
	"github.com/BradenHooton/userdir/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenStore persists login sessions
type TokenStore interface {
	Save(ctx context.Context, session *models.LoginSession) error
	Get(ctx context.Context, tokenID string) (*models.LoginSession, error)
	Delete(ctx context.Context, tokenID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type PostgresTokenStore struct {
	pool *pgxpool.Pool
}

func NewPostgresTokenStore(db *database.DB) *PostgresTokenStore {
	return &PostgresTokenStore{pool: db.Pool}
}

// Save writes a login session
func (r *PostgresTokenStore) Save(ctx context.Context, session *models.LoginSession) error {
	query := `
		INSERT INTO login_sessions (token_id, name, email, ip_address, user_agent, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		session.TokenID,
		session.Name,
		session.Email,
		session.IPAddress,
		session.UserAgent,
		session.IssuedAt,
		session.ExpiresAt,
	)
	return database.MapPostgresError(err)
}

// Get loads a login session by token id
func (r *PostgresTokenStore) Get(ctx context.Context, tokenID string) (*models.LoginSession, error) {
	query := `
		SELECT token_id, name, email, ip_address, user_agent, issued_at, expires_at
		FROM login_sessions
		WHERE token_id = $1
	`

	var s models.LoginSession
	err := r.pool.QueryRow(ctx, query, tokenID).Scan(
		&s.TokenID,
		&s.Name,
		&s.Email,
		&s.IPAddress,
		&s.UserAgent,
		&s.IssuedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &s, nil
}

// Delete removes a login session
func (r *PostgresTokenStore) Delete(ctx context.Context, tokenID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM login_sessions WHERE token_id = $1`, tokenID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteExpired removes expired sessions (call periodically)
func (r *PostgresTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM login_sessions WHERE expires_at <= $1`, time.Now())
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return result.RowsAffected(), nil
}

// MemoryTokenStore keeps sessions in process memory
type MemoryTokenStore struct {
	mu       sync.RWMutex
	sessions map[string]models.LoginSession
	now      func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		sessions: make(map[string]models.LoginSession),
		now:      time.Now,
	}
}

func (m *MemoryTokenStore) Save(_ context.Context, session *models.LoginSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.TokenID]; exists {
		return models.ErrConflict
	}
	m.sessions[session.TokenID] = *session
	return nil
}

func (m *MemoryTokenStore) Get(_ context.Context, tokenID string) (*models.LoginSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[tokenID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (m *MemoryTokenStore) Delete(_ context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[tokenID]; !ok {
		return models.ErrNotFound
	}
	delete(m.sessions, tokenID)
	return nil
}

func (m *MemoryTokenStore) DeleteExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var n int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
