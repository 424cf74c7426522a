package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.SessionRepository = (*SessionRepo)(nil)
)

// UserRepo usuarios del proveedor de autenticación local.
type UserRepo struct {
	store *Store
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

// Create persiste un nuevo usuario. Email repetido → domain.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	_, err := r.store.db.ExecContext(ctx, `
INSERT INTO users (id, email, display_name, password_hash, created_at)
VALUES (?, ?, ?, ?, ?)`,
		user.ID, strings.ToLower(user.Email), user.DisplayName, user.PasswordHash, user.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID; nil, nil si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `WHERE id = ?`, id)
}

// GetByEmail obtiene un usuario por email; nil, nil si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, created_at FROM users `+where, arg,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// SessionRepo sesiones emitidas por el proveedor local.
type SessionRepo struct {
	store *Store
	now   func() time.Time
}

// NewSessionRepository construye el repositorio de sesiones.
func NewSessionRepository(store *Store) *SessionRepo {
	return &SessionRepo{store: store, now: time.Now}
}

// Create registra la sesión.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	_, err := r.store.db.ExecContext(ctx, `
INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.UserID, s.CreatedAt.UTC(), s.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Revoke marca la sesión como cerrada. Revocar dos veces conserva la primera fecha.
func (r *SessionRepo) Revoke(ctx context.Context, sessionID string) error {
	_, err := r.store.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`, r.now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsActive sesión existente, no revocada y no vencida.
func (r *SessionRepo) IsActive(ctx context.Context, sessionID string) (bool, error) {
	var (
		expires time.Time
		revoked sql.NullTime
	)
	err := r.store.db.QueryRowContext(ctx,
		`SELECT expires_at, revoked_at FROM sessions WHERE id = ?`, sessionID,
	).Scan(&expires, &revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get session: %w", err)
	}
	return !revoked.Valid && r.now().Before(expires), nil
}

// CountActive cuenta las sesiones abiertas del usuario. El vencimiento se compara en Go
// porque SQLite guarda las fechas como texto.
func (r *SessionRepo) CountActive(ctx context.Context, userID string) (int, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT expires_at FROM sessions WHERE user_id = ? AND revoked_at IS NULL`, userID)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	now := r.now()
	n := 0
	for rows.Next() {
		var expires time.Time
		if err := rows.Scan(&expires); err != nil {
			return 0, fmt.Errorf("scan session: %w", err)
		}
		if now.Before(expires) {
			n++
		}
	}
	return n, rows.Err()
}
