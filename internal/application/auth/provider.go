package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/repository"
)

// Códigos de error del proveedor de autenticación.
const (
	CodeInvalidEmail      = "auth/invalid-email"
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodeWeakPassword      = "auth/weak-password"
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeTooManyRequests   = "auth/too-many-requests"
	CodeNetworkFailed     = "auth/network-request-failed"
	CodeSessionExpired    = "auth/session-expired"
)

const (
	minPasswordLength    = 6
	maxFailedAttempts    = 5
	failedAttemptsWindow = 15 * time.Minute
)

// ProviderError error del proveedor con su código (p. ej. "auth/wrong-password").
type ProviderError struct {
	Code string
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *ProviderError) Unwrap() error { return e.Err }

// CodeOf devuelve el código del ProviderError contenido en err, o "".
func CodeOf(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

func providerErr(code string, err error) *ProviderError {
	return &ProviderError{Code: code, Err: err}
}

// Provider verifica credenciales y crea cuentas. Los errores son *ProviderError.
type Provider interface {
	SignUp(ctx context.Context, email, password, displayName string) (*entity.User, error)
	SignIn(ctx context.Context, email, password string) (*entity.User, error)
}

var _ Provider = (*LocalProvider)(nil)

// LocalProvider proveedor propio: usuarios en el almacenamiento local, contraseñas con bcrypt.
// Tras varios intentos fallidos seguidos para un email responde auth/too-many-requests.
type LocalProvider struct {
	users repository.UserRepository
	now   func() time.Time

	mu       sync.Mutex
	failures map[string][]time.Time
}

// NewLocalProvider construye el proveedor local.
func NewLocalProvider(users repository.UserRepository) *LocalProvider {
	return &LocalProvider{users: users, now: time.Now, failures: map[string][]time.Time{}}
}

// SignUp valida email y contraseña y crea el usuario.
func (p *LocalProvider) SignUp(ctx context.Context, email, password, displayName string) (*entity.User, error) {
	email = normalizeEmail(email)
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, providerErr(CodeInvalidEmail, err)
	}
	if len(password) < minPasswordLength {
		return nil, providerErr(CodeWeakPassword, nil)
	}
	existing, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, providerErr(CodeNetworkFailed, err)
	}
	if existing != nil {
		return nil, providerErr(CodeEmailAlreadyInUse, nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: string(hash),
		CreatedAt:    p.now(),
	}
	if err := p.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, providerErr(CodeEmailAlreadyInUse, nil)
		}
		return nil, providerErr(CodeNetworkFailed, err)
	}
	return user, nil
}

// SignIn verifica email/password.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*entity.User, error) {
	email = normalizeEmail(email)
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, providerErr(CodeInvalidEmail, err)
	}
	if p.blocked(email) {
		return nil, providerErr(CodeTooManyRequests, nil)
	}
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, providerErr(CodeNetworkFailed, err)
	}
	if user == nil {
		p.fail(email)
		return nil, providerErr(CodeUserNotFound, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		p.fail(email)
		return nil, providerErr(CodeWrongPassword, nil)
	}
	p.reset(email)
	return user, nil
}

func (p *LocalProvider) blocked(email string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := p.now().Add(-failedAttemptsWindow)
	recent := p.failures[email][:0]
	for _, t := range p.failures[email] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	p.failures[email] = recent
	return len(recent) >= maxFailedAttempts
}

func (p *LocalProvider) fail(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[email] = append(p.failures[email], p.now())
}

func (p *LocalProvider) reset(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failures, email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
