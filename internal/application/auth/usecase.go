package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ofertare-api/internal/application/dto"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/repository"
	"github.com/jhoicas/Ofertare-api/pkg/jwt"
	"github.com/jhoicas/Ofertare-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// StateHub difusión del estado de autenticación por usuario.
type StateHub interface {
	Publish(userID string, state entity.AuthState)
	Subscribe(userID string, fn func(entity.AuthState)) (cancel func())
}

// AuthUseCase casos de uso de autenticación: registro, login, logout y suscripción al estado.
type AuthUseCase struct {
	provider  Provider
	sessions  repository.SessionRepository
	hub       StateHub
	jwtCfg    JWTConfig
	log       *logger.Logger
	now       func() time.Time
	onSignOut []func(userID string)
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(provider Provider, sessions repository.SessionRepository, hub StateHub, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if jwtCfg.ExpMinutes <= 0 {
		jwtCfg.ExpMinutes = 720
	}
	return &AuthUseCase{
		provider: provider,
		sessions: sessions,
		hub:      hub,
		jwtCfg:   jwtCfg,
		log:      log.Component("auth"),
		now:      time.Now,
	}
}

// OnSignOut registra fn para ejecutarse después de cada cierre de sesión (p. ej. descartar la oferta en memoria).
func (uc *AuthUseCase) OnSignOut(fn func(userID string)) {
	uc.onSignOut = append(uc.onSignOut, fn)
}

// SignUp crea la cuenta y abre sesión con ella.
func (uc *AuthUseCase) SignUp(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	user, err := uc.provider.SignUp(ctx, in.Email, in.Password, in.DisplayName)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("cuenta creada")
	return uc.openSession(ctx, user)
}

// SignIn verifica email/password, registra la sesión y retorna token + usuario.
func (uc *AuthUseCase) SignIn(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.provider.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return uc.openSession(ctx, user)
}

// SignOut revoca la sesión. Sólo cuando no le queda ninguna otra abierta al usuario se publica
// la sesión cerrada y corren los hooks de OnSignOut.
func (uc *AuthUseCase) SignOut(ctx context.Context, userID, sessionID string) error {
	if err := uc.sessions.Revoke(ctx, sessionID); err != nil {
		return providerErr(CodeNetworkFailed, err)
	}
	remaining, err := uc.sessions.CountActive(ctx, userID)
	if err != nil {
		return providerErr(CodeNetworkFailed, err)
	}
	if remaining > 0 {
		uc.log.Info().Str("user_id", userID).Int("sesiones_abiertas", remaining).Msg("sesión cerrada")
		return nil
	}
	uc.hub.Publish(userID, entity.AuthState{})
	for _, fn := range uc.onSignOut {
		fn(userID)
	}
	uc.log.Info().Str("user_id", userID).Msg("sesión cerrada")
	return nil
}

// Subscribe entrega el estado actual y cada transición hasta que se llame a cancel (idempotente).
func (uc *AuthUseCase) Subscribe(userID string, fn func(entity.AuthState)) (cancel func()) {
	return uc.hub.Subscribe(userID, fn)
}

// IsSessionActive indica si la sesión del token sigue abierta.
func (uc *AuthUseCase) IsSessionActive(ctx context.Context, sessionID string) (bool, error) {
	return uc.sessions.IsActive(ctx, sessionID)
}

func (uc *AuthUseCase) openSession(ctx context.Context, user *entity.User) (*dto.LoginResponse, error) {
	now := uc.now()
	s := &entity.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
	}
	if err := uc.sessions.Create(ctx, s); err != nil {
		return nil, providerErr(CodeNetworkFailed, err)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Session{UserID: user.ID, Email: user.Email, SessionID: s.ID}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	uc.hub.Publish(user.ID, entity.AuthState{User: entity.AuthUserOf(user)})
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: s.ExpiresAt,
		User:      toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
