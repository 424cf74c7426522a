package entity

import "time"

// User usuario del proveedor de autenticación local.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	CreatedAt    time.Time
}

// AuthState estado de autenticación notificado a los suscriptores.
// User nil significa sesión cerrada.
type AuthState struct {
	User *AuthUser `json:"user"`
}

// AuthUser identidad visible de un usuario autenticado.
type AuthUser struct {
	ID          string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// SignedIn indica si el estado corresponde a una sesión abierta.
func (s AuthState) SignedIn() bool { return s.User != nil }

// Session sesión emitida al iniciar sesión; el token JWT lleva su ID.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// AuthUserOf identidad pública de u.
func AuthUserOf(u *User) *AuthUser {
	if u == nil {
		return nil
	}
	return &AuthUser{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}
