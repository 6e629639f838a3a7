package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopora/go-shop-backend/internal/app/config"
	"github.com/shopora/go-shop-backend/internal/app/entity"
)

const (
	sessionTokenTTL    = 24 * time.Hour
	activationTokenTTL = 5 * time.Minute
	resetTokenTTL      = 15 * time.Minute
)

var (
	ErrInvalidToken = errors.New("token is invalid or expired")
)

type sessionClaims struct {
	jwt.RegisteredClaims
	Role entity.Role `json:"role"`
}

// ActivationPayload is the pending account profile carried inside an
// activation token: the account is only created once the token comes
// back verified.
type ActivationPayload struct {
	Role        entity.Role  `json:"role"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Password    string       `json:"password"` // bcrypt hash, never plaintext
	Avatar      entity.Image `json:"avatar"`
	PhoneNumber string       `json:"phone_number,omitempty"`
	Address     string       `json:"address,omitempty"`
	ZipCode     string       `json:"zip_code,omitempty"`
}

type activationClaims struct {
	jwt.RegisteredClaims
	Payload ActivationPayload `json:"payload"`
}

type resetClaims struct {
	jwt.RegisteredClaims
	Role entity.Role `json:"role"`
}

type Manager struct {
	sessionSecret    []byte
	activationSecret []byte
}

func NewManager(config config.Config) *Manager {
	return &Manager{
		sessionSecret:    []byte(config.SessionSecret),
		activationSecret: []byte(config.ActivationSecret),
	}
}

func (m *Manager) BuildSessionToken(subject string, role entity.Role) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTokenTTL)),
		},
		Role: role,
	}

	return m.sign(claims, m.sessionSecret)
}

func (m *Manager) ParseSessionToken(tokenString string) (string, entity.Role, error) {
	claims := &sessionClaims{}
	if err := m.parse(tokenString, claims, m.sessionSecret); err != nil {
		return "", "", err
	}

	return claims.Subject, claims.Role, nil
}

func (m *Manager) BuildActivationToken(payload ActivationPayload) (string, error) {
	claims := activationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(activationTokenTTL)),
		},
		Payload: payload,
	}

	return m.sign(claims, m.activationSecret)
}

func (m *Manager) ParseActivationToken(tokenString string) (ActivationPayload, error) {
	claims := &activationClaims{}
	if err := m.parse(tokenString, claims, m.activationSecret); err != nil {
		return ActivationPayload{}, err
	}

	return claims.Payload, nil
}

func (m *Manager) BuildResetToken(subject string, role entity.Role) (string, error) {
	claims := resetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(resetTokenTTL)),
		},
		Role: role,
	}

	return m.sign(claims, m.activationSecret)
}

func (m *Manager) ParseResetToken(tokenString string) (string, entity.Role, error) {
	claims := &resetClaims{}
	if err := m.parse(tokenString, claims, m.activationSecret); err != nil {
		return "", "", err
	}

	return claims.Subject, claims.Role, nil
}

func (m *Manager) sign(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("error while signing token: %w", err)
	}

	return tokenString, nil
}

func (m *Manager) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	return nil
}
