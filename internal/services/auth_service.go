package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"slginvoice/internal/caching"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any username/password mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SessionClaims is the payload of the signed session token handed to the
// operator's browser as a cookie.
type SessionClaims struct {
	Operator  string `json:"operator"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// OperatorCredential is the single configured operator login. PasswordHash
// is a bcrypt hash, never a plaintext password.
type OperatorCredential struct {
	Username     string
	PasswordHash string
}

// AuthService gates the invoice endpoints behind the operator login. Login
// mints a session id, records it in the session store, and signs a JWT
// carrying it; logout deletes the session record so the token dies
// immediately even though its signature stays valid until expiry.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, err error)
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	sessions   caching.SessionStore
	credential OperatorCredential
	jwtSecret  []byte
	sessionTTL time.Duration
}

func NewAuthService(sessions caching.SessionStore, credential OperatorCredential, jwtSecret string, sessionTTL time.Duration) AuthService {
	return &authService{
		sessions:   sessions,
		credential: credential,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.credential.Username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.credential.PasswordHash), []byte(password))
	if !usernameOK || passwordErr != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	sessionID := uuid.NewString()

	claims := SessionClaims{
		Operator:  username,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "slg-invoicing",
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        sessionID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	if err := s.sessions.SetSession(ctx, sessionID, username, s.sessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.DeleteSession(ctx, sessionID)
}
