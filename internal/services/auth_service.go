package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAdminDisabled = errors.New("admin token not configured")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

const sessionTokenTTL = time.Hour

// AuthService guards the administrative API. The admin token from config is
// stored only as a bcrypt hash; clients can either present it directly or
// exchange it for a short-lived session JWT.
type AuthService struct {
	tokenHash []byte
	jwtSecret []byte
}

// NewAuthService hashes the configured admin token. An empty token disables
// the admin API entirely.
func NewAuthService(adminToken, jwtSecret string) (*AuthService, error) {
	s := &AuthService{}
	if adminToken == "" {
		return s, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin token: %w", err)
	}
	s.tokenHash = hash

	if jwtSecret == "" {
		// Ephemeral secret: session tokens do not survive a restart.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		jwtSecret = hex.EncodeToString(buf)
	}
	s.jwtSecret = []byte(jwtSecret)

	return s, nil
}

// Enabled reports whether an admin token is configured.
func (s *AuthService) Enabled() bool {
	return len(s.tokenHash) > 0
}

// VerifyAdminToken checks a presented token against the configured hash.
func (s *AuthService) VerifyAdminToken(token string) bool {
	if !s.Enabled() || token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.tokenHash, []byte(token)) == nil
}

// IssueSessionToken exchanges a valid admin token for a short-lived JWT.
func (s *AuthService) IssueSessionToken(adminToken string) (string, error) {
	if !s.Enabled() {
		return "", ErrAdminDisabled
	}
	if !s.VerifyAdminToken(adminToken) {
		return "", ErrInvalidToken
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifySessionToken validates a session JWT.
func (s *AuthService) VerifySessionToken(tokenString string) error {
	if !s.Enabled() {
		return ErrAdminDisabled
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
