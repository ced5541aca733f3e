package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"innoport/internal/identity/models"
	id "innoport/pkg/domain"
	authmw "innoport/pkg/platform/middleware/auth"
)

// TokenIssuer mints and validates the portal's HS256 access tokens.
type TokenIssuer struct {
	signingKey []byte
	ttl        time.Duration
}

func NewTokenIssuer(signingKey string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenIssuer{signingKey: []byte(signingKey), ttl: ttl}
}

// TTL exposes the access token lifetime for revocation bookkeeping.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

type accessClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Issue signs a token for the session and records the JTI on it.
func (t *TokenIssuer) Issue(session *models.Session) (string, error) {
	now := time.Now().UTC()
	session.JTI = uuid.NewString()
	session.IssuedAt = now
	session.ExpiresAt = now.Add(t.ttl)

	claims := accessClaims{
		SessionID: session.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID.String(),
			ID:        session.JTI,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			Issuer:    "innoport",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken implements the bearer middleware's TokenValidator.
func (t *TokenIssuer) ValidateToken(tokenString string) (*authmw.Claims, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	userID, err := id.ParseUserID(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}
	sessionID, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("token session: %w", err)
	}

	return &authmw.Claims{
		UserID:    userID,
		SessionID: sessionID,
		JTI:       claims.ID,
	}, nil
}
