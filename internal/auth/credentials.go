// Package auth hashes passwords and issues and verifies signed bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for tokens that are malformed, expired, or
// carry a bad signature.
var ErrInvalidToken = errors.New("invalid token")

// Credentials hashes passwords and signs tokens with a server-held secret.
type Credentials struct {
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// NewCredentials constructs Credentials. A zero ttl or cost selects the defaults.
func NewCredentials(secret string, ttl time.Duration, cost int) *Credentials {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Credentials{
		secret: []byte(secret),
		ttl:    ttl,
		cost:   cost,
		now:    time.Now,
	}
}

// HashPassword returns a salted bcrypt digest of plain.
func (c *Credentials) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), c.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether plain matches digest.
func (c *Credentials) CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// IssueToken signs a token naming userID as its subject.
func (c *Credentials) IssueToken(userID string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// VerifyToken checks the signature and expiry of tokenString and returns
// the user id it was issued for.
func (c *Credentials) VerifyToken(tokenString string) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return subject, nil
}
