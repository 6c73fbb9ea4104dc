package session

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialIssuer exchanges credentials for a bearer token
type CredentialIssuer interface {
	Issue(ctx context.Context, email, password string) (string, error)
}

// Claims is the payload written by StubIssuer
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// stubKey signs stub tokens. Nothing verifies the signature.
var stubKey = []byte("todo-local-stub")

// StubIssuer accepts any credentials and fabricates a token for a fixed user.
// It stands in for a real credential-issuing service and performs no checks.
type StubIssuer struct {
	UserID int64
	TTL    time.Duration
	Now    func() time.Time
}

// NewStubIssuer returns a stub issuing tokens for userID valid for ttl
func NewStubIssuer(userID int64, ttl time.Duration) *StubIssuer {
	return &StubIssuer{UserID: userID, TTL: ttl, Now: time.Now}
}

func (s *StubIssuer) Issue(_ context.Context, email, _ string) (string, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	claims := Claims{
		UserID: s.UserID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(s.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(stubKey)
}
