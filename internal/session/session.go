// Package session derives the local user identity from the persisted bearer
// token. Tokens are decoded, not verified: this is a client convenience, the
// backend remains the only authority.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tgienger/todo/internal/models"
)

var (
	// ErrNoToken is returned when no token is stored.
	ErrNoToken = errors.New("no token")
	// ErrMalformedToken is returned when the token cannot be decoded.
	ErrMalformedToken = errors.New("malformed token")
	// ErrTokenExpired is returned when the exp claim is missing or past.
	ErrTokenExpired = errors.New("token has expired")
)

// Service reads and writes the token slot and maps it to a User. It keeps
// no copy of the token; every call reads the store.
type Service struct {
	store  TokenStore
	issuer CredentialIssuer
	logger *log.Logger
	now    func() time.Time
	parser *jwt.Parser
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the clock used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a session service
func New(store TokenStore, issuer CredentialIssuer, logger *log.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Service{
		store:  store,
		issuer: issuer,
		logger: logger,
		now:    time.Now,
		parser: jwt.NewParser(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetToken persists token
func (s *Service) SetToken(token string) error {
	return s.store.Set(token)
}

// Token returns the stored token, "" when none. It satisfies api.TokenSource.
func (s *Service) Token() (string, error) {
	return s.store.Get()
}

// RemoveToken clears the stored token
func (s *Service) RemoveToken() error {
	return s.store.Remove()
}

// IsValidToken reports whether token (or, when empty, the stored token) has
// three segments, decodes, and carries an exp claim in the future.
func (s *Service) IsValidToken(token string) bool {
	if token == "" {
		stored, err := s.store.Get()
		if err != nil {
			s.logger.Warn("read token", "err", err)
			return false
		}
		token = stored
	}
	_, err := s.decode(token)
	if err != nil && !errors.Is(err, ErrNoToken) {
		s.logger.Debug("token rejected", "err", err)
	}
	return err == nil
}

// CurrentUser returns the user encoded in the stored token, or nil when the
// token is absent, invalid, expired or carries no usable user id.
func (s *Service) CurrentUser() *models.User {
	token, err := s.store.Get()
	if err != nil {
		s.logger.Warn("read token", "err", err)
		return nil
	}
	user, err := s.Identify(token)
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			s.logger.Debug("no current user", "err", err)
		}
		return nil
	}
	return user
}

// Identify decodes token into a User
func (s *Service) Identify(token string) (*models.User, error) {
	claims, err := s.decode(token)
	if err != nil {
		return nil, err
	}

	id, ok := claimID(claims["userId"])
	if !ok {
		id, ok = claimID(claims["sub"])
	}
	if !ok {
		return nil, fmt.Errorf("%w: no user id claim", ErrMalformedToken)
	}
	email, _ := claims["email"].(string)

	return &models.User{
		ID:         id,
		Email:      email,
		Token:      token,
		IsLoggedIn: true,
	}, nil
}

// IsAuthenticated reports whether a current user can be derived
func (s *Service) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// LoginResult is the outcome of Login
type LoginResult struct {
	Success bool
	User    *models.User
	Error   string
}

// Login obtains a token from the issuer, stores it and returns the derived user
func (s *Service) Login(ctx context.Context, email, password string) LoginResult {
	token, err := s.issuer.Issue(ctx, email, password)
	if err != nil {
		s.logger.Error("issue token", "email", email, "err", err)
		return LoginResult{Error: "Login failed"}
	}
	if err := s.store.Set(token); err != nil {
		s.logger.Error("store token", "err", err)
		return LoginResult{Error: "Login failed"}
	}

	user := s.CurrentUser()
	if user == nil {
		return LoginResult{Error: "Unable to create user session"}
	}
	s.logger.Info("logged in", "user", user.ID, "email", user.Email)
	return LoginResult{Success: true, User: user}
}

// Logout removes the stored token. Tokens are stateless, so nothing is sent
// to the backend.
func (s *Service) Logout() error {
	if err := s.store.Remove(); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// Watch polls the store every interval and sends the current user (nil when
// signed out) whenever it changes: a new token, including one written by
// another process, a removed token, or a token that expired in place. The
// channel is closed when ctx is done.
func (s *Service) Watch(ctx context.Context, interval time.Duration) <-chan *models.User {
	out := make(chan *models.User)
	last := userKey(s.CurrentUser())

	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			user := s.CurrentUser()
			key := userKey(user)
			if key == last {
				continue
			}
			last = key

			select {
			case out <- user:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// userKey identifies a signed-in user by token, "" when signed out.
func userKey(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Token
}

func (s *Service) decode(token string) (jwt.MapClaims, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments", ErrMalformedToken)
	}

	// Only the claims segment is read; header and signature are not checked
	payload, err := s.parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	claims := jwt.MapClaims{}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	// Whole-second resolution, like the exp claim itself.
	now := time.Unix(s.now().Unix(), 0)
	if exp == nil || !exp.Time.After(now) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

// claimID accepts numeric ids and numeric strings.
func claimID(v any) (int64, bool) {
	var id int64
	switch x := v.(type) {
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, false
		}
		id = n
	case float64:
		id = int64(x)
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, false
		}
		id = n
	default:
		return 0, false
	}
	return id, id > 0
}
