package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gestfin/gestfin/internal/config"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/utils"
	"github.com/gestfin/gestfin/pkg/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = failure.Rule("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const (
	accessKind  = "access"
	refreshKind = "refresh"
)

type Claims struct {
	UserId int    `json:"uid"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// Session is returned on login and refresh.
type Session struct {
	User         user.User `json:"user"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Manager issues and checks the signed tokens of user sessions. Refresh
// token ids revoked by Logout or Refresh are kept until they expire.
type Manager struct {
	users      user.Service
	clock      utils.Clock
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewManager(users user.Service, clock utils.Clock, cfg config.Auth) *Manager {
	secret := cfg.Secret
	if secret == "" {
		log.Warn("no auth secret configured, tokens will not survive a restart")
		secret = uuid.NewString() + uuid.NewString()
	}
	return &Manager{
		users:      users,
		clock:      clock,
		secret:     []byte(secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		revoked:    make(map[string]time.Time),
	}
}

func (m *Manager) CreateUser(ctx context.Context, newUser user.NewUser) (user.User, error) {
	return m.users.Create(ctx, newUser)
}

// Login checks the credentials and opens a new session.
func (m *Manager) Login(ctx context.Context, email string, password string) (Session, error) {
	u, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if u == nil || !m.users.CheckPassword(*u, password) {
		log.Debugf("failed login for %q", email)
		return Session{}, ErrInvalidCredentials
	}
	return m.newSession(*u)
}

func (m *Manager) GetCurrentUser(ctx context.Context) (*user.User, error) {
	return m.users.GetCurrentUser(ctx)
}

// Authenticate resolves the user of an access token.
func (m *Manager) Authenticate(ctx context.Context, token string) (*user.User, error) {
	claims, err := m.ParseToken(token, accessKind)
	if err != nil {
		return nil, err
	}
	u, err := m.users.GetById(ctx, claims.UserId)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidToken
	}
	return u, nil
}

// Refresh exchanges a refresh token for a new session. The old refresh token
// is revoked.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := m.ParseToken(refreshToken, refreshKind)
	if err != nil {
		return Session{}, err
	}
	if !m.revoke(claims) {
		return Session{}, ErrInvalidToken
	}
	u, err := m.users.GetById(ctx, claims.UserId)
	if err != nil {
		return Session{}, err
	}
	if u == nil {
		return Session{}, ErrInvalidToken
	}
	return m.newSession(*u)
}

// Logout revokes the refresh token. Logging out twice is not an error.
func (m *Manager) Logout(refreshToken string) error {
	claims, err := m.ParseToken(refreshToken, refreshKind)
	if err != nil {
		return err
	}
	m.revoke(claims)
	return nil
}

// ParseToken validates the signature, expiry and kind of token. Revoked
// refresh tokens are rejected.
func (m *Manager) ParseToken(token string, kind string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.clock.Now))
	if err != nil {
		log.Debugf("token rejected: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	if kind == refreshKind && m.isRevoked(claims.ID) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) newSession(u user.User) (Session, error) {
	now := m.clock.Now()
	expiresAt := now.Add(m.accessTTL)
	token, err := m.sign(u.Id, accessKind, "", now, expiresAt)
	if err != nil {
		return Session{}, failure.Store("sign access token", err)
	}
	refreshToken, err := m.sign(u.Id, refreshKind, uuid.NewString(), now, now.Add(m.refreshTTL))
	if err != nil {
		return Session{}, failure.Store("sign refresh token", err)
	}
	return Session{User: u, Token: token, RefreshToken: refreshToken, ExpiresAt: expiresAt.UTC().Truncate(time.Second)}, nil
}

func (m *Manager) sign(userId int, kind string, id string, issuedAt time.Time, expiresAt time.Time) (string, error) {
	claims := Claims{
		UserId: userId,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   fmt.Sprint(userId),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// revoke reports false when the token id was already revoked.
func (m *Manager) revoke(claims *Claims) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	for id, expiresAt := range m.revoked {
		if expiresAt.Before(now) {
			delete(m.revoked, id)
		}
	}
	if _, ok := m.revoked[claims.ID]; ok {
		return false
	}
	m.revoked[claims.ID] = claims.ExpiresAt.Time
	return true
}

func (m *Manager) isRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok
}

// TokenFromRequest extracts the bearer token of the Authorization header.
func TokenFromRequest(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}
