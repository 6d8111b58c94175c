package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pharmalink/pharmalink/internal/api/metrics"
	"github.com/pharmalink/pharmalink/internal/core/domain"
	"github.com/pharmalink/pharmalink/internal/core/ports"
)

// Storage keys. They match the names the web client used in localStorage so a
// store can be shared with it.
const (
	KeyCurrentUser = "currentUser"
	KeyAccessToken = "accessToken"
)

// SessionManager is the single source of truth for who is logged in. One
// instance lives for one page load; the store carries state across loads.
type SessionManager struct {
	store ports.SessionStore
	log   zerolog.Logger
	now   func() time.Time

	mu       sync.Mutex
	loaded   bool
	identity *domain.Identity
	token    string
}

func NewSessionManager(store ports.SessionStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{store: store, log: log, now: time.Now}
}

// CurrentIdentity returns the logged-in identity. The store is read on the
// first call only. A missing or unparseable stored value is absent.
func (s *SessionManager) CurrentIdentity(ctx context.Context) (domain.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.warm(ctx)
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

// AccessToken returns the bearer token stored beside the identity.
func (s *SessionManager) AccessToken(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.warm(ctx)
	return s.token, s.token != ""
}

// SetCurrentIdentity overwrites the stored identity and leaves the token
// alone. The shape is the caller's responsibility.
func (s *SessionManager) SetCurrentIdentity(ctx context.Context, identity domain.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.warm(ctx)
	if err := s.store.Save(ctx, map[string]string{KeyCurrentUser: string(raw)}); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	s.identity = &identity
	s.transition(identity.Role)
	return nil
}

// Establish stores identity and token together in one store write.
func (s *SessionManager) Establish(ctx context.Context, identity domain.Identity, token string) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.store.Save(ctx, map[string]string{
		KeyCurrentUser: string(raw),
		KeyAccessToken: token,
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.loaded = true
	s.identity = &identity
	s.token = token
	s.transition(identity.Role)
	return nil
}

// ClearIdentity removes identity and token. Clearing an empty session is a no-op.
func (s *SessionManager) ClearIdentity(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.warm(ctx)
	hadSession := s.identity != nil || s.token != ""

	if err := s.store.Remove(ctx, KeyCurrentUser, KeyAccessToken); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.loaded = true
	s.identity = nil
	s.token = ""
	if hadSession {
		metrics.SessionTransitionsTotal.WithLabelValues("anonymous").Inc()
		s.log.Info().Msg("session cleared")
	}
	return nil
}

// HasRole is true iff an identity is present and its role equals role exactly.
func (s *SessionManager) HasRole(ctx context.Context, role domain.Role) bool {
	identity, ok := s.CurrentIdentity(ctx)
	return ok && identity.Role == role
}

// RouteForRole maps identity to its home page.
func (s *SessionManager) RouteForRole(identity domain.Identity) (domain.Destination, error) {
	return domain.RouteForRole(identity)
}

// TokenExpired is true only when the stored token is a JWT whose exp has passed.
func (s *SessionManager) TokenExpired(ctx context.Context) bool {
	token, ok := s.AccessToken(ctx)
	return ok && domain.TokenExpired(token, s.now())
}

// warm fills the cache from the store once. A failed read is retried on the
// next call. Callers hold s.mu.
func (s *SessionManager) warm(ctx context.Context) {
	if s.loaded {
		return
	}

	values, err := s.store.Load(ctx, KeyCurrentUser, KeyAccessToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("session store unavailable, treating session as anonymous")
		return
	}
	s.loaded = true

	raw, ok := values[KeyCurrentUser]
	if !ok {
		return
	}
	identity, err := decodeIdentity(raw)
	if err != nil {
		s.log.Debug().Err(err).Msg("ignoring unparseable stored identity")
		return
	}

	s.identity = &identity
	s.token = values[KeyAccessToken]
}

func (s *SessionManager) transition(role domain.Role) {
	metrics.SessionTransitionsTotal.WithLabelValues("authenticated").Inc()
	s.log.Info().Str("role", string(role)).Msg("session established")
}

// decodeIdentity accepts only a JSON object carrying a role.
func decodeIdentity(raw string) (domain.Identity, error) {
	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return domain.Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	if identity.Role == "" {
		return domain.Identity{}, fmt.Errorf("decode identity: missing role")
	}
	return identity, nil
}
