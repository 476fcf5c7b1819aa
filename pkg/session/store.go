package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/petpal-app/petpal-backend/pkg/config"
	redisclient "github.com/petpal-app/petpal-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

const tokenBytes = 32

// ErrNotFound signals a missing or expired session.
var ErrNotFound = errors.New("session not found")

// Flash is a one-shot message: stored on a write, cleared by the read.
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Data is the server-held state behind one session cookie.
type Data struct {
	UserID    int64  `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	CSRFToken string `json:"csrf_token"`
	Flash     *Flash `json:"flash,omitempty"`
}

// IsAuthenticated reports whether the session belongs to a logged-in user.
func (d *Data) IsAuthenticated() bool {
	return d != nil && d.UserID != 0
}

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sid string) string
}

// Store persists session state in Redis keyed by an opaque session ID.
type Store struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewStore constructs a session store backed by Redis.
func NewStore(client *redisclient.Client, cfg config.SessionConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Store{
		store: client,
		keyer: client,
		ttl:   cfg.TTL,
	}, nil
}

// Create mints a fresh session with a new CSRF token and persists it.
func (s *Store) Create(ctx context.Context) (string, *Data, error) {
	sid, err := newToken()
	if err != nil {
		return "", nil, err
	}
	csrf, err := newToken()
	if err != nil {
		return "", nil, err
	}
	data := &Data{CSRFToken: csrf}
	if err := s.Save(ctx, sid, data); err != nil {
		return "", nil, err
	}
	return sid, data, nil
}

// Get loads the session behind sid or returns ErrNotFound.
func (s *Store) Get(ctx context.Context, sid string) (*Data, error) {
	if strings.TrimSpace(sid) == "" {
		return nil, ErrNotFound
	}
	raw, err := s.store.Get(ctx, s.keyer.SessionKey(sid))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decoding session payload: %w", err)
	}
	return &data, nil
}

// Save writes the session state and refreshes its TTL.
func (s *Store) Save(ctx context.Context, sid string, data *Data) error {
	if strings.TrimSpace(sid) == "" {
		return fmt.Errorf("session id is required")
	}
	if data == nil {
		return fmt.Errorf("session data is required")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding session payload: %w", err)
	}
	return s.store.Set(ctx, s.keyer.SessionKey(sid), string(raw), s.ttl)
}

// Regenerate moves the session state under a fresh identifier and deletes the
// old entry. Called on login to defeat session fixation.
func (s *Store) Regenerate(ctx context.Context, oldSID string, data *Data) (string, error) {
	newSID, err := newToken()
	if err != nil {
		return "", err
	}
	if err := s.Save(ctx, newSID, data); err != nil {
		return "", err
	}
	if strings.TrimSpace(oldSID) != "" {
		if err := s.store.Del(ctx, s.keyer.SessionKey(oldSID)); err != nil {
			return "", err
		}
	}
	return newSID, nil
}

// Destroy removes the session entry entirely.
func (s *Store) Destroy(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return nil
	}
	return s.store.Del(ctx, s.keyer.SessionKey(sid))
}

// PopFlash returns the pending flash message, clearing it from the stored
// session so it is shown at most once.
func (s *Store) PopFlash(ctx context.Context, sid string, data *Data) (*Flash, error) {
	if data == nil || data.Flash == nil {
		return nil, nil
	}
	flash := data.Flash
	data.Flash = nil
	if err := s.Save(ctx, sid, data); err != nil {
		return nil, err
	}
	return flash, nil
}

// ValidateCSRF compares the supplied token against the session's token in
// constant time.
func ValidateCSRF(data *Data, supplied string) bool {
	if data == nil || data.CSRFToken == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(data.CSRFToken), []byte(supplied)) == 1
}

func newToken() (string, error) {
	bytes := make([]byte, tokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
