package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ticketbooking/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// Session is the authenticated identity of a caller. It is created on login
// and destroyed on logout; handlers receive it explicitly.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) IsAdmin() bool { return s.Role == domain.RoleAdmin }

var ErrSessionNotFound = errors.New("session not found")

type SessionStore interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// MemorySessionStore keeps sessions in process. Used when Redis is not
// configured and in tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	Now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]Session{}, Now: time.Now}
}

func (m *MemorySessionStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if !s.ExpiresAt.IsZero() && !m.Now().Before(s.ExpiresAt) {
		delete(m.sessions, id)
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// RedisSessionStore stores sessions as JSON with a TTL matching ExpiresAt.
type RedisSessionStore struct {
	Client *redis.Client
	Prefix string
}

func (r RedisSessionStore) key(id string) string {
	prefix := r.Prefix
	if prefix == "" {
		prefix = "session:"
	}
	return prefix + id
}

func (r RedisSessionStore) Save(ctx context.Context, s Session) error {
	body, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.ID)
	}
	return r.Client.Set(ctx, r.key(s.ID), body, ttl).Err()
}

func (r RedisSessionStore) Get(ctx context.Context, id string) (Session, error) {
	body, err := r.Client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (r RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.Client.Del(ctx, r.key(id)).Err()
}

// TokenIssuer signs and parses the HS256 session token. The token only
// points at a session; the store decides whether it is still live.
type TokenIssuer struct {
	Secret []byte
}

func (t TokenIssuer) Issue(s Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":     s.ID,
		"user_id": s.UserID,
		"role":    s.Role,
		"iat":     s.CreatedAt.Unix(),
		"exp":     s.ExpiresAt.Unix(),
	})
	return token.SignedString(t.Secret)
}

// Parse validates signature and expiry and returns the session id.
func (t TokenIssuer) Parse(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !tok.Valid {
		return "", fmt.Errorf("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", fmt.Errorf("token has no session")
	}
	return sid, nil
}
