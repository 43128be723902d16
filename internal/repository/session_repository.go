package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"yield-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// SessionRepository handles session-related Redis operations.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

type sessionRepository struct {
	client     *redis.Client
	expiration time.Duration
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(client *redis.Client) SessionRepository {
	return &sessionRepository{
		client:     client,
		expiration: 24 * time.Hour,
	}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	if session.Token == "" {
		return fmt.Errorf("session token cannot be empty")
	}
	if session.UserID == 0 {
		return fmt.Errorf("session user ID cannot be empty")
	}

	session.CreatedAt = time.Now()
	session.ExpiresAt = session.CreatedAt.Add(r.expiration)

	sessionData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := r.sessionKey(session.Token)
	if err := r.client.Set(ctx, key, sessionData, r.expiration).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sessionRepository) sessionKey(token string) string {
	return "session:" + token
}
