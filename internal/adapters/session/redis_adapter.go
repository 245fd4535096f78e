package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/providers"
	redisclient "github.com/prestataires/backend/internal/infrastructure/clients/redis"
	apperrors "github.com/prestataires/backend/pkg/errors"
)

// RedisAdapter resolves bearer tokens to sessions stored in Redis. Sessions
// are written by the auth layer as JSON under session:<token>.
type RedisAdapter struct {
	client *redisclient.Client
}

var _ providers.SessionProvider = (*RedisAdapter)(nil)

// NewRedisAdapter creates a new Redis-backed session provider
func NewRedisAdapter(client *redisclient.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Current resolves the session for the given token. An unknown or expired
// token yields an unauthorized error.
func (a *RedisAdapter) Current(ctx context.Context, token string) (*entities.Session, error) {
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("missing session token")
	}

	data, err := a.client.Client().Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, apperrors.NewUnauthorizedError("invalid or expired session token")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load session", err)
	}

	var session entities.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperrors.NewInternalError("failed to decode session", err)
	}
	if session.UserID == "" {
		return nil, apperrors.NewUnauthorizedError("invalid session")
	}
	return &session, nil
}
