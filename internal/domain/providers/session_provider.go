package providers

import (
	"context"

	"github.com/prestataires/backend/internal/domain/entities"
)

// SessionProvider resolves bearer tokens to authenticated sessions. Sign-in,
// sign-up and token refresh are owned by the external auth service; this
// interface is read-only from the backend's point of view.
type SessionProvider interface {
	// Current resolves a token to its session, or a not-found error when
	// the token is unknown or expired
	Current(ctx context.Context, token string) (*entities.Session, error)
}
