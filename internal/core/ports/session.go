package ports

import (
	"context"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

// Session is what the API client needs from the session manager.
type Session interface {
	AccessToken(ctx context.Context) (string, bool)
	Establish(ctx context.Context, identity domain.Identity, token string) error
	ClearIdentity(ctx context.Context) error
}
