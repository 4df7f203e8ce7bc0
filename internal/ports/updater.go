package ports

import (
	"context"

	"github.com/querykiln/kiln/internal/domain"
)

// UpdateSink receives updater lifecycle events.
type UpdateSink interface {
	Publish(event domain.UpdateEvent)
}

type Updater interface {
	// Check returns nil info when the running version is current.
	Check(ctx context.Context) (*domain.UpdateInfo, error)
	Download(ctx context.Context) error
	Install(ctx context.Context) error
}
