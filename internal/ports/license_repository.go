package ports

import (
	"context"

	"github.com/querykiln/kiln/internal/domain"
)

// LicenseRepository persists at most one license record. Load returns
// domain.ErrNoLicense when nothing is stored.
type LicenseRepository interface {
	Load(ctx context.Context) (domain.License, error)
	Save(ctx context.Context, license domain.License) error
	Clear(ctx context.Context) error
}
