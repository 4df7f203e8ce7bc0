package ports

import "context"

type SettingsStore interface {
	Get(ctx context.Context, key string, fallback string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
