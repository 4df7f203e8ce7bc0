package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/ports"
	"go.uber.org/zap"
)

const (
	messageLicenseActivated = "License activated"
	messageDevActivated     = "Developer license activated"
	messageInvalidLicense   = "Invalid license"
)

type LicenseOptions struct {
	// DevMode enables the developer key bypass. When off, DevKey is an
	// ordinary key and goes through remote verification.
	DevMode bool
	DevKey  string
}

type Service struct {
	repo    ports.LicenseRepository
	remote  ports.Remote
	options LicenseOptions
	log     *zap.Logger
}

func NewService(repo ports.LicenseRepository, remote ports.Remote, options LicenseOptions, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		repo:    repo,
		remote:  remote,
		options: options,
		log:     log,
	}
}

// ValidateLicense verifies key and persists the resulting record, replacing
// any previous one. A rejected key leaves the stored record untouched.
func (s *Service) ValidateLicense(ctx context.Context, key string) (domain.License, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return domain.License{}, domain.ErrEmptyLicenseKey
	}

	if s.isDevKey(trimmed) {
		license := domain.License{
			Success: true,
			Dev:     true,
			Tier:    domain.TierForge,
			Mode:    domain.ModeDev,
			Message: messageDevActivated,
			Key:     &domain.LicenseKey{Key: trimmed},
		}
		if err := s.repo.Save(ctx, license); err != nil {
			return domain.License{}, fmt.Errorf("save developer license: %w", err)
		}

		s.log.Info("developer license activated")
		return license, nil
	}

	result, err := s.remote.VerifyLicense(ctx, trimmed)
	if err != nil {
		return domain.License{}, fmt.Errorf("verify license: %w", err)
	}
	if !result.Valid {
		message := strings.TrimSpace(result.Error)
		if message == "" {
			message = messageInvalidLicense
		}

		s.log.Debug("license rejected", zap.String("key", domain.MaskKey(trimmed)), zap.String("reason", message))
		return domain.License{}, &domain.RejectedError{Message: message}
	}

	license := domain.License{
		Success:   true,
		Tier:      result.Tier,
		VariantID: result.VariantID,
		Mode:      result.Status,
		Message:   messageLicenseActivated,
		RenewsAt:  result.RenewsAt,
		Key:       &domain.LicenseKey{Key: trimmed},
	}
	if err := s.repo.Save(ctx, license); err != nil {
		return domain.License{}, fmt.Errorf("save license: %w", err)
	}

	s.log.Info("license activated", zap.String("tier", string(license.Tier)), zap.String("key", domain.MaskKey(trimmed)))
	return license, nil
}

// LoadLicense returns domain.ErrNoLicense when nothing is stored.
func (s *Service) LoadLicense(ctx context.Context) (domain.License, error) {
	license, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoLicense) {
			return domain.License{}, err
		}
		return domain.License{}, fmt.Errorf("load license: %w", err)
	}

	return license, nil
}

func (s *Service) ClearLicense(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear license: %w", err)
	}

	s.log.Info("license cleared")
	return nil
}

// Usage fetches today's counters for the stored key. It fails with
// domain.ErrNoLicense before any I/O when no keyed record exists.
func (s *Service) Usage(ctx context.Context) (domain.UsageSnapshot, error) {
	key, err := s.activeKey(ctx)
	if err != nil {
		return domain.UsageSnapshot{}, err
	}

	usage, err := s.remote.Usage(ctx, key)
	if err != nil {
		return domain.UsageSnapshot{}, fmt.Errorf("fetch usage: %w", err)
	}

	return usage, nil
}

// SecureRequest proxies one call to the remote service with the stored key.
func (s *Service) SecureRequest(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	key, err := s.activeKey(ctx)
	if err != nil {
		return nil, err
	}

	body, err := s.remote.Post(ctx, key, path, payload)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}

	return body, nil
}

func (s *Service) activeKey(ctx context.Context) (string, error) {
	license, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoLicense) {
			return "", domain.ErrNoLicense
		}
		return "", fmt.Errorf("load license: %w", err)
	}
	if !license.HasKey() {
		return "", domain.ErrNoLicense
	}

	return license.KeyValue(), nil
}

func (s *Service) isDevKey(key string) bool {
	return s.options.DevMode && s.options.DevKey != "" && key == s.options.DevKey
}
