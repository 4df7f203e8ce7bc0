package toml

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/ports"
)

// LicenseSecretRef is the secret-store entry holding the raw license key.
const LicenseSecretRef = "querykiln/license/key"

type LicenseRepository struct {
	doc     document
	secrets ports.SecretStore
}

var _ ports.LicenseRepository = (*LicenseRepository)(nil)

// NewLicenseRepository stores the license record at path. When secrets is nil
// the key is kept inline in the record.
func NewLicenseRepository(path string, secrets ports.SecretStore) (*LicenseRepository, error) {
	doc, err := newDocument(path)
	if err != nil {
		return nil, err
	}

	return &LicenseRepository{doc: doc, secrets: secrets}, nil
}

func (r *LicenseRepository) Path() string {
	return r.doc.path
}

func (r *LicenseRepository) Load(ctx context.Context) (domain.License, error) {
	if err := ctx.Err(); err != nil {
		return domain.License{}, err
	}

	r.doc.mu.RLock()
	file, err := r.readSchema()
	r.doc.mu.RUnlock()
	if err != nil {
		return domain.License{}, err
	}

	if file.LicenseData == nil {
		return domain.License{}, domain.ErrNoLicense
	}

	license := fromSchema(*file.LicenseData)

	key := file.LicenseData.Key
	if ref := file.LicenseData.SecretRef; ref != "" && r.secrets != nil {
		key, err = r.secrets.Get(ctx, ref)
		if err != nil {
			if !isMissingSecret(err) {
				return domain.License{}, fmt.Errorf("load license key: %w", err)
			}
			key = ""
		}
	}
	if key != "" {
		license.Key = &domain.LicenseKey{Key: key}
	}

	return license, nil
}

func (r *LicenseRepository) Save(ctx context.Context, license domain.License) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	encoded := toSchema(license)
	var rollback func() error
	if r.secrets != nil && license.HasKey() {
		restore, err := r.secretRollback(ctx)
		if err != nil {
			return err
		}
		if err := r.secrets.Put(ctx, LicenseSecretRef, license.KeyValue()); err != nil {
			return fmt.Errorf("store license key: %w", err)
		}
		encoded.SecretRef = LicenseSecretRef
		rollback = restore
	} else {
		encoded.Key = license.KeyValue()
	}

	file := licenseFileSchema{LicenseData: &encoded}
	file.applyDefaults()

	if err := r.doc.write(file); err != nil {
		if rollback != nil {
			if rollbackErr := rollback(); rollbackErr != nil {
				return fmt.Errorf("save license and rollback stored key: %w", errors.Join(err, rollbackErr))
			}
		}
		return fmt.Errorf("save license: %w", err)
	}

	return nil
}

// secretRollback captures the key currently stored under LicenseSecretRef.
// The returned func puts it back, or deletes the entry when there was none.
func (r *LicenseRepository) secretRollback(ctx context.Context) (func() error, error) {
	previous, err := r.secrets.Get(ctx, LicenseSecretRef)
	if err != nil {
		if !isMissingSecret(err) {
			return nil, fmt.Errorf("read previous license key: %w", err)
		}
		return func() error {
			err := r.secrets.Delete(context.WithoutCancel(ctx), LicenseSecretRef)
			if isMissingSecret(err) {
				return nil
			}
			return err
		}, nil
	}

	return func() error {
		return r.secrets.Put(context.WithoutCancel(ctx), LicenseSecretRef, previous)
	}, nil
}

// Clear replaces the stored record with the empty sentinel and drops the key.
func (r *LicenseRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()

	previous, err := r.readSchema()
	if err != nil {
		previous = licenseFileSchema{}
	}

	file := licenseFileSchema{}
	file.applyDefaults()
	if err := r.doc.write(file); err != nil {
		return fmt.Errorf("clear license: %w", err)
	}

	if r.secrets == nil || previous.LicenseData == nil || previous.LicenseData.SecretRef == "" {
		return nil
	}

	if err := r.secrets.Delete(ctx, previous.LicenseData.SecretRef); err != nil && !isMissingSecret(err) {
		return fmt.Errorf("delete license key: %w", err)
	}

	return nil
}

func (r *LicenseRepository) readSchema() (licenseFileSchema, error) {
	var file licenseFileSchema
	if err := r.doc.read(&file); err != nil {
		return licenseFileSchema{}, err
	}
	if err := file.validateVersion(); err != nil {
		return licenseFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func isMissingSecret(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, domain.ErrSecretNotFound)
}

const (
	variantKindNumber = "number"
	variantKindString = "string"
)

func toSchema(license domain.License) licenseSchema {
	entry := licenseSchema{
		Success:   license.Success,
		Dev:       license.Dev,
		Tier:      string(license.Tier),
		VariantID: license.VariantID.Value,
		Mode:      license.Mode,
		Message:   license.Message,
		RenewsAt:  license.RenewsAt,
	}
	if !license.VariantID.IsZero() {
		entry.VariantKind = variantKindString
		if license.VariantID.Numeric {
			entry.VariantKind = variantKindNumber
		}
	}

	return entry
}

func fromSchema(entry licenseSchema) domain.License {
	return domain.License{
		Success:   entry.Success,
		Dev:       entry.Dev,
		Tier:      domain.Tier(entry.Tier),
		VariantID: domain.VariantID{Value: entry.VariantID, Numeric: entry.VariantKind == variantKindNumber},
		Mode:      entry.Mode,
		Message:   entry.Message,
		RenewsAt:  entry.RenewsAt,
	}
}
