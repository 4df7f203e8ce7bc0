package toml

import (
	"context"
	"errors"
	"strings"

	"github.com/querykiln/kiln/internal/ports"
)

// SettingsStore is a flat string key/value document.
type SettingsStore struct {
	doc document
}

var _ ports.SettingsStore = (*SettingsStore)(nil)

func NewSettingsStore(path string) (*SettingsStore, error) {
	doc, err := newDocument(path)
	if err != nil {
		return nil, err
	}

	return &SettingsStore{doc: doc}, nil
}

func (s *SettingsStore) Get(ctx context.Context, key string, fallback string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateSettingKey(key); err != nil {
		return "", err
	}

	s.doc.mu.RLock()
	defer s.doc.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return "", err
	}

	value, ok := file.Values[key]
	if !ok {
		return fallback, nil
	}

	return value, nil
}

func (s *SettingsStore) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSettingKey(key); err != nil {
		return err
	}

	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	file.Values[key] = value

	return s.doc.write(file)
}

func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	if _, ok := file.Values[key]; !ok {
		return nil
	}
	delete(file.Values, key)

	return s.doc.write(file)
}

func (s *SettingsStore) readSchema() (settingsFileSchema, error) {
	var file settingsFileSchema
	if err := s.doc.read(&file); err != nil {
		return settingsFileSchema{}, err
	}
	if err := file.validateVersion(); err != nil {
		return settingsFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func validateSettingKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("setting key is empty")
	}

	return nil
}
