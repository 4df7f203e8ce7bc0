// Package file keeps license key material in plain files under the kiln data
// dir. It is the fallback for machines without pass.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/ports"
)

const (
	dirMode  = 0o700
	fileMode = 0o600
)

var (
	errEmptyRef    = errors.New("secret ref is empty")
	refSegmentRule = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// Store maps a secret ref such as "querykiln/license/key" to the file with
// the same relative path under root. Writes replace the file atomically.
type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Put(ctx context.Context, ref string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(ref)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("create secret directory for %q: %w", ref, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".secret-*")
	if err != nil {
		return fmt.Errorf("store license secret %q: %w", ref, err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.WriteString(value)
	chmodErr := tmp.Chmod(fileMode)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, chmodErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("store license secret %q: %w", ref, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("store license secret %q: %w", ref, err)
	}

	return nil
}

// Get returns domain.ErrSecretNotFound for a missing or empty file.
func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.resolve(ref)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("license secret %q: %w", ref, domain.ErrSecretNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read license secret %q: %w", ref, err)
	}

	value := strings.TrimRight(string(data), "\r\n")
	if value == "" {
		return "", fmt.Errorf("license secret %q is empty: %w", ref, domain.ErrSecretNotFound)
	}

	return value, nil
}

// Delete removes the file and any directories the ref left empty. A missing
// secret is not an error.
func (s *Store) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(ref)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove license secret %q: %w", ref, err)
	}

	for dir := filepath.Dir(path); dir != s.root && strings.HasPrefix(dir, s.root); dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			break
		}
	}

	return nil
}

// resolve accepts slash-separated refs made of plain name segments only.
func (s *Store) resolve(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", errEmptyRef
	}

	segments := strings.Split(ref, "/")
	for _, segment := range segments {
		if segment == "." || segment == ".." || !refSegmentRule.MatchString(segment) {
			return "", fmt.Errorf("invalid secret ref %q", ref)
		}
	}

	return filepath.Join(append([]string{s.root}, segments...)...), nil
}
