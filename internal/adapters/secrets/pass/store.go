// Package pass keeps license key material in the user's password store,
// encrypted to their gpg key by the pass command.
package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/ports"
)

var ErrUnavailable = errors.New("pass is not installed")

const missingEntryMarker = "is not in the password store"

type runner func(ctx context.Context, stdin string, args ...string) (stdout string, stderr string, err error)

type Store struct {
	run runner
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{run: execPass}
}

func (s *Store) Put(ctx context.Context, ref string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, stderr, err := s.run(ctx, value+"\n", "insert", "--multiline", "--force", ref); err != nil {
		return passError("store", ref, err, stderr)
	}

	return nil
}

// Get returns the first line of the entry; a license key never spans lines.
func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, "", "show", ref)
	if err != nil {
		return "", passError("read", ref, err, stderr)
	}

	value, _, _ := strings.Cut(stdout, "\n")
	value = strings.TrimSuffix(value, "\r")
	if value == "" {
		return "", fmt.Errorf("pass entry %q is empty: %w", ref, domain.ErrSecretNotFound)
	}

	return value, nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, stderr, err := s.run(ctx, "", "rm", "--force", ref); err != nil {
		return passError("remove", ref, err, stderr)
	}

	return nil
}

func execPass(ctx context.Context, stdin string, args ...string) (string, string, error) {
	bin, err := exec.LookPath("pass")
	if errors.Is(err, exec.ErrNotFound) {
		return "", "", ErrUnavailable
	}
	if err != nil {
		return "", "", fmt.Errorf("look up pass: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

// passError keeps ErrUnavailable and maps a missing entry to
// domain.ErrSecretNotFound so callers can fall back or ignore it.
func passError(op string, ref string, err error, stderr string) error {
	switch {
	case errors.Is(err, ErrUnavailable):
		return fmt.Errorf("%s license secret %q: %w", op, ref, err)
	case strings.Contains(stderr, missingEntryMarker):
		return fmt.Errorf("%s license secret %q: %w", op, ref, domain.ErrSecretNotFound)
	case stderr == "":
		return fmt.Errorf("%s license secret %q with pass: %w", op, ref, err)
	default:
		return fmt.Errorf("%s license secret %q with pass: %w: %s", op, ref, err, stderr)
	}
}
