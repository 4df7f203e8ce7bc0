package toml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	storeFileMode = 0o600
	storeDirMode  = 0o700
)

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

// document is one TOML file guarded by a process-wide lock for its path.
type document struct {
	path        string
	tempPattern string
	mu          *sync.RWMutex
}

func newDocument(path string) (document, error) {
	if path == "" {
		return document{}, errors.New("store path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return document{}, fmt.Errorf("resolve store path: %w", err)
	}
	absPath = filepath.Clean(absPath)

	return document{
		path:        absPath,
		tempPattern: "." + filepath.Base(absPath) + "-*.tmp",
		mu:          lockForPath(absPath),
	}, nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

// read decodes the file into out. A missing file leaves out untouched.
func (d document) read(out any) error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", filepath.Base(d.path), err)
	}

	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(d.path), err)
	}

	return nil
}

func (d document) write(in any) error {
	if err := os.MkdirAll(filepath.Dir(d.path), storeDirMode); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	data, err := toml.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(d.path), err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(d.path), d.tempPattern)
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp store file: %w", err)
	}

	if err := tempFile.Chmod(storeFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp store file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tempName, d.path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(d.path), err)
	}

	cleanup = false

	if err := os.Chmod(d.path, storeFileMode); err != nil {
		return fmt.Errorf("chmod %s: %w", filepath.Base(d.path), err)
	}

	return nil
}
