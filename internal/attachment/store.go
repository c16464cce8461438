package attachment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inovacc/wavelink/internal/encoding"
)

// Store is a flat namespace of files keyed by name.
type Store interface {
	Write(name string, data []byte) error
	Read(name string) ([]byte, error)
	// Delete removes name; an absent file yields an error matching os.ErrNotExist.
	Delete(name string) error
	Exists(name string) bool
	// List returns every stored name in lexical order.
	List() ([]string, error)
	// Path returns a filesystem path for external tools such as players.
	Path(name string) string
}

// DirStore keeps attachments as files in a single directory.
// Writes are atomic: a reader never sees a partially written file.
type DirStore struct {
	dir string
}

// NewDirStore creates the directory if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("attachment directory is required")
	}

	if err := encoding.EnsureDir(dir); err != nil {
		return nil, err
	}

	return &DirStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *DirStore) Dir() string {
	return s.dir
}

func (s *DirStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *DirStore) Write(name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}

	return encoding.WriteFileAtomic(s.Path(name), data, 0644)
}

func (s *DirStore) Read(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, os.ErrNotExist
		}

		return nil, fmt.Errorf("failed to read attachment %s: %w", name, err)
	}

	return data, nil
}

func (s *DirStore) Delete(name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	return encoding.RemoveFile(s.Path(name))
}

func (s *DirStore) Exists(name string) bool {
	if checkName(name) != nil {
		return false
	}

	return encoding.FileExists(s.Path(name))
}

func (s *DirStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	names := make([]string, 0, len(entries))

	for _, e := range entries {
		// dot files are in-flight atomic writes
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}

		names = append(names, e.Name())
	}

	sort.Strings(names)

	return names, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}
