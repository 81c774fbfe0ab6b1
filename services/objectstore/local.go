package objectstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
)

// LocalStore keeps objects on the local filesystem. Used in dev and tests.
type LocalStore struct {
	root       string
	publicBase string
}

var _ core.ObjectStore = (*LocalStore)(nil)

func NewLocalStore(dir, publicBase string) (*LocalStore, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "filepath.Abs")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "os.MkdirAll")
	}
	return &LocalStore{root: root, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

// Root is the directory objects are written to.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("objectstore: empty key")
	}
	p := filepath.Join(s.root, filepath.FromSlash(key))
	if !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", errors.Errorf("objectstore: key %q escapes the storage root", key)
	}
	return p, nil
}

func (s *LocalStore) Upload(ctx context.Context, key string, r io.Reader, _ string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return &StorageError{Err: err}
	}

	f, err := os.Create(p)
	if err != nil {
		return &StorageError{Err: err}
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return &StorageError{Err: err}
	}
	if err := f.Close(); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return &StorageError{Err: err}
	}
	return nil
}

func (s *LocalStore) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return s.publicBase + "/" + key
}
