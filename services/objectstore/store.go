package objectstore

import (
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
)

// New returns the object store selected by `storage.backend`.
func New(conf *core.Config) (core.ObjectStore, error) {
	switch conf.Storage.Backend {
	case "oss":
		return NewOSSStore(conf)
	case "local", "":
		return NewLocalStore(conf.Storage.LocalDir, conf.Storage.PublicBaseURL)
	default:
		return nil, errors.Errorf("objectstore: unknown backend %q", conf.Storage.Backend)
	}
}

// StorageError wraps a failure of the backing store (as opposed to a bad upload).
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

func IsStorageError(err error) bool {
	_, ok := errors.Cause(err).(*StorageError)
	return ok
}
