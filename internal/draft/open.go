package draft

import (
	"io"

	"github.com/kingrea/bizplan/internal/config"
)

// OpenBackend returns the backend selected in the project config. The closer
// is non-nil for backends holding a database handle.
func OpenBackend(cfg *config.Config) (Backend, io.Closer, error) {
	if cfg.StorageBackend() == config.BackendSQLite {
		backend, err := OpenSQLite(cfg.DraftDBPath())
		if err != nil {
			return nil, nil, err
		}
		return backend, backend, nil
	}
	return NewFileBackend(cfg.StateDir()), nil, nil
}
