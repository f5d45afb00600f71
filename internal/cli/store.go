package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/keyring"
	"github.com/julianstephens/cadence/internal/storage"
	"github.com/julianstephens/cadence/internal/storage/postgres"
	"github.com/julianstephens/cadence/internal/storage/sqlite"
)

// IsPostgres reports whether db names a PostgreSQL database rather than a file.
func IsPostgres(db string) bool {
	return db == constants.KeyringConfigValue || postgres.IsConnString(db) || strings.Contains(db, "host=")
}

// OpenStore selects the storage backend for the --db value: a PostgreSQL
// URL or DSN, "keyring" for a connection string kept in the OS keyring, a
// .json file, or otherwise a SQLite database file. The store is not loaded.
func OpenStore(db string) (storage.Provider, error) {
	switch {
	case db == constants.KeyringConfigValue:
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no connection string in keyring; run 'cadence keyring set <connection-string>' first")
			}
			return nil, err
		}
		return postgres.New(connStr), nil

	case IsPostgres(db):
		if err := postgres.ValidateConnString(db); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store it with 'cadence keyring set' and use --db keyring, or use PGPASSWORD or .pgpass", err)
			}
			return nil, err
		}
		return postgres.New(db), nil

	case strings.EqualFold(filepath.Ext(db), ".json"):
		return storage.NewJSONStore(kong.ExpandPath(db)), nil

	default:
		return sqlite.NewStore(kong.ExpandPath(db)), nil
	}
}

// ConfigDir is where logs and other local state live for the --db value.
func ConfigDir(db string) string {
	if IsPostgres(db) {
		return filepath.Dir(kong.ExpandPath(constants.DefaultConfigPath))
	}
	return filepath.Dir(kong.ExpandPath(db))
}
