package cli

import (
	"strings"

	"github.com/julianstephens/habitpulse/internal/storage"
	"github.com/julianstephens/habitpulse/internal/storage/postgres"
	"github.com/julianstephens/habitpulse/internal/storage/sqlite"
	"github.com/julianstephens/habitpulse/internal/utils"
)

// OpenStore picks a backend for location: a PostgreSQL URL or DSN, a .json
// document, or otherwise a SQLite file. Nothing is opened yet.
func OpenStore(location string) (storage.Provider, error) {
	location = strings.TrimSpace(location)

	if postgres.IsConnString(location) || strings.Contains(location, "host=") {
		// Passwords belong in .pgpass or PGPASSWORD, never in the flag
		if _, err := postgres.ValidateConnString(location); err != nil {
			return nil, err
		}
		return postgres.New(location), nil
	}

	if location == sqlite.MemoryPath {
		return sqlite.NewStore(location), nil
	}

	path, err := utils.ExpandHome(location)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}
