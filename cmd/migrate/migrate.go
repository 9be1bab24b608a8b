package migrate

import (
	"io"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/internal/config"
	"github.com/gaze-network/presale/modules/presale/database/postgresql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const presaleMigrationsTable = "presale_schema_migrations"

func cloneURLWithQuery(u *url.URL, newQuery url.Values) *url.URL {
	clone := *u
	query := clone.Query()
	for key, values := range newQuery {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	clone.RawQuery = query.Encode()
	return &clone
}

var supportedDrivers = map[string]struct{}{
	"postgres":   {},
	"postgresql": {},
}

// resolveDatabaseURL returns the --database flag, or presale.postgres.url from the config.
func resolveDatabaseURL(flag string) (*url.URL, error) {
	rawURL := flag
	if rawURL == "" {
		rawURL = config.Load().Presale.Postgres.URL
	}
	if rawURL == "" {
		return nil, errors.New("--database is required")
	}
	databaseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database URL")
	}
	if _, ok := supportedDrivers[databaseURL.Scheme]; !ok {
		return nil, errors.Errorf("unsupported database driver: %s", databaseURL.Scheme)
	}
	return databaseURL, nil
}

// newPresaleMigrate reads the migrations embedded in the binary.
func newPresaleMigrate(databaseURL *url.URL, out io.Writer) (*migrate.Migrate, error) {
	source, err := iofs.New(postgresql.Migrations, postgresql.MigrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open embedded migrations")
	}
	newDatabaseURL := cloneURLWithQuery(databaseURL, url.Values{"x-migrations-table": {presaleMigrationsTable}})
	m, err := migrate.NewWithSourceInstance("iofs", source, newDatabaseURL.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Migrate instance")
	}
	m.Log = newConsoleLogger(out, "presale")
	return m, nil
}
