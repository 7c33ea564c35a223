package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// migration is one embedded SQL file.
type migration struct {
	version int
	file    string
}

// Run applies pending migrations found under internal/migrate/sql.
// Migrations must be named like 0001_description.sql and run in version order.
// Each file is executed as a single batch; the DSN needs multiStatements=true.
func Run(ctx context.Context, dsn string, log *slog.Logger) error {
	all, err := list(migrationsFS)
	if err != nil {
		return err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		return err
	}

	if err := ensureMigrationsTable(ctx, db); err != nil {
		return err
	}
	applied, err := loadApplied(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range pending(all, applied) {
		b, err := fs.ReadFile(migrationsFS, m.file)
		if err != nil {
			return err
		}
		log.Info("applying migration", slog.Int("version", m.version), slog.String("file", path.Base(m.file)))
		if _, err := db.ExecContext(ctx, string(b)); err != nil {
			return fmt.Errorf("applying %s: %w", path.Base(m.file), err)
		}
		if err := recordApplied(ctx, db, m.version); err != nil {
			return err
		}
	}
	log.Debug("migrations up to date", slog.Int("known", len(all)), slog.Int("previously_applied", len(applied)))
	return nil
}

// list returns the embedded migrations ordered by version.
func list(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	out := make([]migration, 0, len(files))
	seen := make(map[int]string, len(files))
	for _, f := range files {
		base := path.Base(f)
		ver, err := parseVersion(base)
		if err != nil {
			return nil, fmt.Errorf("invalid migration filename %q: %w", base, err)
		}
		if prev, ok := seen[ver]; ok {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", ver, prev, base)
		}
		seen[ver] = base
		out = append(out, migration{version: ver, file: f})
	}
	slices.SortFunc(out, func(a, b migration) int { return a.version - b.version })
	return out, nil
}

func pending(all []migration, applied map[int]bool) []migration {
	var out []migration
	for _, m := range all {
		if !applied[m.version] {
			out = append(out, m)
		}
	}
	return out
}

func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	const ddl = `CREATE TABLE IF NOT EXISTS schema_migrations (
        version BIGINT PRIMARY KEY,
        applied_at DATETIME(6) NOT NULL
    ) ENGINE=InnoDB;`
	_, err := db.ExecContext(ctx, ddl)
	return err
}

func loadApplied(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	m := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		m[v] = true
	}
	return m, rows.Err()
}

func recordApplied(ctx context.Context, db *sql.DB, version int) error {
	_, err := db.ExecContext(ctx, "INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)", version, time.Now().UTC())
	return err
}

func parseVersion(name string) (int, error) {
	// Expect prefix like 0001_...
	i := strings.IndexByte(name, '_')
	if i <= 0 {
		return 0, fmt.Errorf("missing prefix number")
	}
	return strconv.Atoi(name[:i])
}
