package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"toggl-report/internal/domain"
)

// Client implements ports.Sink by writing to MySQL tables.
type Client struct {
	db  *sql.DB
	log *slog.Logger
}

// NewClient opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func NewClient(ctx context.Context, dsn string, log *slog.Logger) (*Client, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{db: db, log: log}, nil
}

const upsertEntry = `
INSERT INTO toggl_time_entries
  (id, workspace_id, project_id, project_name, description, tags, billable, start, stop, duration_sec, at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  workspace_id=VALUES(workspace_id),
  project_id=VALUES(project_id),
  project_name=VALUES(project_name),
  description=VALUES(description),
  tags=VALUES(tags),
  billable=VALUES(billable),
  start=VALUES(start),
  stop=VALUES(stop),
  duration_sec=VALUES(duration_sec),
  at=VALUES(at);
`

const upsertProject = `
INSERT INTO toggl_projects
  (id, workspace_id, name, active, billable, is_private, color, client_id, rate, currency,
   estimated_sec, actual_sec, at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  workspace_id=VALUES(workspace_id),
  name=VALUES(name),
  active=VALUES(active),
  billable=VALUES(billable),
  is_private=VALUES(is_private),
  color=VALUES(color),
  client_id=VALUES(client_id),
  rate=VALUES(rate),
  currency=VALUES(currency),
  estimated_sec=VALUES(estimated_sec),
  actual_sec=VALUES(actual_sec),
  at=VALUES(at);
`

// SyncEntries upserts entries. Entries without an id are skipped.
func (c *Client) SyncEntries(ctx context.Context, entries []domain.TimeEntry) error {
	n, err := c.upsert(ctx, upsertEntry, len(entries), func(i int) []any {
		e := entries[i]
		if e.ID == nil {
			return nil
		}
		// Tags stored as JSON text for readability.
		tagsJSON, _ := json.Marshal(e.TagNames())
		return []any{
			*e.ID,
			nullable(e.WorkspaceID),
			nullable(e.ProjectID),
			nullable(e.ProjectName),
			nullable(e.Description),
			string(tagsJSON),
			nullable(e.Billable),
			utc(e.Start),
			utc(e.Stop),
			seconds(e.Duration),
			utc(e.At),
		}
	})
	if err != nil {
		return err
	}
	if n > 0 {
		c.log.Info("mysql sink upserted entries", slog.Int("count", n))
	}
	return nil
}

// SyncProjects upserts projects. Projects without an id are skipped.
func (c *Client) SyncProjects(ctx context.Context, projects []domain.Project) error {
	n, err := c.upsert(ctx, upsertProject, len(projects), func(i int) []any {
		p := projects[i]
		if p.ID == nil {
			return nil
		}
		return []any{
			*p.ID,
			nullable(p.WorkspaceID),
			nullable(p.Name),
			nullable(p.Active),
			nullable(p.Billable),
			nullable(p.Private),
			nullable(p.Color),
			nullable(p.ClientID),
			nullable(p.Rate),
			nullable(p.Currency),
			seconds(p.EstimatedDuration),
			seconds(p.ActualDuration),
			utc(p.At),
		}
	})
	if err != nil {
		return err
	}
	if n > 0 {
		c.log.Info("mysql sink upserted projects", slog.Int("count", n))
	}
	return nil
}

// upsert runs q once per row inside one transaction. row returns nil to skip.
func (c *Client) upsert(ctx context.Context, q string, count int, row func(int) []any) (int, error) {
	if count == 0 {
		return 0, nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for i := 0; i < count; i++ {
		args := row(i)
		if args == nil {
			c.log.Warn("mysql sink skipped record without id", slog.Int("index", i))
			continue
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return 0, err
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the underlying DB. Not wired via interface to keep ports minimal.
func (c *Client) Close() error { return c.db.Close() }

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func utc(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func seconds(d *time.Duration) any {
	if d == nil {
		return nil
	}
	return int64(d.Seconds())
}
