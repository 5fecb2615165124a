package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/umputun/newsdigest/pkg/domain"
)

//go:embed schema.sql
var schemaSQL string

// errCritical marks errors the repeater should not retry
var errCritical = errors.New("critical")

// SQLStore keeps the history in sqlite or postgres tables.
// Save replaces the whole history inside a single transaction.
type SQLStore struct {
	db       *sqlx.DB
	location string
	readOpts *sql.TxOptions // snapshot options for Load, nil for driver defaults
}

type editionRow struct {
	Date string `db:"edition_date"`
	Seq  int    `db:"seq"`
}

type articleRow struct {
	Date              string `db:"edition_date"`
	Seq               int    `db:"seq"`
	Title             string `db:"title"`
	URL               string `db:"url"`
	PublishedAt       string `db:"published_at"`
	Source            string `db:"source"`
	Summary           string `db:"summary"`
	SimplifiedContent string `db:"simplified_content"`
	GUID              string `db:"guid"`
}

// NewSQLStore opens the database and makes sure the schema exists. driver is "sqlite" or "postgres".
func NewSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("empty dsn")
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == "sqlite" {
		// single writer connection, sqlite serializes writes anyway
		db.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
			"PRAGMA foreign_keys = ON",
			"PRAGMA busy_timeout = 5000",
		}
		for _, pragma := range pragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("execute %s: %w", pragma, err)
			}
		}
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLStore{db: db, location: driver + " " + redactDSN(dsn), readOpts: readOptions(driver)}, nil
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stripComments(stmt)) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema: %w", err)
		}
	}
	return nil
}

// Load reads all editions ordered by position, with their articles in ranking order.
// Both tables are read in one transaction, a concurrent Save is either fully visible or not at all.
func (s *SQLStore) Load(ctx context.Context) (domain.History, error) {
	tx, err := s.db.BeginTxx(ctx, s.readOpts)
	if err != nil {
		return domain.History{}, fmt.Errorf("begin read transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var editions []editionRow
	if err := tx.SelectContext(ctx, &editions, "SELECT edition_date, seq FROM editions ORDER BY seq"); err != nil {
		return domain.History{}, fmt.Errorf("select editions: %w", err)
	}

	var articles []articleRow
	query := `SELECT edition_date, seq, title, url, published_at, source, summary, simplified_content, guid
		FROM edition_articles ORDER BY edition_date, seq`
	if err := tx.SelectContext(ctx, &articles, query); err != nil {
		return domain.History{}, fmt.Errorf("select articles: %w", err)
	}

	byDate := make(map[string][]domain.Article, len(editions))
	for _, a := range articles {
		byDate[a.Date] = append(byDate[a.Date], domain.Article{
			Title:             a.Title,
			URL:               a.URL,
			PublishedAt:       a.PublishedAt,
			Source:            a.Source,
			Summary:           a.Summary,
			SimplifiedContent: a.SimplifiedContent,
			GUID:              a.GUID,
		})
	}

	res := domain.History{Editions: make([]domain.Edition, 0, len(editions))}
	for _, ed := range editions {
		arts := byDate[ed.Date]
		if arts == nil {
			arts = []domain.Article{}
		}
		res.Editions = append(res.Editions, domain.Edition{Date: ed.Date, Articles: arts})
	}
	return res, nil
}

// Save replaces the stored history with h in one transaction. Lock errors are retried with backoff.
func (s *SQLStore) Save(ctx context.Context, h domain.History) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	var saveErr error
	err := retrier.Do(ctx, func() error {
		saveErr = s.replace(ctx, h)
		if saveErr != nil && !isLockError(saveErr) {
			return errCritical // stop retrying
		}
		if saveErr != nil {
			lgr.Printf("[DEBUG] history store locked, retrying: %v", saveErr)
		}
		return saveErr
	}, errCritical)
	if err != nil {
		if saveErr != nil {
			return fmt.Errorf("save history: %w", saveErr)
		}
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *SQLStore) replace(ctx context.Context, h domain.History) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM edition_articles"); err != nil {
		return fmt.Errorf("delete articles: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM editions"); err != nil {
		return fmt.Errorf("delete editions: %w", err)
	}

	insEdition := tx.Rebind("INSERT INTO editions (edition_date, seq) VALUES (?, ?)")
	insArticle := tx.Rebind(`INSERT INTO edition_articles
		(edition_date, seq, title, url, published_at, source, summary, simplified_content, guid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	for i, ed := range h.Editions {
		if _, err = tx.ExecContext(ctx, insEdition, ed.Date, i); err != nil {
			return fmt.Errorf("insert edition %s: %w", ed.Date, err)
		}
		for j, a := range ed.Articles {
			_, err = tx.ExecContext(ctx, insArticle, ed.Date, j, a.Title, a.URL, a.PublishedAt, a.Source,
				a.Summary, a.SimplifiedContent, a.GUID)
			if err != nil {
				return fmt.Errorf("insert article %d of %s: %w", j, ed.Date, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Location returns the driver and the dsn without password
func (s *SQLStore) Location() string { return s.location }

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// readOptions returns transaction options giving Load a single snapshot.
// postgres defaults to read committed with a snapshot per statement, sqlite transactions are serializable.
func readOptions(driver string) *sql.TxOptions {
	if driver == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

// isLockError checks if an error is a SQLite lock/busy error or a postgres serialization failure
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked") ||
		strings.Contains(errStr, "could not serialize access")
}

// redactDSN hides the password of url-like dsn
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}

func stripComments(stmt string) string {
	lines := strings.Split(stmt, "\n")
	res := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		res = append(res, line)
	}
	return strings.Join(res, "\n")
}
