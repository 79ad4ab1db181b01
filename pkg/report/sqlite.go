package report

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/umputun/podloud/pkg/domain"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS loudness (
	idx INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	i REAL NOT NULL,
	i_threshold REAL NOT NULL,
	lra REAL NOT NULL,
	lra_threshold REAL NOT NULL,
	lra_low REAL NOT NULL,
	lra_high REAL NOT NULL
)`

// SQLiteWriter keeps records in the loudness table of a sqlite database.
// Each Write replaces the table content in a single transaction.
type SQLiteWriter struct {
	path string
	conn *sqlx.DB
}

// NewSQLiteWriter opens (or creates) the database and ensures the schema
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(sqliteSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteWriter{path: path, conn: conn}, nil
}

// Write replaces all rows with records
func (w *SQLiteWriter) Write(records []domain.LoudnessRecord) error {
	ctx := context.Background()
	tx, err := w.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := w.replace(ctx, tx, records); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed: %w (rollback also failed: %s)", err, rbErr.Error())
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (w *SQLiteWriter) replace(ctx context.Context, tx *sqlx.Tx, records []domain.LoudnessRecord) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM loudness"); err != nil {
		return fmt.Errorf("clear loudness: %w", err)
	}
	for _, r := range records {
		_, err := tx.NamedExecContext(ctx, `INSERT INTO loudness (idx, title, i, i_threshold, lra, lra_threshold, lra_low, lra_high)
			VALUES (:idx, :title, :i, :i_threshold, :lra, :lra_threshold, :lra_low, :lra_high)`, r)
		if err != nil {
			return fmt.Errorf("insert record %d: %w", r.Index, err)
		}
	}
	return nil
}

// Records reads back stored records ordered by index, a helper to inspect a written report
func (w *SQLiteWriter) Records() ([]domain.LoudnessRecord, error) {
	var res []domain.LoudnessRecord
	err := w.conn.Select(&res, `SELECT idx, title, i, i_threshold, lra, lra_threshold, lra_low, lra_high FROM loudness ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	return res, nil
}

// Path returns the database location
func (w *SQLiteWriter) Path() string { return w.path }

// Close closes the database connection
func (w *SQLiteWriter) Close() error {
	return w.conn.Close()
}
