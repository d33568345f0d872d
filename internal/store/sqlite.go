package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/acidentes-dashboard/internal/model"
)

const sqliteDateLayout = "2006-01-02"

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS accidents (
	row_num                INTEGER NOT NULL,
	batch_id               TEXT NOT NULL,
	id                     TEXT NOT NULL,
	data_inversa           TEXT NOT NULL DEFAULT '',
	dia_semana             TEXT NOT NULL DEFAULT '',
	horario                TEXT NOT NULL DEFAULT '',
	uf                     TEXT NOT NULL DEFAULT '',
	br                     TEXT NOT NULL DEFAULT '',
	km                     REAL NOT NULL DEFAULT 0,
	municipio              TEXT NOT NULL DEFAULT '',
	causa_acidente         TEXT NOT NULL DEFAULT '',
	tipo_acidente          TEXT NOT NULL DEFAULT '',
	classificacao_acidente TEXT NOT NULL DEFAULT '',
	fase_dia               TEXT NOT NULL DEFAULT '',
	condicao_metereologica TEXT NOT NULL DEFAULT '',
	pessoas                INTEGER NOT NULL DEFAULT 0,
	mortos                 INTEGER NOT NULL DEFAULT 0,
	feridos                INTEGER NOT NULL DEFAULT 0,
	veiculos               INTEGER NOT NULL DEFAULT 0,
	latitude               REAL,
	longitude              REAL
);

CREATE TABLE IF NOT EXISTS imports (
	batch_id    TEXT PRIMARY KEY,
	row_count   INTEGER NOT NULL,
	imported_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_accidents_row_num ON accidents(row_num);
CREATE INDEX IF NOT EXISTS idx_accidents_uf ON accidents(uf);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplaceAccidents deletes the current rows and inserts rows in one transaction.
func (s *SQLiteStore) ReplaceAccidents(ctx context.Context, batchID string, rows []model.Accident) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM accidents`); err != nil {
		return 0, eris.Wrap(err, "sqlite: clear accidents")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(accidentColumns)), ", ")
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO accidents (`+strings.Join(accidentColumns, ", ")+`) VALUES (`+placeholders+`)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for i, a := range rows {
		date := ""
		if !a.Date.IsZero() {
			date = a.Date.Format(sqliteDateLayout)
		}
		if _, err := stmt.ExecContext(ctx, accidentValues(i, batchID, a, date)...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert accident %s", a.ID)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (batch_id, row_count, imported_at) VALUES (?, ?, ?)`,
		batchID, len(rows), time.Now().UTC(),
	); err != nil {
		return 0, eris.Wrap(err, "sqlite: record import")
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}

	zap.L().Info("sqlite: accidents replaced", zap.String("batch_id", batchID), zap.Int("rows", len(rows)))
	return int64(len(rows)), nil
}

// Accidents reads every row in file order.
func (s *SQLiteStore) Accidents(ctx context.Context) ([]model.Accident, error) {
	rows, err := s.db.QueryContext(ctx, selectAccidents)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query accidents")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Accident
	for rows.Next() {
		var date string
		a, err := scanAccident(rows, &date)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan accident")
		}
		if date != "" {
			if a.Date, err = time.Parse(sqliteDateLayout, date); err != nil {
				return nil, eris.Wrapf(err, "sqlite: parse date of accident %s", a.ID)
			}
		}
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate accidents")
}

// Imports lists past loads, newest first.
func (s *SQLiteStore) Imports(ctx context.Context) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT batch_id, row_count, imported_at FROM imports ORDER BY imported_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query imports")
	}
	defer rows.Close() //nolint:errcheck

	var out []Import
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.BatchID, &imp.Rows, &imp.ImportedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan import")
		}
		out = append(out, imp)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate imports")
}
