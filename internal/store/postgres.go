package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/acidentes-dashboard/internal/db"
	"github.com/sells-group/acidentes-dashboard/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS accidents (
	row_num                INTEGER NOT NULL,
	batch_id               TEXT NOT NULL,
	id                     TEXT NOT NULL,
	data_inversa           DATE,
	dia_semana             TEXT NOT NULL DEFAULT '',
	horario                TEXT NOT NULL DEFAULT '',
	uf                     TEXT NOT NULL DEFAULT '',
	br                     TEXT NOT NULL DEFAULT '',
	km                     DOUBLE PRECISION NOT NULL DEFAULT 0,
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
	latitude               DOUBLE PRECISION,
	longitude              DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS imports (
	batch_id    TEXT PRIMARY KEY,
	row_count   BIGINT NOT NULL,
	imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_accidents_row_num ON accidents(row_num);
CREATE INDEX IF NOT EXISTS idx_accidents_uf ON accidents(uf);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// ReplaceAccidents truncates the table and bulk loads rows with COPY in one transaction.
func (s *PostgresStore) ReplaceAccidents(ctx context.Context, batchID string, rows []model.Accident) (int64, error) {
	values := make([][]any, len(rows))
	for i, a := range rows {
		var date any
		if !a.Date.IsZero() {
			date = a.Date
		}
		values[i] = accidentValues(i, batchID, a, date)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM accidents`); err != nil {
		return 0, eris.Wrap(err, "postgres: clear accidents")
	}

	n, err := db.CopyFrom(ctx, tx, "accidents", accidentColumns, values)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: load accidents")
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO imports (batch_id, row_count, imported_at) VALUES ($1, $2, $3)`,
		batchID, n, time.Now().UTC(),
	); err != nil {
		return 0, eris.Wrap(err, "postgres: record import")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit")
	}

	zap.L().Info("postgres: accidents replaced", zap.String("batch_id", batchID), zap.Int64("rows", n))
	return n, nil
}

// Accidents reads every row in file order.
func (s *PostgresStore) Accidents(ctx context.Context) ([]model.Accident, error) {
	rows, err := s.pool.Query(ctx, selectAccidents)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query accidents")
	}
	defer rows.Close()

	var out []model.Accident
	for rows.Next() {
		var date *time.Time
		a, err := scanAccident(rows, &date)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan accident")
		}
		if date != nil {
			a.Date = date.UTC()
		}
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate accidents")
}

// Imports lists past loads, newest first.
func (s *PostgresStore) Imports(ctx context.Context) ([]Import, error) {
	rows, err := s.pool.Query(ctx, `SELECT batch_id, row_count, imported_at FROM imports ORDER BY imported_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query imports")
	}
	defer rows.Close()

	var out []Import
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.BatchID, &imp.Rows, &imp.ImportedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan import")
		}
		out = append(out, imp)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate imports")
}
