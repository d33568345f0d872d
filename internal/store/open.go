package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/acidentes-dashboard/internal/config"
	"github.com/sells-group/acidentes-dashboard/internal/dataset"
)

// OpenStore opens the SQL backend named by data.source and migrates it.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Data.Source {
	case "sqlite":
		st, err = NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("store: store.database_url is required for the postgres source")
		}
		st, err = NewPostgres(ctx, cfg.Store.DatabaseURL, &PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("store: data.source %q is not a SQL backend", cfg.Data.Source)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// Open returns the accident Source for data.source and a close function.
func Open(ctx context.Context, cfg *config.Config) (Source, func() error, error) {
	if cfg.Data.Source == "csv" {
		src := CSVSource{Path: cfg.Data.CSVPath, Options: CSVOptions(cfg.Data)}
		return src, func() error { return nil }, nil
	}
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return st, st.Close, nil
}

// CSVOptions maps the data config onto dataset options.
func CSVOptions(d config.DataConfig) dataset.Options {
	return dataset.Options{Delimiter: d.Delimiter(), Encoding: d.CSVEncoding}
}
