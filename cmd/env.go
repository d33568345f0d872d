package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/acidentes-dashboard/internal/boundary"
	"github.com/sells-group/acidentes-dashboard/internal/config"
	"github.com/sells-group/acidentes-dashboard/internal/dashboard"
	"github.com/sells-group/acidentes-dashboard/internal/fetcher"
	"github.com/sells-group/acidentes-dashboard/internal/store"
	"github.com/sells-group/acidentes-dashboard/pkg/ibge"
)

// dashboardEnv holds the service and the resources behind it.
type dashboardEnv struct {
	Service *dashboard.Service
	close   func() error
}

// Close releases the accident store.
func (e *dashboardEnv) Close() error {
	if e.close == nil {
		return nil
	}
	return e.close()
}

// initDashboard wires the fetcher, IBGE client, boundary provider and
// accident source into a ready dashboard service.
func initDashboard(ctx context.Context, c *config.Config) (*dashboardEnv, error) {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    c.IBGE.UserAgent,
		Timeout:      time.Duration(c.IBGE.TimeoutSecs) * time.Second,
		MaxRetries:   c.IBGE.MaxRetries,
		RateLimiters: fetcher.DefaultRateLimiters(),
	})
	ttl := time.Duration(c.IBGE.CacheTTLHours) * time.Hour

	localities := ibge.NewClient(f, ibge.WithBaseURL(c.IBGE.BaseURL), ibge.WithCacheTTL(ttl))
	boundaries := boundary.NewProvider(f, localities, boundary.Options{
		NationalPath: c.Data.BrazilGeoJSONPath,
		BaseURL:      c.IBGE.GeoJSONBaseURL,
		ShapefileDir: c.Data.ShapefileDir,
		TTL:          ttl,
	})

	src, closeSrc, err := store.Open(ctx, c)
	if err != nil {
		return nil, eris.Wrap(err, "open accident source")
	}

	svc, err := dashboard.New(ctx, dashboard.Deps{
		Source:     src,
		StatesPath: c.Data.StatesPath,
		Localities: localities,
		Boundaries: boundaries,
		Config:     c.Dashboard,
	})
	if err != nil {
		closeSrc() //nolint:errcheck
		return nil, err
	}

	return &dashboardEnv{Service: svc, close: closeSrc}, nil
}
