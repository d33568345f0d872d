// Package boundary serves region boundary GeoJSON for the choropleth map.
package boundary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/acidentes-dashboard/internal/fetcher"
	"github.com/sells-group/acidentes-dashboard/internal/model"
)

// DefaultBaseURL hosts per-state municipality boundaries named geojs-{id}-mun.json.
const DefaultBaseURL = "https://raw.githubusercontent.com/tbrugz/geodata-br/master/geojson"

// StateResolver maps a UF to its IBGE id.
type StateResolver interface {
	StateID(ctx context.Context, uf string) (int, error)
}

// Options configures a Provider.
type Options struct {
	// NationalPath is the local GeoJSON of state boundaries used for BR.
	NationalPath string
	// BaseURL is the remote directory of municipality boundaries.
	BaseURL string
	// ShapefileDir, when set, is checked for {UF}.shp before going remote.
	ShapefileDir string
	// TTL is how long a remote file is served before it is revalidated.
	TTL time.Duration
}

type cached struct {
	body    json.RawMessage
	etag    string
	fetched time.Time
}

// Provider resolves the boundary GeoJSON of a scope.
type Provider struct {
	fetcher  fetcher.Fetcher
	resolver StateResolver
	opts     Options
	now      func() time.Time

	nationalOnce sync.Once
	national     json.RawMessage
	nationalErr  error

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]cached
}

// NewProvider creates a Provider.
func NewProvider(f fetcher.Fetcher, resolver StateResolver, opts Options) *Provider {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.TTL == 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Provider{
		fetcher:  f,
		resolver: resolver,
		opts:     opts,
		now:      time.Now,
		cache:    make(map[string]cached),
	}
}

// FeatureIDKey returns the feature property the map joins locations on.
func FeatureIDKey(state string) string {
	if state == model.NationalScope {
		return "id"
	}
	return "properties.id"
}

// GeoJSON returns the boundary FeatureCollection for the scope.
func (p *Provider) GeoJSON(ctx context.Context, state string) (json.RawMessage, error) {
	if state == model.NationalScope {
		return p.loadNational()
	}

	// The shared load outlives any single caller; each caller stops
	// waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(state, func() (any, error) {
		return p.loadState(loadCtx, state)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	case <-ctx.Done():
		return nil, eris.Wrapf(ctx.Err(), "boundary: wait for %s", state)
	}
}

func (p *Provider) loadNational() (json.RawMessage, error) {
	p.nationalOnce.Do(func() {
		data, err := os.ReadFile(p.opts.NationalPath)
		if err != nil {
			p.nationalErr = eris.Wrap(err, "boundary: read national geojson")
			return
		}
		if !json.Valid(data) {
			p.nationalErr = eris.Errorf("boundary: %s is not valid JSON", p.opts.NationalPath)
			return
		}
		p.national = data
	})
	return p.national, p.nationalErr
}

func (p *Provider) loadState(ctx context.Context, state string) (json.RawMessage, error) {
	p.mu.Lock()
	entry, ok := p.cache[state]
	p.mu.Unlock()
	if ok && p.now().Sub(entry.fetched) < p.opts.TTL {
		return entry.body, nil
	}

	if path, found := p.shapefilePath(state); found {
		body, err := ReadShapefile(path)
		if err != nil {
			return nil, err
		}
		p.put(state, cached{body: body, fetched: p.now()})
		return body, nil
	}

	id, err := p.resolver.StateID(ctx, state)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: resolve %s", state)
	}
	u := fmt.Sprintf("%s/geojs-%d-mun.json", p.opts.BaseURL, id)

	rc, etag, changed, err := p.fetcher.DownloadIfChanged(ctx, u, entry.etag)
	if err != nil {
		if ok {
			zap.L().Warn("boundary: revalidation failed, serving cached copy",
				zap.String("state", state), zap.Error(err))
			return entry.body, nil
		}
		return nil, eris.Wrapf(err, "boundary: fetch %s", state)
	}
	if !changed && ok {
		entry.fetched = p.now()
		p.put(state, entry)
		return entry.body, nil
	}
	if rc == nil {
		return nil, eris.Errorf("boundary: empty response for %s", state)
	}
	defer rc.Close() //nolint:errcheck

	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read %s", state)
	}
	if !json.Valid(body) {
		return nil, eris.Errorf("boundary: invalid geojson for %s", state)
	}

	zap.L().Info("boundary: fetched",
		zap.String("state", state),
		zap.Int("ibge_id", id),
		zap.Int("bytes", len(body)),
	)
	p.put(state, cached{body: body, etag: etag, fetched: p.now()})
	return body, nil
}

func (p *Provider) put(state string, c cached) {
	p.mu.Lock()
	p.cache[state] = c
	p.mu.Unlock()
}

func (p *Provider) shapefilePath(state string) (string, bool) {
	if p.opts.ShapefileDir == "" {
		return "", false
	}
	path := filepath.Join(p.opts.ShapefileDir, state+".shp")
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
