// Package ibge resolves Brazilian states and municipalities against the IBGE localidades API.
package ibge

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/acidentes-dashboard/internal/fetcher"
	"github.com/sells-group/acidentes-dashboard/internal/model"
)

// NationalID is the IBGE code used for the whole country.
const NationalID = 100

// DefaultBaseURL is the public localidades API.
const DefaultBaseURL = "https://servicodados.ibge.gov.br/api/v1/localidades"

// Client looks up IBGE ids.
type Client interface {
	// StateID returns the IBGE id of a UF; BR maps to NationalID.
	StateID(ctx context.Context, uf string) (int, error)

	// Municipalities lists the municipalities of a state in API order.
	Municipalities(ctx context.Context, stateID int) ([]model.Municipality, error)
}

// Estado is one entry of the /estados endpoint.
type Estado struct {
	ID    int    `json:"id"`
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
}

// Option configures the client.
type Option func(*client)

// WithBaseURL overrides the localidades API root.
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithCacheTTL sets how long responses are kept. Zero disables caching.
func WithCacheTTL(d time.Duration) Option {
	return func(c *client) {
		c.ttl = d
	}
}

type cacheEntry struct {
	value   any
	expires time.Time
}

type client struct {
	fetcher fetcher.Fetcher
	baseURL string
	ttl     time.Duration
	now     func() time.Time

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewClient creates a Client that downloads through f.
func NewClient(f fetcher.Fetcher, opts ...Option) Client {
	c := &client{
		fetcher: f,
		baseURL: DefaultBaseURL,
		ttl:     24 * time.Hour,
		now:     time.Now,
		cache:   make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StateID returns the IBGE id of a UF.
func (c *client) StateID(ctx context.Context, uf string) (int, error) {
	uf = strings.ToUpper(strings.TrimSpace(uf))
	if uf == model.NationalScope {
		return NationalID, nil
	}

	estados, err := c.estados(ctx)
	if err != nil {
		return 0, err
	}
	for _, e := range estados {
		if strings.EqualFold(e.Sigla, uf) {
			return e.ID, nil
		}
	}
	return 0, eris.Errorf("ibge: unknown state %q", uf)
}

// Municipalities lists the municipalities of a state.
func (c *client) Municipalities(ctx context.Context, stateID int) ([]model.Municipality, error) {
	u := fmt.Sprintf("%s/estados/%d/municipios", c.baseURL, stateID)
	v, err := c.cached(ctx, u, func(ctx context.Context) (any, error) {
		return fetchList[model.Municipality](ctx, c.fetcher, u)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "ibge: municipalities of %d", stateID)
	}
	return v.([]model.Municipality), nil
}

func (c *client) estados(ctx context.Context) ([]Estado, error) {
	u := c.baseURL + "/estados"
	v, err := c.cached(ctx, u, func(ctx context.Context) (any, error) {
		return fetchList[Estado](ctx, c.fetcher, u)
	})
	if err != nil {
		return nil, eris.Wrap(err, "ibge: states")
	}
	return v.([]Estado), nil
}

// cached returns a fresh cached value for key or loads it once, sharing the
// load between concurrent callers.
func (c *client) cached(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, v)
		return v, nil
	})
	select {
	case res := <-ch:
		if res.Shared {
			zap.L().Debug("ibge: shared in-flight request", zap.String("url", key))
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, eris.Wrapf(ctx.Err(), "ibge: wait for %s", key)
	}
}

func (c *client) lookup(key string) (any, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[key]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (c *client) store(key string, v any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{value: v, expires: c.now().Add(c.ttl)}
}

func fetchList[T any](ctx context.Context, f fetcher.Fetcher, u string) ([]T, error) {
	body, err := f.Download(ctx, u)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	items, err := fetcher.DecodeJSONList[T](ctx, body)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	zap.L().Debug("ibge: fetched", zap.String("url", u), zap.Int("items", len(items)))
	return items, nil
}
