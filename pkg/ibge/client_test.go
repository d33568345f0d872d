package ibge

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/acidentes-dashboard/internal/fetcher"
	"github.com/sells-group/acidentes-dashboard/internal/model"
)

const estadosBody = `[
	{"id": 25, "sigla": "PB", "nome": "Paraíba"},
	{"id": 26, "sigla": "PE", "nome": "Pernambuco"}
]`

const municipiosBody = `[
	{"id": 2504009, "nome": "Campina Grande"},
	{"id": 2507507, "nome": "João Pessoa"}
]`

type testServer struct {
	*httptest.Server
	estados    atomic.Int32
	municipios atomic.Int32
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/estados", func(w http.ResponseWriter, _ *http.Request) {
		ts.estados.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, estadosBody)
	})
	mux.HandleFunc("/estados/25/municipios", func(w http.ResponseWriter, _ *http.Request) {
		ts.municipios.Add(1)
		time.Sleep(10 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, municipiosBody)
	})
	mux.HandleFunc("/estados/99/municipios", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	ts.Server = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(ts *testServer, opts ...Option) Client {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		MaxRetries:  1,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  time.Millisecond,
	})
	return NewClient(f, append([]Option{WithBaseURL(ts.URL + "/")}, opts...)...)
}

func TestStateID_National(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(ts)

	id, err := c.StateID(context.Background(), "BR")
	require.NoError(t, err)
	assert.Equal(t, NationalID, id)
	assert.Equal(t, int32(0), ts.estados.Load())
}

func TestStateID_Lookup(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(ts)

	id, err := c.StateID(context.Background(), "pb")
	require.NoError(t, err)
	assert.Equal(t, 25, id)

	id, err = c.StateID(context.Background(), "PE")
	require.NoError(t, err)
	assert.Equal(t, 26, id)

	// Second lookup served from cache.
	assert.Equal(t, int32(1), ts.estados.Load())
}

func TestStateID_Unknown(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(ts)

	_, err := c.StateID(context.Background(), "XX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown state")
}

func TestMunicipalities(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(ts)

	got, err := c.Municipalities(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, []model.Municipality{
		{ID: 2504009, Name: "Campina Grande"},
		{ID: 2507507, Name: "João Pessoa"},
	}, got)
}

func TestMunicipalities_ConcurrentCallsCoalesce(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(ts, WithCacheTTL(0))

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Municipalities(context.Background(), 25)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, ts.municipios.Load(), int32(5))
	assert.GreaterOrEqual(t, ts.municipios.Load(), int32(1))
}

func TestMunicipalities_CacheExpires(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(ts, WithCacheTTL(time.Hour)).(*client)

	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.Municipalities(context.Background(), 25)
	require.NoError(t, err)
	_, err = c.Municipalities(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, int32(1), ts.municipios.Load())

	now = now.Add(2 * time.Hour)
	_, err = c.Municipalities(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, int32(2), ts.municipios.Load())
}

func TestMunicipalities_HTTPError(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(ts)

	_, err := c.Municipalities(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "municipalities of 99")
}

func TestMunicipalities_CancelledCallerLeavesLoadRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/estados/25/municipios", func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			close(started)
		}
		<-release
		_, _ = io.WriteString(w, municipiosBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{MaxRetries: 1})
	c := NewClient(f, WithBaseURL(srv.URL), WithCacheTTL(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Municipalities(ctx, 25)
		errCh <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	got, err := c.Municipalities(context.Background(), 25)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int32(1), hits.Load())
}
