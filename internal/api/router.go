// Package api exposes the dashboard over HTTP.
package api

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/acidentes-dashboard/internal/aggregate"
	"github.com/sells-group/acidentes-dashboard/internal/dashboard"
	"github.com/sells-group/acidentes-dashboard/internal/model"
)

//go:embed web
var webFS embed.FS

// Dashboard is the service behind the handlers.
type Dashboard interface {
	Options() dashboard.Options
	Map(ctx context.Context, state string) (*dashboard.MapResult, error)
	Chart(ctx context.Context, state, chartType string, causes []string) (*dashboard.ChartResult, error)
	Points(ctx context.Context, state string) (json.RawMessage, error)
	GeoJSON(ctx context.Context, state string) (json.RawMessage, error)
	View(ctx context.Context, state string, view model.View, causes []string) (aggregate.Table, error)
}

// Options configures the router.
type Options struct {
	CORSOrigins []string
}

// NewRouter builds the HTTP handler tree.
func NewRouter(d Dashboard, opts Options) http.Handler {
	h := &handlers{dash: d}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	static, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, static, "index.html")
	})
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(static))))

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", h.options)
		r.Get("/map", h.choropleth)
		r.Get("/chart", h.chart)
		r.Get("/geojson", h.geojson)
		r.Get("/points", h.points)
		r.Get("/view", h.view)
		r.Get("/export", h.export)
	})

	return r
}

// requestID propagates X-Request-Id, minting a UUID when the client sent none.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
