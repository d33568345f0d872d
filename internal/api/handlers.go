package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/acidentes-dashboard/internal/aggregate"
	"github.com/sells-group/acidentes-dashboard/internal/dashboard"
	"github.com/sells-group/acidentes-dashboard/internal/export"
	"github.com/sells-group/acidentes-dashboard/internal/model"
)

type handlers struct {
	dash Dashboard
}

func (h *handlers) options(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.dash.Options())
}

func (h *handlers) choropleth(w http.ResponseWriter, r *http.Request) {
	res, err := h.dash.Map(r.Context(), r.URL.Query().Get("state"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) chart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	chartType := q.Get("type")
	if chartType == "" {
		chartType = h.dash.Options().Defaults.ChartType
	}
	res, err := h.dash.Chart(r.Context(), q.Get("state"), chartType, causes(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) geojson(w http.ResponseWriter, r *http.Request) {
	geo, err := h.dash.GeoJSON(r.Context(), r.URL.Query().Get("state"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRaw(w, "application/geo+json", geo)
}

func (h *handlers) points(w http.ResponseWriter, r *http.Request) {
	fc, err := h.dash.Points(r.Context(), r.URL.Query().Get("state"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRaw(w, "application/geo+json", fc)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	tbl, err := h.table(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tbl)
}

func (h *handlers) export(w http.ResponseWriter, r *http.Request) {
	tbl, err := h.table(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	name := exportName(r)
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, name, tbl); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="acidentes-%s.xlsx"`, name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *handlers) table(r *http.Request) (aggregate.Table, error) {
	q := r.URL.Query()
	view := model.View(q.Get("view"))
	if view == "" {
		view = model.ViewRegions
	}
	return h.dash.View(r.Context(), q.Get("state"), view, causes(r))
}

// exportName is "{view}-{state}" with defaults applied.
func exportName(r *http.Request) string {
	q := r.URL.Query()
	view, state := q.Get("view"), strings.ToUpper(q.Get("state"))
	if view == "" {
		view = string(model.ViewRegions)
	}
	if state == "" {
		state = "BR"
	}
	return view + "-" + state
}

// causes reads repeated cause parameters (cause=Chuva&cause=Sono).
func causes(r *http.Request) []string {
	return r.URL.Query()["cause"]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeRaw(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// writeError maps selection errors to 400 and everything else to 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case eris.Is(err, dashboard.ErrUnknownState),
		eris.Is(err, dashboard.ErrUnknownView),
		eris.Is(err, aggregate.ErrUnknownCity):
		status = http.StatusBadRequest
	}

	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("query", r.URL.RawQuery),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("api: request failed", fields...)
	} else {
		zap.L().Debug("api: bad request", fields...)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
