// Package dashboard answers the dashboard's scope and chart selections with
// figures and tables computed from the accident log.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/acidentes-dashboard/internal/aggregate"
	"github.com/sells-group/acidentes-dashboard/internal/catalog"
	"github.com/sells-group/acidentes-dashboard/internal/chart"
	"github.com/sells-group/acidentes-dashboard/internal/config"
	"github.com/sells-group/acidentes-dashboard/internal/dataset"
	"github.com/sells-group/acidentes-dashboard/internal/model"
)

var (
	// ErrUnknownState is returned for a scope missing from the states file.
	ErrUnknownState = errors.New("dashboard: unknown state")
	// ErrUnknownView is returned for an unrecognised chart type or view.
	ErrUnknownView = errors.New("dashboard: unknown view")
)

// AccidentSource provides the accident log.
type AccidentSource interface {
	Accidents(ctx context.Context) ([]model.Accident, error)
}

// Localities resolves IBGE state and municipality ids.
type Localities interface {
	StateID(ctx context.Context, uf string) (int, error)
	Municipalities(ctx context.Context, stateID int) ([]model.Municipality, error)
}

// Boundaries returns region boundary GeoJSON.
type Boundaries interface {
	GeoJSON(ctx context.Context, state string) (json.RawMessage, error)
}

// Deps are the collaborators of a Service.
type Deps struct {
	Source     AccidentSource
	StatesPath string
	Localities Localities
	Boundaries Boundaries
	Config     config.DashboardConfig
}

// Service holds the loaded log and serves every dashboard view.
type Service struct {
	rows       []model.Accident
	states     *catalog.Catalog
	causes     []string
	localities Localities
	boundaries Boundaries
	cfg        config.DashboardConfig
}

// New loads the accident log and the states file concurrently.
func New(ctx context.Context, deps Deps) (*Service, error) {
	if deps.Source == nil {
		return nil, eris.New("dashboard: accident source is required")
	}

	var (
		rows   []model.Accident
		states *catalog.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = deps.Source.Accidents(gctx)
		return eris.Wrap(err, "dashboard: load accidents")
	})
	g.Go(func() error {
		var err error
		states, err = catalog.LoadFile(deps.StatesPath)
		return eris.Wrap(err, "dashboard: load states")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Service{
		rows:       rows,
		states:     states,
		causes:     dataset.Causes(rows),
		localities: deps.Localities,
		boundaries: deps.Boundaries,
		cfg:        deps.Config,
	}
	zap.L().Info("dashboard: ready",
		zap.Int("rows", len(rows)),
		zap.Int("states", states.Len()),
		zap.Int("causes", len(s.causes)),
	)
	return s, nil
}

// Defaults are the initial selections of the page.
type Defaults struct {
	State     string   `json:"state"`
	ChartType string   `json:"chart_type"`
	Causes    []string `json:"causes"`
}

// Options lists everything the page selectors offer.
type Options struct {
	States     []model.Option `json:"states"`
	Causes     []string       `json:"causes"`
	ChartTypes []model.Option `json:"chart_types"`
	MaxCauses  int            `json:"max_causes"`
	Defaults   Defaults       `json:"defaults"`
}

// Options returns the selector contents and defaults.
func (s *Service) Options() Options {
	types := make([]model.Option, 0, len(model.ChartTypes))
	for _, ct := range model.ChartTypes {
		types = append(types, model.Option{Label: ct.Label(), Value: string(ct)})
	}
	state := s.cfg.DefaultState
	if state == "" {
		state = model.NationalScope
	}
	return Options{
		States:     s.states.Options(),
		Causes:     append([]string(nil), s.causes...),
		ChartTypes: types,
		MaxCauses:  s.cfg.MaxCauses,
		Defaults: Defaults{
			State:     state,
			ChartType: string(model.ChartBar),
			Causes:    append([]string(nil), s.cfg.DefaultCauses...),
		},
	}
}

// Rows returns the number of loaded log rows.
func (s *Service) Rows() int {
	return len(s.rows)
}

// normalizeState validates a scope. BR is always accepted.
func (s *Service) normalizeState(state string) (string, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	if state == "" {
		state = s.cfg.DefaultState
	}
	if state == "" || state == model.NationalScope {
		return model.NationalScope, nil
	}
	if _, ok := s.states.Lookup(state); !ok {
		return "", eris.Wrapf(ErrUnknownState, "state %q", state)
	}
	return state, nil
}

func (s *Service) mapOptions(state string) chart.MapOptions {
	opts := chart.MapOptions{
		Center:     chart.LatLon{Lat: s.cfg.CenterLat, Lon: s.cfg.CenterLon},
		Zoom:       s.cfg.Zoom,
		Style:      s.cfg.MapStyle,
		ColorScale: s.cfg.ColorScale,
		Opacity:    s.cfg.Opacity,
	}
	if st, ok := s.states.Lookup(state); ok {
		if st.Lat != 0 || st.Lon != 0 {
			opts.Center = chart.LatLon{Lat: st.Lat, Lon: st.Lon}
		}
		if st.Zoom != 0 {
			opts.Zoom = st.Zoom
		}
	}
	return opts
}

// regions counts accidents per region and, for a state, attaches IBGE ids.
func (s *Service) regions(ctx context.Context, state string) ([]aggregate.RegionCount, error) {
	counts := aggregate.RegionCounts(s.rows, state)
	if state == model.NationalScope || len(counts) == 0 {
		return counts, nil
	}
	if s.localities == nil {
		return nil, eris.New("dashboard: no IBGE client configured")
	}

	id, err := s.localities.StateID(ctx, state)
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: resolve %s", state)
	}
	municipalities, err := s.localities.Municipalities(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: municipalities of %s", state)
	}
	return aggregate.AttachCityCodes(counts, municipalities)
}

// MapResult is the choropleth for a scope plus the counts behind it.
type MapResult struct {
	State  string          `json:"state"`
	Figure chart.Figure    `json:"figure"`
	Table  aggregate.Table `json:"table"`
}

// Map builds the choropleth of accident counts for the scope.
func (s *Service) Map(ctx context.Context, state string) (*MapResult, error) {
	state, err := s.normalizeState(state)
	if err != nil {
		return nil, err
	}
	if s.boundaries == nil {
		return nil, eris.New("dashboard: no boundary provider configured")
	}

	var (
		counts []aggregate.RegionCount
		geo    json.RawMessage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.regions(gctx, state)
		return err
	})
	g.Go(func() error {
		var err error
		geo, err = s.boundaries.GeoJSON(gctx, state)
		return eris.Wrapf(err, "dashboard: boundaries of %s", state)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fig := chart.Choropleth(counts, geo, state, s.mapOptions(state))
	chart.ApplyTheme(&fig)

	zap.L().Debug("dashboard: map", zap.String("state", state), zap.Int("regions", len(counts)))
	return &MapResult{State: state, Figure: fig, Table: aggregate.RegionTable(counts, state)}, nil
}

// ChartResult is the right-hand figure for a selection. Causes echoes the
// causes actually charted and Alert is set when the selection was cut.
type ChartResult struct {
	State  string          `json:"state"`
	Type   model.ChartType `json:"type"`
	Figure chart.Figure    `json:"figure"`
	Table  aggregate.Table `json:"table"`
	Causes []string        `json:"causes,omitempty"`
	Alert  string          `json:"alert,omitempty"`
}

// Chart builds the scatter map, timeline or cause bars for the scope.
// For bars, an empty cause list falls back to the configured defaults and
// a list longer than max_causes is truncated with an alert.
func (s *Service) Chart(ctx context.Context, state, chartType string, causes []string) (*ChartResult, error) {
	state, err := s.normalizeState(state)
	if err != nil {
		return nil, err
	}
	ct, ok := model.ParseChartType(chartType)
	if !ok {
		return nil, eris.Wrapf(ErrUnknownView, "chart type %q", chartType)
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "dashboard: chart")
	}

	res := &ChartResult{State: state, Type: ct}
	switch ct {
	case model.ChartScatter:
		points := aggregate.Points(s.rows, state)
		res.Figure = chart.Scatter(points, s.mapOptions(state))
		res.Table = aggregate.PointTable(points)
		chart.ApplyTheme(&res.Figure)
		chart.SetLegend(&res.Figure, chart.LegendRight)
	case model.ChartLine:
		timeline := aggregate.Timeline(s.rows, state)
		res.Figure = chart.Line(timeline)
		res.Table = aggregate.TimelineTable(timeline)
		chart.ApplyTheme(&res.Figure)
	case model.ChartBar:
		legendX := chart.LegendCenter
		kept, truncated := s.selectCauses(causes)
		if len(causes) == 0 {
			legendX = chart.LegendRight
		}
		breakdown := aggregate.CauseBreakdown(s.rows, state, kept)
		res.Figure = chart.Bar(breakdown, kept)
		res.Table = aggregate.CauseTable(breakdown)
		res.Causes = kept
		if truncated {
			res.Alert = fmt.Sprintf("Selecione no máximo %d causas", s.cfg.MaxCauses)
		}
		chart.ApplyTheme(&res.Figure)
		chart.SetLegend(&res.Figure, legendX)
	}

	zap.L().Debug("dashboard: chart",
		zap.String("state", state),
		zap.String("type", string(ct)),
		zap.Int("rows", res.Table.Len()),
	)
	return res, nil
}

func (s *Service) selectCauses(causes []string) ([]string, bool) {
	kept, truncated := aggregate.LimitCauses(causes, s.cfg.MaxCauses)
	if len(kept) == 0 {
		kept, truncated = aggregate.LimitCauses(s.cfg.DefaultCauses, s.cfg.MaxCauses)
	}
	return kept, truncated
}

// View computes one aggregation as a table.
func (s *Service) View(ctx context.Context, state string, view model.View, causes []string) (aggregate.Table, error) {
	state, err := s.normalizeState(state)
	if err != nil {
		return aggregate.Table{}, err
	}

	switch view {
	case model.ViewRegions:
		counts, err := s.regions(ctx, state)
		if err != nil {
			return aggregate.Table{}, err
		}
		return aggregate.RegionTable(counts, state), nil
	case model.ViewTimeline:
		return aggregate.TimelineTable(aggregate.Timeline(s.rows, state)), nil
	case model.ViewCauses:
		kept, _ := s.selectCauses(causes)
		return aggregate.CauseTable(aggregate.CauseBreakdown(s.rows, state, kept)), nil
	case model.ViewPoints:
		return aggregate.PointTable(aggregate.Points(s.rows, state)), nil
	}
	return aggregate.Table{}, eris.Wrapf(ErrUnknownView, "view %q", view)
}
