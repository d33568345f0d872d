package dashboard

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/acidentes-dashboard/internal/aggregate"
)

// Points returns the accidents of the scope as a GeoJSON FeatureCollection
// of points, ordered from most to least severe.
func (s *Service) Points(ctx context.Context, state string) (json.RawMessage, error) {
	state, err := s.normalizeState(state)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "dashboard: points")
	}

	data, err := json.Marshal(featureCollection(aggregate.Points(s.rows, state)))
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: encode points")
	}
	return data, nil
}

func featureCollection(points []aggregate.Point) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(points))}
	for _, p := range points {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       p.ID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{p.Longitude, p.Latitude}),
			Properties: map[string]any{
				"municipio":              p.Municipality,
				"causa_acidente":         p.Cause,
				"classificacao_acidente": p.Classification,
				"data_inversa":           p.Date,
				"mortos":                 p.Deaths,
				"feridos":                p.Injured,
			},
		})
	}
	return fc
}

// GeoJSON returns the boundary GeoJSON of the scope.
func (s *Service) GeoJSON(ctx context.Context, state string) (json.RawMessage, error) {
	state, err := s.normalizeState(state)
	if err != nil {
		return nil, err
	}
	if s.boundaries == nil {
		return nil, eris.New("dashboard: no boundary provider configured")
	}
	geo, err := s.boundaries.GeoJSON(ctx, state)
	return geo, eris.Wrapf(err, "dashboard: boundaries of %s", state)
}
