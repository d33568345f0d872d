package boundary

import (
	"encoding/json"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// Attribute names tried, in order, for the municipality code and name.
var (
	codeFields = []string{"cd_mun", "cd_geocmu", "id"}
	nameFields = []string{"nm_mun", "nm_municip", "name"}
)

// ReadShapefile converts an IBGE municipality shapefile into a GeoJSON
// FeatureCollection with properties.id and properties.name on every feature.
func ReadShapefile(path string) (json.RawMessage, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Fields is empty when the .dbf is missing or unreadable.
	fields := reader.Fields()
	if len(fields) == 0 {
		return nil, eris.Errorf("boundary: %s has no attribute table", path)
	}
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}
	if !hasAny(fieldIdx, codeFields) {
		return nil, eris.Errorf("boundary: %s has none of the code attributes %v", path, codeFields)
	}

	attr := func(candidates []string) string {
		for _, c := range candidates {
			if idx, ok := fieldIdx[c]; ok {
				return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
			}
		}
		return ""
	}

	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0)}
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		g := shapeToGeom(shape)
		if g == nil {
			skipped++
			continue
		}
		code := attr(codeFields)
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       code,
			Geometry: g,
			Properties: map[string]any{
				"id":   code,
				"name": attr(nameFields),
			},
		})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: encode geojson")
	}
	return data, nil
}

func hasAny(idx map[string]int, candidates []string) bool {
	for _, c := range candidates {
		if _, ok := idx[c]; ok {
			return true
		}
	}
	return false
}

// shapeToGeom converts polygon and point shapes; other shapes yield nil.
func shapeToGeom(shape shp.Shape) geom.T {
	switch s := shape.(type) {
	case *shp.Polygon:
		return polygonToMultiPolygon(s)
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y})
	}
	return nil
}

func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if start < 0 || start >= end || end > int32(len(p.Points)) {
			continue
		}

		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			zap.L().Debug("boundary: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
