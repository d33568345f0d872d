// Package dataset loads the PRF accident log into memory.
package dataset

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/acidentes-dashboard/internal/fetcher"
	"github.com/sells-group/acidentes-dashboard/internal/model"
)

// Options controls how the accident log is decoded.
type Options struct {
	Delimiter rune   // default ','
	Encoding  string // charset label, default utf-8
	SheetName string // XLSX input only
}

// Column names of the PRF open-data layout.
const (
	colID             = "id"
	colDate           = "data_inversa"
	colWeekday        = "dia_semana"
	colTime           = "horario"
	colUF             = "uf"
	colBR             = "br"
	colKM             = "km"
	colMunicipality   = "municipio"
	colCause          = "causa_acidente"
	colType           = "tipo_acidente"
	colClassification = "classificacao_acidente"
	colDayPhase       = "fase_dia"
	colWeather        = "condicao_metereologica"
	colPeople         = "pessoas"
	colDeaths         = "mortos"
	colInjured        = "feridos"
	colInjuredLight   = "feridos_leves"
	colInjuredSerious = "feridos_graves"
	colVehicles       = "veiculos"
	colLatitude       = "latitude"
	colLongitude      = "longitude"
)

// RequiredColumns must be present in the header.
var RequiredColumns = []string{colID, colUF, colMunicipality, colCause}

// LoadFile reads the accident log at path. CSV, ZIP archives holding a CSV,
// and XLSX workbooks are accepted, chosen by file extension.
func LoadFile(ctx context.Context, path string, opts Options) ([]model.Accident, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rowCh, errCh := fetcher.StreamXLSX(ctx, path, fetcher.XLSXOptions{SheetName: opts.SheetName})
		return Decode(rowCh, errCh)
	case ".zip":
		rc, member, err := fetcher.OpenZIPMember(path, ".csv")
		if err != nil {
			return nil, eris.Wrap(err, "dataset: open archive")
		}
		defer rc.Close() //nolint:errcheck
		zap.L().Debug("dataset: reading archive member", zap.String("archive", path), zap.String("member", member))
		return Load(ctx, rc, opts)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return Load(ctx, f, opts)
	}
}

// Load parses a CSV accident log. The first row must be the header.
func Load(ctx context.Context, r io.Reader, opts Options) ([]model.Accident, error) {
	rowCh, errCh := fetcher.StreamCSV(ctx, r, fetcher.CSVOptions{
		Delimiter:  opts.Delimiter,
		Encoding:   opts.Encoding,
		LazyQuotes: true,
		TrimSpace:  true,
	})
	return Decode(rowCh, errCh)
}

// Decode consumes a header row followed by data rows and maps them to accidents
// in input order.
func Decode(rowCh <-chan []string, errCh <-chan error) ([]model.Accident, error) {
	var (
		idx       header
		out       []model.Accident
		gotHeader bool
		noCoords  int
		decodeErr error
	)

	for row := range rowCh {
		if decodeErr != nil {
			continue // drain so the producer can finish
		}
		if !gotHeader {
			gotHeader = true
			idx, decodeErr = newHeader(row)
			continue
		}
		a := idx.accident(row)
		if !a.HasCoords {
			noCoords++
		}
		out = append(out, a)
	}
	for err := range errCh {
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read rows")
		}
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	if !gotHeader {
		return nil, eris.New("dataset: empty input, header row missing")
	}

	zap.L().Info("dataset: accident log loaded",
		zap.Int("rows", len(out)),
		zap.Int("rows_without_coords", noCoords),
	)
	return out, nil
}

// header maps column names to their positions.
type header map[string]int

func newHeader(row []string) (header, error) {
	h := make(header, len(row))
	for i, name := range row {
		name = strings.ToLower(strings.Trim(strings.TrimSpace(name), `"`))
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := h[col]; !ok {
			return nil, eris.Errorf("dataset: required column %q missing from header", col)
		}
	}
	return h, nil
}

func (h header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) accident(row []string) model.Accident {
	a := model.Accident{
		ID:             normalizeID(h.get(row, colID)),
		Date:           parseDate(h.get(row, colDate)),
		Weekday:        h.get(row, colWeekday),
		Time:           h.get(row, colTime),
		UF:             strings.ToUpper(h.get(row, colUF)),
		BR:             normalizeID(h.get(row, colBR)),
		KM:             parseFloatOr(h.get(row, colKM), 0),
		Municipality:   h.get(row, colMunicipality),
		Cause:          h.get(row, colCause),
		Type:           h.get(row, colType),
		Classification: h.get(row, colClassification),
		DayPhase:       h.get(row, colDayPhase),
		Weather:        h.get(row, colWeather),
		People:         parseIntOr(h.get(row, colPeople), 0),
		Deaths:         parseIntOr(h.get(row, colDeaths), 0),
		Vehicles:       parseIntOr(h.get(row, colVehicles), 0),
	}

	if _, ok := h[colInjured]; ok {
		a.Injured = parseIntOr(h.get(row, colInjured), 0)
	} else {
		a.Injured = parseIntOr(h.get(row, colInjuredLight), 0) + parseIntOr(h.get(row, colInjuredSerious), 0)
	}

	lat, latOK := parseFloat(h.get(row, colLatitude))
	lon, lonOK := parseFloat(h.get(row, colLongitude))
	if latOK && lonOK && (lat != 0 || lon != 0) {
		a.Latitude, a.Longitude, a.HasCoords = lat, lon, true
	}
	return a
}

// Causes returns the distinct causes in order of first appearance.
func Causes(rows []model.Accident) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		if r.Cause == "" {
			continue
		}
		if _, ok := seen[r.Cause]; ok {
			continue
		}
		seen[r.Cause] = struct{}{}
		out = append(out, r.Cause)
	}
	return out
}
