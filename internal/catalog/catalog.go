// Package catalog loads the states reference file that drives the scope selector.
package catalog

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/acidentes-dashboard/internal/model"
)

// Catalog is the ordered list of selectable scopes.
type Catalog struct {
	states []model.State
	index  map[string]int
}

type entry struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
	Zoom float64 `yaml:"zoom"`
}

// Load decodes a states file shaped as {"UF": {"name": ...}, ...}. JSON is
// read as YAML so the mapping keeps its file order.
func Load(r io.Reader) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eris.New("catalog: empty states file")
		}
		return nil, eris.Wrap(err, "catalog: decode")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, eris.New("catalog: states file must be a mapping of UF to state")
	}

	root := doc.Content[0]
	c := &Catalog{index: make(map[string]int, len(root.Content)/2)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		code := strings.ToUpper(strings.TrimSpace(root.Content[i].Value))
		if code == "" {
			return nil, eris.Errorf("catalog: empty state code at line %d", root.Content[i].Line)
		}
		if _, dup := c.index[code]; dup {
			return nil, eris.Errorf("catalog: duplicate state %q", code)
		}

		var e entry
		if err := root.Content[i+1].Decode(&e); err != nil {
			return nil, eris.Wrapf(err, "catalog: state %s", code)
		}
		name := strings.TrimSpace(e.Name)
		if name == "" {
			name = code
		}
		c.index[code] = len(c.states)
		c.states = append(c.states, model.State{Code: code, Name: name, Lat: e.Lat, Lon: e.Lon, Zoom: e.Zoom})
	}
	return c, nil
}

// LoadFile opens and decodes the states file at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open")
	}
	defer f.Close() //nolint:errcheck
	return Load(f)
}

// States returns the states in file order.
func (c *Catalog) States() []model.State {
	return append([]model.State(nil), c.states...)
}

// Options returns one selector option per state in file order.
func (c *Catalog) Options() []model.Option {
	out := make([]model.Option, 0, len(c.states))
	for _, s := range c.states {
		out = append(out, model.Option{Label: s.Name, Value: s.Code})
	}
	return out
}

// Lookup finds a state by its UF code.
func (c *Catalog) Lookup(code string) (model.State, bool) {
	i, ok := c.index[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return model.State{}, false
	}
	return c.states[i], true
}

// Len returns the number of states.
func (c *Catalog) Len() int {
	return len(c.states)
}
