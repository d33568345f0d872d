package model

// State is one entry of the states reference file.
type State struct {
	Code string  `json:"code" yaml:"code"`
	Name string  `json:"name" yaml:"name"`
	Lat  float64 `json:"lat,omitempty" yaml:"lat"`
	Lon  float64 `json:"lon,omitempty" yaml:"lon"`
	Zoom float64 `json:"zoom,omitempty" yaml:"zoom"`
}

// Municipality is an IBGE municipality.
type Municipality struct {
	ID   int    `json:"id"`
	Name string `json:"nome"`
}

// Option is a label/value pair for a UI selector.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
