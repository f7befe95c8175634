package instance

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/etsppc/geom"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of an instance:
//
//	name: sample
//	locations:
//	  - {id: 1, x: 0, y: 0}
//	  - {id: 2, x: 3, y: 4}
//	constraints:
//	  - {first: 1, second: 2}
//
// JSON input works as well since JSON is a subset of YAML.
type document struct {
	Name        string          `yaml:"name"`
	Locations   []locationDoc   `yaml:"locations"`
	Constraints []constraintDoc `yaml:"constraints"`
}

type locationDoc struct {
	ID int     `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

type constraintDoc struct {
	First  int `yaml:"first"`
	Second int `yaml:"second"`
}

// Decode reads a single YAML document from r and builds an Instance.
// Unknown fields are rejected; every validation of New applies.
func Decode(r io.Reader) (*Instance, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoLocations
		}

		return nil, fmt.Errorf("instance: decode: %w", err)
	}

	locs := make([]geom.Location, len(doc.Locations))
	for i, l := range doc.Locations {
		locs[i] = geom.NewLocation(l.ID, l.X, l.Y)
	}
	cons := make([]Constraint, len(doc.Constraints))
	for i, c := range doc.Constraints {
		cons[i] = Constraint{First: c.First, Second: c.Second}
	}

	return New(locs, cons, WithName(doc.Name))
}

// Load opens path and decodes it with Decode.
func Load(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("instance: open: %w", err)
	}
	defer f.Close()

	in, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return in, nil
}
