// Package dataset reads the YAML points file and keeps the point store in
// sync with it.
package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/core/validate"
	"github.com/colonyops/mappicker/internal/data/stores"
	"github.com/colonyops/mappicker/internal/metrics"
)

// Dataset is the content of a points file.
//
//	points:
//	  - key: WAW01
//	    type: locker
//	    name: Paczkomat WAW01
//	    description: "Open **24/7**"
//	    service: InPost
//	    geocode: [52.2297, 21.0122]
//	places:
//	  - name: Warszawa Centralna
//	    latitude: 52.2289
//	    longitude: 21.0031
type Dataset struct {
	Points []geo.MapPoint `yaml:"points"`
	Places []stores.Place `yaml:"places"`
}

// Parse decodes and validates a dataset. Points without a key get a random
// UUID so they can still be selected.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	for i := range ds.Points {
		if ds.Points[i].Key == "" {
			ds.Points[i].Key = uuid.NewString()
		}
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}

	return &ds, nil
}

// Load reads and parses the dataset at path.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(data)
}

// Validate reports every malformed point and place as a field error.
func (ds *Dataset) Validate() error {
	var checks []error

	seen := make(map[string]int, len(ds.Points))
	for i, p := range ds.Points {
		field := fmt.Sprintf("points[%d]", i)

		checks = append(checks,
			validate.PointKeyField(field+".key", p.Key),
			validate.NameField(field+".name", p.Name),
			validate.PositionField(field+".geocode", p.Position()),
		)
		if first, dup := seen[p.Key]; dup {
			checks = append(checks, criterio.NewFieldErrors(field+".key", fmt.Errorf("duplicate key %q (first at points[%d])", p.Key, first)))
		} else {
			seen[p.Key] = i
		}
	}

	for i, pl := range ds.Places {
		field := fmt.Sprintf("places[%d]", i)
		checks = append(checks,
			validate.NameField(field+".name", pl.Name),
			validate.PositionField(field, pl.Position),
		)
	}

	return criterio.ValidateStruct(checks...)
}

// Import loads the dataset at path and replaces the store contents with it.
// It returns the number of imported points.
func Import(ctx context.Context, store *stores.PointStore, path string) (int, error) {
	ds, err := Load(path)
	if err != nil {
		return 0, err
	}
	return ds.Apply(ctx, store)
}

// Apply replaces the store contents with the dataset.
func (ds *Dataset) Apply(ctx context.Context, store *stores.PointStore) (int, error) {
	if err := store.ReplaceAll(ctx, ds.Points, ds.Places); err != nil {
		return 0, fmt.Errorf("import dataset: %w", err)
	}

	metrics.PointsImported.Set(float64(len(ds.Points)))
	return len(ds.Points), nil
}
