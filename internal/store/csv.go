package store

import (
	"context"

	"github.com/sells-group/acidentes-dashboard/internal/dataset"
	"github.com/sells-group/acidentes-dashboard/internal/model"
)

// CSVSource reads the accident log straight from its file on every call.
type CSVSource struct {
	Path    string
	Options dataset.Options
}

// Accidents loads the file.
func (c CSVSource) Accidents(ctx context.Context) ([]model.Accident, error) {
	return dataset.LoadFile(ctx, c.Path, c.Options)
}
