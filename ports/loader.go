package ports

import (
	"goattend/domain/grid"
)

// GridLoader reads a tabular file into a raw grid of cells. No structural
// interpretation happens here; headers and data rows are resolved later.
type GridLoader interface {
	Load(path string) (grid.RawGrid, error)
}
