// Package workbook abstracts where spreadsheet grids come from. Sources
// (xlsx files, Google Sheets, in-memory fixtures) expose raw string grids;
// sheet-to-year resolution lives here so every source shares it.
package workbook

import (
	"context"
	"errors"
)

// Source reads raw sheet grids from a spreadsheet backend.
type Source interface {
	// Name identifies the workbook, typically a file path or spreadsheet ID.
	Name() string

	// SheetNames lists the sheets in workbook order.
	SheetNames(ctx context.Context) ([]string, error)

	// Grid returns the cell values of one sheet as rows of strings. Rows
	// may be ragged; trailing empty cells are omitted.
	Grid(ctx context.Context, sheet string) ([][]string, error)

	Close() error
}

// ErrUnreadable marks a workbook that cannot be opened or decoded.
var ErrUnreadable = errors.New("workbook unreadable")
