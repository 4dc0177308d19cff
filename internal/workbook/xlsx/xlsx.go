// Package xlsx reads workbook grids from .xlsx files via excelize.
package xlsx

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"despesas/internal/workbook"
)

type File struct {
	f    *excelize.File
	name string
}

var _ workbook.Source = (*File)(nil)

// Open opens an xlsx file. The returned File must be closed.
func Open(path string) (*File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, workbook.ErrUnreadable, err)
	}
	return &File{f: f, name: path}, nil
}

// OpenReader decodes an xlsx stream, e.g. an upload body.
func OpenReader(r io.Reader, name string) (*File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", name, workbook.ErrUnreadable, err)
	}
	return &File{f: f, name: name}, nil
}

func (x *File) Name() string { return x.name }

func (x *File) SheetNames(_ context.Context) ([]string, error) {
	return x.f.GetSheetList(), nil
}

func (x *File) Grid(_ context.Context, sheet string) ([][]string, error) {
	rows, err := x.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func (x *File) Close() error {
	return x.f.Close()
}
