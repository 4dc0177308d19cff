// Package memory provides an in-memory workbook source for tests and local
// development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"despesas/internal/workbook"
)

type Workbook struct {
	mu     sync.Mutex
	name   string
	order  []string
	sheets map[string][][]string
}

var _ workbook.Source = (*Workbook)(nil)

// New creates an empty workbook with the given name.
func New(name string) *Workbook {
	return &Workbook{name: name, sheets: map[string][][]string{}}
}

// SetSheet adds or replaces a sheet grid, preserving first-set order.
func (w *Workbook) SetSheet(name string, grid [][]string) *Workbook {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.sheets[name]; !ok {
		w.order = append(w.order, name)
	}
	w.sheets[name] = grid
	return w
}

func (w *Workbook) Name() string { return w.name }

func (w *Workbook) SheetNames(_ context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.order...), nil
}

func (w *Workbook) Grid(_ context.Context, sheet string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	grid, ok := w.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q: %w", sheet, workbook.ErrUnreadable)
	}
	return grid, nil
}

func (w *Workbook) Close() error { return nil }
