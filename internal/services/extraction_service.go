// Package services orchestrates workbook extraction: scanning sheets,
// building per-year trees, consolidating them and fanning the results out to
// storage and messaging.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"despesas/internal/amqp"
	"despesas/internal/core"
	"despesas/internal/hierarchy"
	"despesas/internal/scanner"
	"despesas/internal/storage"
	"despesas/internal/workbook"
)

// ExtractionService turns a workbook source into consolidated year records.
type ExtractionService struct {
	consolidator *hierarchy.Consolidator
	store        *storage.SQLiteRepository
	amqpClient   *amqp.Client
	sourceBucket string
}

// Option configures an ExtractionService.
type Option func(*ExtractionService)

// WithStore persists consolidated records after extraction.
func WithStore(store *storage.SQLiteRepository) Option {
	return func(s *ExtractionService) { s.store = store }
}

// WithAMQP publishes a workbook-processed event after extraction.
func WithAMQP(client *amqp.Client) Option {
	return func(s *ExtractionService) { s.amqpClient = client }
}

// WithSourceBucket forwards an upstream bucket hint to the classifier.
func WithSourceBucket(bucket string) Option {
	return func(s *ExtractionService) { s.sourceBucket = bucket }
}

func NewExtractionService(consolidator *hierarchy.Consolidator, opts ...Option) *ExtractionService {
	if consolidator == nil {
		consolidator = hierarchy.NewConsolidator(nil)
	}
	s := &ExtractionService{consolidator: consolidator}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extraction is the result of processing one workbook.
type Extraction struct {
	Workbook string
	Records  []*core.YearRecord
}

// Years lists the extracted fiscal years in ascending order.
func (e *Extraction) Years() []int {
	years := make([]int, len(e.Records))
	for i, rec := range e.Records {
		years[i] = rec.Year
	}
	return years
}

// Extract processes every year sheet of the workbook. Per-year trees are
// built in parallel; consolidation runs after all years exist. Years whose
// sheets yield no data are skipped with a warning.
func (s *ExtractionService) Extract(ctx context.Context, src workbook.Source) (*Extraction, error) {
	names, err := src.SheetNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}

	byYear := workbook.YearSheets(names, src.Name())
	if len(byYear) == 0 {
		return nil, fmt.Errorf("workbook %s: %w", src.Name(), core.ErrNoYearSheets)
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	// Grids are fetched up front: sources are not required to support
	// concurrent reads, while scanning and building are pure.
	grids := map[string][][]string{}
	for _, year := range years {
		for _, sheet := range byYear[year] {
			grid, err := src.Grid(ctx, sheet)
			if err != nil {
				// A single unreadable sheet is skipped; the next
				// candidate for the year may still carry the data.
				slog.WarnContext(ctx, "Sheet read failed, skipping",
					"sheet", sheet, "year", year, "error", err)
				continue
			}
			grids[sheet] = grid
		}
	}

	results := make([]*core.YearRecord, len(years))
	g, ctx := errgroup.WithContext(ctx)
	for i, year := range years {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.extractYear(ctx, year, byYear[year], grids)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []*core.YearRecord
	for _, rec := range results {
		if rec != nil {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("workbook %s: %w", src.Name(), core.ErrNoYearSheets)
	}

	consolidated := s.consolidator.ConsolidateAll(records)
	result := &Extraction{Workbook: src.Name(), Records: consolidated}

	if s.store != nil {
		for _, rec := range consolidated {
			if err := s.store.SaveYearRecord(ctx, result.Workbook, rec); err != nil {
				return nil, err
			}
		}
	}

	if err := s.publishProcessed(ctx, result); err != nil {
		slog.ErrorContext(ctx, "Failed to publish workbook processed message",
			"workbook", result.Workbook, "error", err)
		// Extraction succeeded; messaging is best effort.
	}

	return result, nil
}

// extractYear tries the year's candidate sheets in priority order and keeps
// the first that yields data.
func (s *ExtractionService) extractYear(ctx context.Context, year int, sheets []string, grids map[string][][]string) *core.YearRecord {
	for _, sheet := range sheets {
		grid, ok := grids[sheet]
		if !ok {
			continue
		}
		rows, err := scanner.Scan(grid)
		if err != nil {
			if errors.Is(err, core.ErrNoDescriptionColumn) {
				slog.WarnContext(ctx, "Sheet has no description column, skipping",
					"sheet", sheet, "year", year)
				continue
			}
			slog.WarnContext(ctx, "Sheet scan failed, skipping",
				"sheet", sheet, "year", year, "error", err)
			continue
		}

		rec := hierarchy.BuildWithSource(year, rows, s.sourceBucket)
		if len(rec.Sections) == 0 && rec.Revenue.Annual == 0 {
			slog.WarnContext(ctx, "Sheet yielded no data",
				"sheet", sheet, "year", year)
			continue
		}

		slog.InfoContext(ctx, "Extracted year",
			"sheet", sheet, "year", year,
			"sections", len(rec.Sections),
			"total_costs", rec.TotalCosts())
		return rec
	}
	slog.WarnContext(ctx, "No usable sheet for year", "year", year)
	return nil
}

func (s *ExtractionService) publishProcessed(ctx context.Context, result *Extraction) error {
	if s.amqpClient == nil {
		return nil
	}
	return s.amqpClient.PublishWorkbookProcessed(ctx, result.Workbook, result.Years())
}
