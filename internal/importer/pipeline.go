// Package importer implements the bulk CSV product import pipeline: header
// driven parsing, the name+price admission filter, lenient per-row
// normalization, and concurrent persistence of the accepted rows.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/verdant-shop/verdant/internal/catalog"
)

// ErrTooManyRows rejects oversized payloads before any write is issued.
var ErrTooManyRows = errors.New("importer: payload exceeds row limit")

// ErrNoHeader indicates an empty or header-less payload.
var ErrNoHeader = errors.New("importer: missing header row")

// Pipeline runs bulk imports against the product repository.
type Pipeline struct {
	repo    catalog.Repository
	logger  *slog.Logger
	maxRows int
}

// NewPipeline builds Pipeline. maxRows <= 0 disables the row limit.
func NewPipeline(repo catalog.Repository, logger *slog.Logger, maxRows int) *Pipeline {
	return &Pipeline{repo: repo, logger: logger, maxRows: maxRows}
}

// Preview summarises the admission filter outcome for a parsed payload.
type Preview struct {
	Total    int `json:"total"`
	Accepted int `json:"accepted"`
	Dropped  int `json:"dropped"`
}

// Report is the outcome of executing an import.
//
// Inserted and Failed can both be non-zero: rows are written independently
// and successes are not rolled back when a sibling write fails.
type Report struct {
	Total    int    `json:"total"`
	Accepted int    `json:"accepted"`
	Inserted int    `json:"inserted"`
	Failed   int    `json:"failed"`
	Error    string `json:"error,omitempty"`
}

// Parse reads the tabular payload into raw rows. Column order is arbitrary;
// columns are identified by header name and unrecognized columns are ignored.
// A structurally unreadable payload is a single terminal error; no partial
// rows are produced.
func (p *Pipeline) Parse(r io.Reader) ([]catalog.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("importer: read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var rows []catalog.RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("importer: read row: %w", err)
		}
		cell := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		rows = append(rows, catalog.RawRow{
			Name:          cell("name"),
			Price:         cell("price"),
			DiscountPrice: cell("discountprice"),
			Category:      cell("category"),
			Description:   cell("description"),
			Images:        cell("images"),
			VideoURL:      cell("videourl"),
			Stock:         cell("stock"),
		})
		if p.maxRows > 0 && len(rows) > p.maxRows {
			return nil, fmt.Errorf("%w: limit %d", ErrTooManyRows, p.maxRows)
		}
	}
	return rows, nil
}

// PreviewRows applies the admission filter without writing anything.
// Dropped rows are not reported individually, only through the counts.
func (p *Pipeline) PreviewRows(rows []catalog.RawRow) Preview {
	accepted := 0
	for _, row := range rows {
		if row.HasNamePrice() {
			accepted++
		}
	}
	return Preview{Total: len(rows), Accepted: accepted, Dropped: len(rows) - accepted}
}

// Execute normalizes every admitted row and issues all writes concurrently,
// waiting for the whole batch. A single failed write fails the operation but
// does not undo sibling writes; re-running the same payload duplicates
// records since rows have no natural key.
func (p *Pipeline) Execute(ctx context.Context, rows []catalog.RawRow) Report {
	report := Report{Total: len(rows)}

	var admitted []catalog.RawRow
	for _, row := range rows {
		if row.HasNamePrice() {
			admitted = append(admitted, row)
		}
	}
	report.Accepted = len(admitted)
	if len(admitted) == 0 {
		return report
	}

	var inserted atomic.Int64
	g := new(errgroup.Group)
	for _, row := range admitted {
		product := catalog.Normalize(row)
		g.Go(func() error {
			// ctx deliberately not derived from the group: a failed
			// sibling must not cancel writes already in flight.
			if _, err := p.repo.Create(ctx, product); err != nil {
				p.logger.Error("import row write failed",
					slog.String("name", product.Name), slog.Any("error", err))
				return err
			}
			inserted.Add(1)
			return nil
		})
	}
	err := g.Wait()

	report.Inserted = int(inserted.Load())
	report.Failed = report.Accepted - report.Inserted
	if err != nil {
		report.Error = err.Error()
	}
	return report
}

// Run parses and executes a payload in one step; used by the async task path.
func (p *Pipeline) Run(ctx context.Context, payload io.Reader) (Report, error) {
	rows, err := p.Parse(payload)
	if err != nil {
		return Report{}, err
	}
	return p.Execute(ctx, rows), nil
}
