package export

import (
	"context"
	"errors"
	"time"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/config"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/mashery"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/log"
	"github.com/google/uuid"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"
)

// Result - summary of a successful export
type Result struct {
	RunID      string        `json:"runId"`
	OutputFile string        `json:"outputFile"`
	Sheet      string        `json:"sheet"`
	Packages   int64         `json:"packages"`
	Plans      int64         `json:"plans"`
	Services   int64         `json:"services"`
	Endpoints  int64         `json:"endpoints"`
	Rows       int           `json:"rows"`
	Columns    int           `json:"columns"`
	Requests   int64         `json:"requests"`
	Duration   time.Duration `json:"duration"`
}

// Exporter - walks the catalog, collects the rows and writes the workbook
type Exporter struct {
	walker     *Walker
	writer     Writer
	registry   metrics.Registry
	outputFile string
	sheet      string
	logger     log.FieldLogger
}

// NewExporter - registry is shared with the Mashery client so request counts end up in the summary
func NewExporter(client mashery.Client, cfg *config.Config, registry metrics.Registry) *Exporter {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	flattener := NewFlattener(cfg.Fields, cfg.Export.Columns, cfg.Export.UnknownOrganization)
	return newExporter(
		NewWalker(client, flattener, registry),
		NewXLSXWriter(cfg.Export.File, cfg.Export.Sheet),
		registry,
		cfg.Export.File,
		cfg.Export.Sheet,
	)
}

func newExporter(walker *Walker, writer Writer, registry metrics.Registry, outputFile, sheet string) *Exporter {
	return &Exporter{
		walker:     walker,
		writer:     writer,
		registry:   registry,
		outputFile: outputFile,
		sheet:      sheet,
		logger: log.NewFieldLogger().
			WithComponent("exporter").
			WithPackage("export"),
	}
}

// Run - exports the catalog. Nothing is written when any fetch fails.
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := e.logger.WithField("runId", runID)
	logger.Debug("starting catalog export")

	table := NewTable()
	err := e.walker.Walk(ctx, func(row *Row) error {
		table.Append(row)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrExportAborted.FormatError(err)
		}
		return nil, err
	}

	if err := e.writer.Write(table); err != nil {
		return nil, ErrWriteWorkbook.FormatError(e.outputFile, err)
	}

	result := &Result{
		RunID:      runID,
		OutputFile: e.outputFile,
		Sheet:      e.sheet,
		Packages:   e.counter(MetricPackages),
		Plans:      e.counter(MetricPlans),
		Services:   e.counter(MetricServices),
		Endpoints:  e.counter(MetricEndpoints),
		Rows:       table.Len(),
		Columns:    len(table.Columns()),
		Requests:   e.counter("mashery.requests"),
		Duration:   time.Since(start),
	}

	logger.WithFields(logrus.Fields{
		"packages":     result.Packages,
		"plans":        result.Plans,
		"services":     result.Services,
		"endpoints":    result.Endpoints,
		"rows":         result.Rows,
		"columns":      result.Columns,
		"requests":     result.Requests,
		"duration(ms)": result.Duration.Milliseconds(),
	}).Infof("Export complete: %s", result.OutputFile)
	return result, nil
}

func (e *Exporter) counter(name string) int64 {
	return metrics.GetOrRegisterCounter(name, e.registry).Count()
}
