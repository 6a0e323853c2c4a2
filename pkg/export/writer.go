package export

import (
	"os"
	"path/filepath"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/log"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Writer - persists a table
type Writer interface {
	Write(table *Table) error
}

// XLSXWriter - writes a table as a single sheet workbook
type XLSXWriter struct {
	path   string
	sheet  string
	logger log.FieldLogger
}

// NewXLSXWriter -
func NewXLSXWriter(path, sheet string) *XLSXWriter {
	return &XLSXWriter{
		path:  path,
		sheet: sheet,
		logger: log.NewFieldLogger().
			WithComponent("xlsxWriter").
			WithPackage("export"),
	}
}

// Path - the workbook file
func (w *XLSXWriter) Path() string {
	return w.path
}

// Write - header row of the table columns, then one row per table row. The workbook is
// written next to the destination and renamed into place, so a failure leaves no partial file.
func (w *XLSXWriter) Write(table *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if w.sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, w.sheet); err != nil {
			return err
		}
	}

	sw, err := f.NewStreamWriter(w.sheet)
	if err != nil {
		return err
	}

	columns := table.Columns()
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i := 0; i < table.Len(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, table.Values(i)); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	return w.save(f)
}

func (w *XLSXWriter) save(f *excelize.File) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".mashery-export-*.xlsx")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, w.path); err != nil {
		return err
	}
	w.logger.WithField("file", w.path).Debug("workbook saved")
	return nil
}
