package export

import exporterrors "github.com/54Rakshit/mashery-export-xlsx/pkg/util/errors"

// Errors hit while exporting
var (
	ErrWriteWorkbook = exporterrors.Newf(1601, "could not write the workbook %v: %v")
	ErrExportAborted = exporterrors.Newf(1602, "export aborted, no workbook written: %v")
)
