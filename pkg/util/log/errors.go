package log

import exporterrors "github.com/54Rakshit/mashery-export-xlsx/pkg/util/errors"

// Log Config Errors
var (
	ErrInvalidLogConfig = exporterrors.Newf(1410, "logging configuration error - %v does not meet criteria (%v)")
)
