package config

import exporterrors "github.com/54Rakshit/mashery-export-xlsx/pkg/util/errors"

// Errors hit when validating or parsing config
var (
	ErrBadConfig               = exporterrors.Newf(1401, "error with config %v, please set and/or check its value")
	ErrInvalidSheetName        = exporterrors.Newf(1402, "export.sheet %q is not a valid worksheet name: %v")
	ErrInvalidColumnMode       = exporterrors.Newf(1403, "export.columns %q is not supported, use one of (%v)")
	ErrInvalidArrayField       = exporterrors.Newf(1404, "fields.array entry %q must be in the form name or name:subKey")
	ErrInvalidWebhookHeaders   = exporterrors.Newf(1405, "could not parse value of %v, expected Header=<name>,Value=<value> pairs")
	ErrSecretResolution        = exporterrors.Newf(1406, "could not resolve the value of %v: %v")
	ErrInvalidSMTPAuthType     = exporterrors.Newf(1407, "notify.smtp.authType %q is not supported, use one of (%v)")
	ErrMissingNotificationDest = exporterrors.New(1408, "notify.smtp.to must name at least one recipient when notify.smtp.host is set")
)
