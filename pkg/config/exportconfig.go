package config

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/cmd/properties"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/exception"
)

// ColumnMode - how picked fields are named in the output sheet
type ColumnMode string

// ColumnModes
const (
	// ColumnsMerged - raw field names, later levels overwrite earlier ones on collision
	ColumnsMerged = ColumnMode("merged")
	// ColumnsNamespaced - raw field names prefixed with their level
	ColumnsNamespaced = ColumnMode("namespaced")
)

const (
	// DefaultExportFile - name of the generated workbook
	DefaultExportFile = "Mashery_API_Export_With_Definition_First.xlsx"
	// DefaultSheetName - name of the single worksheet
	DefaultSheetName = "Mashery API Export"
	// DefaultUnknownOrganization - Organization value when a package has no organization name
	DefaultUnknownOrganization = "Unknown"

	maxSheetNameLength = 31
	sheetNameBadChars  = `[]:*?/\`

	pathExportFile                = "export.file"
	pathExportSheet               = "export.sheet"
	pathExportColumns             = "export.columns"
	pathExportUnknownOrganization = "export.unknownOrganization"
)

// ExportConfiguration - output settings for the workbook
type ExportConfiguration struct {
	File                string     `config:"file"`
	Sheet               string     `config:"sheet"`
	Columns             ColumnMode `config:"columns"`
	UnknownOrganization string     `config:"unknownOrganization"`
}

// AddExportConfigProperties - Adds the command properties needed for the output workbook
func AddExportConfigProperties(props properties.Properties) {
	props.AddStringProperty(pathExportFile, DefaultExportFile, "Path of the XLSX file to write")
	props.AddStringProperty(pathExportSheet, DefaultSheetName, "Name of the worksheet")
	props.AddStringProperty(pathExportColumns, string(ColumnsMerged), "Column naming (merged, namespaced)")
	props.AddStringProperty(pathExportUnknownOrganization, DefaultUnknownOrganization, "Organization value for packages without an organization")
}

// ParseExportConfig - reads the output settings
func ParseExportConfig(props properties.Properties) *ExportConfiguration {
	return &ExportConfiguration{
		File:                strings.TrimSpace(props.StringPropertyValue(pathExportFile)),
		Sheet:               props.StringPropertyValue(pathExportSheet),
		Columns:             ColumnMode(strings.ToLower(strings.TrimSpace(props.StringPropertyValue(pathExportColumns)))),
		UnknownOrganization: props.StringPropertyValue(pathExportUnknownOrganization),
	}
}

// ValidateCfg - Validates the config, implementing IConfigInterface
func (c *ExportConfiguration) ValidateCfg() (err error) {
	exception.Block{
		Try: func() {
			c.validateConfig()
		},
		Catch: func(e error) {
			err = e
		},
	}.Do()

	return
}

func (c *ExportConfiguration) validateConfig() {
	if c.File == "" || !strings.EqualFold(filepath.Ext(c.File), ".xlsx") {
		exception.Throw(ErrBadConfig.FormatError(pathExportFile))
	}

	if reason := sheetNameProblem(c.Sheet); reason != "" {
		exception.Throw(ErrInvalidSheetName.FormatError(c.Sheet, reason))
	}

	switch c.Columns {
	case ColumnsMerged, ColumnsNamespaced:
	default:
		exception.Throw(ErrInvalidColumnMode.FormatError(string(c.Columns), "merged, namespaced"))
	}
}

func sheetNameProblem(name string) string {
	switch {
	case strings.TrimSpace(name) == "":
		return "name is empty"
	case utf8.RuneCountInString(name) > maxSheetNameLength:
		return "longer than 31 characters"
	case strings.ContainsAny(name, sheetNameBadChars):
		return "contains one of " + sheetNameBadChars
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		return "starts or ends with an apostrophe"
	}
	return ""
}
