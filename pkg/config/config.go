package config

import (
	"github.com/54Rakshit/mashery-export-xlsx/pkg/cmd/properties"
)

// Config - everything a single export run needs
type Config struct {
	Mashery MasheryConfig        `config:"mashery"`
	Export  *ExportConfiguration `config:"export"`
	Fields  *FieldsConfiguration `config:"fields"`
	Notify  NotificationConfig   `config:"notify"`
}

// AddConfigProperties - registers every export property on the root command
func AddConfigProperties(props properties.Properties) {
	AddMasheryConfigProperties(props)
	AddExportConfigProperties(props)
	AddFieldsConfigProperties(props)
	AddNotificationConfigProperties(props)
}

// ParseConfig - reads and validates the export config, logging is set up separately
// so that parse errors can be logged
func ParseConfig(props properties.Properties) (*Config, error) {
	masheryCfg, err := ParseMasheryConfig(props)
	if err != nil {
		return nil, err
	}

	fieldsCfg, err := ParseFieldsConfig(props)
	if err != nil {
		return nil, err
	}

	notifyCfg, err := ParseNotificationConfig(props)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Mashery: masheryCfg,
		Export:  ParseExportConfig(props),
		Fields:  fieldsCfg,
		Notify:  notifyCfg,
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
