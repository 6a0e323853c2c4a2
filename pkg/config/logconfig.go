package config

import (
	"strings"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/cmd/properties"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/log"
)

// LogConfig - Interface for logging config
type LogConfig interface {
	GetLevel() string
	GetMaskedValues() []string
}

// LogConfiguration -
type LogConfiguration struct {
	Level        string               `config:"level"`
	Format       string               `config:"format"`
	Output       string               `config:"output"`
	HTTPTrace    bool                 `config:"httpTrace"`
	File         LogFileConfiguration `config:"file"`
	MaskedValues string               `config:"maskedValues"`
}

func (l *LogConfiguration) setupLogger() error {
	return log.GlobalLoggerConfig.Level(l.Level).
		Format(l.Format).
		Output(l.Output).
		HTTPTrace(l.HTTPTrace).
		Filename(l.File.Name).
		Path(l.File.Path).
		MaxSize(l.File.MaxSize).
		MaxBackups(l.File.MaxBackups).
		MaxAge(l.File.MaxAge).
		Apply()
}

// LogFileConfiguration - setup the logging configuration for file output
type LogFileConfiguration struct {
	Name       string `config:"name"`
	Path       string `config:"path"`
	MaxSize    int    `config:"rotateeverymegabytes"`
	MaxAge     int    `config:"cleanbackups"`
	MaxBackups int    `config:"keepfiles"`
}

const (
	// DefaultLogFileName - log file written when output is file or both
	DefaultLogFileName = "mashery_export.log"

	pathLogLevel          = "log.level"
	pathLogFormat         = "log.format"
	pathLogOutput         = "log.output"
	pathLogHTTPTrace      = "log.httpTrace"
	pathLogMaskedValues   = "log.maskedValues"
	pathLogFileName       = "log.file.name"
	pathLogFilePath       = "log.file.path"
	pathLogFileMaxSize    = "log.file.rotateeverymegabytes"
	pathLogFileMaxAge     = "log.file.cleanbackups"
	pathLogFileMaxBackups = "log.file.keepfiles"
)

// AddLogConfigProperties - Adds the command properties needed for Log Config
func AddLogConfigProperties(props properties.Properties, defaultFileName string) {
	props.AddStringProperty(pathLogLevel, "info", "Log level (trace, debug, info, warn, error)")
	props.AddStringProperty(pathLogFormat, "json", "Log format (json, line)")
	props.AddStringProperty(pathLogOutput, "stdout", "Log output type (stdout, file, both)")
	props.AddBoolProperty(pathLogHTTPTrace, false, "Log connection details of each request when the level is trace")
	props.AddStringProperty(pathLogMaskedValues, "", "List of key words in the config to be masked (e.g. pwd, password, secret, key)")

	// Log file options
	props.AddStringProperty(pathLogFileName, defaultFileName, "Name of the log files")
	props.AddStringProperty(pathLogFilePath, "logs", "Log file path if output type is file or both")
	props.AddIntProperty(pathLogFileMaxSize, 100, "The maximum size of a log file, in megabytes")
	props.AddIntProperty(pathLogFileMaxAge, 0, "The maximum number of days, 24 hour periods, to keep the log file backups")
	props.AddIntProperty(pathLogFileMaxBackups, 7, "The maximum number of backups to keep of log files")
}

// ParseAndSetupLogConfig - Parses the Log Config and setups the logger
func ParseAndSetupLogConfig(props properties.Properties) (LogConfig, error) {
	cfg := &LogConfiguration{
		Level:        props.StringPropertyValue(pathLogLevel),
		Format:       props.StringPropertyValue(pathLogFormat),
		Output:       props.StringPropertyValue(pathLogOutput),
		HTTPTrace:    props.BoolPropertyValue(pathLogHTTPTrace),
		MaskedValues: props.StringPropertyValue(pathLogMaskedValues),
		File: LogFileConfiguration{
			Name:       props.StringPropertyValue(pathLogFileName),
			Path:       props.StringPropertyValue(pathLogFilePath),
			MaxSize:    props.IntPropertyValue(pathLogFileMaxSize),
			MaxBackups: props.IntPropertyValue(pathLogFileMaxBackups),
			MaxAge:     props.IntPropertyValue(pathLogFileMaxAge),
		},
	}

	return cfg, cfg.setupLogger()
}

// GetLevel -
func (l *LogConfiguration) GetLevel() string {
	return l.Level
}

// GetMaskedValues - the configured key words, secrets are always masked
func (l *LogConfiguration) GetMaskedValues() []string {
	words := []string{"token", "password"}
	for _, w := range strings.Split(l.MaskedValues, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
