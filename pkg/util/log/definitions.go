package log

import (
	"github.com/sirupsen/logrus"
)

// LoggingOutput - where log entries are written
type LoggingOutput int

const (
	// STDOUT - log to standard out
	STDOUT LoggingOutput = iota
	// File - log to a rotated file
	File
	// Both - log to standard out and a rotated file
	Both
)

// LoggingFormat - the formatter used for log entries
type LoggingFormat int

const (
	// Line - text formatter
	Line LoggingFormat = iota
	// JSON - json formatter
	JSON
)

var loggingOutputStringMap = map[LoggingOutput]string{
	STDOUT: "stdout",
	File:   "file",
	Both:   "both",
}

var stringLoggingOutputMap = map[string]LoggingOutput{
	"stdout": STDOUT,
	"file":   File,
	"both":   Both,
}

var loggingFormatStringMap = map[LoggingFormat]string{
	Line: "line",
	JSON: "json",
}

func (o LoggingOutput) String() string {
	return loggingOutputStringMap[o]
}

// log is the logger shared by the package level functions and every FieldLogger
var log = logrus.New()

// logHTTPTrace turns on connection level tracing of outbound requests
var logHTTPTrace bool
