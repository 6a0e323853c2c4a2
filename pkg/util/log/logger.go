package log

import (
	"github.com/sirupsen/logrus"
)

const (
	componentField = "component"
	packageField   = "package"
)

// FieldLogger wraps the StdLogger and provides logrus methods for logging with fields
type FieldLogger interface {
	StdLogger
	WithComponent(name string) FieldLogger
	WithPackage(name string) FieldLogger
	WithField(key string, value interface{}) FieldLogger
	WithFields(fields logrus.Fields) FieldLogger
	WithError(err error) FieldLogger
}

// StdLogger interface for logging methods found in the go standard library logger.
type StdLogger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Trace(v ...interface{})
	Tracef(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
}

// NewFieldLogger returns a FieldLogger backed by the package logger
func NewFieldLogger() FieldLogger {
	return &logger{
		entry: logrus.NewEntry(log),
	}
}

type logger struct {
	entry *logrus.Entry
}

// Debug prints a debug message
func (l *logger) Debug(v ...interface{}) {
	l.entry.Debug(v...)
}

// Debugf prints a formatted debug message
func (l *logger) Debugf(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

// Error prints an error message
func (l *logger) Error(v ...interface{}) {
	l.entry.Error(v...)
}

// Errorf prints a formatted error message
func (l *logger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// Info prints an info message
func (l *logger) Info(v ...interface{}) {
	l.entry.Info(v...)
}

// Infof prints a formatted info message
func (l *logger) Infof(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

// Trace prints a trace message
func (l *logger) Trace(v ...interface{}) {
	l.entry.Trace(v...)
}

// Tracef prints a formatted trace message
func (l *logger) Tracef(format string, v ...interface{}) {
	l.entry.Tracef(format, v...)
}

// Warn prints a warning message
func (l *logger) Warn(v ...interface{}) {
	l.entry.Warn(v...)
}

// Warnf prints a formatted warning message
func (l *logger) Warnf(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

// WithComponent adds the component field
func (l *logger) WithComponent(name string) FieldLogger {
	return l.WithField(componentField, name)
}

// WithPackage adds the package field
func (l *logger) WithPackage(name string) FieldLogger {
	return l.WithField(packageField, name)
}

// WithField adds a field to the log message
func (l *logger) WithField(key string, value interface{}) FieldLogger {
	return &logger{entry: l.entry.WithField(key, value)}
}

// WithFields adds multiple fields to the log message
func (l *logger) WithFields(fields logrus.Fields) FieldLogger {
	return &logger{entry: l.entry.WithFields(fields)}
}

// WithError adds an error field to the message
func (l *logger) WithError(err error) FieldLogger {
	return &logger{entry: l.entry.WithError(err)}
}
