// Package ulogger defines the logger interface used by every component of
// the wallet and its zerolog-backed default implementation.
package ulogger

import "io"

const (
	colorRed    = 31
	colorGreen  = 32
	colorYellow = 33
	colorBlue   = 34
	colorWhite  = 37

	colorBold = 1
)

type Logger interface {
	SetLogLevel(level string)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	New(service string, options ...Option) Logger
}

func New(service string, options ...Option) Logger {
	return NewZeroLogger(service, options...)
}

type Options struct {
	logLevel string
	writer   io.Writer
	pretty   bool
}

type Option func(*Options)

func WithLevel(level string) Option {
	return func(o *Options) {
		o.logLevel = level
	}
}

func WithWriter(w io.Writer) Option {
	return func(o *Options) {
		o.writer = w
	}
}

func WithPretty(pretty bool) Option {
	return func(o *Options) {
		o.pretty = pretty
	}
}
