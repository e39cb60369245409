package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/ashkart/attoparser"
)

// Logging is a tracing Handler that logs through a logrus.FieldLogger:
// document start/end, open/close/standalone element starts, text, and
// auto-open/auto-close starts at debug level, and unmatched close tags at
// warn level. Embedding Base means it only needs to override the events
// worth a log line; every other event passes through unlogged.
type Logging struct {
	Base
	Log logrus.FieldLogger
}

var _ atto.Handler = (*Logging)(nil)

// NewLogging returns a Logging handler writing through log. A nil log
// falls back to logrus.StandardLogger().
func NewLogging(log logrus.FieldLogger) *Logging {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Logging{Log: log}
}

func (l *Logging) DocumentStart(startTimeNanos int64, line, col int) error {
	l.Log.WithFields(logrus.Fields{"line": line, "col": col}).Debug("document start")
	return nil
}

func (l *Logging) DocumentEnd(endTimeNanos, totalTimeNanos int64, line, col int) error {
	l.Log.WithFields(logrus.Fields{
		"line": line, "col": col, "totalNanos": totalTimeNanos,
	}).Debug("document end")
	return nil
}

func (l *Logging) OpenElementStart(buf []byte, name atto.Partition) error {
	l.Log.WithFields(logrus.Fields{
		"name": name.String(buf), "line": name.Line, "col": name.Col,
	}).Debug("open element")
	return nil
}

func (l *Logging) CloseElementStart(buf []byte, name atto.Partition) error {
	l.Log.WithFields(logrus.Fields{
		"name": name.String(buf), "line": name.Line, "col": name.Col,
	}).Debug("close element")
	return nil
}

func (l *Logging) StandaloneElementStart(buf []byte, name atto.Partition, minimized bool) error {
	l.Log.WithFields(logrus.Fields{
		"name": name.String(buf), "minimized": minimized, "line": name.Line, "col": name.Col,
	}).Debug("standalone element")
	return nil
}

func (l *Logging) Text(buf []byte, content atto.Partition) error {
	l.Log.WithFields(logrus.Fields{
		"length": content.Length, "line": content.Line, "col": content.Col,
	}).Debug("text")
	return nil
}

func (l *Logging) AutoOpenElementStart(name string, line, col int) error {
	l.Log.WithFields(logrus.Fields{"name": name, "line": line, "col": col}).Debug("auto-open")
	return nil
}

func (l *Logging) AutoCloseElementStart(name string, line, col int) error {
	l.Log.WithFields(logrus.Fields{"name": name, "line": line, "col": col}).Debug("auto-close")
	return nil
}

func (l *Logging) UnmatchedCloseElementStart(buf []byte, name atto.Partition) error {
	l.Log.WithFields(logrus.Fields{
		"name": name.String(buf), "line": name.Line, "col": name.Col,
	}).Warn("unmatched close tag")
	return nil
}
