// Package logging configures the process logger and adapts it to model
// events.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aidanlsb/nagmodel/internal/model"
)

// New builds a logger writing to out at the named level. An empty level
// means info. With jsonFormat set, entries are JSON objects so they do not
// interleave with human text in machine-readable output.
func New(level string, out io.Writer, jsonFormat bool) (*logrus.Logger, error) {
	l := logrus.New()
	l.Out = out

	lvl := logrus.InfoLevel
	if s := strings.TrimSpace(level); s != "" {
		parsed, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	l.SetLevel(lvl)

	if jsonFormat {
		l.Formatter = &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	} else {
		l.Formatter = &logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		}
	}
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// Observer logs model events: debug events at debug level, writes at info.
type Observer struct {
	Log logrus.FieldLogger
}

// Notify implements model.Observer.
func (o Observer) Notify(e model.Event) {
	fields := logrus.Fields{"op": string(e.Op)}
	if e.Object != nil {
		fields["object_type"] = string(e.Object.Type())
		fields["object"] = e.Object.Shortname()
		fields["id"] = e.Object.ID()
	}
	if e.Field != "" {
		fields["field"] = e.Field
	}
	entry := o.Log.WithFields(fields)
	if e.Level == model.EventWrite {
		entry.Info(e.Message)
		return
	}
	entry.Debug(e.Message)
}

var _ model.Observer = Observer{}
