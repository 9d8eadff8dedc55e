package adapters

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"resume-parser/internal/logging/types"
)

// LogrusConfig configures the logrus-backed adapter
type LogrusConfig struct {
	Format    string `yaml:"format"`    // json or text
	Output    string `yaml:"output"`    // stdout or stderr
	Colorized bool   `yaml:"colorized"` // only applies to text
}

// LogrusAdapter hands entries to a logrus.Logger, for deployments that ship
// logrus-formatted output
type LogrusAdapter struct {
	name   string
	logger *logrus.Logger
}

// NewLogrusAdapter creates an adapter writing to the configured process stream
func NewLogrusAdapter(name string, config LogrusConfig) *LogrusAdapter {
	var out io.Writer = os.Stdout
	if strings.EqualFold(config.Output, "stderr") {
		out = os.Stderr
	}
	return NewLogrusAdapterWithOutput(name, out, config)
}

// NewLogrusAdapterWithOutput creates an adapter writing to out
func NewLogrusAdapterWithOutput(name string, out io.Writer, config LogrusConfig) *LogrusAdapter {
	logger := logrus.New()
	logger.SetOutput(out)
	// Level filtering happens in MultiLogger
	logger.SetLevel(logrus.TraceLevel)

	if strings.EqualFold(config.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: textTimeLayout,
			DisableColors:   !config.Colorized,
			ForceColors:     config.Colorized,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg: "message",
			},
		})
	}

	return &LogrusAdapter{name: name, logger: logger}
}

func (a *LogrusAdapter) Write(entry *types.LogEntry) error {
	fields := make(logrus.Fields, len(entry.Fields))
	for k, v := range entry.Fields {
		fields[k] = v
	}

	e := a.logger.WithFields(fields).WithTime(entry.Timestamp)
	if entry.Context != nil {
		e = e.WithContext(entry.Context)
	}
	// Entry.Log never exits, even at fatal level
	e.Log(logrusLevel(entry.Level), entry.Message)
	return nil
}

func logrusLevel(level types.LogLevel) logrus.Level {
	switch level {
	case types.DebugLevel:
		return logrus.DebugLevel
	case types.WarnLevel:
		return logrus.WarnLevel
	case types.ErrorLevel:
		return logrus.ErrorLevel
	case types.FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

func (a *LogrusAdapter) Close() error { return nil }

func (a *LogrusAdapter) Health() error { return nil }

func (a *LogrusAdapter) Name() string { return a.name }
