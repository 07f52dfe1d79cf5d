package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/shop-catalog/internal/core"
	"gopkg.in/natefinch/lumberjack.v2"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: core.Development,
}

type LoggerOpts struct {
	Environment core.Environment
	// Level empty means warn on stderr, where logs share the terminal with the menu,
	// and info in a log file.
	Level string
	// File, when set, sends logs to a size-rotated file instead of stderr.
	File string
}

func safe(opts ...LoggerOpts) *LoggerOpts {
	if len(opts) == 0 {
		return DefaultLoggerOpts
	}
	return &opts[0]
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init configures the global logger. The returned closer flushes the log file, if any.
func Init(opts ...LoggerOpts) io.Closer {
	o := safe(opts...)

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if o.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out = rotating
		closer = rotating
	}

	level := defaultLevel(o)
	if o.Level != "" {
		if parsed, err := zerolog.ParseLevel(o.Level); err == nil {
			level = parsed
		}
	}

	if o.Environment.IsProduction() {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		console := zerolog.ConsoleWriter{Out: out, NoColor: o.File != ""}
		log.Logger = zerolog.New(console).With().Timestamp().Caller().Logger()
	}
	log.Logger = log.Logger.Level(level)

	return closer
}

func defaultLevel(o *LoggerOpts) zerolog.Level {
	if o.File != "" {
		return zerolog.InfoLevel
	}
	return zerolog.WarnLevel
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
