// Package logging builds the zerolog loggers used by curvepool.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/TheusHen/curvepool/curvepool/config"
	"github.com/TheusHen/curvepool/curvepool/errors"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to console and, when cfg.File is set, to a
// rotating log file. The returned closer releases the file and must be
// called on shutdown.
//
// Console output is human-readable when console is a terminal and NO_COLOR
// is unset, JSON otherwise.
func New(cfg config.LogConfig, console io.Writer) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), nil, errors.Wrapf(errors.ErrConfigInvalidLog, "log.level %q", cfg.Level)
		}
		level = l
	}

	out := selectOutput(console)
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		fw, err := newFileWriter(cfg)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		out = zerolog.MultiLevelWriter(out, fw)
		closer = fw
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), closer, nil
}

func selectOutput(w io.Writer) io.Writer {
	if w == nil {
		w = os.Stderr
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return w
}

type fileWriter struct {
	*FilteringWriter
	lj *lumberjack.Logger
}

func (f *fileWriter) Close() error { return f.lj.Close() }

func newFileWriter(cfg config.LogConfig) (*fileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return &fileWriter{FilteringWriter: NewFilteringWriter(lj), lj: lj}, nil
}
