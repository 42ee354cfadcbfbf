package zerolog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/raykavin/coinbot/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

const (
	DefaultTimeFormat = "2006-01-02 15:04:05"

	messageWidth    = 60
	callerFileWidth = 18
	callerLineWidth = 4
)

// Options configures the console logger
type Options struct {
	Level      string // logger.ParseLevel name, info when empty
	TimeFormat string
	Colored    bool
	JSON       bool
	Output     io.Writer // defaults to os.Stdout
}

// New builds a zerolog adapter writing to the configured output.
// JSON mode emits raw zerolog events; otherwise a fixed-width console layout is used.
func New(opts Options) (*Adapter, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level := logger.InfoLevel
	if opts.Level != "" {
		parsed, err := logger.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(toZerologLevel(level))

	if opts.TimeFormat == "" {
		opts.TimeFormat = DefaultTimeFormat
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	if opts.JSON {
		log := zerolog.New(out).With().Timestamp().Logger()
		return NewAdapter(&log), nil
	}

	console := zerolog.ConsoleWriter{
		Out:             out,
		NoColor:         !opts.Colored,
		TimeFormat:      opts.TimeFormat,
		FormatLevel:     formatLevel,
		FormatMessage:   formatMessage,
		FormatCaller:    formatCaller,
		FormatTimestamp: func(i any) string { return formatTimestamp(i, opts.TimeFormat) },
	}

	log := zerolog.New(console).
		With().
		Timestamp().
		CallerWithSkipFrameCount(3).
		Logger()

	return NewAdapter(&log), nil
}

func formatLevel(i any) string {
	level, _ := i.(string)

	switch level {
	case zerolog.LevelTraceValue:
		return term.Cyanf("[TRC]")
	case zerolog.LevelDebugValue:
		return term.Cyanf("[DBG]")
	case zerolog.LevelInfoValue:
		return term.Greenf("[INF]")
	case zerolog.LevelWarnValue:
		return term.Yellowf("[WAR]")
	case zerolog.LevelErrorValue:
		return term.Redf("[ERR]")
	case zerolog.LevelFatalValue:
		return term.Redf("[FTL]")
	case zerolog.LevelPanicValue:
		return term.Redf("[PAN]")
	default:
		return term.Whitef("[UNK]")
	}
}

func formatMessage(i any) string {
	msg, ok := i.(string)
	if !ok || msg == "" {
		return ">"
	}

	// pad so the structured fields line up
	if len(msg) < messageWidth {
		msg += strings.Repeat(" ", messageWidth-len(msg))
	}

	return term.Whitef("> %s", msg)
}

func formatCaller(i any) string {
	fname, ok := i.(string)
	if !ok || fname == "" {
		return ""
	}

	file, line, found := strings.Cut(filepath.Base(fname), ":")
	if !found {
		return fname
	}

	if len(file) > callerFileWidth {
		file = file[:callerFileWidth]
	}
	if len(line) > callerLineWidth {
		line = line[len(line)-callerLineWidth:]
	}

	return term.Yellowf("[%s]", fmt.Sprintf("%-*s:%*s", callerFileWidth, file, callerLineWidth, line))
}

func formatTimestamp(i any, layout string) string {
	raw, ok := i.(string)
	if !ok {
		return term.Cyanf("[%v]", i)
	}

	if ts, err := time.ParseInLocation(time.RFC3339, raw, time.Local); err == nil {
		raw = ts.In(time.Local).Format(layout)
	}

	return term.Cyanf("[%s]", raw)
}
