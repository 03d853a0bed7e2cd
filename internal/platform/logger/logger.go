package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "info", "":
		return Info
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

func (l Level) slog() slog.Level {
	switch l {
	case Debug:
		return slog.LevelDebug
	case Warn:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

type Logger interface {
	With(fields map[string]any) Logger

	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// SlogLogger adapta la interfaz Logger sobre log/slog.
type SlogLogger struct {
	sl *slog.Logger
}

type Options struct {
	Level  Level
	Format Format
	App    string

	// Output es el destino principal (default stdout). Nil + NoPrimary = solo archivo.
	Output io.Writer
	// NoPrimary desactiva Output (la TUI es dueña de stdout).
	NoPrimary bool
	// Extra recibe una copia de cada registro (p.ej. un archivo de log).
	Extra io.Writer
}

func New(opts Options) Logger {
	ho := &slog.HandlerOptions{Level: opts.Level.slog()}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	var handlers []slog.Handler
	if !opts.NoPrimary {
		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		handlers = append(handlers, newHandler(out, format, ho))
	}
	if opts.Extra != nil {
		// El archivo siempre en JSON, es para máquinas.
		handlers = append(handlers, slog.NewJSONHandler(opts.Extra, ho))
	}

	var h slog.Handler
	switch len(handlers) {
	case 0:
		h = discardHandler{}
	case 1:
		h = handlers[0]
	default:
		h = slogmulti.Fanout(handlers...)
	}

	sl := slog.New(h)
	if app := strings.TrimSpace(opts.App); app != "" {
		sl = sl.With("app", app)
	}
	return &SlogLogger{sl: sl}
}

// NewFromEnv crea logger desde env:
// - LOG_LEVEL=debug|info|warn|error (default info)
// - LOG_FORMAT=text|json (default text)
// - APP_NAME=moltmon (opcional)
func NewFromEnv() Logger {
	return New(Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: ParseFormat(os.Getenv("LOG_FORMAT")),
		App:    os.Getenv("APP_NAME"),
	})
}

// Nop descarta todo. Útil en tests.
func Nop() Logger {
	return &SlogLogger{sl: slog.New(discardHandler{})}
}

// Slog expone el *slog.Logger subyacente para librerías que lo piden.
func (l *SlogLogger) Slog() *slog.Logger {
	return l.sl
}

func (l *SlogLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	return &SlogLogger{sl: l.sl.With(attrs(fields)...)}
}

func (l *SlogLogger) Debug(msg string, fields map[string]any) { l.log(slog.LevelDebug, msg, fields) }
func (l *SlogLogger) Info(msg string, fields map[string]any)  { l.log(slog.LevelInfo, msg, fields) }
func (l *SlogLogger) Warn(msg string, fields map[string]any)  { l.log(slog.LevelWarn, msg, fields) }
func (l *SlogLogger) Error(msg string, fields map[string]any) { l.log(slog.LevelError, msg, fields) }

func (l *SlogLogger) log(lvl slog.Level, msg string, fields map[string]any) {
	l.sl.Log(context.Background(), lvl, msg, attrs(fields)...)
}

func newHandler(w io.Writer, format Format, ho *slog.HandlerOptions) slog.Handler {
	if format == FormatJSON {
		return slog.NewJSONHandler(w, ho)
	}
	return slog.NewTextHandler(w, ho)
}

func attrs(fields map[string]any) []any {
	out := make([]any, 0, len(fields))
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		out = append(out, slog.Any(k, v))
	}
	return out
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
