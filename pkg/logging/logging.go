package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

const NamespaceKey = "namespace"

// DefaultHandler creates a new slog handler with the specified parameters writing to stderr.
func DefaultHandler(params Parameters) slog.Handler {
	return NewHandler(params.Type, params.Level, os.Stderr)
}

// NewHandler creates a new slog handler based on the specified logger type and level.
func NewHandler(loggerType LoggerType, level slog.Level, w io.Writer) slog.Handler {
	switch loggerType {
	case LoggerText:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case LoggerJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case LoggerPretty:
		type fd interface{ Fd() uintptr }
		colorize := false
		if f, ok := w.(fd); ok {
			colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return buildPrettyHandler(w, level, colorize)
	case LoggerPrettyNoColor:
		return buildPrettyHandler(w, level, false)
	default:
		panic(fmt.Sprintf("unsupported logger type %d", loggerType))
	}
}

func buildPrettyHandler(w io.Writer, level slog.Level, colorize bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !colorize,
	})
}

// Namespace returns a slog.Attr that marks records of a component.
func Namespace(name string) slog.Attr {
	return slog.String(NamespaceKey, name)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

const errorKey = "error"

// Error returns a slog.Attr holding the error message, or an empty attribute for a nil error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(errorKey, err.Error())
}

// ErrorTrace returns a slog.Attr with the stack trace of a github.com/pkg/errors error.
// Errors without a stack trace produce an empty attribute.
func ErrorTrace(err error) slog.Attr {
	const key = "trace"
	if err == nil {
		return slog.Attr{}
	}
	var st stackTracer
	if errors.As(err, &st) {
		return slog.String(key, fmt.Sprintf("%+v", st.StackTrace()))
	}
	return slog.Attr{}
}
