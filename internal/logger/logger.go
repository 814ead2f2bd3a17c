package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New returns a logfmt logger with ts and caller keys that drops records
// below levelName. Unknown names fall back to info.
func New(w io.Writer, levelName string) log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, levelOption(levelName))
	// the caller valuer sits in the outermost context, which level.X and
	// log.With merge into, so DefaultCaller resolves to the call site
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

func levelOption(name string) level.Option {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	case "none":
		return level.AllowNone()
	default:
		return level.AllowInfo()
	}
}

// Printer adapts a logger to the Println and Output shapes expected by
// gorilla/handlers and go-nsq.
type Printer struct {
	Logger log.Logger
}

func (p Printer) Println(v ...interface{}) {
	_ = level.Error(p.Logger).Log("msg", strings.TrimSpace(fmt.Sprintln(v...)))
}

func (p Printer) Output(_ int, s string) error {
	return level.Info(p.Logger).Log("msg", strings.TrimSpace(s))
}
