package util

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "ERROR"
	case LogLevelWarning:
		return "WARN"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

type LogCategory int

const (
	LogImport LogCategory = 1 << iota
	LogIO
	LogWatch
	LogConfig

	LogAll = LogImport | LogIO | LogWatch | LogConfig
)

var categoryNames = map[string]LogCategory{
	"import": LogImport,
	"io":     LogIO,
	"watch":  LogWatch,
	"config": LogConfig,
	"all":    LogAll,
}

func (c LogCategory) String() string {
	switch c {
	case LogImport:
		return "import"
	case LogIO:
		return "io"
	case LogWatch:
		return "watch"
	case LogConfig:
		return "config"
	}
	return fmt.Sprintf("LogCategory(%d)", int(c))
}

// Logger is the sink every component logs through. It is handed to the
// components that need it instead of being a package global.
type Logger interface {
	Log(cat LogCategory, lvl LogLevel, txt string)
}

// CategoryLogger drops messages above its level or outside its category mask
// and writes the rest as single timestamped lines.
type CategoryLogger struct {
	mu         sync.Mutex
	out        io.Writer
	level      LogLevel
	categories LogCategory
	color      bool
	now        func() time.Time
}

func NewCategoryLogger(out io.Writer, level LogLevel, categories LogCategory) *CategoryLogger {
	return &CategoryLogger{
		out:        out,
		level:      level,
		categories: categories,
		now:        time.Now,
	}
}

// NewTerminalLogger enables ANSI colours when f is attached to a terminal.
func NewTerminalLogger(f *os.File, level LogLevel, categories LogCategory) *CategoryLogger {
	l := NewCategoryLogger(f, level, categories)
	l.color = term.IsTerminal(int(f.Fd()))
	return l
}

func (l *CategoryLogger) Enabled(cat LogCategory, lvl LogLevel) bool {
	if lvl > l.level {
		return false
	}
	return l.categories&cat != 0
}

func (l *CategoryLogger) Log(cat LogCategory, lvl LogLevel, txt string) {
	if !l.Enabled(cat, lvl) {
		return
	}
	ts := l.now().Format("15:04:05.000")
	tag := lvl.String()
	if l.color {
		tag = colorize(lvl, tag)
	}
	line := fmt.Sprintf("%s %-5s [%s] %s\n", ts, tag, cat, txt)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, line)
}

func colorize(lvl LogLevel, s string) string {
	code := "0"
	switch lvl {
	case LogLevelError:
		code = "31"
	case LogLevelWarning:
		code = "33"
	case LogLevelDebug:
		code = "90"
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Log(LogCategory, LogLevel, string) {}

func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LogLevelError, nil
	case "warn", "warning":
		return LogLevelWarning, nil
	case "", "info":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return 0, errors.Errorf("unknown log level %q", s)
}

// ParseLogCategories ORs the named categories together. An empty list means all.
func ParseLogCategories(names []string) (LogCategory, error) {
	if len(names) == 0 {
		return LogAll, nil
	}
	var mask LogCategory
	for _, name := range names {
		cat, ok := categoryNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, errors.Errorf("unknown log category %q", name)
		}
		mask |= cat
	}
	return mask, nil
}

func LogImportInfo(l Logger, txt string) {
	l.Log(LogImport, LogLevelInfo, txt)
}

func LogImportDebug(l Logger, txt string) {
	l.Log(LogImport, LogLevelDebug, txt)
}

func LogImportError(l Logger, txt string) {
	l.Log(LogImport, LogLevelError, txt)
}

func LogIOInfo(l Logger, txt string) {
	l.Log(LogIO, LogLevelInfo, txt)
}

func LogIODebug(l Logger, txt string) {
	l.Log(LogIO, LogLevelDebug, txt)
}

func LogIOError(l Logger, txt string) {
	l.Log(LogIO, LogLevelError, txt)
}

func LogWatchInfo(l Logger, txt string) {
	l.Log(LogWatch, LogLevelInfo, txt)
}

func LogWatchDebug(l Logger, txt string) {
	l.Log(LogWatch, LogLevelDebug, txt)
}

func LogWatchError(l Logger, txt string) {
	l.Log(LogWatch, LogLevelError, txt)
}

func LogConfigWarning(l Logger, txt string) {
	l.Log(LogConfig, LogLevelWarning, txt)
}

func LogConfigInfo(l Logger, txt string) {
	l.Log(LogConfig, LogLevelInfo, txt)
}
