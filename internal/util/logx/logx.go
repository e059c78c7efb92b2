package logx

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var (
	mu       sync.Mutex
	level    = Info
	buf      = make([]string, 0, 500)
	maxLines = 500
	// nil unless CSVBROWSE_LOG_STDERR or CSVBROWSE_LOG_FILE is set; writing
	// to the terminal while the TUI owns it garbles the screen.
	sink *zap.SugaredLogger
)

func SetLevel(l Level) { mu.Lock(); level = l; mu.Unlock() }

func SetLevelFromEnv() {
	lv := strings.ToLower(strings.TrimSpace(os.Getenv("CSVBROWSE_LOG_LEVEL")))
	switch lv {
	case "debug":
		SetLevel(Debug)
	case "info":
		SetLevel(Info)
	case "warn", "warning":
		SetLevel(Warn)
	case "error":
		SetLevel(Error)
	}
	var paths []string
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("CSVBROWSE_LOG_STDERR"))); v != "" && v != "0" && v != "false" && v != "no" {
		paths = append(paths, "stderr")
	}
	if p := strings.TrimSpace(os.Getenv("CSVBROWSE_LOG_FILE")); p != "" {
		paths = append(paths, p)
	}
	if len(paths) > 0 {
		if err := SetOutput(paths...); err != nil {
			logf(Warn, "WARN", "logx: cannot open log output %v: %v", paths, err)
		}
	}
}

// SetOutput mirrors every accepted line to the given zap output paths
// ("stderr", "stdout" or file paths). No paths disables mirroring.
func SetOutput(paths ...string) error {
	if len(paths) == 0 {
		mu.Lock()
		old := sink
		sink = nil
		mu.Unlock()
		if old != nil {
			_ = old.Sync()
		}
		return nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = paths
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	mu.Lock()
	sink = l.Sugar()
	mu.Unlock()
	return nil
}

// Sync flushes the mirror sink, if any.
func Sync() {
	mu.Lock()
	s := sink
	mu.Unlock()
	if s != nil {
		_ = s.Sync()
	}
}

func Debugf(format string, a ...any) { logf(Debug, "DEBUG", format, a...) }
func Infof(format string, a ...any)  { logf(Info, "INFO", format, a...) }
func Warnf(format string, a ...any)  { logf(Warn, "WARN", format, a...) }
func Errorf(format string, a ...any) { logf(Error, "ERROR", format, a...) }

func logf(l Level, tag, format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	msg := fmt.Sprintf(format, a...)
	ts := time.Now().Format("2006-01-02T15:04:05.000Z07:00")
	line := fmt.Sprintf("%s %-5s %s", ts, tag, msg)
	if len(buf) >= maxLines {
		// drop oldest
		copy(buf[0:], buf[1:])
		buf = buf[:len(buf)-1]
	}
	buf = append(buf, line)
	if sink == nil {
		return
	}
	switch l {
	case Debug:
		sink.Debug(msg)
	case Info:
		sink.Info(msg)
	case Warn:
		sink.Warn(msg)
	default:
		sink.Error(msg)
	}
}

func Dump() string {
	mu.Lock()
	defer mu.Unlock()
	return strings.Join(buf, "\n")
}

func Lines() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(buf))
	copy(out, buf)
	return out
}

// Reset clears the in-memory ring. Tests use it to isolate assertions.
func Reset() {
	mu.Lock()
	buf = buf[:0]
	mu.Unlock()
}
