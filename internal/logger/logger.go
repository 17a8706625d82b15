package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const maxBufferSize = 1000

var (
	instance *Logger
	once     sync.Once
	initMu   sync.Mutex
)

type LogEntry struct {
	Timestamp time.Time
	Level     slog.Level
	Message   string
}

// String renders the entry the way the logs view and the log file show it.
func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] %s", e.Level.String(), e.Message)
}

type Logger struct {
	file   *os.File
	slog   *slog.Logger
	mu     sync.Mutex
	buffer []LogEntry
}

// Init opens logPath for appending and routes every record to it as well as
// to the in-memory session buffer. An empty path keeps the buffer only.
func Init(logPath string) error {
	var initErr error
	once.Do(func() {
		var out io.Writer
		var file *os.File
		if logPath != "" {
			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				initErr = fmt.Errorf("failed to open log file: %w", err)
			} else {
				file = f
				out = f
			}
		}
		initMu.Lock()
		instance = newLogger(file, out)
		initMu.Unlock()
	})
	return initErr
}

func newLogger(file *os.File, out io.Writer) *Logger {
	l := &Logger{
		file:   file,
		buffer: make([]LogEntry, 0, maxBufferSize),
	}
	var next slog.Handler
	if out != nil {
		next = slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	l.slog = slog.New(&bufferHandler{logger: l, next: next})
	return l
}

func EnsureInit() {
	initMu.Lock()
	defer initMu.Unlock()
	if instance == nil {
		instance = newLogger(nil, nil)
	}
}

func Close() error {
	if instance != nil && instance.file != nil {
		return instance.file.Close()
	}
	return nil
}

// Default returns the structured logger behind the package functions.
func Default() *slog.Logger {
	EnsureInit()
	return instance.slog
}

func GetLogs() []LogEntry {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	logs := make([]LogEntry, len(instance.buffer))
	copy(logs, instance.buffer)
	return logs
}

func (l *Logger) append(entry LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buffer) >= maxBufferSize {
		l.buffer = l.buffer[1:]
	}
	l.buffer = append(l.buffer, entry)
}

func LogFileOpen(path string) {
	Default().Debug("file open", slog.String("path", path))
}

func LogFileWrite(path string) {
	Default().Debug("file write", slog.String("path", path))
}

func LogError(operation, target string, err error) {
	Default().Error(operation,
		slog.String("target", target),
		slog.String("error", fmt.Sprint(err)),
	)
}

// Log records an informational message. args are slog key/value pairs.
func Log(message string, args ...any) {
	Default().Info(message, args...)
}

// bufferHandler keeps a bounded copy of every record for the logs view and
// forwards it to next when a log file is configured.
type bufferHandler struct {
	logger *Logger
	next   slog.Handler
	attrs  []slog.Attr
	group  string
}

func (h *bufferHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *bufferHandler) Handle(ctx context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)

	write := func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		fmt.Fprintf(&b, " %s=%v", key, a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	h.logger.append(LogEntry{
		Timestamp: r.Time,
		Level:     r.Level,
		Message:   b.String(),
	})

	if h.next != nil {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *bufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return &clone
}

func (h *bufferHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	clone.group = name
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return &clone
}
