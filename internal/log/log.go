// Package log is the electryonz debug logger.
// Entries carry a level, a category and key=value fields. Logging stays off
// unless --debug or ELECTRYONZ_DEBUG enables it, in which case entries go to a
// file, a bounded in-memory buffer for the log overlay, and a pubsub broker.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/electryonz/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatConfig  Category = "config"  // config loading and validation
	CatForm    Category = "form"    // draft edits and validation
	CatPricing Category = "pricing" // totals, discounts, pricing mode
	CatSubmit  Category = "submit"  // registration requests
	CatQR      Category = "qr"      // QR preview fetch and render
	CatCache   Category = "cache"   // cache operations
	CatUI      Category = "ui"      // UI component updates
	CatTrace   Category = "trace"   // tracing provider lifecycle
)

// Entry is one formatted log record.
type Entry struct {
	Time     time.Time
	Level    Level
	Category Category
	Message  string
	Fields   string
}

// String renders the entry the way it is written to the log file:
// 2026-03-01T10:45:00 [ERROR] [submit] message key=value
func (e Entry) String() string {
	s := fmt.Sprintf("%s [%s] [%s] %s", e.Time.Format("2006-01-02T15:04:05"), e.Level, e.Category, e.Message)
	if e.Fields != "" {
		s += " " + e.Fields
	}
	return s
}

// DefaultBufferSize is how many entries the overlay can scroll back through.
const DefaultBufferSize = 500

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	closer   io.Closer
	enabled  bool
	minLevel Level
	ring     []Entry
	next     int
	full     bool
	broker   *pubsub.Broker[Entry]
}

var defaultLogger *Logger

// New builds a logger writing to w. A nil writer keeps entries in memory only.
func New(w io.Writer, bufferSize int) *Logger {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	return &Logger{
		writer:  w,
		enabled: true,
		ring:    make([]Entry, bufferSize),
		broker:  pubsub.NewBroker[Entry](),
	}
}

// SetDefault installs l as the package logger. Passing nil disables logging.
func SetDefault(l *Logger) {
	defaultLogger = l
}

// Init opens path through tea.LogToFile and installs a logger on it.
// The returned cleanup closes the file and the broker.
func Init(path string) (func(), error) {
	f, err := tea.LogToFile(path, "")
	if err != nil {
		return nil, fmt.Errorf("opening debug log %s: %w", path, err)
	}
	l := New(f, DefaultBufferSize)
	l.closer = f
	SetDefault(l)
	return func() {
		l.broker.Close()
		_ = l.closer.Close()
	}, nil
}

// Enabled reports whether debug logging was turned on via --debug or env.
func Enabled(flag bool) bool {
	if flag {
		return true
	}
	v := os.Getenv("ELECTRYONZ_DEBUG")
	return v != "" && v != "0" && !strings.EqualFold(v, "false")
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.enabled = enabled
		defaultLogger.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.minLevel = level
		defaultLogger.mu.Unlock()
	}
}

func Debug(cat Category, msg string, fields ...any) { defaultLogger.log(LevelDebug, cat, msg, fields) }
func Info(cat Category, msg string, fields ...any)  { defaultLogger.log(LevelInfo, cat, msg, fields) }
func Warn(cat Category, msg string, fields ...any)  { defaultLogger.log(LevelWarn, cat, msg, fields) }
func Error(cat Category, msg string, fields ...any) { defaultLogger.log(LevelError, cat, msg, fields) }

// ErrorErr logs at error level with err appended as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	defaultLogger.log(LevelError, cat, msg, fields)
}

func formatFields(fields []any) string {
	var sb strings.Builder
	for i := 0; i+1 < len(fields); i += 2 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v=<missing>", fields[len(fields)-1])
	}
	return sb.String()
}

func (l *Logger) log(level Level, cat Category, msg string, fields []any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || level < l.minLevel {
		return
	}

	e := Entry{Time: time.Now(), Level: level, Category: cat, Message: msg, Fields: formatFields(fields)}
	if l.writer != nil {
		_, _ = io.WriteString(l.writer, e.String()+"\n")
	}

	l.ring[l.next] = e
	l.next = (l.next + 1) % len(l.ring)
	if l.next == 0 {
		l.full = true
	}

	l.broker.Publish(pubsub.AppendedEvent, e)
}

func (l *Logger) recent() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.full {
		return append([]Entry(nil), l.ring[:l.next]...)
	}
	out := make([]Entry, 0, len(l.ring))
	out = append(out, l.ring[l.next:]...)
	return append(out, l.ring[:l.next]...)
}

func (l *Logger) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.ring)
	l.next = 0
	l.full = false
	l.broker.Publish(pubsub.ClearedEvent, Entry{Time: time.Now()})
}

// GetRecentLogs returns buffered entries, oldest first.
func GetRecentLogs() []Entry {
	if defaultLogger == nil {
		return nil
	}
	return defaultLogger.recent()
}

// ClearBuffer drops buffered entries. The log file is untouched.
func ClearBuffer() {
	if defaultLogger != nil {
		defaultLogger.clear()
	}
}

// LogEvent is the tea.Msg delivered for each published entry.
type LogEvent = pubsub.Event[Entry]

// Listener delivers log events into the Bubble Tea loop.
type Listener = pubsub.Listener[Entry]

// NewListener subscribes to log entries until ctx is done.
// It returns nil when logging was never initialized.
func NewListener(ctx context.Context) *Listener {
	if defaultLogger == nil {
		return nil
	}
	return pubsub.NewListener(ctx, defaultLogger.broker)
}
