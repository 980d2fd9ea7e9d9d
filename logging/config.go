package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	logFilePrefix      = "hospi-"
	defaultMaxFileSize = 100 * 1024 * 1024
)

var numberedLogRegex = regexp.MustCompile(`^hospi-\d{4}-\d{2}-\d{2}_(\d{2})\.log$`)

// RotatingLogger writes to one file per day, opening a numbered sibling
// when the current file reaches maxFileSize.
type RotatingLogger struct {
	dir         string
	retention   time.Duration
	maxFileSize int64

	mu          sync.Mutex
	current     *os.File
	currentDay  string
	currentSize int64
}

// NewRotatingLogger creates a rotating logger; no file is opened until the first write
func NewRotatingLogger(dir string, retentionWeeks int, maxFileSize int64) *RotatingLogger {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	return &RotatingLogger{
		dir:         dir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
	}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// nextFileName picks the file to append to for day, numbering past full files
func (rl *RotatingLogger) nextFileName(day string, incoming int64) string {
	base := logFilePrefix + day + ".log"
	if info, err := os.Stat(filepath.Join(rl.dir, base)); err != nil || info.Size()+incoming <= rl.maxFileSize {
		return base
	}

	matches, _ := filepath.Glob(filepath.Join(rl.dir, logFilePrefix+day+"_??.log"))
	highest := 0
	for _, match := range matches {
		sub := numberedLogRegex.FindStringSubmatch(filepath.Base(match))
		if len(sub) < 2 {
			continue
		}
		n, _ := strconv.Atoi(sub[1])
		if n <= highest {
			continue
		}
		highest = n
		if info, err := os.Stat(match); err == nil && info.Size()+incoming <= rl.maxFileSize {
			return filepath.Base(match)
		}
	}

	return fmt.Sprintf("%s%s_%02d.log", logFilePrefix, day, highest+1)
}

// rotate opens the file for day (caller holds mu)
func (rl *RotatingLogger) rotate(day string, incoming int64) error {
	if rl.current != nil {
		if err := rl.current.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
		rl.current = nil
	}

	path := filepath.Join(rl.dir, rl.nextFileName(day, incoming))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	size := int64(0)
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}

	rl.current = file
	rl.currentDay = day
	rl.currentSize = size
	return nil
}

// Write implements io.Writer
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	day := dayKey(time.Now())
	incoming := int64(len(p))

	if rl.current == nil || rl.currentDay != day || rl.currentSize+incoming > rl.maxFileSize {
		if err := rl.rotate(day, incoming); err != nil {
			return 0, err
		}
	}

	n, err := rl.current.Write(p)
	rl.currentSize += int64(n)
	return n, err
}

// Prune removes log files last modified before now minus the retention period
func (rl *RotatingLogger) Prune(now time.Time) (int, error) {
	entries, err := os.ReadDir(rl.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := now.Add(-rl.retention)
	removed := 0

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		if rl.current != nil && filepath.Base(rl.current.Name()) == name {
			continue
		}

		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(rl.dir, name)); err == nil {
			removed++
		}
	}

	return removed, nil
}

// Close closes the current file
func (rl *RotatingLogger) Close() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.current == nil {
		return nil
	}
	err := rl.current.Close()
	rl.current = nil
	return err
}

// SetupLogger builds a logger writing text to stdout and, when opts.Dir is
// set, JSON to a rotating file. The rotating logger is returned so the caller
// can close and prune it; it is nil when file logging is off or unavailable.
func SetupLogger(opts Options) (*slog.Logger, *RotatingLogger) {
	level := parseLogLevel(opts.Level)

	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	if opts.Dir == "" {
		return slog.New(consoleHandler), nil
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		consoleLogger := slog.New(consoleHandler)
		consoleLogger.Error("Failed to create logs directory, logging to console only", "dir", opts.Dir, "error", err)
		return consoleLogger, nil
	}

	rotating := NewRotatingLogger(opts.Dir, opts.RetentionWeeks, opts.MaxFileSize)
	fileHandler := slog.NewJSONHandler(rotating, &slog.HandlerOptions{Level: level})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}), rotating
}

// multiHandler fans records out to several handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
