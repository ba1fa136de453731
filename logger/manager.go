package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager creates and caches one Logger per module name. All loggers share
// the manager's configuration; file output rotates through lumberjack.
type Manager struct {
	cfg     Config
	mu      sync.RWMutex
	loggers map[string]*Logger
	writers []*lumberjack.Logger
}

// NewManager creates an independent manager. Zero-valued config fields are
// filled with defaults.
func NewManager(cfg Config) *Manager {
	cfg.ApplyDefaults()
	return &Manager{
		cfg:     cfg,
		loggers: make(map[string]*Logger),
	}
}

// GetLogger returns the logger for module, creating it on first request.
// Safe for concurrent use.
func (m *Manager) GetLogger(module string) *Logger {
	m.mu.RLock()
	l, ok := m.loggers[module]
	m.mu.RUnlock()
	if ok {
		return l
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok = m.loggers[module]; ok {
		return l
	}
	l = m.build(module)
	m.loggers[module] = l
	return l
}

// Close flushes every logger and closes the file writers.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var first error
	for _, l := range m.loggers {
		if err := l.base.Sync(); err != nil && first == nil {
			first = err
		}
	}
	for _, w := range m.writers {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Manager) build(module string) *Logger {
	level := parseLevel(m.cfg.Level)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores []zapcore.Core
	if m.cfg.EnableConsole {
		var enc zapcore.Encoder
		if m.cfg.Encoding == "json" {
			enc = zapcore.NewJSONEncoder(encCfg)
		} else {
			enc = zapcore.NewConsoleEncoder(encCfg)
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level))
	}
	if m.cfg.EnableFile {
		w := &lumberjack.Logger{
			Filename:   filepath.Join(m.cfg.Dir, module+".log"),
			MaxSize:    m.cfg.MaxSize,
			MaxBackups: m.cfg.MaxBackups,
			MaxAge:     m.cfg.MaxAge,
			Compress:   m.cfg.Compress,
		}
		m.writers = append(m.writers, w)
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), level))
	}
	if len(cores) == 0 {
		return Nop(module)
	}

	base := zap.New(zapcore.NewTee(cores...)).With(zap.String("module", module))
	return &Logger{base: base, module: module}
}

func parseLevel(s string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// InitManager initializes the process-wide manager. Only the first call has
// effect.
func InitManager(cfg Config) {
	managerOnce.Do(func() {
		globalManager = NewManager(cfg)
	})
}

// GetLogger returns a logger from the process-wide manager, initializing it
// with defaults when InitManager was never called.
func GetLogger(module string) *Logger {
	InitManager(DefaultConfig())
	return globalManager.GetLogger(module)
}
