package logger

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	timeKey   = "time"
	levelKey  = "level"
	sourceKey = "source"
	msgKey    = "msg"

	logFileName = "anticheat.log"
)

var (
	sugarLogger *zap.SugaredLogger
	initOnce    sync.Once
)

// getProjectRoot finds the project root directory by looking for go.mod file.
func getProjectRoot() string {
	_, currentFile, _, ok := runtime.Caller(0)
	var currentDir string
	if !ok || currentFile == "" {
		wd, _ := os.Getwd()
		currentDir = wd
	} else {
		currentDir = filepath.Dir(currentFile)
	}

	for {
		if _, err := os.Stat(filepath.Join(currentDir, "go.mod")); err == nil {
			return currentDir
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			wd, _ := os.Getwd()
			return wd
		}
		currentDir = parent
	}
}

// getLogPath returns the absolute path to the log file. LOG_DIR may be absolute
// or relative to the project root.
func getLogPath() string {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}
	if filepath.IsAbs(logDir) {
		return filepath.Join(logDir, logFileName)
	}

	return filepath.Join(getProjectRoot(), logDir, logFileName)
}

// getLogLevel reads LOG_LEVEL (debug, info, warn, error). Unknown values fall back to info.
func getLogLevel() zapcore.Level {
	level := zap.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return zap.InfoLevel
		}
	}
	return level
}

func initializeLogger() {
	logPath := getLogPath()

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		logPath = logFileName
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    50,
		MaxBackups: 10,
		MaxAge:     28,
		Compress:   true,
		LocalTime:  true,
	})

	stdWriter := zapcore.AddSync(os.Stdout)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        timeKey,
		LevelKey:       levelKey,
		NameKey:        sourceKey,
		MessageKey:     msgKey,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	level := getLogLevel()

	fileCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), w, level)
	stdCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), stdWriter, level)

	core := zapcore.NewTee(fileCore, stdCore)

	log := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	sugarLogger = log.Sugar()
}

// NewNamedLogger creates a new named SugaredLogger for a given component.
func NewNamedLogger(name string) *zap.SugaredLogger {
	initOnce.Do(initializeLogger)
	return sugarLogger.Named(name)
}

// Sync flushes any buffered log entries. Safe to call before the logger is used.
func Sync() {
	if sugarLogger != nil {
		_ = sugarLogger.Sync()
	}
}
