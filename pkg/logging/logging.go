package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu       sync.Mutex
	debugLog = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime)
	infoLog  = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	warnLog  = log.New(os.Stdout, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
)

// Setup routes all levels to stdout/stderr plus a rotating file in logDir.
func Setup(logDir string) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	rotated := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "app.log"),
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	outWriter := io.MultiWriter(os.Stdout, rotated)
	errWriter := io.MultiWriter(os.Stderr, rotated)

	mu.Lock()
	defer mu.Unlock()
	debugLog = log.New(outWriter, "DEBUG: ", log.Ldate|log.Ltime)
	infoLog = log.New(outWriter, "INFO: ", log.Ldate|log.Ltime)
	warnLog = log.New(outWriter, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(errWriter, "ERROR: ", log.Ldate|log.Ltime)

	// Override Go's default log as well.
	log.SetOutput(outWriter)
	return nil
}

func callerInfo() string {
	pc, _, _, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	return runtime.FuncForPC(pc).Name()
}

func logf(l *log.Logger, format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	l.Printf("[%s] %s", callerInfo(), fmt.Sprintf(format, v...))
}

func Debug(format string, v ...interface{}) { logf(debugLog, format, v...) }
func Info(format string, v ...interface{})  { logf(infoLog, format, v...) }
func Warn(format string, v ...interface{})  { logf(warnLog, format, v...) }
func Error(format string, v ...interface{}) { logf(errorLog, format, v...) }
