// logger.go - Leveled console logging with an optional session log file

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	logMu      sync.Mutex
	infoLogger *log.Logger

	errorLogger  *log.Logger
	errorLogPath string
	errorLogOnce sync.Once

	debugLogger *log.Logger

	// quiet suppresses info lines; warnings and errors still print.
	quiet bool
)

// setupLogging routes all levels to stderr. When logDir is not empty the
// first warning or error also opens a timestamped file there and tees into it.
func setupLogging(debug bool, logDir string) {
	logMu.Lock()
	defer logMu.Unlock()

	infoLogger = log.New(os.Stderr, "", log.LstdFlags)
	errorLogger = log.New(os.Stderr, "", log.LstdFlags)
	errorLogOnce = sync.Once{}
	errorLogPath = ""
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("could not create log directory: %v", err)
		} else {
			ts := time.Now().Format("20060102-150405")
			errorLogPath = filepath.Join(logDir, fmt.Sprintf("ambient-%s.log", ts))
		}
	}
	log.SetOutput(errorLogger.Writer())

	debugLogger = nil
	if debug {
		debugLogger = log.New(os.Stderr, "debug: ", log.LstdFlags|log.Lmicroseconds)
	}
}

func openErrorLog() {
	errorLogOnce.Do(func() {
		if errorLogPath == "" {
			return
		}
		if f, err := os.Create(errorLogPath); err == nil {
			errorLogger.SetOutput(io.MultiWriter(os.Stderr, f))
			infoLogger.SetOutput(io.MultiWriter(os.Stderr, f))
		}
	})
}

func logInfo(format string, v ...interface{}) {
	if infoLogger == nil || quiet {
		return
	}
	infoLogger.Printf(format, v...)
}

func logDebug(format string, v ...interface{}) {
	if debugLogger != nil {
		debugLogger.Printf(format, v...)
	}
}

func logWarn(format string, v ...interface{}) {
	if errorLogger == nil {
		return
	}
	openErrorLog()
	errorLogger.Printf("warning: %s", fmt.Sprintf(format, v...))
}

func logError(format string, v ...interface{}) {
	if errorLogger == nil {
		return
	}
	openErrorLog()
	errorLogger.Printf("error: %s", fmt.Sprintf(format, v...))
}
