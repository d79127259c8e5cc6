package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// LogFilePath returns the default path to the backend log file.
func LogFilePath() string {
	return filepath.Join("logs", "procurify-api.log")
}

// InitLogging opens the log file and points LogWriter at stdout plus the file.
// The returned file must be closed by the caller; it is nil when the file could
// not be opened, in which case logs only go to stdout.
func InitLogging(path string) (*os.File, io.Writer) {
	if path == "" {
		path = LogFilePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		LogWriter = os.Stdout
		log.SetOutput(LogWriter)
		return nil, LogWriter
	}

	LogWriter = io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(LogWriter)
	return logFile, LogWriter
}
