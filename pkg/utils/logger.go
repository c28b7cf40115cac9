package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger represents the run logger. All messages go to a rotating log file;
// process steps are additionally echoed to stdout so a long analysis shows
// progress.
type Logger struct {
	logger        *log.Logger
	jsonMode      bool
	correlationID string
	quiet         bool
}

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the singleton instance of Logger.
// It initializes the logger with a file handler that rotates logs.
func GetLogger() *Logger {
	once.Do(func() {
		logFile := &lumberjack.Logger{
			Filename:   ".codeinsight/run.log",
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{
			logger: log.New(logFile, "", log.LstdFlags),
		}
	})
	if os.Getenv("CODEINSIGHT_JSON_LOGS") == "1" {
		globalLogger.jsonMode = true
	}
	return globalLogger
}

// SetCorrelationID tags every subsequent JSON log line with the given run ID.
func (w *Logger) SetCorrelationID(id string) {
	w.correlationID = id
}

// SetQuiet suppresses stdout echoing of process steps.
func (w *Logger) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// Close closes the logger resources.
func (w *Logger) Close() error {
	if logFile, ok := w.logger.Writer().(*lumberjack.Logger); ok {
		return logFile.Close()
	}
	return nil
}

// LogProcessStep logs the current step in the pipeline and prints it to stdout.
func (w *Logger) LogProcessStep(step string) {
	w.logger.Printf("Process Step: %s", step)
	if !w.quiet {
		fmt.Println(step)
	}
}

// Log logs a general message only to the log file.
func (w *Logger) Log(message string) {
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": "info", "msg": message, "cid": w.correlationID})
		return
	}
	w.logger.Print(message)
}

// Logf logs a formatted general message only to the log file.
func (w *Logger) Logf(format string, v ...interface{}) {
	if w.jsonMode {
		w.Log(fmt.Sprintf(format, v...))
		return
	}
	w.logger.Printf(format, v...)
}

func (w *Logger) LogError(err error) {
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": "error", "error": err.Error(), "cid": w.correlationID})
		return
	}
	w.logger.Printf("Error: %s", err)
}
