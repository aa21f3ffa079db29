package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger = logrus.New()
	once   sync.Once
)

// Init configures the shared logger. When logFile is non-empty, output
// goes to a size-rotated file; otherwise it stays on stdout.
func Init(logFile string) {
	once.Do(func() {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		logger.SetLevel(logrus.InfoLevel)

		if logFile != "" {
			logger.SetOutput(&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		} else {
			logger.SetOutput(os.Stdout)
		}
	})
}

// L returns the shared logger.
func L() *logrus.Logger {
	return logger
}
