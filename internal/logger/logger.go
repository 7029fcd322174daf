package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the application-wide logger. It is usable before Init with
// default settings.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// Init sets the log level for the environment ("development" logs at debug).
func Init(env string) {
	if env == "development" {
		Logger.SetLevel(logrus.DebugLevel)
		return
	}
	Logger.SetLevel(logrus.InfoLevel)
}
