// Package logreport routes log output through logrus and raises the level of
// messages that carry an error.
package logreport

import (
	"io"

	"github.com/sirupsen/logrus"
)

var (
	// Print logs at info level, or at error level if any value is an error.
	Print = wrap(logrus.StandardLogger().Log)
	// Printf logs at info level, or at error level if any value is an error.
	Printf = wrapf(logrus.StandardLogger().Logf)
	// Println logs at info level, or at error level if any value is an error.
	Println = wrap(logrus.StandardLogger().Logln)

	// Fatal delegates to logrus.Fatal.
	Fatal = logrus.Fatal
	// Fatalf delegates to logrus.Fatalf.
	Fatalf = logrus.Fatalf
	// Fatalln delegates to logrus.Fatalln.
	Fatalln = logrus.Fatalln

	// Debugf delegates to logrus.Debugf.
	Debugf = logrus.Debugf
)

// Setup sets up logging level and log formatting.
func Setup(level string, out io.Writer) {
	ll, err := logrus.ParseLevel(level)
	if err != nil {
		ll = logrus.InfoLevel
	}
	logrus.SetLevel(ll)
	if out != nil {
		logrus.SetOutput(out)
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:  true,
		PadLevelText:   true,
		DisableQuote:   true,
		DisableSorting: true,
	})
}

func wrap(f func(level logrus.Level, v ...interface{})) func(v ...interface{}) {
	return func(v ...interface{}) {
		f(levelFor(v), v...)
	}
}

func wrapf(f func(level logrus.Level, format string, v ...interface{})) func(format string, v ...interface{}) {
	return func(format string, v ...interface{}) {
		f(levelFor(v), format, v...)
	}
}

func levelFor(v []interface{}) logrus.Level {
	for _, item := range v {
		if _, ok := item.(error); ok {
			return logrus.ErrorLevel
		}
	}
	return logrus.InfoLevel
}
