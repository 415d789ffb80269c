package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger. It is usable before Init is called.
var Log = logrus.New()

// Init configures Log. Debug mode logs human readable text at debug level,
// otherwise JSON at info level.
func Init(debug bool) {
	InitTo(os.Stdout, debug)
}

// InitTo is Init with an explicit destination.
func InitTo(out io.Writer, debug bool) {
	Log = logrus.New()
	Log.Out = out

	if debug {
		Log.SetLevel(logrus.DebugLevel)
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		Log.SetLevel(logrus.InfoLevel)
		Log.SetFormatter(&logrus.JSONFormatter{})
	}
}
