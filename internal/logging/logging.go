// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Configure sets the level, formatter and output of the standard logrus
// logger. format is "json" or "text".
func Configure(debug bool, format string) {
	ConfigureOutput(os.Stderr, debug, format)
}

// ConfigureOutput is Configure with an explicit writer.
func ConfigureOutput(w io.Writer, debug bool, format string) {
	logger := log.StandardLogger()
	logger.SetOutput(w)

	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	switch format {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
