// Package logging holds the shared application logger.
//
// Cache and storage problems are logged here and never surfaced to the
// user; the in-memory working set stays authoritative for the session
// regardless of persistence failures.
package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger instance used across packages.
var Log = logrus.New()

// SetLevel configures the minimum level from its string name.
// Unknown names fall back to info.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		Log.SetLevel(logrus.DebugLevel)
	case "info":
		Log.SetLevel(logrus.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(logrus.WarnLevel)
	case "error":
		Log.SetLevel(logrus.ErrorLevel)
	case "fatal":
		Log.SetLevel(logrus.FatalLevel)
	default:
		Log.SetLevel(logrus.InfoLevel)
	}
}
