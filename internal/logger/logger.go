// Package logger provides leveled logging for the simulation engine,
// backed by logrus. The verbosity level also acts as the escalation
// threshold for physical-consistency warnings: some checks only warn at
// low verbosity and become fatal at medium and above.
package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Verbosity orders the reporting levels.
type Verbosity int

const (
	Quiet Verbosity = iota
	Low
	Medium
	High
)

var (
	current = Low
	log     = newLogger()
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "15:04:05",
		FullTimestamp:   true,
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Set changes the global verbosity.
func Set(v Verbosity) {
	current = v
	switch {
	case v <= Quiet:
		log.SetLevel(logrus.ErrorLevel)
	case v == Low:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.DebugLevel)
	}
}

// Parse maps a config string to a verbosity level.
func Parse(s string) (Verbosity, error) {
	switch s {
	case "quiet":
		return Quiet, nil
	case "", "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	}
	return Low, fmt.Errorf("unknown verbosity %q", s)
}

// Current returns the global verbosity.
func Current() Verbosity { return current }

// AtLeast reports whether the current verbosity reaches v.
func AtLeast(v Verbosity) bool { return current >= v }

// L returns the shared logrus logger.
func L() *logrus.Logger { return log }
