package logger

import (
	"github.com/gruntwork-io/go-commons/logging"
	"github.com/sirupsen/logrus"
)

// GetProjectLogger returns the logger used across the project.
func GetProjectLogger() *logrus.Entry {
	return GetLogger("cadence")
}

// GetLogger returns a logger scoped to the given name.
func GetLogger(name string) *logrus.Entry {
	return logging.GetLogger("").WithField("name", name)
}

// SetLevel adjusts the verbosity of all loggers created by this package.
func SetLevel(level logrus.Level) {
	logging.SetGlobalLogLevel(level)
}
