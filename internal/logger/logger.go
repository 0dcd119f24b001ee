package logger

import (
	"github.com/sirupsen/logrus"
)

// New builds the shared logger. Production runs emit JSON for log shipping,
// everything else stays human-readable.
func New(level, env string) *logrus.Logger {
	log := logrus.New()

	if env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return log
}
