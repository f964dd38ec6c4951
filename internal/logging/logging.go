package logging

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/YJlang/gacha/internal/config"
)

// New builds the application logger from the app configuration.
// Development uses a text formatter, everything else emits JSON.
func New(app config.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if app.IsDevelopment() {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(app.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		log.WithField("log_level", app.LogLevel).Warn("Unknown log level, falling back to info")
	}
	if app.Debug {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	return log
}
