package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"nfagent/config"
)

// InitLogger initializes the logger based on the configuration.
// When the output is a file (the default, nf_agent.log), log lines are
// mirrored to stderr so the interactive chat still shows warnings.
func InitLogger() {
	cfg := config.AppConfig.Logging

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("Invalid log level '%s', using 'info' instead. Error: %v", cfg.Level, err)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logrus.Warnf("Failed to open log file '%s', using 'stderr' instead. Error: %v", cfg.Output, err)
			output = os.Stderr
		} else {
			output = io.MultiWriter(file, os.Stderr)
		}
	}
	logrus.SetOutput(output)

	logrus.Debug("Logger initialized")
}
