package logging

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger. format is "text" or "json".
func Setup(level, format string) error {
	log.SetOutput(os.Stderr)

	switch format {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return errors.Errorf("unknown log format %q", format)
	}
	return SetLevel(level)
}

// SetLevel changes the level of the standard logger.
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "log level %q", level)
	}
	log.SetLevel(lvl)
	return nil
}
