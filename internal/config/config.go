package config

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by the process.
const EnvPrefix = "DESKSTREAM"

// Config is the process configuration. The capture pipeline itself has no
// tunables; these only concern how the process is exposed.
type Config struct {
	Addr       string
	StaticDir  string
	LogLevel   string
	LogFormat  string
	ICEServers []string
}

// New returns a viper instance with defaults, environment bindings and the
// config search path set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("addr", "0.0.0.0:8080")
	v.SetDefault("static", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("ice_servers", []string{"stun:stun.l.google.com:19302"})

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.BindEnv("addr", EnvPrefix+"_ADDR")
	v.BindEnv("static", EnvPrefix+"_STATIC")
	v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL")
	v.BindEnv("log.format", EnvPrefix+"_LOG_FORMAT")
	v.BindEnv("ice_servers", EnvPrefix+"_ICE_SERVERS")

	v.SetConfigName("deskstream")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".deskstream"))
	}
	v.AddConfigPath("/etc/deskstream")
	return v
}

// Load reads the config file, if any, and returns the merged settings.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config file")
		}
	}
	return current(v), nil
}

// Watch calls onChange with the new settings whenever the config file is
// rewritten. It does nothing when no config file was found.
func Watch(v *viper.Viper, onChange func(Config)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		log.WithFields(log.Fields{"file": e.Name, "op": e.Op.String()}).Info("config file changed")
		onChange(current(v))
	})
	v.WatchConfig()
}

func current(v *viper.Viper) Config {
	return Config{
		Addr:       v.GetString("addr"),
		StaticDir:  v.GetString("static"),
		LogLevel:   v.GetString("log.level"),
		LogFormat:  v.GetString("log.format"),
		ICEServers: v.GetStringSlice("ice_servers"),
	}
}
