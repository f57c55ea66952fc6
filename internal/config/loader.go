package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

const (
	// AppName names the config file, env prefix and app dirs.
	AppName = "lecturecast"
	// FileName is the config file created when none exists.
	FileName = AppName + ".yml"
)

// Secrets are read from the environment only, never from the config file.
type Secrets struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	NATSToken    string `env:"NATS_TOKEN"`
	NATSPassword string `env:"NATS_PASSWORD"`
}

// LoadSecrets parses Secrets from the environment.
func LoadSecrets() (Secrets, error) {
	s, err := env.ParseAs[Secrets]()
	if err != nil {
		return Secrets{}, fmt.Errorf("error parsing secrets: %w", err)
	}
	return s, nil
}

// SearchDirs returns the directories searched for the config file, most
// specific first: $LECTURECAST_CONFIG_HOME, $XDG_CONFIG_HOME/lecturecast,
// then the platform config dirs.
func SearchDirs() ([]string, error) {
	scope := gap.NewScope(gap.User, AppName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("could not find configuration directory: %w", err)
	}
	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, AppName)}, dirs...)
	}
	if c := os.Getenv("LECTURECAST_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs, nil
}

// NewViper returns a viper instance with defaults registered, the search
// path set and environment overrides enabled. LECTURECAST_AUDIO_SETTLE
// overrides audio.settle, and so on.
func NewViper(dirs ...string) *viper.Viper {
	v := viper.New()
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetConfigName(AppName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// ReadIn reads the config file if one exists. A missing file is not an
// error.
func ReadIn(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("could not parse configuration file: %w", err)
	}
	log.Debug("Using configuration file", "path", v.ConfigFileUsed())
	return nil
}

// SetDefaults registers every field of Default() with v so environment
// overrides and Unmarshal see the full key set.
func SetDefaults(v *viper.Viper) {
	setDefaults(v, "", reflect.ValueOf(Default()))
}

func setDefaults(v *viper.Viper, prefix string, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.Struct {
			setDefaults(v, key, fv)
			continue
		}
		v.SetDefault(key, fv.Interface())
	}
}

// Load decodes v into a Config, expands paths and validates the result.
// Defaults come from the keys SetDefaults registered on v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode configuration: %w", err)
	}
	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Watch reloads the configuration whenever the file changes and passes
// valid results to onChange. Invalid edits are logged and ignored.
func Watch(v *viper.Viper, onChange func(Config, fsnotify.Event)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load(v)
		if err != nil {
			log.Warn("Ignoring configuration change", "file", e.Name, "err", err)
			return
		}
		log.Info("Configuration reloaded", "file", e.Name)
		onChange(cfg, e)
	})
	v.WatchConfig()
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	expanded, err := homedir.Expand(os.ExpandEnv(path))
	if err != nil {
		return path
	}
	return expanded
}

func (c *Config) expandPaths() {
	c.Log.File = ExpandPath(c.Log.File)
	c.Cache.Dir = ExpandPath(c.Cache.Dir)
	c.Voice.Piper.Binary = ExpandPath(c.Voice.Piper.Binary)
	c.Voice.Piper.Model = ExpandPath(c.Voice.Piper.Model)
	c.Voice.Piper.Config = ExpandPath(c.Voice.Piper.Config)
}

// CacheDir returns the configured cache dir, or the user cache dir for
// lecturecast when none is set.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	dir, err := gap.NewScope(gap.User, AppName).CacheDir()
	if err != nil {
		return "", fmt.Errorf("could not find cache directory: %w", err)
	}
	return filepath.Join(dir, "audio"), nil
}
