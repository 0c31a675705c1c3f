// Package config loads the application configuration from an optional
// YAML file and GNAF_* environment variables, with sensible defaults for
// everything.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Data     Data     `mapstructure:"data"`
	Engine   Engine   `mapstructure:"engine"`
	Log      Log      `mapstructure:"log"`
}

// Server configures the HTTP listener.
type Server struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Database configures the Postgres connection used when the reference
// data source is "postgres".
type Database struct {
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// Data selects where the reference dataset comes from.
type Data struct {
	// Source is "psv" (flat files under Dir) or "postgres".
	Source string `mapstructure:"source"`
	Dir    string `mapstructure:"dir"`
}

// Engine carries the verification engine tunables.
type Engine struct {
	NTPostcodes    bool  `mapstructure:"nt_postcodes"`
	Region         bool  `mapstructure:"region"`
	Abbreviate     bool  `mapstructure:"abbreviate"`
	ReturnBoth     bool  `mapstructure:"return_both"`
	AddExtras      bool  `mapstructure:"add_extras"`
	CommunityNames bool  `mapstructure:"community_names"`
	Trace          bool  `mapstructure:"trace"`
	FuzzLevels     []int `mapstructure:"fuzz_levels"`
	MaxCandidates  int   `mapstructure:"max_candidates"`
	NeighbourDepth int   `mapstructure:"neighbour_depth"`
}

// Log configures the zerolog output.
type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply; a named file that does not
// exist is an error, but a missing default search is not.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("data.source", "psv")
	v.SetDefault("data.dir", "data")
	v.SetDefault("engine.nt_postcodes", false)
	v.SetDefault("engine.region", true)
	v.SetDefault("engine.abbreviate", false)
	v.SetDefault("engine.return_both", false)
	v.SetDefault("engine.add_extras", false)
	v.SetDefault("engine.community_names", false)
	v.SetDefault("engine.trace", false)
	v.SetDefault("engine.fuzz_levels", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	v.SetDefault("engine.max_candidates", 2000)
	v.SetDefault("engine.neighbour_depth", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetEnvPrefix("GNAF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	} else {
		v.SetConfigName("gnaf-verify")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/gnaf-verify")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Data.Source {
	case "psv", "postgres":
	default:
		return fmt.Errorf("config: data.source %q: want psv or postgres", c.Data.Source)
	}
	if c.Data.Source == "postgres" && c.Database.URL == "" {
		return errors.New("config: data.source postgres needs database.url")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	for _, l := range c.Engine.FuzzLevels {
		if l < 1 || l > 10 {
			return fmt.Errorf("config: engine.fuzz_levels entry %d out of range", l)
		}
	}
	return nil
}

// LogLevel parses the configured level, defaulting to info.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
