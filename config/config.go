package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config is the root of the YAML-backed configuration tree. It is unmarshaled
// by viper and re-unmarshaled in place whenever the underlying file changes.
type Config struct {
	Zap        *ZapConfig        `mapstructure:"zap"`
	Store      *StoreConfig      `mapstructure:"store"`
	Raft       *RaftConfig       `mapstructure:"raft"`
	Compaction *CompactionConfig `mapstructure:"compaction"`
}

var (
	Viper *viper.Viper
	Conf  *Config
)

// Load reads path into Conf and keeps Conf current across edits to path via
// viper's fsnotify-backed watch.
func Load(path string) (*Config, error) {
	Viper = viper.New()
	Viper.SetConfigFile(path)
	Viper.SetConfigType("yaml")

	if err := Viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	Conf = Default()
	if err := Viper.Unmarshal(Conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	Viper.WatchConfig()
	Viper.OnConfigChange(func(e fsnotify.Event) {
		reloaded := Default()
		if err := Viper.Unmarshal(reloaded); err != nil {
			fmt.Printf("config reload from %s failed: %v\n", e.Name, err)
			return
		}
		Conf = reloaded
	})

	return Conf, nil
}

// Default returns a Config populated with the defaults every sub-config
// documents, so a partial YAML file still produces a usable tree.
func Default() *Config {
	return &Config{
		Zap:        DefaultZapConfig(),
		Store:      DefaultStoreConfig(),
		Raft:       DefaultRaftConfig(),
		Compaction: DefaultCompactionConfig(),
	}
}
