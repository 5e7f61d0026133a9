package config

// StoreConfig configures the bbolt-backed Durable Store collaborator.
type StoreConfig struct {
	// Path is the bbolt database file on disk.
	Path string `mapstructure:"path"`
}

func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{Path: "data/rlog.db"}
}
