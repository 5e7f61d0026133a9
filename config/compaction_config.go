package config

// CompactionConfig configures the fixed-size compaction policy.
type CompactionConfig struct {
	// FixedLogSize is the entry count at which a compaction is due.
	FixedLogSize uint64 `mapstructure:"fixed-log-size"`

	// WorkerPoolSize is read from the config file but is not passed to
	// raftlog: the compaction pool there always has two workers, and the
	// policy guarantees at most one compaction in flight.
	WorkerPoolSize int `mapstructure:"worker-pool-size"`

	// SnapshotRetention is how many of the most recent snapshots the
	// compactor keeps in the snapshots map before pruning older ones.
	SnapshotRetention int `mapstructure:"snapshot-retention"`
}

func DefaultCompactionConfig() *CompactionConfig {
	return &CompactionConfig{
		FixedLogSize:      10000,
		WorkerPoolSize:    2,
		SnapshotRetention: 3,
	}
}
