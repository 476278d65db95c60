package config

import "time"

type Config struct {
	// ProtocolAddress is the fixed on-chain address all listing and
	// whitelist-request memos are sent to.
	ProtocolAddress string `mapstructure:"protocol_address"`

	// ActionLimit is the page size of the bounded actions query. (default: 50)
	ActionLimit int `mapstructure:"action_limit"`

	// ReconcileConcurrency caps in-flight bond state queries per
	// reconciliation batch. (default: 4)
	ReconcileConcurrency int `mapstructure:"reconcile_concurrency"`

	// RefreshInterval re-initializes the engine periodically. 0 disables
	// background refresh.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}
