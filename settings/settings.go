package settings

import (
	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// Settings holds the process-wide configuration the teleport core reads.
type Settings struct {
	// ServerName identifies this cluster member. Positions wrapped from
	// local locations are tagged with it.
	ServerName string `config:"HUSKHOMES_SERVER_NAME"`

	// CrossServer enables resolution of users and positions on other
	// cluster members via the network messenger.
	CrossServer bool `config:"HUSKHOMES_CROSS_SERVER"`

	// ClusterID scopes messenger broadcasts to one cluster.
	ClusterID string `config:"HUSKHOMES_CLUSTER_ID"`

	// TeleportWarmupSeconds is the delay applied to timed teleports.
	TeleportWarmupSeconds int `config:"HUSKHOMES_WARMUP_SECONDS"`

	RedisAddress  string `config:"HUSKHOMES_REDIS_ADDRESS"`
	RedisPassword string `config:"HUSKHOMES_REDIS_PASSWORD"`
}

// Default returns the settings used when no environment overrides are set.
func Default() Settings {
	return Settings{
		ServerName:            "server",
		CrossServer:           false,
		ClusterID:             "main",
		TeleportWarmupSeconds: 5,
		RedisAddress:          "localhost:6379",
		RedisPassword:         "",
	}
}

// Load reads settings from the environment on top of the defaults.
func Load() (Settings, error) {
	s := Default()
	if err := config.FromEnv().To(&s); err != nil {
		return s, eris.Wrap(err, "failed to load settings from environment")
	}
	return s, nil
}
