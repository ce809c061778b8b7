package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the top-level configuration for the fund engine process.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Debug   DebugConfig   `yaml:"debug"`
	Storage StorageConfig `yaml:"storage"`
	Fund    FundConfig    `yaml:"fund"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LOGGING_LEVEL"`
}

// DebugConfig controls the optional pprof/debug HTTP listener.
type DebugConfig struct {
	ListenAddress string `yaml:"address" envconfig:"DEBUG_ADDRESS"`
	ListenPort    uint   `yaml:"port"    envconfig:"DEBUG_PORT"`
}

// StorageConfig points at the badger directories backing the reference
// neuron store and the audit log.
type StorageConfig struct {
	NeuronStoreDirectory string `yaml:"neuronStoreDir" envconfig:"NEURON_STORE_DIR"`
	AuditDirectory       string `yaml:"auditDir"       envconfig:"AUDIT_DIR"`
}

// FundConfig carries the default swap participation limits applied when a
// swap doesn't supply its own (e.g. in the CLI demo driver).
type FundConfig struct {
	MinDirectParticipationIcpE8s uint64 `yaml:"minDirectParticipationIcpE8s" envconfig:"MIN_DIRECT_PARTICIPATION_ICP_E8S"`
	MaxDirectParticipationIcpE8s uint64 `yaml:"maxDirectParticipationIcpE8s" envconfig:"MAX_DIRECT_PARTICIPATION_ICP_E8S"`
	MinParticipantIcpE8s         uint64 `yaml:"minParticipantIcpE8s"         envconfig:"MIN_PARTICIPANT_ICP_E8S"`
	MaxParticipantIcpE8s         uint64 `yaml:"maxParticipantIcpE8s"         envconfig:"MAX_PARTICIPANT_ICP_E8S"`
}

const e8 = 100_000_000

// Singleton config instance with default values.
var globalConfig = &Config{
	Logging: LoggingConfig{
		Level: "info",
	},
	Debug: DebugConfig{
		ListenAddress: "localhost",
		ListenPort:    0,
	},
	Storage: StorageConfig{
		// TODO: pick a better location for packaged deployments
		NeuronStoreDirectory: "./.fundengine/neuronstore",
		AuditDirectory:       "./.fundengine/audit",
	},
	Fund: FundConfig{
		MinDirectParticipationIcpE8s: 75_000 * e8,
		MaxDirectParticipationIcpE8s: 300_000 * e8,
		MinParticipantIcpE8s:         10 * e8,
		MaxParticipantIcpE8s:         50_000 * e8,
	},
}

// Load reads the optional YAML config file, then overlays environment
// variables, and returns the populated global config.
func Load(configFile string) (*Config, error) {
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %s", err)
		}
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return nil, fmt.Errorf("error parsing config file: %s", err)
		}
	}
	// We use "dummy" as the app name here to (mostly) prevent picking up env
	// vars that we hadn't explicitly specified in annotations above
	if err := envconfig.Process("dummy", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %s", err)
	}
	return globalConfig, nil
}

// GetConfig returns the global config instance.
func GetConfig() *Config {
	return globalConfig
}
