package vendoring

import "strings"

const (
	// StrategyVendor is the only strategy that performs dependency orchestration and packaging.
	StrategyVendor = "vendor"

	strategyConfigurationKeySuffixConstant = ".strategy"
	reportConfigurationKeySuffixConstant   = ".report"
)

// Configuration captures configuration values for the vendoring command.
type Configuration struct {
	Strategy string `mapstructure:"strategy"`
	Report   bool   `mapstructure:"report"`
}

// DefaultConfigurationValues provides baseline configuration values keyed under the provided prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + strategyConfigurationKeySuffixConstant: StrategyVendor,
		configurationKeyPrefix + reportConfigurationKeySuffixConstant:   false,
	}
}

// sanitize trims configuration values and applies the default strategy when none is configured.
func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration

	sanitized.Strategy = strings.TrimSpace(configuration.Strategy)
	if len(sanitized.Strategy) == 0 {
		sanitized.Strategy = StrategyVendor
	}

	return sanitized
}
