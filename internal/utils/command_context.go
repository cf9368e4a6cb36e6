package utils

import "context"

// commandContextKey scopes the values this package stores in command contexts.
type commandContextKey string

const configurationFileContextKeyConstant = commandContextKey("configuration_file_path")

// CommandContextAccessor carries CLI-preamble values, currently the resolved
// configuration file path, through the command context to the vendoring command.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath stores the resolved configuration file path on the context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFileContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath reports the configuration file path stored on the context, when present.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	storedPath, pathAvailable := executionContext.Value(configurationFileContextKeyConstant).(string)
	return storedPath, pathAvailable
}
