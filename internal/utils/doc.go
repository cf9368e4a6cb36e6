// Package utils houses the ambient helpers behind the vendoring CLI:
// Viper-backed configuration loading, zap logger construction, and the
// command-context plumbing that carries the resolved configuration file
// into the vendoring command.
package utils
