// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions the vendoring
// pipeline uses to run the Go toolchain in a testable manner.
package execshell
