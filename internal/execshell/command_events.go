package execshell

// CommandEventObserver receives lifecycle notifications for the tool
// invocations the executor performs. The CLI registers an observer to render
// human-readable progress for go tool runs alongside the structured logs.
type CommandEventObserver interface {
	// CommandStarted fires before the tool process is launched.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the tool process finishes, regardless of exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the tool process could not be started or observed.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// discardingCommandEventObserver is installed until a real observer registers.
type discardingCommandEventObserver struct{}

func (discardingCommandEventObserver) CommandStarted(ShellCommand)                    {}
func (discardingCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}
func (discardingCommandEventObserver) CommandExecutionFailed(ShellCommand, error)     {}
