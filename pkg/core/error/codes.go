package error

// Code classifies an error
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"

	// Compiler front end
	CodeSyntax   Code = "SYNTAX"
	CodeFileRead Code = "FILE_READ"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// REPL history persistence
	CodeHistoryError Code = "HISTORY_ERROR"

	// Compile service
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeNetworkError       Code = "NETWORK_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid reports whether c is one of the known codes
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeInvalidInput, CodeNotFound,
		CodeSyntax, CodeFileRead,
		CodeConfigError, CodeInvalidConfig,
		CodeHistoryError,
		CodeServiceUnavailable, CodeNetworkError:
		return true
	}
	return false
}

// ExitCode maps a code to a process exit status for the CLI
func (c Code) ExitCode() int {
	switch c {
	case CodeSyntax:
		return 2
	case CodeFileRead, CodeNotFound:
		return 3
	case CodeConfigError, CodeInvalidConfig:
		return 4
	case CodeServiceUnavailable, CodeNetworkError:
		return 5
	default:
		return 1
	}
}
