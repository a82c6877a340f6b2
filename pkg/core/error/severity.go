package error

// Severity represents how serious an error is
type Severity int

const (
	// SeverityLow covers bad user input such as syntax errors
	SeverityLow Severity = iota

	// SeverityMedium is the default for unclassified errors
	SeverityMedium

	// SeverityHigh covers failures of local resources (files, database)
	SeverityHigh

	// SeverityCritical makes the tool unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true for severities that warrant operator attention
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines the default severity for a code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical
	case CodeFileRead, CodeHistoryError, CodeConfigError, CodeServiceUnavailable:
		return SeverityHigh
	case CodeSyntax, CodeInvalidInput, CodeInvalidConfig, CodeNotFound:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
