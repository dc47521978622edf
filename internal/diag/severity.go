package diag

// Severity orders diagnostics by importance; higher values are more severe.
type Severity uint8

const (
	// SevInfo carries context that never fails a run.
	SevInfo Severity = iota
	// SevWarning flags suspect but legal code.
	SevWarning
	// SevError marks a violation that fails the run.
	SevError
)

var severityNames = [...]string{"INFO", "WARNING", "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}
