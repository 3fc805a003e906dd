package secondary

// Logger defines the interface for the injected logging collaborator.
// Components receive a Logger at construction; process-wide lifecycle
// (flushing, level selection) is owned by the wiring layer.
type Logger interface {
	// Infof logs routine progress.
	Infof(format string, args ...any)

	// Warnf logs recoverable anomalies, such as a missing previous-state blob.
	Warnf(format string, args ...any)

	// Errorf logs failures that degrade but do not abort a cycle.
	Errorf(format string, args ...any)
}
