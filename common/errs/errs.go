package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("not found")

	// InvalidArgument is returned when an encode/validate call receives
	// malformed input. Always raised before any network access.
	InvalidArgument = ErrorKind("invalid argument")

	// NotInitialized is returned when a read is attempted before the
	// engine lifecycle reaches Ready.
	NotInitialized = ErrorKind("engine not initialized")

	// FetchFailed is returned on transport or non-2xx failures from the
	// indexer or node-state services. Never retried internally.
	FetchFailed = ErrorKind("fetch failed")

	// InconsistentState is returned when cross-referenced upstream data
	// sources disagree, e.g. a whitelist request referencing a node that
	// is absent from the registry.
	InconsistentState = ErrorKind("inconsistent upstream state")

	// Unsupported is returned for unknown modules or networks.
	Unsupported = ErrorKind("unsupported")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
