package cmd

// Exit codes for the jsonfetch CLI
const (
	// ExitSuccess indicates the request completed
	ExitSuccess = 0

	// ExitRequestFailure indicates the request was rejected or failed
	ExitRequestFailure = 1

	// ExitInputError indicates a bad URL, request file, or flag value
	ExitInputError = 2

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
