// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, missing fields, unknown task id).
	UserError = 1

	// AuthError indicates an auth or config error.
	AuthError = 2

	// StorageError indicates a storage, remote API, or network error.
	StorageError = 3
)
