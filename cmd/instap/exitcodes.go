package main

// Exit codes used across instap commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing credentials, invalid paths)
	ExitAuthError   = 3 // Authentication error (login failed, not logged in)
	ExitDataError   = 4 // Data error (page fetch failed, no DOI, malformed input)
)
