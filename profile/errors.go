package profile

import "errors"

var (
	// ErrNoProfiles indicates the file declared no profiles.
	ErrNoProfiles = errors.New("profile: no profiles defined")

	// ErrProfileNotFound indicates the named profile does not exist.
	ErrProfileNotFound = errors.New("profile: profile not found")

	// ErrMissingEnvVars indicates the file references environment
	// variables that are not set.
	ErrMissingEnvVars = errors.New("profile: missing required environment variables")
)
