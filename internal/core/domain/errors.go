package domain

import "errors"

var (
	// ErrBuildFailed is returned when the engine reports a build error.
	// No image is produced; the pipeline stops at the failing layer.
	ErrBuildFailed = errors.New("image build failed")

	// ErrEventNotVerified is returned when a webhook payload cannot be
	// matched against the notification record held by the organization.
	ErrEventNotVerified = errors.New("event could not be verified")

	// ErrMissingResource is returned when an event that should carry a
	// resource payload arrives without one.
	ErrMissingResource = errors.New("event resource data not present")

	// ErrInvalidTemplate is returned by template validation.
	ErrInvalidTemplate = errors.New("invalid deployment template")
)
