package services

import "fmt"

// maxErrorDetail bounds upstream diagnostics before they reach a caller.
const maxErrorDetail = 200

// ConfigurationError reports a required server-side setting that is missing.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s not set", e.Setting)
}

// DependencyUnavailableError reports a generation backend that could not be reached.
type DependencyUnavailableError struct {
	Provider string
	Detail   string
}

func (e *DependencyUnavailableError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %s", e.Provider, e.Detail)
}

// GenerationFailedError reports a backend that answered with an error or an unusable result.
type GenerationFailedError struct {
	Provider string
	Detail   string
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("%s generation failed: %s", e.Provider, e.Detail)
}

// NotFoundError reports a record that is absent or not owned by the caller.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ValidationError reports caller input the service refuses to apply.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
