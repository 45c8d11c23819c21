package llm

import (
	"errors"
	"fmt"
)

// ConfigurationError means the provider credential is missing or unusable.
// It cannot be fixed by retrying, but the pipeline can still fall back to
// a crawler-derived summary with setup guidance attached.
type ConfigurationError struct {
	Provider string
	Message  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s not configured: %s", e.Provider, e.Message)
}

// ContentError means the provider responded but produced nothing usable:
// a non-success HTTP status, a blocked or empty completion, or JSON that
// could not be recovered. Status carries the HTTP code when one applies.
type ContentError struct {
	Message string
	Status  int
}

func (e *ContentError) Error() string {
	return e.Message
}

// IsRecoverable reports whether err should be absorbed into a fallback
// summary. Transport errors (network failures, cancellation) are not.
func IsRecoverable(err error) bool {
	var configErr *ConfigurationError
	var contentErr *ContentError
	return errors.As(err, &configErr) || errors.As(err, &contentErr)
}
