package medusa

import (
	"errors"
)

var (
	// ErrClientNotInitialized is returned when the Medusa client is not initialized.
	ErrClientNotInitialized = errors.New("medusa client not initialized")

	// ErrEmptyBaseURL is returned when the configured base URL is empty.
	ErrEmptyBaseURL = errors.New("medusa base url can not be empty")
)
