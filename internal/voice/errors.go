package voice

import "fmt"

// ConfigurationError means the session cannot start because a setting is missing.
// It is fatal to the start attempt and is never retried.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("voice session not configured: %s is required", e.Setting)
}

// TransportError wraps a failure of the underlying voice session
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("voice transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
