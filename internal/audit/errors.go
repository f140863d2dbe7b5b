package audit

import "fmt"

// PersistenceError wraps a failed interview write. The session's data is
// not retried.
type PersistenceError struct {
	InterviewID string
	Err         error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist interview %s: %v", e.InterviewID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
