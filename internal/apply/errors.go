// internal/apply/errors.go
//
// Error taxonomy for template application.
//
//   - ValidationError  – template failed structural checks; the
//     transaction never starts.  Carries the violated rules.
//   - StorageError     – the transactional phase failed; rollback
//     guarantees no partial state.  Carries the wrapped driver error and
//     whether the best-effort restore succeeded.
package apply

import (
	"fmt"
	"strings"
)

// ValidationError blocks an application before any storage mutation.
type ValidationError struct {
	Rules []string
}

func (e *ValidationError) Error() string {
	return "template validation failed: " + strings.Join(e.Rules, "; ")
}

// StorageError wraps a failure inside (or immediately around) the
// transactional phase.  Restored reports whether the pre-apply page set
// was re-inserted successfully afterwards.
type StorageError struct {
	Err      error
	Restored bool
}

func (e *StorageError) Error() string {
	if e.Restored {
		return fmt.Sprintf("template application failed (previous pages restored): %v", e.Err)
	}
	return fmt.Sprintf("template application failed: %v", e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
