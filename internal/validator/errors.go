// Package validator is the second, independently-implemented gate in
// front of the trusted data store. It re-inspects already-cleaned JSON
// for residual threat signatures and structural contract violations.
// It deliberately shares no code with the sanitize/reconstruct packages
// so a defect in one pass is unlikely to be mirrored in the other.
package validator

import "fmt"

// Kind classifies a validation failure.
type Kind string

// Validation failure kinds.
const (
	KindStructural        Kind = "structural"
	KindTooLong           Kind = "too_long"
	KindSuspiciousPattern Kind = "suspicious_pattern"
	KindPathTraversal     Kind = "path_traversal"
	KindDangerousProtocol Kind = "dangerous_protocol"
)

// Error is a typed validation failure carrying the dotted/bracketed
// field path of the offending value.
type Error struct {
	Kind   Kind
	Path   string
	Detail string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}

	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, e.Detail)
}

// newError builds a typed failure for a field path.
func newError(kind Kind, path, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Path:   path,
		Detail: fmt.Sprintf(format, args...),
	}
}
