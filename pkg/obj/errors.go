package obj

import (
	"errors"
	"fmt"
)

// OBJ parse errors.
var (
	ErrMalformedLine     = errors.New("malformed line")
	ErrDanglingReference = errors.New("dangling reference")
	ErrUnsupportedArity  = errors.New("unsupported face arity")
)

// LineError ties a parse failure to the source line that caused it.
// Err wraps one of the sentinel errors above.
type LineError struct {
	Line int    // 1-based line number (0 when the mesh did not come from text)
	Raw  string // trimmed line content
	Err  error
}

func (e *LineError) Error() string {
	if e.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Raw, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func malformed(rec Record, format string, args ...any) error {
	return &LineError{
		Line: rec.Line,
		Raw:  rec.Raw,
		Err:  fmt.Errorf("%w: %s", ErrMalformedLine, fmt.Sprintf(format, args...)),
	}
}
