package recall

import "fmt"

// ErrBackend reports a failure in the long-term tier: the codec or the
// backing persistence. A missing key is never reported this way.
type ErrBackend struct {
	Op  string
	Key string
	Err error
}

func (e *ErrBackend) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("recall: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("recall: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *ErrBackend) Unwrap() error { return e.Err }
