package drbg

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

const (
	// ErrEntropyTooShort indicates the entropy input is shorter than the
	// configured minimum.
	ErrEntropyTooShort = ErrorKind("ErrEntropyTooShort")

	// ErrReseedRequired indicates the generator produced output for the
	// maximum number of requests and must be reseeded.
	ErrReseedRequired = ErrorKind("ErrReseedRequired")

	// ErrMissingHash indicates no hash constructor was configured.
	ErrMissingHash = ErrorKind("ErrMissingHash")

	// ErrCleared indicates the generator state was wiped by Clear.
	ErrCleared = ErrorKind("ErrCleared")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to the generator.  It has full support
// for errors.Is and errors.As, so the caller can ascertain the specific
// reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
