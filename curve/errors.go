package curve

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrUnknownPointFormat is returned when an encoded point has a prefix
	// byte or length that matches no supported encoding.
	ErrUnknownPointFormat = ErrorKind("ErrUnknownPointFormat")

	// ErrInvalidPoint is returned when no curve point exists for the given
	// coordinate, such as an x whose curve equation has no square root.
	ErrInvalidPoint = ErrorKind("ErrInvalidPoint")

	// ErrPointNotOnCurve is returned when explicit coordinates do not
	// satisfy the curve equation.
	ErrPointNotOnCurve = ErrorKind("ErrPointNotOnCurve")

	// ErrCoordinateTooBig is returned when a coordinate is not below the
	// field prime.
	ErrCoordinateTooBig = ErrorKind("ErrCoordinateTooBig")

	// ErrHybridParity is returned when the prefix of a hybrid encoding
	// disagrees with the parity of the encoded y coordinate.
	ErrHybridParity = ErrorKind("ErrHybridParity")

	// ErrUnknownCurve is returned when a preset name is not registered.
	ErrUnknownCurve = ErrorKind("ErrUnknownCurve")

	// ErrInvalidCurve is returned when curve parameters are malformed or
	// inconsistent, for example a generator that is not on the curve.
	ErrInvalidCurve = ErrorKind("ErrInvalidCurve")

	// ErrNoEndomorphism is returned when an endomorphism is requested for a
	// curve that does not admit the cube root of unity construction.
	ErrNoEndomorphism = ErrorKind("ErrNoEndomorphism")

	// ErrInvalidScalar is returned when an encoded scalar has the wrong
	// length.
	ErrInvalidScalar = ErrorKind("ErrInvalidScalar")

	// ErrLowOrderPoint is returned by X25519 when the result is the
	// all-zero value.
	ErrLowOrderPoint = ErrorKind("ErrLowOrderPoint")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to curve parameters or points.  It has
// full support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
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

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
