package bn

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidBase is returned when a string conversion is requested in a
	// base outside of [2, 36].
	ErrInvalidBase = ErrorKind("ErrInvalidBase")

	// ErrInvalidCharacter is returned when a string contains a digit that is
	// not valid in the requested base.
	ErrInvalidCharacter = ErrorKind("ErrInvalidCharacter")

	// ErrEmptyString is returned when parsing a string without any digits.
	ErrEmptyString = ErrorKind("ErrEmptyString")

	// ErrBufferTooSmall is returned when a byte encoding is requested with a
	// length smaller than the byte length of the value.
	ErrBufferTooSmall = ErrorKind("ErrBufferTooSmall")

	// ErrDivisionByZero is returned when dividing by zero.
	ErrDivisionByZero = ErrorKind("ErrDivisionByZero")

	// ErrNotInvertible is returned when a value has no inverse modulo the
	// requested modulus.
	ErrNotInvertible = ErrorKind("ErrNotInvertible")

	// ErrNotQuadraticResidue is returned when a square root is requested for
	// a value that is not a square modulo the field prime.
	ErrNotQuadraticResidue = ErrorKind("ErrNotQuadraticResidue")

	// ErrInvalidModulus is returned when a reduction context is requested
	// for a modulus it cannot serve.
	ErrInvalidModulus = ErrorKind("ErrInvalidModulus")

	// ErrUnknownPrime is returned when a named pseudo-Mersenne prime is not
	// registered.
	ErrUnknownPrime = ErrorKind("ErrUnknownPrime")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to arbitrary-precision arithmetic.  It
// has full support for errors.Is and errors.As, so the caller can ascertain
// the specific reason for the error by checking the underlying error.
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
