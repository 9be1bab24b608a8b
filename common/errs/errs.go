package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when a caller supplied value can't be used as is.
	InvalidArgument = ErrorKind("Invalid Argument")

	// Unsupported is returned when a feature, network or driver is not supported.
	Unsupported = ErrorKind("Unsupported")

	// Closed is returned when a resource has already been released.
	Closed = ErrorKind("Closed")

	OverflowUint64  = ErrorKind("overflow uint64")
	OverflowUint256 = ErrorKind("overflow uint256")
	Underflow       = ErrorKind("underflow")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
