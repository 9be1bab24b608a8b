package requestcontext

var _ error = requestcontextError{}

// requestcontextError rejects the request with status and a public message.
type requestcontextError struct {
	status  int
	code    string
	message string
}

func (r requestcontextError) Error() string {
	return r.message
}
