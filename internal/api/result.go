package api

// Result is the uniform outcome of every backend call. On success Error is
// empty; on failure Data is the zero value.
type Result[T any] struct {
	Success    bool
	Data       T
	Error      string
	StatusCode int
}

// Empty is the payload of endpoints that return no body
type Empty struct{}

// Messages used when nothing more specific is available.
const (
	FallbackError = "An error occurred"
	// NoResponseStatus is reported when no HTTP response was received at all.
	NoResponseStatus = 500
)

func ok[T any](data T, status int) Result[T] {
	return Result[T]{Success: true, Data: data, StatusCode: status}
}

func fail[T any](msg string, status int) Result[T] {
	if msg == "" {
		msg = FallbackError
	}
	if status == 0 {
		status = NoResponseStatus
	}
	return Result[T]{Success: false, Error: msg, StatusCode: status}
}

// Failure builds a failed result, for callers that short-circuit before the
// transport (for example on a local validation error).
func Failure[T any](msg string, status int) Result[T] {
	return fail[T](msg, status)
}
