package vocab

import (
	"errors"
	"strconv"
)

// StatusError is returned for any non-200 response from the service.
// Its message is the bare status code, which is what the user gets to see.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return strconv.Itoa(e.Code)
}

// StatusCode extracts the HTTP status from err, or 0 if err is not a
// *StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
