package errors

import (
	"fmt"
)

// CodedError - an error carrying a numeric code, grouped by package. When
// formatted with an error argument that error is kept as the cause.
type CodedError struct {
	cause error

	formattedErr bool
	Code         int    `json:"code" yaml:"code"`
	Message      string `json:"message" yaml:"message"`
	formatArgs   []interface{}
}

// New - Creates a new coded error
func New(errCode int, errMessage string) *CodedError {
	return &CodedError{formattedErr: false, Code: errCode, Message: errMessage}
}

// Newf - Creates a new coded error whose message is a format string
func Newf(errCode int, errMessage string) *CodedError {
	return &CodedError{formattedErr: true, Code: errCode, Message: errMessage}
}

// FormatError - Creates an error with the format arguments applied
func (e *CodedError) FormatError(args ...interface{}) error {
	var cause error
	for _, arg := range args {
		if err, ok := arg.(error); ok {
			cause = err
		}
	}
	return &CodedError{cause: cause, formattedErr: e.formattedErr, Code: e.Code, Message: e.Message, formatArgs: args}
}

// Error - Returns the formatted error message
func (e *CodedError) Error() string {
	if e.formattedErr {
		formattedMsg := fmt.Sprintf(e.Message, e.formatArgs...)
		return fmt.Sprintf("[Error Code %d] - %s", e.Code, formattedMsg)
	}

	return fmt.Sprintf("[Error Code %d] - %s", e.Code, e.Message)
}

// Unwrap - the error passed to FormatError, if any
func (e *CodedError) Unwrap() error {
	return e.cause
}

// GetErrorCode - Returns the error code
func (e *CodedError) GetErrorCode() int {
	return e.Code
}

// Is - two coded errors match when their codes match, so formatted and
// wrapped copies still satisfy errors.Is against the declared value
func (e *CodedError) Is(target error) bool {
	t, ok := target.(*CodedError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
