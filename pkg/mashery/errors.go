package mashery

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/api"
	exporterrors "github.com/54Rakshit/mashery-export-xlsx/pkg/util/errors"
	"github.com/tidwall/gjson"
)

// Errors returned by the Mashery client
var (
	ErrMalformedResponse = exporterrors.Newf(1501, "malformed response for %v: %v")
	ErrInvalidNextLink   = exporterrors.Newf(1502, "could not follow the next page link %q: %v")
	ErrPagingLoop        = exporterrors.Newf(1503, "next page link %q was already requested")
	ErrPagingRepeated    = exporterrors.Newf(1504, "%v page at offset %v repeats the previous page, the server ignores offset paging")
)

const maxErrorBodyLength = 256

// ErrorDetail - the error Mashery returned, from the errorCode and errorMessage attributes
// or the raw body when it is not JSON
type ErrorDetail struct {
	Status  int
	Code    string
	Message string
}

func (e ErrorDetail) String() string {
	if e.Code != "" {
		return fmt.Sprintf("{\"status\": %d, \"errorCode\": \"%s\", \"errorMessage\": \"%s\"}", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("{\"status\": %d, \"errorMessage\": \"%s\"}", e.Status, e.Message)
}

// BadRequestError -
type BadRequestError struct {
	ErrorDetail
}

// Error -
func (e BadRequestError) Error() string {
	return fmt.Sprintf("bad request: %s", e.ErrorDetail)
}

// UnauthorizedError -
type UnauthorizedError struct {
	ErrorDetail
}

// Error -
func (e UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.ErrorDetail)
}

// ForbiddenError - Mashery also answers 403 for inactive keys and exceeded quotas
type ForbiddenError struct {
	ErrorDetail
}

// Error -
func (e ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.ErrorDetail)
}

// NotFoundError -
type NotFoundError struct {
	ErrorDetail
}

// Error -
func (e NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.ErrorDetail)
}

// TooManyRequestsError -
type TooManyRequestsError struct {
	ErrorDetail
}

// Error -
func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests: %s", e.ErrorDetail)
}

// InternalServerError -
type InternalServerError struct {
	ErrorDetail
}

// Error -
func (e InternalServerError) Error() string {
	return fmt.Sprintf("internal server error: %s", e.ErrorDetail)
}

// UnexpectedError -
type UnexpectedError struct {
	ErrorDetail
}

// Error -
func (e UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected code %d: %s", e.Status, e.ErrorDetail)
}

// handleError maps a non 2xx Mashery response to a typed error
func handleError(res *api.Response) error {
	detail := ErrorDetail{Status: res.Code}

	body := gjson.ParseBytes(res.Body)
	if gjson.ValidBytes(res.Body) && body.IsObject() {
		detail.Code = body.Get("errorCode").String()
		detail.Message = body.Get("errorMessage").String()
	}
	if detail.Code == "" && detail.Message == "" {
		detail.Message = strings.TrimSpace(string(res.Body))
		if len(detail.Message) > maxErrorBodyLength {
			detail.Message = detail.Message[:maxErrorBodyLength] + "..."
		}
	}
	if detail.Message == "" {
		detail.Message = http.StatusText(res.Code)
	}

	switch res.Code {
	case http.StatusBadRequest:
		return BadRequestError{detail}
	case http.StatusUnauthorized:
		return UnauthorizedError{detail}
	case http.StatusForbidden:
		return ForbiddenError{detail}
	case http.StatusNotFound:
		return NotFoundError{detail}
	case http.StatusTooManyRequests:
		return TooManyRequestsError{detail}
	case http.StatusInternalServerError:
		return InternalServerError{detail}
	default:
		return UnexpectedError{detail}
	}
}
