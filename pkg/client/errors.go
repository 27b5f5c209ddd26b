package client

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// ErrUnexpectedStatus is wrapped by a RequestError when the gateway answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// URLError reports a malformed base address or request path.
type URLError struct {
	URL string
	Err error
}

func newURLError(rawURL string, err error) *URLError {
	return &URLError{URL: rawURL, Err: err}
}

func (e *URLError) Unwrap() error {
	return e.Err
}

func (e *URLError) Error() string {
	return errors.Wrapf(e.Err, "invalid URL '%s'", e.URL).Error()
}

// RequestError reports a failed round trip: the transport failed or the status was not 2xx.
// StatusCode is zero when no response was received.
type RequestError struct {
	Err        error
	StatusCode int
	Body       string
}

func newRequestError(err error, statusCode int, body string) *RequestError {
	return &RequestError{Err: err, StatusCode: statusCode, Body: body}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Error() string {
	if e.Body != "" {
		return errors.Wrap(e.Err, e.Body).Error()
	}
	return e.Err.Error()
}

// ParseError reports a successful response whose body could not be decoded.
type ParseError struct {
	Err error
}

func newParseError(err error) *ParseError {
	return &ParseError{Err: err}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

// IsURLError reports whether err was caused by an invalid URL.
func IsURLError(err error) bool {
	var ue *URLError
	return stderrors.As(err, &ue)
}

// IsHTTPError reports whether err happened during the request or while decoding its response.
func IsHTTPError(err error) bool {
	var (
		re *RequestError
		pe *ParseError
	)
	return stderrors.As(err, &re) || stderrors.As(err, &pe)
}

// StatusCode returns the HTTP status carried by err, or zero if there is none.
func StatusCode(err error) int {
	var re *RequestError
	if stderrors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
