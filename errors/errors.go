package errors

/*
* Error codes are intended to convey detailed errors internally and to clients.
* These should be combined with the appropriate HTTP status code, but are not
* intended to supercede correct HTTP responses. The mapping from code to status
* lives in Status() and is only consulted at the HTTP boundary.
*
 */

import (
	"errors"
	"fmt"
	"net/http"
)

const (

	// HTTP 400 Bad Request.
	// Content does not match Content-Type or unmarshalling error.
	InvalidContent ErrCode = 1
	// Item name was empty once tags and whitespace were removed.
	ItemNameRequired ErrCode = 2
	// A route parameter was not of the expected type.
	UnexpectedType ErrCode = 3

	// HTTP 404 Not Found.
	ItemNotFound ErrCode = 4

	// HTTP 500 Internal Server Error.
	// The database failed or timed out.
	StoreUnavailable ErrCode = 5
	// The cache server failed or timed out, including during invalidation.
	CacheUnavailable ErrCode = 6
)

// ItemError implements the Error interface.
type ItemError struct {
	Function     string  `json:"-"`
	ErrorCode    ErrCode `json:"errorCode"`
	ErrorMessage string  `json:"errorDetail"`
	Err          error   `json:"-"`
}

type ErrCode uint8

func (e *ItemError) Error() string {
	return e.ErrorMessage
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// New returns an error carrying the given code
func New(function string, errCode ErrCode, errMessage string) error {
	return &ItemError{
		Function:     function,
		ErrorCode:    errCode,
		ErrorMessage: errMessage,
	}
}

// Wrap returns an error carrying the given code whose cause is err
func Wrap(function string, errCode ErrCode, err error) error {
	return &ItemError{
		Function:     function,
		ErrorCode:    errCode,
		ErrorMessage: fmt.Sprintf("%s: %v", function, err),
		Err:          err,
	}
}

// Code returns the ErrCode carried by err, or 0 if there is none
func Code(err error) ErrCode {
	var ie *ItemError
	if errors.As(err, &ie) {
		return ie.ErrorCode
	}
	return 0
}

// Is reports whether err carries the given code
func Is(err error, errCode ErrCode) bool {
	return err != nil && Code(err) == errCode
}

// Status maps an error to the HTTP status code it should be served with
func Status(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch Code(err) {
	case InvalidContent, ItemNameRequired, UnexpectedType:
		return http.StatusBadRequest
	case ItemNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
