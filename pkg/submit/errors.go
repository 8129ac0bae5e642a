package submit

import "errors"

var (
	// ErrSubmitFailed wraps every transport failure returned by Submit.
	ErrSubmitFailed = errors.New("submit: submission failed")
	// ErrUnexpectedStatus is returned by HTTPTransport for non-2xx responses.
	ErrUnexpectedStatus = errors.New("submit: unexpected response status")
)
