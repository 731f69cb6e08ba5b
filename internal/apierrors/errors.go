// Package apierrors contains all common errors used by the seniku client.
package apierrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrSessionExpired = fmt.Errorf("the session is expired, please log in again")
var ErrUnauthorized = fmt.Errorf("the request was rejected as unauthorized")
var ErrMissingRefreshToken = fmt.Errorf("no refresh token is stored")
var ErrRefreshRejected = fmt.Errorf("the refresh token was rejected")
var ErrCredentialsNotFound = fmt.Errorf("the credentials cannot be found")
var ErrCredentialsParse = fmt.Errorf("cannot parse the stored credentials")
var ErrEmptyResponse = fmt.Errorf("the response does not contain any data")
var ErrSessionChanged = fmt.Errorf("the session was replaced or logged out during the token refresh")

// AuthError is the terminal authentication error. Every unrecoverable
// authentication failure is reported with this type so that callers only
// have to handle ErrSessionExpired.
type AuthError struct {
	Reason error
}

func NewAuthError(reason error) *AuthError {
	return &AuthError{Reason: reason}
}

func (e *AuthError) Error() string {
	if e.Reason == nil {
		return ErrSessionExpired.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSessionExpired.Error(), e.Reason.Error())
}

func (e *AuthError) Is(target error) bool {
	return target == ErrSessionExpired
}

func (e *AuthError) Unwrap() error {
	return e.Reason
}

// IsSessionExpired reports whether the error is a terminal authentication error.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// APIError is returned for non-successful backend responses other than 401.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if len(e.Fields) == 0 {
		return fmt.Sprintf("status %d: %s", e.StatusCode, msg)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("status %d: %s (%s)", e.StatusCode, msg, strings.Join(parts, ", "))
}
