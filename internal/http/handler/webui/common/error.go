package common

import (
	"net/http"

	"github.com/bornholm/folio/internal/http/handler/webui/common/component"
	"github.com/pkg/errors"
)

// Error is an error displayed to the viewer with a message and
// the actions still available to them
type Error struct {
	cause       error
	userMessage string
	statusCode  int
	links       []component.LinkItem
}

// Links implements [WithErrorLinks].
func (e *Error) Links() []component.LinkItem {
	return e.links
}

// StatusCode implements HTTPError.
func (e *Error) StatusCode() int {
	return e.statusCode
}

// Error implements UserFacingError.
func (e *Error) Error() string {
	return e.cause.Error()
}

// UserMessage implements UserFacingError.
func (e *Error) UserMessage() string {
	return e.userMessage
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewError(err string, userMessage string, statusCode int, links ...component.LinkItem) *Error {
	return &Error{errors.New(err), userMessage, statusCode, links}
}

// WrapError keeps the given error as the cause, it can still be
// matched with errors.Is and errors.As
func WrapError(err error, userMessage string, statusCode int, links ...component.LinkItem) *Error {
	return &Error{err, userMessage, statusCode, links}
}

var _ UserFacingError = &Error{}
var _ HTTPError = &Error{}
var _ WithErrorLinks = &Error{}

func NewHTTPError(statusCode int, links ...component.LinkItem) *Error {
	return &Error{errors.New(http.StatusText(statusCode)), http.StatusText(statusCode), statusCode, links}
}
