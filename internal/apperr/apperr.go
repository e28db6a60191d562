package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so handlers can route the UI and pick a status.
type Kind string

const (
	KindChannelNotFound   Kind = "CHANNEL_NOT_FOUND"
	KindUpstream          Kind = "UPSTREAM_ERROR"
	KindEmptyResponse     Kind = "EMPTY_RESPONSE"
	KindMalformedStrategy Kind = "MALFORMED_STRATEGY"
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindBusy              Kind = "BUSY"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindNotFound          Kind = "NOT_FOUND"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrChannelNotFound   = &Error{Kind: KindChannelNotFound}
	ErrUpstream          = &Error{Kind: KindUpstream}
	ErrEmptyResponse     = &Error{Kind: KindEmptyResponse}
	ErrMalformedStrategy = &Error{Kind: KindMalformedStrategy}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrBusy              = &Error{Kind: KindBusy}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrNotFound          = &Error{Kind: KindNotFound}
)

type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

func newError(kind Kind, message string, status int, context map[string]any) *Error {
	return &Error{
		Kind:       kind,
		Message:    message,
		StatusCode: status,
		Context:    context,
	}
}

func NewChannelNotFound(identifier string) *Error {
	return newError(KindChannelNotFound, "Channel not found. Check the channel ID and try again.", http.StatusNotFound,
		map[string]any{"identifier": identifier})
}

// NewUpstream carries the provider's own message so it can be shown verbatim.
func NewUpstream(service, message string, status int) *Error {
	if message == "" {
		message = fmt.Sprintf("%s request failed", service)
	}
	return newError(KindUpstream, message, http.StatusBadGateway,
		map[string]any{"service": service, "upstream_status": status})
}

func NewEmptyResponse(service string) *Error {
	return newError(KindEmptyResponse, "AI returned empty response", http.StatusBadGateway,
		map[string]any{"service": service})
}

func NewMalformedStrategy(detail string) *Error {
	return newError(KindMalformedStrategy, "AI returned a malformed strategy: "+detail, http.StatusBadGateway, nil)
}

func NewInvalidInput(field, message string) *Error {
	return newError(KindInvalidInput, message, http.StatusBadRequest, map[string]any{"field": field})
}

func NewInvalidTransition(from, event string) *Error {
	return newError(KindInvalidTransition, fmt.Sprintf("cannot %s from %s", event, from), http.StatusConflict,
		map[string]any{"from": from, "event": event})
}

func NewBusy() *Error {
	return newError(KindBusy, "An analysis is already in progress", http.StatusConflict, nil)
}

func NewUnauthorized(message string) *Error {
	return newError(KindUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewNotFound(message string) *Error {
	return newError(KindNotFound, message, http.StatusNotFound, nil)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) && e.StatusCode != 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// UserMessage is the text shown to the user for err. Causes are not exposed.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return string(e.Kind)
	}
	return "Something went wrong. Please try again."
}

// Response is the JSON envelope for error replies.
type Response struct {
	Error ResponseBody `json:"error"`
}

type ResponseBody struct {
	Code    Kind   `json:"code"`
	Message string `json:"message"`
}

func ToResponse(err error) Response {
	return Response{Error: ResponseBody{Code: KindOf(err), Message: UserMessage(err)}}
}
