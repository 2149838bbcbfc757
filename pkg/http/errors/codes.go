package errors

import "net/http"

// Canned messages keyed by HTTP status. Every error envelope uses one of these.
const (
	MsgBadRequest       = "Bad request"
	MsgUnauthorized     = "Unauthorized"
	MsgNotFound         = "Resource not found"
	MsgMethodNotAllowed = "Method not allowed"
	MsgUnprocessable    = "Unprocessable"
	MsgInternalError    = "Internal server error"
)

var messages = map[int]string{
	http.StatusBadRequest:          MsgBadRequest,
	http.StatusUnauthorized:        MsgUnauthorized,
	http.StatusNotFound:            MsgNotFound,
	http.StatusMethodNotAllowed:    MsgMethodNotAllowed,
	http.StatusUnprocessableEntity: MsgUnprocessable,
	http.StatusInternalServerError: MsgInternalError,
}

// Message returns the canned message for status. Statuses outside the
// taxonomy collapse to the internal error message.
func Message(status int) string {
	if msg, ok := messages[status]; ok {
		return msg
	}
	return MsgInternalError
}
