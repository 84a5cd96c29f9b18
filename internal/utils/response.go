package utils

import "net/http"

// Response is the envelope of every JSON reply: the HTTP status repeated in
// the body, a human-readable message and the payload.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"` // always present, null when empty
}

func NewResponse(status int, message string, data interface{}) Response {
	return Response{
		Status:  status,
		Message: message,
		Data:    data,
	}
}

// NewSuccessResponse is a 200 reply.
func NewSuccessResponse(message string, data interface{}) Response {
	return NewResponse(http.StatusOK, message, data)
}

// NewAcceptedResponse is a 202 reply for work that continues in the
// background. data is the task the client polls.
func NewAcceptedResponse(message string, data interface{}) Response {
	return NewResponse(http.StatusAccepted, message, data)
}

// NewErrorResponse carries no payload.
func NewErrorResponse(status int, message string) Response {
	return NewResponse(status, message, nil)
}
