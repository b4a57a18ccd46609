package httputils

import (
	"net/http"

	"agora.network/agora/lib/errors"
)

// IsEventStream checks request header accept is text/event-stream
func IsEventStream(r *http.Request) bool {
	if r.Header.Get("Accept") == "text/event-stream" {
		return true
	}
	return false
}

var (
	ErrorsToStatus = map[uint]int{
		100: http.StatusNotFound,
		101: http.StatusConflict,
		102: http.StatusInternalServerError,

		110: http.StatusNotFound,
		111: http.StatusConflict,
		112: http.StatusGone,
		113: http.StatusConflict,
		114: http.StatusConflict,

		120: http.StatusForbidden,
		121: http.StatusConflict,
		122: http.StatusBadRequest,
		123: http.StatusNotFound,

		130: http.StatusBadRequest,
		131: http.StatusBadRequest,

		140: http.StatusBadRequest,
		141: http.StatusNotFound,
		142: http.StatusInternalServerError,

		150: http.StatusBadGateway,

		160: http.StatusBadRequest,
		161: http.StatusBadRequest,
		162: http.StatusBadRequest,
		163: http.StatusTooManyRequests,

		170: http.StatusInternalServerError,
		171: http.StatusInternalServerError,
	}
)

func StatusCode(err error) int {
	if e, ok := err.(*errors.Error); ok {
		if status, ok := ErrorsToStatus[e.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}
