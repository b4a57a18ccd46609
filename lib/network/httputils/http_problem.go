package httputils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"agora.network/agora/lib/errors"
)

// Problem is the RFC 7807 representation of an API error.
type Problem struct {
	// A URI reference that identifies the problem type; "about:blank"
	// when the status code says it all.
	Type string `json:"type"`

	// A short, human-readable summary of the problem type.
	Title string `json:"title"`

	// The HTTP status code for this occurrence of the problem.
	Status int `json:"status,omitempty"`

	// A human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`

	// A URI reference identifying this specific occurrence.
	Instance string `json:"instance,omitempty"`
}

func NewStatusProblem(status int) Problem {
	return Problem{Type: "about:blank", Title: http.StatusText(status), Status: status}
}

func NewDetailedStatusProblem(status int, detail string) Problem {
	p := NewStatusProblem(status)
	p.Detail = detail
	return p
}

// NewErrorProblem types coded errors by their code so clients can react to
// the code instead of parsing titles.
func NewErrorProblem(err error, status int) Problem {
	p := Problem{Type: "about:blank", Title: err.Error(), Status: status}
	if e, ok := err.(*errors.Error); ok {
		p.Type = fmt.Sprintf("https://agora.network/problems/%d", e.Code)
		p.Title = e.Message
	}
	return p
}

func (p Problem) SetInstance(instance string) Problem {
	p.Instance = instance
	return p
}

func (p Problem) SetDetail(detail string) Problem {
	p.Detail = detail
	return p
}

func (p Problem) Serialize() ([]byte, error) {
	return json.Marshal(p)
}
