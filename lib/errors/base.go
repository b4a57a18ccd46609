package errors

import (
	"encoding/json"
)

type Error struct {
	Code    uint                   `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func (o *Error) Serialize() (b []byte, err error) {
	b, err = json.Marshal(o)
	return
}

func (o *Error) Error() string {
	b, _ := o.Serialize()
	return string(b)
}

func (o *Error) SetData(k string, v interface{}) *Error {
	o.Data[k] = v

	return o
}

func (o *Error) Clone() *Error {
	var n Error
	n = *o

	n.Data = map[string]interface{}{}
	for k, v := range o.Data {
		n.Data[k] = v
	}

	return &n
}

// Equal compares only by `Code`; the same kind of error with different
// `Data` is still the same error.
func (o *Error) Equal(err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}

	return o.Code == e.Code
}

func NewError(code uint, message string) *Error {
	return &Error{Code: code, Message: message, Data: map[string]interface{}{}}
}
