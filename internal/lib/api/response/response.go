// Package response shapes error bodies: single-message errors render as
// {"msg":...}, validation failures as {"errors":[{"param":...,"msg":...}]}.
package response

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrResponse struct {
	Msg string `json:"msg"`
}

type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

type ErrListResponse struct {
	Errors []FieldError `json:"errors"`
}

func Error(msg string) ErrResponse {
	return ErrResponse{Msg: msg}
}

// ValidationError aggregates every failing field into one response. Handlers
// supply the message per struct field; fields without one get a generic text.
func ValidationError(errs validator.ValidationErrors, messages map[string]string) ErrListResponse {
	out := make([]FieldError, 0, len(errs))

	for _, err := range errs {
		msg, ok := messages[err.Field()]
		if !ok {
			msg = "Invalid value!"
		}

		out = append(out, FieldError{
			Param: strings.ToLower(err.Field()),
			Msg:   msg,
		})
	}

	return ErrListResponse{Errors: out}
}
