package serverutils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation on a request body. Validation
// errors pass through untouched; the error handler middleware turns them into
// a 400 response.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}
