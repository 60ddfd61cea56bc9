package serverutils

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// ValidateStruct runs struct tag validation and returns the raw validator
// error; callers wrap it into the appropriate AppError.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
