package backend

import (
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"hairline/pkg/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) == len("15:04:05") {
			s = s[:5]
		}
		_, err := time.Parse(utils.SlotLayout, s)
		return err == nil
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(utils.DateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

// Validator exposes the shared instance so callers validate requests with
// the same custom tags used for responses.
func Validator() *validator.Validate { return validate }

type selfValidating interface {
	Validate() error
}

// validateResponse checks decoded payloads: struct tags first, then any
// cross-field rules the type declares. Slices are checked element by element.
func validateResponse(out any) error {
	v := reflect.ValueOf(out)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		if err := validate.Struct(v.Interface()); err != nil {
			return err
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			if err := validateResponse(v.Index(i).Addr().Interface()); err != nil {
				return err
			}
		}
	}

	if sv, ok := out.(selfValidating); ok {
		return sv.Validate()
	}
	return nil
}
