package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"hoteldesk/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so clients see the keys they sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(domain.DateLayout, fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("roomtype", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseRoomType(fl.Field().String())
		return ok
	})
	_ = validate.RegisterValidation("roomstatus", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseRoomStatus(fl.Field().String())
		return ok
	})
}

// Validate struct fields. It returns nil when v is valid, otherwise a map of
// JSON field name to the failed rule.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}
	errors := make(map[string]string, len(errs))
	for _, e := range errs {
		errors[e.Field()] = e.Tag()
	}
	return errors
}
