package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"foodbridge-api/internal/core/domain"
)

var v *validator.Validate

func init() {
	v = validator.New()
	_ = v.RegisterValidation("foodtype", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseFoodType(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseRole(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseStatus(fl.Field().String())
		return ok
	})
}

// Struct validates a request DTO and flattens failures into one message
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func message(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "foodtype":
		return field + " must be one of cooked, raw, packaged, fruits, bakery, dairy"
	case "role":
		return field + " must be one of DONOR, NGO, VOLUNTEER, ADMIN"
	case "status":
		return field + " must be one of AVAILABLE, CLAIMED, PICKED_UP, DELIVERED"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
