package farm

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest runs struct tag validation and converts failures into a ValidationError
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return shared.NewValidationError("INVALID_INPUT", err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return shared.NewValidationError("INVALID_INPUT", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// requirePositive checks a decimal input that struct tags cannot express
func requirePositive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return shared.NewValidationError("INVALID_INPUT", field+" must be greater than 0")
	}
	return nil
}

// requireNonNegative checks a decimal input that struct tags cannot express
func requireNonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return shared.NewValidationError("INVALID_INPUT", field+" cannot be negative")
	}
	return nil
}

// addFishCount adds n to total, rejecting sums above limit
func addFishCount(field string, total, n, limit int64) (int64, error) {
	if n > limit || total > limit-n {
		return 0, shared.NewValidationError("QUANTITY_OUT_OF_RANGE",
			fmt.Sprintf("%s brings the fish count above %d", field, limit))
	}
	return total + n, nil
}
