package validate

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var tags = map[string]validator.Func{
	"price":   ValidatePrice,
	"percent": ValidatePercent,
}

// New returns a validator that understands decimal.Decimal fields and the "price" and "percent" tags.
// It panics when a tag cannot be registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(DecimalValue, decimal.Decimal{})
	if err := register(v, tags); err != nil {
		panic(err)
	}
	return v
}

func register(v *validator.Validate, funcs map[string]validator.Func) error {
	for tag, fn := range funcs {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed registering validation tag=%s with error=%w", tag, err)
		}
	}
	return nil
}

func parse(fl validator.FieldLevel) (decimal.Decimal, bool) {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ValidatePrice accepts zero so a product without a price still totals as 0.
func ValidatePrice(fl validator.FieldLevel) bool {
	d, ok := parse(fl)
	return ok && !d.IsNegative()
}

func ValidatePercent(fl validator.FieldLevel) bool {
	d, ok := parse(fl)
	return ok && !d.IsNegative() && d.LessThanOrEqual(hundred)
}

func DecimalValue(v reflect.Value) interface{} {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return d.String()
}
