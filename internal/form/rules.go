package form

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// The rules below receive strings that have already passed Required.

func positiveDecimal(code, message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		d, err := decimal.NewFromString(s)
		if err != nil || !d.IsPositive() {
			return validation.NewError(code, message)
		}
		return nil
	})
}

func decimalBetween(min, max int64, code, message string) validation.Rule {
	lo, hi := decimal.NewFromInt(min), decimal.NewFromInt(max)
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		d, err := decimal.NewFromString(s)
		if err != nil || d.LessThan(lo) || d.GreaterThan(hi) {
			return validation.NewError(code, message)
		}
		return nil
	})
}

func intBetween(min, max int, code, message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		n, err := strconv.Atoi(s)
		if err != nil || n < min || n > max {
			return validation.NewError(code, message)
		}
		return nil
	})
}

func positiveID(code, message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			return validation.NewError(code, message)
		}
		return nil
	})
}
