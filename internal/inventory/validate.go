package inventory

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const maxPriceDecimals = 2

var maxPrice = decimal.NewFromInt(1_000_000_000)

// createReq is the client-writable part of a Product. Pointers tell a
// missing field apart from a zero value.
type createReq struct {
	Name        *string      `json:"name" validate:"required,min=1,max=200"`
	Description *string      `json:"description" validate:"omitempty,max=2000"`
	Price       *priceText   `json:"price" validate:"required,money"`
	Quantity    *int64       `json:"quantity" validate:"omitempty,gte=0"`
}

// priceText keeps the client's price literal verbatim so that "9.990" keeps
// its precision and a non-numeric value is reported against the price field
// instead of failing the whole decode.
type priceText string

func (p *priceText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = priceText(s)
		return nil
	}
	*p = priceText(b)
	return nil
}

type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		_, err := parsePrice(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic("inventory: register money validation: " + err.Error())
	}

	return &Validator{v: v}
}

var (
	errPriceFormat    = errors.New("not a number")
	errPriceNegative  = errors.New("negative")
	errPricePrecision = errors.New("too many decimal places")
	errPriceTooLarge  = errors.New("too large")
)

func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, errPriceFormat
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errPriceNegative
	}
	if d.Exponent() < -maxPriceDecimals {
		return decimal.Decimal{}, errPricePrecision
	}
	if d.GreaterThan(maxPrice) {
		return decimal.Decimal{}, errPriceTooLarge
	}
	return d, nil
}

// Product validates req and builds the product fields from it. The id and
// timestamp are left for the caller.
func (v *Validator) Product(req createReq) (Product, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}

	if err := v.v.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Product{}, err
		}

		verr := &ValidationError{}
		for _, fe := range fieldErrs {
			verr.add(fe.Field(), message(fe))
		}
		return Product{}, verr
	}

	price, _ := parsePrice(string(*req.Price))

	p := Product{
		Name:  *req.Name,
		Price: Price{Decimal: price},
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
	return p, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return "This field may not be blank."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "gte":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	case "money":
		return "A valid non-negative amount with at most 2 decimal places, up to 1000000000, is required."
	default:
		return "Invalid value."
	}
}
