package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrMalformedBody is returned when a request body is not a JSON object.
var ErrMalformedBody = errors.New("request body must be a JSON object")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed, in payload order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
	_ = v.RegisterValidation("price", validPrice)
	return v
}

// MaxPrice is the largest price every backend can store.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// validPrice checks the decimal itself rather than the float the custom type
// func hands to the other rules: at most two decimal places, at most MaxPrice.
func validPrice(fl validator.FieldLevel) bool {
	field := reflect.Indirect(fl.Parent()).FieldByName(fl.StructFieldName())
	d, ok := reflect.Indirect(field).Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.Equal(d.Round(2)) && d.LessThanOrEqual(MaxPrice)
}

func (n NewProduct) Validate() error { return runValidator(n) }

func (p ProductPatch) Validate() error { return runValidator(p) }

func runValidator(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: formatFieldError(fe)})
	}
	return out
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Must not be empty"
	case "price":
		return "Must have at most 2 decimal places and not exceed " + MaxPrice.StringFixed(2)
	case "url":
		return "Must be a valid URL"
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("Validation failed on %s", fe.Tag())
	}
}

// DecodeNewProduct parses and validates an insert payload. Numeric fields may
// arrive as strings; they are coerced before the rules run.
func DecodeNewProduct(body []byte) (NewProduct, error) {
	var n NewProduct
	err := decodeFields(body, []fieldTarget{
		{"name", &n.Name, "Must be a string"},
		{"description", &n.Description, "Must be a string"},
		{"price", &n.Price, "Must be a number"},
		{"imageUrl", &n.ImageURL, "Must be a string"},
		{"stockQuantity", &n.StockQuantity, "Must be an integer"},
		{"specifications", &n.Specifications, "Must be a string"},
		{"category", &n.Category, "Must be a string"},
	})
	if err != nil {
		return NewProduct{}, err
	}
	if err := n.Validate(); err != nil {
		return NewProduct{}, err
	}
	return n.WithDefaults(), nil
}

// DecodePatch parses and validates a partial update payload.
func DecodePatch(body []byte) (ProductPatch, error) {
	var p ProductPatch
	err := decodeFields(body, []fieldTarget{
		{"name", &p.Name, "Must be a string"},
		{"description", &p.Description, "Must be a string"},
		{"price", &p.Price, "Must be a number"},
		{"imageUrl", &p.ImageURL, "Must be a string"},
		{"stockQuantity", &p.StockQuantity, "Must be an integer"},
		{"specifications", &p.Specifications, "Must be a string"},
		{"category", &p.Category, "Must be a string"},
	})
	if err != nil {
		return ProductPatch{}, err
	}
	if err := p.Validate(); err != nil {
		return ProductPatch{}, err
	}
	return p, nil
}

type fieldTarget struct {
	name    string
	dst     any
	message string
}

// decodeFields decodes each known field on its own so a bad value is
// reported against its field. Unknown fields, including any client id, are
// ignored.
func decodeFields(body []byte, targets []fieldTarget) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return ErrMalformedBody
	}

	verr := &ValidationError{}
	for _, t := range targets {
		msg, ok := raw[t.name]
		if !ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(msg, t.dst); err != nil {
			verr.Fields = append(verr.Fields, FieldError{Field: t.name, Message: t.message})
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
