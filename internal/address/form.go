package address

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"food-storefront/internal/models"
	"food-storefront/internal/validation"
)

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// Form is the new-address sub-form
type Form struct {
	Type  models.AddressType `json:"type" validate:"omitempty,oneof=Home Work Other"`
	Line1 string             `json:"line1" validate:"min=5"`
	Line2 string             `json:"line2"`
	City  string             `json:"city" validate:"min=2"`
	State string             `json:"state" validate:"min=2"`
	Zip   string             `json:"zip" validate:"zipcode"`
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	})
	return v
}

var fieldMessages = map[string]string{
	"type":  "Address type must be Home, Work or Other",
	"line1": "Street address is required",
	"city":  "City is required",
	"state": "State is required",
	"zip":   "Invalid zip code",
}

// Validate checks the form and reports one InvalidField error per bad field
func (f Form) Validate() error {
	err := formValidator.Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(validation.Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		if fe.Field() == "zip" && len(fe.Value().(string)) < 5 {
			msg = "Zip code is required"
		}
		errs = append(errs, validation.Invalid(fe.Field(), msg))
	}
	return errs
}

// Address converts a validated form into an address without id. An empty
// type defaults to Home.
func (f Form) Address() models.Address {
	t := f.Type
	if t == "" {
		t = models.AddressHome
	}
	return models.Address{
		Type:  t,
		Line1: f.Line1,
		Line2: f.Line2,
		City:  f.City,
		State: f.State,
		Zip:   f.Zip,
	}
}
