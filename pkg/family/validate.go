package family

import (
	"errors"
	"fmt"
	"strings"

	validator "github.com/go-playground/validator/v10"

	apperrors "github.com/matzehuels/treeprint/pkg/errors"
)

// newValidator returns a validator with the family-specific rules registered.
// A fresh instance is cheap enough for the record counts we deal with.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("label", func(fl validator.FieldLevel) bool {
		return apperrors.ValidateLabel(fl.Field().String()) == nil
	})
	v.RegisterStructValidation(validatePeriod, Partnership{})
	return v
}

// validatePeriod rejects relationships that end before they start.
func validatePeriod(sl validator.StructLevel) {
	r := sl.Current().Interface().(Partnership)
	if r.Till == "" {
		return
	}
	// Both dates are in DateLayout, so string order is date order.
	if r.Till < r.Since {
		sl.ReportError(r.Till, "Till", "till", "gtefield", "Since")
	}
}

// Validate checks every record in isolation: positive ids, known sex values,
// printable names and well-formed dates. Cross-record references are checked
// by the tree builder.
//
// The returned error has code MALFORMED_INPUT and lists every failing field.
func (r Records) Validate() error {
	err := newValidator().Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Wrap(apperrors.ErrCodeMalformedInput, err, "invalid records")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.Wrap(apperrors.ErrCodeMalformedInput, err, "invalid records: %s", strings.Join(msgs, "; "))
}

// describe renders one field error, e.g. "Persons[2].Sex: must be one of f m".
func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Records.")
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s", field, fe.Param())
	case "required":
		return fmt.Sprintf("%s: is required", field)
	case "datetime":
		return fmt.Sprintf("%s: %q is not a YYYY-MM-DD date", field, fe.Value())
	case "label":
		return fmt.Sprintf("%s: contains control characters or is too long", field)
	case "gtefield":
		return fmt.Sprintf("%s: ends before it starts", field)
	}
	return fmt.Sprintf("%s: failed %s", field, fe.Tag())
}
