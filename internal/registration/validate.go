package registration

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// identity mirrors the required attendee fields for struct-tag validation.
type identity struct {
	Name       string `json:"name" validate:"required"`
	College    string `json:"college" validate:"required"`
	Department string `json:"department" validate:"required"`
	Year       string `json:"year" validate:"required,oneof=1 2 3 4"`
	Mobile     string `json:"mobile" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// identityFailures returns the JSON names of identity fields that are missing
// or malformed. Whitespace-only values count as missing.
func identityFailures(d Draft) []string {
	id := identity{
		Name:       strings.TrimSpace(d.Name),
		College:    strings.TrimSpace(d.College),
		Department: strings.TrimSpace(d.Department),
		Year:       strings.TrimSpace(d.Year),
		Mobile:     strings.TrimSpace(d.Mobile),
		Email:      strings.TrimSpace(d.Email),
	}
	err := validate.Struct(id)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"identity"}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}
