// Package validation checks entities against their validate tags and reports
// failures as readable English messages keyed by JSON field name.
package validation

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"devcamper/internal/models"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
	_ = validate.RegisterValidation("career", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.Careers, fl.Field().String())
	})

	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)
	_ = validate.RegisterTranslation("career", translator,
		func(ut ut.Translator) error {
			return ut.Add("career", "{0} must be one of: "+strings.Join(models.Careers, ", "), true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("career", fe.Field())
			return t
		})
}

// Error carries every failed constraint of one entity.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Check validates val and returns an *Error listing every violation.
func Check(val any) error {
	err := validate.Struct(val)
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return err
	}
	msgs := make([]string, 0, len(verrors))
	for _, fe := range verrors {
		msgs = append(msgs, fe.Translate(translator))
	}
	return &Error{Messages: msgs}
}
