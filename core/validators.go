package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	codeNameTag   = "codename"
	codeNameText  = "only letters, digits and underscores are allowed"
	codeNameRegex = regexp.MustCompile(`^[A-Z0-9_]+$`)

	requiredTag  = "required"
	requiredText = "this field is required"

	oneOfTag  = "oneof"
	oneOfText = "invalid choice"

	numericTag  = "numeric"
	numericText = "must be a number"
)

// Instantiate the validator for use.
func init() {
	Validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = Validate.RegisterValidation(codeNameTag, codeNameValidation)
	RegisterCustomTranslation(codeNameTag, codeNameText)

	RegisterCustomTranslation(requiredTag, requiredText, true)
	RegisterCustomTranslation(oneOfTag, oneOfText, true)
	RegisterCustomTranslation(numericTag, numericText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// TranslateValidationErrors converts raw validator errors into a
// *ValidationError with translated field texts; other errors pass through.
func TranslateValidationErrors(err error) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(Translator)})
	}
	return NewValidationError(err, flds...)
}

// Custom Global Validators

// codeNameValidation only allows upper-case referrer code names: letters,
// digits and underscores. Inputs are upper-cased before validation.
func codeNameValidation(fl validator.FieldLevel) bool {
	return codeNameRegex.MatchString(fl.Field().String())
}
