package student

import (
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/codebluemti/tiba/core"
)

var (
	admNoTag  = "admno"
	admNoText = "invalid admission number"
	// e.g. "cbm/2025/014" (admission numbers are lowered on input)
	admNoRegex = regexp.MustCompile(`^[a-z0-9]+([/-][a-z0-9]+)*$`)
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(admNoTag, admNoValidation)
	core.RegisterCustomTranslation(validate, translator, admNoTag, admNoText)
}

func admNoValidation(fl validator.FieldLevel) bool {
	return admNoRegex.MatchString(fl.Field().String())
}
